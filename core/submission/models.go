package submission

import (
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/groupstudy/server/core"
)

// Submission statuses
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

type Submission struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AssignmentID    primitive.ObjectID `bson:"assignment_id" json:"assignmentId"`
	AssignmentTitle string             `bson:"assignment_title" json:"assignmentTitle"`
	ExamineeName    string             `bson:"examinee_name" json:"examineeName"`
	SubmittedBy     string             `bson:"submitted_by" json:"submittedBy"`
	TotalMarks      int                `bson:"total_marks" json:"totalMarks"`
	GoogleDoc       string             `bson:"google_doc" json:"googleDoc"`
	Note            string             `bson:"note" json:"note"`
	Status          string             `bson:"status" json:"status"`
	ObtainedMarks   *int               `bson:"obtained_marks" json:"obtainedMarks"`
	Feedback        *string            `bson:"feedback" json:"feedback"`
	SubmittedAt     time.Time          `bson:"submitted_at" json:"submittedAt"` // UTC
}

// NewSubmission contains information needed to create a new Submission.
// Status and grade fields are set by the service; a submission always
// starts out pending and ungraded.
type NewSubmission struct {
	AssignmentID    string `json:"assignmentId" validate:"required"`
	AssignmentTitle string `json:"assignmentTitle" validate:"omitempty"`
	ExamineeName    string `json:"examineeName" validate:"omitempty"`
	SubmittedBy     string `json:"submittedBy" validate:"required,email"`
	TotalMarks      int    `json:"totalMarks" validate:"omitempty,gte=0"`
	GoogleDoc       string `json:"googleDoc" validate:"omitempty,url"`
	Note            string `json:"note" validate:"omitempty"`
}

func (ns *NewSubmission) Validate(validate *validator.Validate) error {
	ns.AssignmentID = core.CleanString(ns.AssignmentID)
	ns.AssignmentTitle = core.CleanString(ns.AssignmentTitle)
	ns.ExamineeName = core.CleanString(ns.ExamineeName)
	ns.SubmittedBy = core.CleanString(ns.SubmittedBy, true /* lower */)
	ns.GoogleDoc = core.CleanString(ns.GoogleDoc)
	return validate.Struct(ns)
}

// UpdateSubmission contains the partial fields applied on update; only the
// set (non-nil) fields are written. Grading sets ObtainedMarks, Feedback and
// Status=completed in one update.
type UpdateSubmission struct {
	ObtainedMarks *int    `json:"obtainedMarks" validate:"omitempty,gte=0"`
	Feedback      *string `json:"feedback" validate:"omitempty"`
	Status        *string `json:"status" validate:"omitempty,oneof=pending completed"`
	GoogleDoc     *string `json:"googleDoc" validate:"omitempty,url"`
	Note          *string `json:"note" validate:"omitempty"`
}

func (us *UpdateSubmission) Validate(validate *validator.Validate) error {
	return validate.Struct(us)
}

// IsZero reports whether no field is set at all.
func (us UpdateSubmission) IsZero() bool {
	return us.ObtainedMarks == nil && us.Feedback == nil && us.Status == nil &&
		us.GoogleDoc == nil && us.Note == nil
}
