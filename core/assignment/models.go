package assignment

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/groupstudy/server/core"
)

// Difficulty levels
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

type Assignment struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title          string             `bson:"title" json:"title"`
	Description    string             `bson:"description" json:"description"`
	Marks          int                `bson:"marks" json:"marks"`
	ImageURL       string             `bson:"img_url" json:"imgUrl"`
	Difficulty     string             `bson:"difficulty" json:"difficulty"`
	CreatorEmail   string             `bson:"creator_email" json:"creatorEmail"`
	CreatorName    string             `bson:"creator_name" json:"creatorName"`
	SubmissionDate time.Time          `bson:"submission_date" json:"submissionDate"`
	CreatedAt      time.Time          `bson:"created_at" json:"createdAt"` // UTC
	UpdatedAt      time.Time          `bson:"updated_at" json:"updatedAt"` // UTC
}

// NewAssignment contains information needed to create a new Assignment.
type NewAssignment struct {
	Title          string    `json:"title" validate:"required"`
	Description    string    `json:"description" validate:"required"`
	Marks          int       `json:"marks" validate:"required,gt=0"`
	ImageURL       string    `json:"imgUrl" validate:"omitempty,url"`
	Difficulty     string    `json:"difficulty" validate:"required,oneof=easy medium hard"`
	Email          string    `json:"email" validate:"required,email"`
	Username       string    `json:"username" validate:"omitempty"`
	SubmissionDate time.Time `json:"submissionDate" validate:"required"`
}

func (na *NewAssignment) Validate(validate *validator.Validate) error {
	na.Title = core.CleanString(na.Title)
	na.Description = core.CleanString(na.Description)
	na.Email = core.CleanString(na.Email, true /* lower */)
	na.Username = core.CleanString(na.Username)
	na.Difficulty = core.CleanString(na.Difficulty, true /* lower */)
	return validate.Struct(na)
}

// UpdateAssignment contains the full replacement fields applied on update.
// The update route keeps the source system's upsert-on-missing semantics:
// an unknown id results in a new document at that id.
type UpdateAssignment struct {
	Title          string    `json:"title" validate:"required"`
	Description    string    `json:"description" validate:"required"`
	Marks          int       `json:"marks" validate:"required,gt=0"`
	ImageURL       string    `json:"imgUrl" validate:"omitempty,url"`
	Difficulty     string    `json:"difficulty" validate:"required,oneof=easy medium hard"`
	Email          string    `json:"email" validate:"omitempty,email"`
	Username       string    `json:"username" validate:"omitempty"`
	SubmissionDate time.Time `json:"submissionDate" validate:"required"`
}

func (ua *UpdateAssignment) Validate(validate *validator.Validate) error {
	ua.Title = core.CleanString(ua.Title)
	ua.Description = core.CleanString(ua.Description)
	ua.Email = core.CleanString(ua.Email, true /* lower */)
	ua.Username = core.CleanString(ua.Username)
	ua.Difficulty = core.CleanString(ua.Difficulty, true /* lower */)
	return validate.Struct(ua)
}

var difficultyText = "must be one of 'easy', 'medium' or 'hard'"

// InitValidators registers assignment-specific validation messages.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	core.RegisterCustomTranslation(validate, translator, "oneof", difficultyText, true)
}
