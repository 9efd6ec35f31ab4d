package submission

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// errors
	ErrNotFound         = errors.New("submission not found")
	ErrInvalidID        = errors.New("invalid submission id")
	ErrAlreadySubmitted = errors.New("assignment is already taken")
)

type (
	Repository interface {
		// CreateSubmission inserts `s`. Uniqueness of (AssignmentID, SubmittedBy)
		// is enforced by the store itself; a duplicate insert fails with
		// ErrAlreadySubmitted regardless of interleaving.
		CreateSubmission(ctx context.Context, s Submission) (Submission, error)
		FilterSubmissionsBySubmitter(ctx context.Context, email string) ([]Submission, error)
		FilterPendingSubmissions(ctx context.Context, email string) ([]Submission, error)
		// UpdateSubmission applies a partial update of the set fields only.
		UpdateSubmission(ctx context.Context, id primitive.ObjectID, us UpdateSubmission) (Submission, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, ns NewSubmission) (Submission, error) {
	assignmentID, err := primitive.ObjectIDFromHex(ns.AssignmentID)
	if err != nil {
		return Submission{}, ErrInvalidID
	}
	s := Submission{
		AssignmentID:    assignmentID,
		AssignmentTitle: ns.AssignmentTitle,
		ExamineeName:    ns.ExamineeName,
		SubmittedBy:     ns.SubmittedBy,
		TotalMarks:      ns.TotalMarks,
		GoogleDoc:       ns.GoogleDoc,
		Note:            ns.Note,
		Status:          StatusPending,
		ObtainedMarks:   nil,
		Feedback:        nil,
		SubmittedAt:     time.Now().UTC(),
	}
	return svc.repo.CreateSubmission(ctx, s)
}

func (svc *Service) FilterBySubmitter(ctx context.Context, email string) ([]Submission, error) {
	return svc.repo.FilterSubmissionsBySubmitter(ctx, email)
}

// FilterPending returns the pending submissions submitted by `email`.
// The grading view lists the caller's own pending submissions; this mirrors
// the behavior of the system this one replaces.
func (svc *Service) FilterPending(ctx context.Context, email string) ([]Submission, error) {
	return svc.repo.FilterPendingSubmissions(ctx, email)
}

func (svc *Service) Update(ctx context.Context, id primitive.ObjectID, us UpdateSubmission) (Submission, error) {
	return svc.repo.UpdateSubmission(ctx, id, us)
}
