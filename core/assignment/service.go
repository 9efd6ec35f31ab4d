package assignment

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// errors
	ErrNotFound  = errors.New("assignment not found")
	ErrInvalidID = errors.New("invalid assignment id")
)

type (
	Repository interface {
		CreateAssignment(ctx context.Context, a Assignment) (Assignment, error)
		QueryAllAssignments(ctx context.Context) ([]Assignment, error)
		GetAssignmentByID(ctx context.Context, id primitive.ObjectID) (Assignment, error)
		FilterAssignmentsByDifficulty(ctx context.Context, level string) ([]Assignment, error)
		// SearchAssignments does a case-insensitive match of `q` on Title or Description.
		SearchAssignments(ctx context.Context, q string) ([]Assignment, error)
		// UpsertAssignment applies a full-field replacement at `id`; a document
		// is created at that id when none exists.
		UpsertAssignment(ctx context.Context, id primitive.ObjectID, a Assignment) (Assignment, error)
		DeleteAssignment(ctx context.Context, id primitive.ObjectID) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, na NewAssignment) (Assignment, error) {
	now := time.Now().UTC()
	a := Assignment{
		Title:          na.Title,
		Description:    na.Description,
		Marks:          na.Marks,
		ImageURL:       na.ImageURL,
		Difficulty:     na.Difficulty,
		CreatorEmail:   na.Email,
		CreatorName:    na.Username,
		SubmissionDate: na.SubmissionDate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return svc.repo.CreateAssignment(ctx, a)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Assignment, error) {
	return svc.repo.QueryAllAssignments(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id primitive.ObjectID) (Assignment, error) {
	return svc.repo.GetAssignmentByID(ctx, id)
}

func (svc *Service) FilterByDifficulty(ctx context.Context, level string) ([]Assignment, error) {
	return svc.repo.FilterAssignmentsByDifficulty(ctx, level)
}

func (svc *Service) Search(ctx context.Context, q string) ([]Assignment, error) {
	return svc.repo.SearchAssignments(ctx, q)
}

func (svc *Service) Upsert(ctx context.Context, id primitive.ObjectID, ua UpdateAssignment) (Assignment, error) {
	a := Assignment{
		ID:             id,
		Title:          ua.Title,
		Description:    ua.Description,
		Marks:          ua.Marks,
		ImageURL:       ua.ImageURL,
		Difficulty:     ua.Difficulty,
		CreatorEmail:   ua.Email,
		CreatorName:    ua.Username,
		SubmissionDate: ua.SubmissionDate,
		UpdatedAt:      time.Now().UTC(),
	}
	return svc.repo.UpsertAssignment(ctx, id, a)
}

func (svc *Service) Delete(ctx context.Context, id primitive.ObjectID) error {
	return svc.repo.DeleteAssignment(ctx, id)
}
