package inmemdb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/groupstudy/server/core/submission"
)

type submissionRepository struct {
	db *submissionTable
}

var _ submission.Repository = (*submissionRepository)(nil) // interface compliance check

func NewSubmissionRepository(db *DB) submission.Repository {
	return &submissionRepository{db: db.submission}
}

func (repo *submissionRepository) query() []submission.Submission {
	submissions := make([]submission.Submission, 0, len(repo.db.table))
	for _, s := range repo.db.table {
		submissions = append(submissions, *s)
	}
	return submissions
}

func (repo *submissionRepository) CreateSubmission(_ context.Context, s submission.Submission) (submission.Submission, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	// same invariant the unique index enforces in the real store
	for _, existing := range repo.db.table {
		if existing.AssignmentID == s.AssignmentID && existing.SubmittedBy == s.SubmittedBy {
			return submission.Submission{}, submission.ErrAlreadySubmitted
		}
	}

	s.ID = primitive.NewObjectID()
	repo.db.table[s.ID] = &s
	return s, nil
}

func (repo *submissionRepository) FilterSubmissionsBySubmitter(_ context.Context, email string) ([]submission.Submission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	filtered := make([]submission.Submission, 0)
	for _, s := range repo.query() {
		if s.SubmittedBy == email {
			filtered = append(filtered, s)
		}
	}
	return filtered, nil
}

func (repo *submissionRepository) FilterPendingSubmissions(_ context.Context, email string) ([]submission.Submission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	filtered := make([]submission.Submission, 0)
	for _, s := range repo.query() {
		if s.Status == submission.StatusPending && s.SubmittedBy == email {
			filtered = append(filtered, s)
		}
	}
	return filtered, nil
}

func (repo *submissionRepository) UpdateSubmission(_ context.Context, id primitive.ObjectID, us submission.UpdateSubmission) (submission.Submission, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[id]
	if !ok {
		return submission.Submission{}, submission.ErrNotFound
	}

	// only save set fields
	if us.ObtainedMarks != nil {
		orig.ObtainedMarks = us.ObtainedMarks
	}
	if us.Feedback != nil {
		orig.Feedback = us.Feedback
	}
	if us.Status != nil {
		orig.Status = *us.Status
	}
	if us.GoogleDoc != nil {
		orig.GoogleDoc = *us.GoogleDoc
	}
	if us.Note != nil {
		orig.Note = *us.Note
	}
	return *orig, nil
}
