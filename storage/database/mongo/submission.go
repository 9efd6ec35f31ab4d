package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/groupstudy/server/core/submission"
)

type submissionRepository struct {
	coll *mongo.Collection
}

var _ submission.Repository = (*submissionRepository)(nil) // interface compliance check

func NewSubmissionRepository(db *mongo.Database) submission.Repository {
	return &submissionRepository{coll: db.Collection(submissionCollection)}
}

func (repo *submissionRepository) CreateSubmission(ctx context.Context, s submission.Submission) (submission.Submission, error) {
	s.ID = primitive.NewObjectID()
	if _, err := repo.coll.InsertOne(ctx, s); err != nil {
		// duplicate (assignment_id, submitted_by) pairs are rejected by the
		// unique index; concurrent inserts are serialized by the store.
		if mongo.IsDuplicateKeyError(err) {
			return submission.Submission{}, submission.ErrAlreadySubmitted
		}
		return submission.Submission{}, wrapErr(err, "inserting submission")
	}
	return s, nil
}

func (repo *submissionRepository) FilterSubmissionsBySubmitter(ctx context.Context, email string) ([]submission.Submission, error) {
	return repo.find(ctx, bson.M{"submitted_by": email})
}

func (repo *submissionRepository) FilterPendingSubmissions(ctx context.Context, email string) ([]submission.Submission, error) {
	return repo.find(ctx, bson.M{"status": submission.StatusPending, "submitted_by": email})
}

func (repo *submissionRepository) UpdateSubmission(ctx context.Context, id primitive.ObjectID, us submission.UpdateSubmission) (submission.Submission, error) {
	set := bson.M{}
	if us.ObtainedMarks != nil {
		set["obtained_marks"] = *us.ObtainedMarks
	}
	if us.Feedback != nil {
		set["feedback"] = *us.Feedback
	}
	if us.Status != nil {
		set["status"] = *us.Status
	}
	if us.GoogleDoc != nil {
		set["google_doc"] = *us.GoogleDoc
	}
	if us.Note != nil {
		set["note"] = *us.Note
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated submission.Submission
	err := repo.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return submission.Submission{}, submission.ErrNotFound
	}
	if err != nil {
		return submission.Submission{}, wrapErr(err, "updating submission")
	}
	return updated, nil
}

func (repo *submissionRepository) find(ctx context.Context, filter bson.M) ([]submission.Submission, error) {
	cur, err := repo.coll.Find(ctx, filter)
	if err != nil {
		return nil, wrapErr(err, "finding submissions")
	}
	var submissions []submission.Submission
	if err = cur.All(ctx, &submissions); err != nil {
		return nil, wrapErr(err, "decoding submissions")
	}
	return submissions, nil
}
