package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/groupstudy/server/core/assignment"
)

type assignmentRepository struct {
	coll *mongo.Collection
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(db *mongo.Database) assignment.Repository {
	return &assignmentRepository{coll: db.Collection(assignmentCollection)}
}

func (repo *assignmentRepository) CreateAssignment(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	a.ID = primitive.NewObjectID()
	if _, err := repo.coll.InsertOne(ctx, a); err != nil {
		return assignment.Assignment{}, wrapErr(err, "inserting assignment")
	}
	return a, nil
}

func (repo *assignmentRepository) QueryAllAssignments(ctx context.Context) ([]assignment.Assignment, error) {
	return repo.find(ctx, bson.M{})
}

func (repo *assignmentRepository) GetAssignmentByID(ctx context.Context, id primitive.ObjectID) (assignment.Assignment, error) {
	var a assignment.Assignment
	err := repo.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	if err != nil {
		return assignment.Assignment{}, wrapErr(err, "finding assignment by id")
	}
	return a, nil
}

func (repo *assignmentRepository) FilterAssignmentsByDifficulty(ctx context.Context, level string) ([]assignment.Assignment, error) {
	return repo.find(ctx, bson.M{"difficulty": level})
}

func (repo *assignmentRepository) SearchAssignments(ctx context.Context, q string) ([]assignment.Assignment, error) {
	re := primitive.Regex{Pattern: q, Options: "i"}
	return repo.find(ctx, bson.M{
		"$or": []bson.M{
			{"title": re},
			{"description": re},
		},
	})
}

func (repo *assignmentRepository) UpsertAssignment(ctx context.Context, id primitive.ObjectID, a assignment.Assignment) (assignment.Assignment, error) {
	update := bson.M{
		"$set": bson.M{
			"title":           a.Title,
			"description":     a.Description,
			"marks":           a.Marks,
			"img_url":         a.ImageURL,
			"difficulty":      a.Difficulty,
			"creator_email":   a.CreatorEmail,
			"creator_name":    a.CreatorName,
			"submission_date": a.SubmissionDate,
			"updated_at":      a.UpdatedAt,
		},
		"$setOnInsert": bson.M{"created_at": a.UpdatedAt},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var updated assignment.Assignment
	if err := repo.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated); err != nil {
		return assignment.Assignment{}, wrapErr(err, "upserting assignment")
	}
	return updated, nil
}

func (repo *assignmentRepository) DeleteAssignment(ctx context.Context, id primitive.ObjectID) error {
	res, err := repo.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrapErr(err, "deleting assignment")
	}
	if res.DeletedCount == 0 {
		return assignment.ErrNotFound
	}
	return nil
}

func (repo *assignmentRepository) find(ctx context.Context, filter bson.M) ([]assignment.Assignment, error) {
	cur, err := repo.coll.Find(ctx, filter)
	if err != nil {
		return nil, wrapErr(err, "finding assignments")
	}
	var assignments []assignment.Assignment
	if err = cur.All(ctx, &assignments); err != nil {
		return nil, wrapErr(err, "decoding assignments")
	}
	return assignments, nil
}
