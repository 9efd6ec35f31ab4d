package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/groupstudy/server/core"
)

// collection names
const (
	assignmentCollection = "assignment"
	submissionCollection = "submission"
)

// Open connects to MongoDB, verifies the connection and returns the
// application database handle. The caller owns the client and must
// Disconnect it on shutdown.
func Open(ctx context.Context, conf *core.Config) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(conf.Database.URI))
	if err != nil {
		return nil, nil, errors.Wrap(err, "connecting to mongo")
	}
	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, nil, errors.Wrap(err, "pinging mongo")
	}
	return client, client.Database(conf.Database.Name), nil
}

// EnsureIndexes creates the indexes the repositories rely on. In particular
// the unique compound index serializing concurrent duplicate submissions.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(submissionCollection).Indexes().CreateOne(
		ctx,
		mongo.IndexModel{
			Keys: bson.D{
				{Key: "assignment_id", Value: 1},
				{Key: "submitted_by", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("assignment_submitter_uniq"),
		},
	)
	return errors.Wrap(err, "creating submission unique index")
}

// wrapErr wraps a driver error; a disconnected client is unrecoverable and
// surfaces as a shutdown error.
func wrapErr(err error, msg string) error {
	if err == nil {
		return nil
	}
	if err == mongo.ErrClientDisconnected {
		return core.NewShutdownError("mongo client disconnected")
	}
	return errors.Wrap(err, msg)
}
