package inmemdb

import (
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/groupstudy/server/core/assignment"
	"github.com/groupstudy/server/core/submission"
)

type (
	DB struct {
		assignment *assignmentTable
		submission *submissionTable
	}

	assignmentTable struct {
		sync.RWMutex
		table map[primitive.ObjectID]*assignment.Assignment
	}

	submissionTable struct {
		sync.RWMutex
		table map[primitive.ObjectID]*submission.Submission
	}
)

func Open() (*DB, error) {
	db := &DB{
		assignment: &assignmentTable{table: make(map[primitive.ObjectID]*assignment.Assignment)},
		submission: &submissionTable{table: make(map[primitive.ObjectID]*submission.Submission)},
	}
	return db, nil
}
