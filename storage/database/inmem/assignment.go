package inmemdb

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/groupstudy/server/core/assignment"
)

type assignmentRepository struct {
	db *assignmentTable
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(db *DB) assignment.Repository {
	return &assignmentRepository{db: db.assignment}
}

func (repo *assignmentRepository) query() []assignment.Assignment {
	assignments := make([]assignment.Assignment, 0, len(repo.db.table))
	for _, a := range repo.db.table {
		assignments = append(assignments, *a)
	}
	return assignments
}

func (repo *assignmentRepository) CreateAssignment(_ context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	a.ID = primitive.NewObjectID()
	repo.db.table[a.ID] = &a
	return a, nil
}

func (repo *assignmentRepository) QueryAllAssignments(_ context.Context) ([]assignment.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *assignmentRepository) GetAssignmentByID(_ context.Context, id primitive.ObjectID) (assignment.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if a, ok := repo.db.table[id]; ok {
		return *a, nil
	}
	return assignment.Assignment{}, assignment.ErrNotFound
}

func (repo *assignmentRepository) FilterAssignmentsByDifficulty(_ context.Context, level string) ([]assignment.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	filtered := make([]assignment.Assignment, 0)
	for _, a := range repo.query() {
		if a.Difficulty == level {
			filtered = append(filtered, a)
		}
	}
	return filtered, nil
}

func (repo *assignmentRepository) SearchAssignments(_ context.Context, q string) ([]assignment.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	q = strings.ToLower(q)
	filtered := make([]assignment.Assignment, 0)
	for _, a := range repo.query() {
		if strings.Contains(strings.ToLower(a.Title), q) ||
			strings.Contains(strings.ToLower(a.Description), q) {
			filtered = append(filtered, a)
		}
	}
	return filtered, nil
}

func (repo *assignmentRepository) UpsertAssignment(_ context.Context, id primitive.ObjectID, a assignment.Assignment) (assignment.Assignment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	a.ID = id
	if orig, ok := repo.db.table[id]; ok {
		a.CreatedAt = orig.CreatedAt
	} else {
		a.CreatedAt = a.UpdatedAt
	}
	repo.db.table[id] = &a
	return a, nil
}

func (repo *assignmentRepository) DeleteAssignment(_ context.Context, id primitive.ObjectID) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return assignment.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
