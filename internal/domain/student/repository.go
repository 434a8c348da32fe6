package student

import (
	"context"
)

// Repository is the persistence port for the student directory.
type Repository interface {
	// Save persists a new directory entry.
	Save(ctx context.Context, s *Student) error

	// GetByID returns a single entry.
	GetByID(ctx context.Context, id string) (*Student, error)

	// GetByUsername returns the entry for a login name.
	GetByUsername(ctx context.Context, username string) (*Student, error)

	// ListStudents returns every entry with role=student ordered by id.
	// The ordering is load-bearing: the leaderboard relies on it as the
	// stable tiebreak for equal scores.
	ListStudents(ctx context.Context) ([]Student, error)
}
