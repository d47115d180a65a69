package repository

import (
	"context"
	"errors"

	"filehub/internal/model"
)

// ErrInvalidTransition is returned by UpdateStatus when the row was not in the
// expected prior status. The caller cannot distinguish a concurrent update
// from a missing row without a follow-up read.
var ErrInvalidTransition = errors.New("file is not in the expected status")

// FileRepository defines data access for tracked uploads using SQL queries only.
// No business logic here, strictly persistence operations. Every read is
// scoped to an owner so cross-owner access cannot happen below the service.
type FileRepository interface {
	// Create inserts a new file record. The caller provides all fields
	// including ID and timestamps. Returns the stored row.
	Create(ctx context.Context, f *model.File) (*model.File, error)

	// FindByOwnerAndID returns the file with the given id belonging to ownerID.
	// A row owned by someone else behaves exactly like a missing row
	// (sql.ErrNoRows).
	FindByOwnerAndID(ctx context.Context, ownerID, id string) (*model.File, error)

	// ListByOwner returns all files of ownerID, newest created_at first.
	ListByOwner(ctx context.Context, ownerID string) ([]model.File, error)

	// UpdateStatus moves a file from status `from` to status `to` and bumps
	// updated_at, as a single compare-and-set. Returns ErrInvalidTransition
	// if the row does not exist or is no longer in `from`.
	UpdateStatus(ctx context.Context, id string, from, to model.FileStatus) (*model.File, error)
}
