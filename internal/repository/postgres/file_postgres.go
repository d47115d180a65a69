package postgres

import (
	"context"
	"database/sql"
	"errors"

	"filehub/internal/model"
	"filehub/internal/repository"
)

const fileColumns = "id, owner_id, storage_key, filename, mime_type, size, status, created_at, updated_at"

// FilePostgres is a PostgreSQL implementation of repository.FileRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type FilePostgres struct {
	db *sql.DB
}

// NewFilePostgres creates a new FilePostgres repository.
func NewFilePostgres(db *sql.DB) *FilePostgres {
	return &FilePostgres{db: db}
}

var _ repository.FileRepository = (*FilePostgres)(nil)

// Create inserts a new file row and returns the stored record.
func (r *FilePostgres) Create(ctx context.Context, f *model.File) (*model.File, error) {
	const q = `
		INSERT INTO files (id, owner_id, storage_key, filename, mime_type, size, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + fileColumns
	row := r.db.QueryRowContext(ctx, q,
		f.ID,
		f.OwnerID,
		f.StorageKey,
		f.Filename,
		f.MimeType,
		f.Size,
		f.Status,
		f.CreatedAt,
		f.UpdatedAt,
	)
	return scanFile(row)
}

// FindByOwnerAndID fetches a single file scoped to its owner. Rows belonging
// to other owners are indistinguishable from absent rows.
func (r *FilePostgres) FindByOwnerAndID(ctx context.Context, ownerID, id string) (*model.File, error) {
	const q = `
		SELECT ` + fileColumns + `
		FROM files
		WHERE owner_id = $1 AND id = $2
	`
	return scanFile(r.db.QueryRowContext(ctx, q, ownerID, id))
}

// ListByOwner returns the owner's files ordered newest first.
func (r *FilePostgres) ListByOwner(ctx context.Context, ownerID string) ([]model.File, error) {
	const q = `
		SELECT ` + fileColumns + `
		FROM files
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	files := make([]model.File, 0)
	for rows.Next() {
		var f model.File
		if err := rows.Scan(
			&f.ID,
			&f.OwnerID,
			&f.StorageKey,
			&f.Filename,
			&f.MimeType,
			&f.Size,
			&f.Status,
			&f.CreatedAt,
			&f.UpdatedAt,
		); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return files, nil
}

// UpdateStatus performs a guarded transition: the row is only updated when it
// is still in the expected prior status, so concurrent workers cannot move a
// file backwards or out of a terminal state.
func (r *FilePostgres) UpdateStatus(ctx context.Context, id string, from, to model.FileStatus) (*model.File, error) {
	const q = `
		UPDATE files
		SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3
		RETURNING ` + fileColumns
	f, err := scanFile(r.db.QueryRowContext(ctx, q, to, id, from))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrInvalidTransition
		}
		return nil, err
	}
	return f, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFile(row rowScanner) (*model.File, error) {
	var f model.File
	if err := row.Scan(
		&f.ID,
		&f.OwnerID,
		&f.StorageKey,
		&f.Filename,
		&f.MimeType,
		&f.Size,
		&f.Status,
		&f.CreatedAt,
		&f.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &f, nil
}
