package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"

	"filehub/internal/logging"
	"filehub/internal/model"
	"filehub/internal/queue"
	"filehub/internal/repository"
	"filehub/internal/storage"
)

var (
	ErrOwnerRequired      = errors.New("owner identity is required")
	ErrFilenameRequired   = errors.New("filename is required")
	ErrStorageKeyRequired = errors.New("storage key is required")
	ErrNotFound           = errors.New("file not found")
	ErrInvalidStatus      = errors.New("invalid status transition")
)

const defaultMimeType = "application/octet-stream"

// PresignResult is returned to the client before it uploads any bytes.
// The URL authorizes a single conditional PUT at StorageKey; its expiry is
// enforced by the object store.
type PresignResult struct {
	StorageKey string `json:"path"`
	UploadURL  string `json:"upload_url"`
	ExpiresIn  int64  `json:"expires_in"`
}

// CompleteInput carries the client-reported metadata of a finished upload.
// MimeType and Size are optional; StorageKey and Filename are not.
type CompleteInput struct {
	StorageKey string
	Filename   string
	MimeType   string
	Size       int64
}

// UploadService defines the use cases of the upload pipeline: minting write
// capabilities, recording completed uploads and dispatching them for
// ingestion, and resolving status and read capabilities afterwards.
type UploadService interface {
	// Presign derives an owner-scoped storage key for filename and mints a
	// time-bounded write capability for it. No record is created: a client
	// that abandons the upload leaves no trace here.
	Presign(ctx context.Context, ownerID, filename string) (*PresignResult, error)

	// Complete records a finished direct-to-storage upload and enqueues one
	// ingestion job for it. The call is not idempotent; the caller reports
	// each upload exactly once. An enqueue failure after the row was written
	// is logged and the row is returned anyway, observable at "uploaded".
	Complete(ctx context.Context, ownerID string, in CompleteInput) (*model.File, error)

	// List returns the owner's files, newest first.
	List(ctx context.Context, ownerID string) ([]model.File, error)

	// Get returns a single file. Files of other owners are reported as
	// ErrNotFound, indistinguishable from absent ones.
	Get(ctx context.Context, ownerID, fileID string) (*model.File, error)

	// DownloadURL mints a time-bounded read capability for the file's object.
	// Issued regardless of processing status.
	DownloadURL(ctx context.Context, ownerID, fileID string) (string, error)

	// AdvanceStatus moves a file one step along
	// uploaded -> processing -> done|failed, rejecting anything else. This is
	// the write path of the ingestion worker; the HTTP surface never calls it.
	AdvanceStatus(ctx context.Context, fileID string, to model.FileStatus) (*model.File, error)
}

type uploadService struct {
	store     storage.Storage
	repo      repository.FileRepository
	enqueuer  queue.Enqueuer
	putExpiry time.Duration
	getExpiry time.Duration
}

// NewUploadService constructs an UploadService on top of the injected
// collaborators. Expiries bound the lifetime of minted capabilities.
func NewUploadService(store storage.Storage, repo repository.FileRepository, enq queue.Enqueuer, putExpiry, getExpiry time.Duration) UploadService {
	return &uploadService{
		store:     store,
		repo:      repo,
		enqueuer:  enq,
		putExpiry: putExpiry,
		getExpiry: getExpiry,
	}
}

func (s *uploadService) Presign(ctx context.Context, ownerID, filename string) (*PresignResult, error) {
	if ownerID == "" {
		return nil, ErrOwnerRequired
	}
	if filename == "" {
		return nil, ErrFilenameRequired
	}

	// Namespace by owner and disambiguate concurrent uploads of the same
	// filename with a nanosecond timestamp. path.Base strips any directory
	// components a hostile client may have smuggled into the filename.
	key := fmt.Sprintf("uploads/%s/%d-%s", ownerID, time.Now().UnixNano(), path.Base(filename))

	url, err := s.store.PresignPut(ctx, key, s.putExpiry)
	if err != nil {
		return nil, fmt.Errorf("mint upload url: %w", err)
	}

	return &PresignResult{
		StorageKey: key,
		UploadURL:  url,
		ExpiresIn:  int64(s.putExpiry.Seconds()),
	}, nil
}

func (s *uploadService) Complete(ctx context.Context, ownerID string, in CompleteInput) (*model.File, error) {
	if ownerID == "" {
		return nil, ErrOwnerRequired
	}
	if in.StorageKey == "" {
		return nil, ErrStorageKeyRequired
	}
	if in.Filename == "" {
		return nil, ErrFilenameRequired
	}

	mimeType := in.MimeType
	if mimeType == "" {
		mimeType = defaultMimeType
	}
	size := in.Size
	if size < 0 {
		size = 0
	}

	now := time.Now().UTC()
	file := &model.File{
		ID:         uuid.New().String(),
		OwnerID:    ownerID,
		StorageKey: in.StorageKey,
		Filename:   in.Filename,
		MimeType:   mimeType,
		Size:       size,
		Status:     model.StatusUploaded,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	stored, err := s.repo.Create(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("save file record: %w", err)
	}

	// Row first, then job. A failure here leaves the row at "uploaded" with
	// no job; that window is logged rather than rolled back so the upload
	// stays observable and can be re-dispatched out of band.
	job := queue.IngestJob{FileID: stored.ID, StorageKey: stored.StorageKey}
	if err := s.enqueuer.Enqueue(ctx, job); err != nil {
		logging.Error("ingest_enqueue_failed", err, map[string]any{
			"file_id":     stored.ID,
			"storage_key": stored.StorageKey,
		})
	}

	return stored, nil
}

func (s *uploadService) List(ctx context.Context, ownerID string) ([]model.File, error) {
	if ownerID == "" {
		return nil, ErrOwnerRequired
	}
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *uploadService) Get(ctx context.Context, ownerID, fileID string) (*model.File, error) {
	if ownerID == "" {
		return nil, ErrOwnerRequired
	}
	file, err := s.repo.FindByOwnerAndID(ctx, ownerID, fileID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return file, nil
}

func (s *uploadService) DownloadURL(ctx context.Context, ownerID, fileID string) (string, error) {
	file, err := s.Get(ctx, ownerID, fileID)
	if err != nil {
		return "", err
	}
	url, err := s.store.PresignGet(ctx, file.StorageKey, s.getExpiry)
	if err != nil {
		return "", fmt.Errorf("mint download url: %w", err)
	}
	return url, nil
}

func (s *uploadService) AdvanceStatus(ctx context.Context, fileID string, to model.FileStatus) (*model.File, error) {
	if fileID == "" {
		return nil, ErrNotFound
	}

	// Each status has exactly one legal predecessor, so the target alone
	// determines the guarded prior state of the compare-and-set.
	var from model.FileStatus
	switch to {
	case model.StatusProcessing:
		from = model.StatusUploaded
	case model.StatusDone, model.StatusFailed:
		from = model.StatusProcessing
	default:
		return nil, ErrInvalidStatus
	}
	if !from.CanTransitionTo(to) {
		return nil, ErrInvalidStatus
	}

	file, err := s.repo.UpdateStatus(ctx, fileID, from, to)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidTransition) {
			return nil, ErrInvalidStatus
		}
		return nil, err
	}
	return file, nil
}
