package handler

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"filehub/internal/http/middleware"
	"filehub/internal/service"
)

type presignRequest struct {
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
}

type completeRequest struct {
	Path     string `json:"path"`
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
}

// PresignUpload handles POST /upload/presign. It mints a time-bounded write
// capability; no file record exists until the client reports completion.
func PresignUpload(svc service.UploadService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req presignRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		res, err := svc.Presign(c.UserContext(), middleware.OwnerIDFromCtx(c), req.Filename)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrOwnerRequired):
				return writeError(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", "authentication required")
			case errors.Is(err, service.ErrFilenameRequired):
				return writeError(c, fiber.StatusBadRequest, "FILENAME_REQUIRED", "filename is required")
			default:
				return writeError(c, fiber.StatusInternalServerError, "STORAGE_UNAVAILABLE", "cannot create upload url")
			}
		}
		return c.JSON(res)
	}
}

// CompleteUpload handles POST /upload/complete. It records the upload and
// dispatches it for ingestion.
func CompleteUpload(svc service.UploadService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req completeRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		file, err := svc.Complete(c.UserContext(), middleware.OwnerIDFromCtx(c), service.CompleteInput{
			StorageKey: req.Path,
			Filename:   req.Filename,
			MimeType:   req.MimeType,
			Size:       req.Size,
		})
		if err != nil {
			switch {
			case errors.Is(err, service.ErrOwnerRequired):
				return writeError(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", "authentication required")
			case errors.Is(err, service.ErrStorageKeyRequired):
				return writeError(c, fiber.StatusBadRequest, "PATH_REQUIRED", "path is required")
			case errors.Is(err, service.ErrFilenameRequired):
				return writeError(c, fiber.StatusBadRequest, "FILENAME_REQUIRED", "filename is required")
			default:
				return writeError(c, fiber.StatusInternalServerError, "PERSISTENCE_ERROR", "cannot record upload")
			}
		}
		return c.Status(fiber.StatusCreated).JSON(file)
	}
}

// ListFiles handles GET /files, newest first, scoped to the caller.
func ListFiles(svc service.UploadService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		files, err := svc.List(c.UserContext(), middleware.OwnerIDFromCtx(c))
		if err != nil {
			if errors.Is(err, service.ErrOwnerRequired) {
				return writeError(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", "authentication required")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"files": files})
	}
}

// GetFile handles GET /files/:id. A file owned by someone else is reported
// exactly like a missing one.
func GetFile(svc service.UploadService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Ids are UUIDs; reject anything else before it reaches the
		// database layer.
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid file id")
		}

		file, err := svc.Get(c.UserContext(), middleware.OwnerIDFromCtx(c), id)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrOwnerRequired):
				return writeError(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", "authentication required")
			case errors.Is(err, service.ErrNotFound):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "file not found")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.JSON(file)
	}
}

// DownloadFile handles GET /files/:id/download, returning a time-bounded
// read capability for the file's object.
func DownloadFile(svc service.UploadService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid file id")
		}

		url, err := svc.DownloadURL(c.UserContext(), middleware.OwnerIDFromCtx(c), id)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrOwnerRequired):
				return writeError(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", "authentication required")
			case errors.Is(err, service.ErrNotFound):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "file not found")
			default:
				return writeError(c, fiber.StatusInternalServerError, "STORAGE_UNAVAILABLE", "cannot create download url")
			}
		}
		return c.JSON(fiber.Map{"url": url})
	}
}

// HealthCheck returns a handler that verifies DB connectivity.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a plain liveness endpoint with no dependency checks.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
