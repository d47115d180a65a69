package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"filehub/internal/http/middleware"
	"filehub/internal/model"
	"filehub/internal/service"
	serviceMocks "filehub/internal/service/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// asOwner injects an authenticated owner the way middleware.Auth would.
func asOwner(ownerID string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(middleware.OwnerIDLocalKey, ownerID)
		return c.Next()
	}
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPresignUpload(t *testing.T) {
	mockSvc := new(serviceMocks.MockUploadService)
	app := fiber.New()
	app.Post("/upload/presign", asOwner("u1"), PresignUpload(mockSvc))

	t.Run("success", func(t *testing.T) {
		expected := &service.PresignResult{
			StorageKey: "uploads/u1/171234-report.pdf",
			UploadURL:  "https://storage.example/put",
			ExpiresIn:  900,
		}
		mockSvc.On("Presign", mock.Anything, "u1", "report.pdf").Return(expected, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/upload/presign",
			jsonBody(t, presignRequest{Filename: "report.pdf", MimeType: "application/pdf"}))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result service.PresignResult
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, expected.StorageKey, result.StorageKey)
		assert.Equal(t, expected.UploadURL, result.UploadURL)
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing filename", func(t *testing.T) {
		mockSvc.On("Presign", mock.Anything, "u1", "").Return(nil, service.ErrFilenameRequired).Once()

		req := httptest.NewRequest(http.MethodPost, "/upload/presign", jsonBody(t, presignRequest{}))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "FILENAME_REQUIRED", res.Error.Code)
	})

	t.Run("storage unavailable", func(t *testing.T) {
		mockSvc.On("Presign", mock.Anything, "u1", "report.pdf").
			Return(nil, errors.New("mint upload url: signing down")).Once()

		req := httptest.NewRequest(http.MethodPost, "/upload/presign",
			jsonBody(t, presignRequest{Filename: "report.pdf"}))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "STORAGE_UNAVAILABLE", res.Error.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		anon := fiber.New()
		anon.Post("/upload/presign", PresignUpload(mockSvc))
		mockSvc.On("Presign", mock.Anything, "", "report.pdf").
			Return(nil, service.ErrOwnerRequired).Once()

		req := httptest.NewRequest(http.MethodPost, "/upload/presign",
			jsonBody(t, presignRequest{Filename: "report.pdf"}))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, _ := anon.Test(req)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "UNAUTHENTICATED", res.Error.Code)
	})
}

func TestCompleteUpload(t *testing.T) {
	mockSvc := new(serviceMocks.MockUploadService)
	app := fiber.New()
	app.Post("/upload/complete", asOwner("u1"), CompleteUpload(mockSvc))

	t.Run("success", func(t *testing.T) {
		expected := &model.File{
			ID:         uuid.New().String(),
			OwnerID:    "u1",
			StorageKey: "uploads/u1/171234-report.pdf",
			Filename:   "report.pdf",
			Status:     model.StatusUploaded,
		}
		mockSvc.On("Complete", mock.Anything, "u1", service.CompleteInput{
			StorageKey: "uploads/u1/171234-report.pdf",
			Filename:   "report.pdf",
			MimeType:   "application/pdf",
			Size:       2048,
		}).Return(expected, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/upload/complete", jsonBody(t, completeRequest{
			Path:     "uploads/u1/171234-report.pdf",
			Filename: "report.pdf",
			MimeType: "application/pdf",
			Size:     2048,
		}))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var result model.File
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, expected.ID, result.ID)
		assert.Equal(t, model.StatusUploaded, result.Status)
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing path", func(t *testing.T) {
		mockSvc.On("Complete", mock.Anything, "u1", mock.Anything).
			Return(nil, service.ErrStorageKeyRequired).Once()

		req := httptest.NewRequest(http.MethodPost, "/upload/complete",
			jsonBody(t, completeRequest{Filename: "report.pdf"}))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "PATH_REQUIRED", res.Error.Code)
	})

	t.Run("missing filename", func(t *testing.T) {
		mockSvc.On("Complete", mock.Anything, "u1", mock.Anything).
			Return(nil, service.ErrFilenameRequired).Once()

		req := httptest.NewRequest(http.MethodPost, "/upload/complete",
			jsonBody(t, completeRequest{Path: "uploads/u1/1-x.bin"}))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "FILENAME_REQUIRED", res.Error.Code)
	})

	t.Run("persistence error", func(t *testing.T) {
		mockSvc.On("Complete", mock.Anything, "u1", mock.Anything).
			Return(nil, errors.New("save file record: db fail")).Once()

		req := httptest.NewRequest(http.MethodPost, "/upload/complete", jsonBody(t, completeRequest{
			Path:     "uploads/u1/1-x.bin",
			Filename: "x.bin",
		}))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "PERSISTENCE_ERROR", res.Error.Code)
	})
}

func TestListFiles(t *testing.T) {
	mockSvc := new(serviceMocks.MockUploadService)
	app := fiber.New()
	app.Get("/files", asOwner("u1"), ListFiles(mockSvc))

	t.Run("success", func(t *testing.T) {
		files := []model.File{
			{ID: "file-2", OwnerID: "u1", Filename: "b.txt"},
			{ID: "file-1", OwnerID: "u1", Filename: "a.txt"},
		}
		mockSvc.On("List", mock.Anything, "u1").Return(files, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/files", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result struct {
			Files []model.File `json:"files"`
		}
		json.NewDecoder(resp.Body).Decode(&result)
		require.Len(t, result.Files, 2)
		assert.Equal(t, "file-2", result.Files[0].ID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, "u1").Return(nil, errors.New("db fail")).Once()

		req := httptest.NewRequest(http.MethodGet, "/files", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestGetFile(t *testing.T) {
	mockSvc := new(serviceMocks.MockUploadService)
	app := fiber.New()
	app.Get("/files/:id", asOwner("u1"), GetFile(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Get", mock.Anything, "u1", id).
			Return(&model.File{ID: id, OwnerID: "u1", Status: model.StatusProcessing}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/files/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result model.File
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, model.StatusProcessing, result.Status)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Get", mock.Anything, "u1", id).Return(nil, service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/files/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
	})

	t.Run("malformed id is rejected before the service", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/files/not-a-uuid", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INVALID_ID", res.Error.Code)
		mockSvc.AssertNotCalled(t, "Get", mock.Anything, "u1", "not-a-uuid")
	})
}

func TestDownloadFile(t *testing.T) {
	mockSvc := new(serviceMocks.MockUploadService)
	app := fiber.New()
	app.Get("/files/:id/download", asOwner("u2"), DownloadFile(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("DownloadURL", mock.Anything, "u2", id).
			Return("https://storage.example/get", nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/files/"+id+"/download", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result map[string]string
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, "https://storage.example/get", result["url"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("someone else's file looks missing", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("DownloadURL", mock.Anything, "u2", id).
			Return("", service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/files/"+id+"/download", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
	})

	t.Run("malformed id is rejected before the service", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/files/not-a-uuid/download", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INVALID_ID", res.Error.Code)
		mockSvc.AssertNotCalled(t, "DownloadURL", mock.Anything, "u2", "not-a-uuid")
	})

	t.Run("storage failure", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("DownloadURL", mock.Anything, "u2", id).
			Return("", errors.New("mint download url: signing down")).Once()

		req := httptest.NewRequest(http.MethodGet, "/files/"+id+"/download", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "STORAGE_UNAVAILABLE", res.Error.Code)
	})
}

func TestRouting(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})

	mockSvc := new(serviceMocks.MockUploadService)
	RegisterRoutes(app, nil, mockSvc, rejectAllVerifier{})

	t.Run("not found route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/non-existent", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
	})

	t.Run("files routes require auth", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/files", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "UNAUTHENTICATED", res.Error.Code)
	})

	t.Run("liveness is public", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

type rejectAllVerifier struct{}

func (rejectAllVerifier) Verify(token string) (string, error) {
	return "", errors.New("rejected")
}
