package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"filehub/internal/auth"
	"filehub/internal/http/middleware"
	"filehub/internal/service"
)

// RegisterRoutes attaches all HTTP routes to the provided Fiber app. Health,
// liveness and metrics stay public; everything touching files requires an
// authenticated owner.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc service.UploadService, verifier auth.TokenVerifier) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	authRequired := middleware.Auth(verifier)

	upload := app.Group("/upload", authRequired)
	upload.Post("/presign", PresignUpload(svc))
	upload.Post("/complete", CompleteUpload(svc))

	files := app.Group("/files", authRequired)
	files.Get("/", ListFiles(svc))
	files.Get("/:id", GetFile(svc))
	files.Get("/:id/download", DownloadFile(svc))
}
