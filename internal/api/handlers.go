package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/qaforge/qaforge/internal/pipeline"
	"github.com/qaforge/qaforge/internal/storage"
	"github.com/qaforge/qaforge/pkg/logging"
	"github.com/qaforge/qaforge/pkg/qa"
)

// Handlers contains the HTTP handlers for the API
type Handlers struct {
	orchestrator *pipeline.Orchestrator
	store        storage.CorpusStore // optional; nil disables persistence
}

// NewHandlers creates a new handlers instance
func NewHandlers(orchestrator *pipeline.Orchestrator, store storage.CorpusStore) *Handlers {
	return &Handlers{
		orchestrator: orchestrator,
		store:        store,
	}
}

// Health returns the service health status
func (h *Handlers) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"service":   "qaforge",
		"version":   "0.1.0",
		"timestamp": time.Now().UTC(),
	})
}

// ExtractCorpus runs the segmentation pipeline over a posted profile
// extract and returns the resulting corpus
func (h *Handlers) ExtractCorpus(c *fiber.Ctx) error {
	logger := logging.GetLogger("api")
	requestID := uuid.New().String()
	c.Set("X-Request-ID", requestID)

	var extract qa.ProfileExtract
	if err := c.BodyParser(&extract); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":      "invalid request body",
			"request_id": requestID,
		})
	}

	corpus, err := h.orchestrator.Run(&extract)
	if err != nil {
		if errors.Is(err, qa.ErrMalformedInput) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":      err.Error(),
				"request_id": requestID,
			})
		}
		logger.Error().Err(err).Str("request_id", requestID).Msg("Pipeline run failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":      "pipeline run failed",
			"request_id": requestID,
		})
	}

	if h.store != nil {
		if err := h.store.SaveCorpus(c.Context(), corpus); err != nil {
			logger.Error().Err(err).Str("request_id", requestID).Msg("Failed to persist corpus")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":      "failed to persist corpus",
				"request_id": requestID,
			})
		}
	}

	return c.JSON(fiber.Map{
		"request_id":     requestID,
		"profile":        corpus.Profile,
		"scraping_stats": corpus.MergedStats(),
		"stats":          corpus.Stats,
		"answers":        corpus.Records,
	})
}

// SetupRoutes registers all API routes
func SetupRoutes(app *fiber.App, h *Handlers) {
	app.Get("/health", h.Health)

	v1 := app.Group("/api/v1")
	v1.Post("/corpus", h.ExtractCorpus)
}
