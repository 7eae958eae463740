package integrity

import (
	"section-mirror/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/schema", h.HandleSchemaCheck)
	group.Get("/storage", h.HandleStorageCheck)
	group.Get("/mirror", h.HandleMirrorCheck)
}

// HandleIntegrityCheck runs every check and reports them together.
// @Summary Run All Integrity Checks
// @Description Runs the schema, storage and mirror checks and reports them together.
// @Tags integrity
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	ctx := c.Context()
	report := make(map[string]any)

	if r, err := h.service.CheckSchema(); err != nil {
		report["schema"] = fiber.Map{"status": "error", "error": err.Error()}
	} else {
		report["schema"] = r
	}

	if r, err := h.service.CheckStorage(ctx); err != nil {
		report["storage"] = fiber.Map{"status": "error", "error": err.Error()}
	} else {
		report["storage"] = r
	}

	if r, err := h.service.CheckMirror(ctx); err != nil {
		report["mirror"] = fiber.Map{"status": "error", "error": err.Error()}
	} else {
		report["mirror"] = r
	}

	return c.JSON(report)
}

// HandleSchemaCheck checks the inventory tables.
// @Summary Check Schema
// @Description Compares the inventory tables with the gorm models and lists missing columns.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.SchemaReport
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/schema [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckSchema()
	if err != nil {
		l.Error("Schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if !report.Matched {
		l.Warn("Schema mismatch detected", zap.Strings("errors", report.Errors))
	}
	return c.JSON(report)
}

// HandleStorageCheck checks the bucket.
// @Summary Check Storage
// @Description Verifies that the configured bucket exists.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.StorageReport
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/storage [get]
func (h *Handler) HandleStorageCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckStorage(c.Context())
	if err != nil {
		l.Error("Storage check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}

// HandleMirrorCheck compares the mirror with the database and, with
// ?fix=true, delivers the pending changes before checking again.
// @Summary Check Mirror
// @Description Compares the mirrored sections with the database rows. Optionally refreshes the mirror.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Refresh the mirror on drift"
// @Success 200 {object} map[string]interface{} "Mirror Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/mirror [get]
func (h *Handler) HandleMirrorCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"

	report, err := h.service.CheckMirror(c.Context())
	if err != nil {
		l.Error("Mirror check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if report.InSync || !fix {
		if !report.InSync {
			l.Warn("Mirror drift detected", zap.Strings("drift", report.Drift))
		}
		return c.JSON(fiber.Map{"status": "checked", "report": report})
	}

	l.Info("Refreshing mirror", zap.Int("drift", len(report.Drift)))
	changes, err := h.service.FixMirror(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to refresh mirror",
			"details": err.Error(),
		})
	}
	after, err := h.service.CheckMirror(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "fixed", "changes": changes, "report": after})
}
