package inventory

import (
	"errors"
	"strconv"

	"section-mirror/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the mirrored inventory.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the inventory routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/inventory")
	group.Get("/sections", h.HandleGetSections)
	group.Get("/journal", h.HandleGetJournal)
	group.Post("/items", h.HandleAddItem)
	group.Post("/import", h.HandleImport)
	group.Post("/refresh", h.HandleRefresh)
	group.Patch("/items/:uuid", h.HandleUpdateItem)
	group.Delete("/items/:uuid", h.HandleDeleteItem)
	group.Delete("/types/:itemType", h.HandleDeleteType)
	group.Delete("/items", h.HandleDeleteAll)
	group.Post("/snapshots", h.HandleExportSnapshot)
}

// HandleGetSections returns the mirrored sections with their items.
// @Summary List Sections
// @Description Returns the mirrored sections of the store in order, each with its items.
// @Tags inventory
// @Produce json
// @Success 200 {object} map[string]interface{} "Store and sections"
// @Router /inventory/sections [get]
func (h *Handler) HandleGetSections(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"store":    h.service.StoreUUID(),
		"sections": h.service.Sections(),
	})
}

// HandleGetJournal returns notifications recorded after ?since=.
// @Summary Notification Journal
// @Description Returns the section and item notifications applied to the mirror after the given sequence number.
// @Tags inventory
// @Produce json
// @Param since query integer false "Sequence number to read after"
// @Success 200 {object} map[string]interface{} "Journal entries"
// @Failure 400 {object} map[string]string "Invalid since"
// @Router /inventory/journal [get]
func (h *Handler) HandleGetJournal(c *fiber.Ctx) error {
	var since int64
	if raw := c.Query("since"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "since must be a non-negative integer"})
		}
		since = n
	}
	return c.JSON(fiber.Map{"entries": h.service.Journal(since)})
}

// HandleAddItem creates one item from a seed-style body.
// @Summary Add Item
// @Description Creates one item and delivers the resulting change batch to the mirror.
// @Tags inventory
// @Accept json
// @Produce json
// @Param item body SeedItem true "Item"
// @Success 201 {object} models.Item
// @Failure 400 {object} map[string]string "Invalid item"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /inventory/items [post]
func (h *Handler) HandleAddItem(c *fiber.Ctx) error {
	var body SeedItem
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	item, err := body.Model()
	if err != nil {
		return h.fail(c, "Add item failed", err)
	}
	added, err := h.service.AddItem(c.Context(), item)
	if err != nil {
		return h.fail(c, "Add item failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(added)
}

// HandleImport adds the items of a seed document in one batch.
// @Summary Import Items
// @Description Adds every item of a seed document in one change batch.
// @Tags inventory
// @Accept json
// @Produce json
// @Param seed body Seed true "Seed document"
// @Success 201 {object} map[string]int "Imported count"
// @Failure 400 {object} map[string]string "Invalid seed"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /inventory/import [post]
func (h *Handler) HandleImport(c *fiber.Ctx) error {
	seed, err := DecodeSeed(c.Body())
	if err != nil {
		return h.fail(c, "Import failed", err)
	}
	items := seed.Items
	if seed.Store != nil {
		items = append(items, seed.Store.Items...)
	}
	rows, err := Models(items)
	if err != nil {
		return h.fail(c, "Import failed", err)
	}
	n, err := h.service.Import(c.Context(), rows)
	if err != nil {
		return h.fail(c, "Import failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"imported": n})
}

// HandleRefresh delivers database changes made outside the service.
// @Summary Refresh Mirror
// @Description Refetches the store and delivers changes made by other writers as one batch.
// @Tags inventory
// @Produce json
// @Success 200 {object} map[string]int "Delivered change count"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /inventory/refresh [post]
func (h *Handler) HandleRefresh(c *fiber.Ctx) error {
	n, err := h.service.Refresh(c.Context())
	if err != nil {
		return h.fail(c, "Refresh failed", err)
	}
	return c.JSON(fiber.Map{"changes": n})
}

// HandleUpdateItem patches one item.
// @Summary Update Item
// @Description Changes the name, count or type of one item.
// @Tags inventory
// @Accept json
// @Produce json
// @Param uuid path string true "Item UUID"
// @Param patch body ItemPatch true "Fields to change"
// @Success 200 {object} models.Item
// @Failure 400 {object} map[string]string "Invalid patch"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /inventory/items/{uuid} [patch]
func (h *Handler) HandleUpdateItem(c *fiber.Ctx) error {
	var patch ItemPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	item, err := h.service.UpdateItem(c.Context(), c.Params("uuid"), patch)
	if err != nil {
		return h.fail(c, "Update item failed", err)
	}
	return c.JSON(item)
}

// HandleDeleteItem removes one item.
// @Summary Delete Item
// @Tags inventory
// @Param uuid path string true "Item UUID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Unknown item"
// @Router /inventory/items/{uuid} [delete]
func (h *Handler) HandleDeleteItem(c *fiber.Ctx) error {
	if err := h.service.DeleteItem(c.Context(), c.Params("uuid")); err != nil {
		return h.fail(c, "Delete item failed", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleDeleteType removes every item of a type.
// @Summary Delete Items By Type
// @Description Removes every item of the type, which deletes its section.
// @Tags inventory
// @Produce json
// @Param itemType path string true "Item type"
// @Success 200 {object} map[string]int "Deleted count"
// @Router /inventory/types/{itemType} [delete]
func (h *Handler) HandleDeleteType(c *fiber.Ctx) error {
	n, err := h.service.DeleteItemsByType(c.Context(), c.Params("itemType"))
	if err != nil {
		return h.fail(c, "Delete items failed", err)
	}
	return c.JSON(fiber.Map{"deleted": n})
}

// HandleDeleteAll removes every item of the store.
// @Summary Delete All Items
// @Tags inventory
// @Produce json
// @Success 200 {object} map[string]int "Deleted count"
// @Router /inventory/items [delete]
func (h *Handler) HandleDeleteAll(c *fiber.Ctx) error {
	n, err := h.service.DeleteItemsByType(c.Context(), "")
	if err != nil {
		return h.fail(c, "Delete items failed", err)
	}
	return c.JSON(fiber.Map{"deleted": n})
}

// HandleExportSnapshot writes the mirror to object storage.
// @Summary Export Snapshot
// @Description Writes the current mirror as JSON to the storage bucket. Concurrent exports share one upload.
// @Tags inventory
// @Produce json
// @Success 201 {object} map[string]string "Object name"
// @Failure 503 {object} map[string]string "Storage not configured"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /inventory/snapshots [post]
func (h *Handler) HandleExportSnapshot(c *fiber.Ctx) error {
	object, err := h.service.ExportSnapshot(c.Context())
	if err != nil {
		return h.fail(c, "Snapshot export failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"object": object})
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, ErrInvalid):
		status = fiber.StatusBadRequest
	case errors.Is(err, ErrExportDisabled):
		status = fiber.StatusServiceUnavailable
	}
	l := logger.WithRayID(h.logger, c)
	if status == fiber.StatusInternalServerError {
		l.Error(msg, zap.Error(err))
	} else {
		l.Warn(msg, zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

