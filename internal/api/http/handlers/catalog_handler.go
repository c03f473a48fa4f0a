package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// CatalogHandler serves the reference data the frontend needs to build
// its ticket forms.
type CatalogHandler struct {
	catalog *service.CatalogService
}

func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalogService}
}

// ListCategories GET /Categorias.
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.catalog.ListCategories(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewCategoryListResponse(categories))
}

// ListPriorities GET /Prioridades.
func (h *CatalogHandler) ListPriorities(c *fiber.Ctx) error {
	priorities, err := h.catalog.ListPriorities(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPriorityListResponse(priorities))
}

// ListStatuses GET /Status.
func (h *CatalogHandler) ListStatuses(c *fiber.Ctx) error {
	statuses, err := h.catalog.ListStatuses(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewStatusListResponse(statuses))
}
