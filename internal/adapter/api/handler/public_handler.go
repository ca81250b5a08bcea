package handler

import (
	"github.com/labstack/echo/v4"

	"lupain/internal/domain/entity"
	"lupain/internal/usecase"
	"lupain/pkg/response"
)

// PublicHandler serves the unauthenticated browse surface. Everything here is
// restricted to available properties.
type PublicHandler struct {
	propertyUseCase *usecase.PropertyUseCase
}

func NewPublicHandler(propertyUseCase *usecase.PropertyUseCase) *PublicHandler {
	return &PublicHandler{
		propertyUseCase: propertyUseCase,
	}
}

func (h *PublicHandler) ListProperties(c echo.Context) error {
	opts := listOptionsFromQuery(c)

	if propertyType := c.QueryParam("type"); propertyType != "" {
		items, cursor, err := h.propertyUseCase.ListByType(c.Request().Context(), propertyType, opts)
		if err != nil {
			return response.Error(c, err)
		}
		// The type index is not status-scoped; prune unavailable entries
		// from the page.
		available := make([]*entity.Property, 0, len(items))
		for _, item := range items {
			if item.Status == entity.StatusAvailable {
				available = append(available, item)
			}
		}
		return response.Paginated(c, available, cursor)
	}

	items, cursor, err := h.propertyUseCase.ListAvailable(c.Request().Context(), opts)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, items, cursor)
}

func (h *PublicHandler) GetProperty(c echo.Context) error {
	property, err := h.propertyUseCase.GetPublicProperty(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, property)
}

func (h *PublicHandler) SearchProperties(c echo.Context) error {
	criteria := filterCriteriaFromQuery(c)
	criteria.OwnerID = ""
	criteria.Status = entity.StatusAvailable

	items, cursor, err := h.propertyUseCase.Filter(c.Request().Context(), criteria)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, items, cursor)
}
