package handler

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"lupain/internal/domain/entity"
	"lupain/internal/domain/repository"
	"lupain/internal/infrastructure/firebase"
	"lupain/internal/usecase"
	"lupain/pkg/errors"
	"lupain/pkg/response"
)

type PropertyHandler struct {
	propertyUseCase *usecase.PropertyUseCase
	uploadUseCase   *usecase.UploadUseCase
}

func NewPropertyHandler(propertyUseCase *usecase.PropertyUseCase, uploadUseCase *usecase.UploadUseCase) *PropertyHandler {
	return &PropertyHandler{
		propertyUseCase: propertyUseCase,
		uploadUseCase:   uploadUseCase,
	}
}

func getUserIDFromContext(c echo.Context) string {
	if uid, ok := c.Get("uid").(string); ok {
		return uid
	}
	return ""
}

func isAdminFromContext(c echo.Context) bool {
	identity, ok := c.Get("identity").(*firebase.Identity)
	return ok && identity.IsAdmin()
}

type createPropertyRequest struct {
	Title             string                `json:"title" validate:"required"`
	Description       string                `json:"description" validate:"required"`
	Type              string                `json:"type" validate:"required"`
	Price             *float64              `json:"price" validate:"required"`
	Currency          string                `json:"currency"`
	Location          *entity.Location      `json:"location" validate:"required"`
	Features          *entity.Features      `json:"features" validate:"required"`
	ContactInfo       *entity.ContactInfo   `json:"contactInfo" validate:"required"`
	DefaultImageIndex int                   `json:"defaultImageIndex"`
	Base64Images      []usecase.Base64Image `json:"base64Images"`
	SkipProcessing    bool                  `json:"skipProcessing"`
}

func (h *PropertyHandler) CreateProperty(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var req createPropertyRequest
	var files []usecase.UploadFile

	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(contentType, echo.MIMEMultipartForm) {
		if err := c.Request().ParseMultipartForm(10 * 1024 * 1024); err != nil {
			return response.Error(c, errors.BadRequest("Failed to parse multipart form", err))
		}
		parsedFiles, fields, err := h.uploadUseCase.ParseMultipartForm(c.Request().MultipartForm)
		if err != nil {
			return response.Error(c, err)
		}
		files = parsedFiles

		// Form field values were JSON-decoded where possible; round-trip the
		// merged map into the request struct.
		raw, err := json.Marshal(fields)
		if err != nil {
			return response.Error(c, errors.BadRequest("Invalid form fields", err))
		}
		if err := json.Unmarshal(raw, &req); err != nil {
			return response.Error(c, errors.BadRequest("Invalid form fields", err))
		}
	} else {
		if err := c.Bind(&req); err != nil {
			return response.Error(c, errors.BadRequest("Invalid request body", err))
		}
		decoded, err := h.uploadUseCase.DecodeBase64Images(req.Base64Images)
		if err != nil {
			return response.Error(c, err)
		}
		files = decoded
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	// The id exists before any upload so all images from this request share
	// the property's key prefix.
	propertyID := usecase.NewPropertyID()

	keys, err := h.uploadUseCase.UploadPropertyImages(c.Request().Context(), propertyID, files, req.SkipProcessing)
	if err != nil {
		return response.Error(c, err)
	}

	property, err := h.propertyUseCase.CreateProperty(c.Request().Context(), propertyID, userID, usecase.CreatePropertyInput{
		Title:             req.Title,
		Description:       req.Description,
		Type:              req.Type,
		Price:             req.Price,
		Currency:          req.Currency,
		Location:          req.Location,
		Features:          req.Features,
		ContactInfo:       req.ContactInfo,
		Images:            keys,
		DefaultImageIndex: req.DefaultImageIndex,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, property)
}

func (h *PropertyHandler) GetProperty(c echo.Context) error {
	property, err := h.propertyUseCase.GetProperty(
		c.Request().Context(),
		c.Param("id"),
		getUserIDFromContext(c),
		isAdminFromContext(c),
	)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, property)
}

func (h *PropertyHandler) ListMyProperties(c echo.Context) error {
	userID := getUserIDFromContext(c)

	items, cursor, err := h.propertyUseCase.ListByOwner(c.Request().Context(), userID, listOptionsFromQuery(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, items, cursor)
}

type updatePropertyRequest struct {
	Title             *string               `json:"title"`
	Description       *string               `json:"description"`
	Type              *string               `json:"type"`
	Price             *float64              `json:"price"`
	Currency          *string               `json:"currency"`
	Status            *string               `json:"status"`
	Location          *entity.Location      `json:"location"`
	Features          *entity.Features      `json:"features"`
	ContactInfo       *entity.ContactInfo   `json:"contactInfo"`
	DefaultImageIndex *int                  `json:"defaultImageIndex"`
	RemoveImages      []string              `json:"removeImages"`
	Base64Images      []usecase.Base64Image `json:"base64Images"`
	SkipProcessing    bool                  `json:"skipProcessing"`
}

func (h *PropertyHandler) UpdateProperty(c echo.Context) error {
	id := c.Param("id")
	userID := getUserIDFromContext(c)
	isAdmin := isAdminFromContext(c)

	var req updatePropertyRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	input := usecase.UpdatePropertyInput{
		Title:             req.Title,
		Description:       req.Description,
		Type:              req.Type,
		Price:             req.Price,
		Currency:          req.Currency,
		Status:            req.Status,
		Location:          req.Location,
		Features:          req.Features,
		ContactInfo:       req.ContactInfo,
		DefaultImageIndex: req.DefaultImageIndex,
	}

	if len(req.RemoveImages) > 0 || len(req.Base64Images) > 0 {
		property, err := h.propertyUseCase.GetProperty(c.Request().Context(), id, userID, isAdmin)
		if err != nil {
			return response.Error(c, err)
		}

		images := property.Images
		if len(req.RemoveImages) > 0 {
			kept, err := h.uploadUseCase.RemoveImages(c.Request().Context(), property.ImagePrefix(), images, req.RemoveImages)
			if err != nil {
				return response.Error(c, err)
			}
			images = kept
		}
		if len(req.Base64Images) > 0 {
			files, err := h.uploadUseCase.DecodeBase64Images(req.Base64Images)
			if err != nil {
				return response.Error(c, err)
			}
			keys, err := h.uploadUseCase.UploadPropertyImages(c.Request().Context(), id, files, req.SkipProcessing)
			if err != nil {
				return response.Error(c, err)
			}
			images = append(images, keys...)
		}
		input.Images = &images
	}

	property, err := h.propertyUseCase.UpdateProperty(c.Request().Context(), id, userID, isAdmin, input)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, property)
}

func (h *PropertyHandler) DeleteProperty(c echo.Context) error {
	err := h.propertyUseCase.DeleteProperty(
		c.Request().Context(),
		c.Param("id"),
		getUserIDFromContext(c),
		isAdminFromContext(c),
	)
	if err != nil {
		return response.Error(c, err)
	}
	return response.NoContent(c)
}

func (h *PropertyHandler) SearchMyProperties(c echo.Context) error {
	criteria := filterCriteriaFromQuery(c)
	criteria.OwnerID = getUserIDFromContext(c)

	items, cursor, err := h.propertyUseCase.Filter(c.Request().Context(), criteria)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, items, cursor)
}

func (h *PropertyHandler) AdminListProperties(c echo.Context) error {
	criteria := filterCriteriaFromQuery(c)

	items, cursor, err := h.propertyUseCase.Filter(c.Request().Context(), criteria)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, items, cursor)
}

func (h *PropertyHandler) ImageUploadURL(c echo.Context) error {
	id := c.Param("id")

	// Presigning a write slot requires ownership of the property.
	property, err := h.propertyUseCase.GetProperty(c.Request().Context(), id, getUserIDFromContext(c), isAdminFromContext(c))
	if err != nil {
		return response.Error(c, err)
	}

	contentType := c.QueryParam("contentType")
	if contentType == "" {
		return response.Error(c, errors.BadRequest("contentType is required", nil))
	}

	url, key, err := h.uploadUseCase.UploadURL(c.Request().Context(), property.ID, c.QueryParam("fileName"), contentType)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"uploadUrl": url,
		"key":       key,
	})
}

func (h *PropertyHandler) ImageViewURL(c echo.Context) error {
	id := c.Param("id")

	property, err := h.propertyUseCase.GetProperty(c.Request().Context(), id, getUserIDFromContext(c), isAdminFromContext(c))
	if err != nil {
		return response.Error(c, err)
	}

	key := c.QueryParam("key")
	if key == "" {
		return response.Error(c, errors.BadRequest("key is required", nil))
	}

	url, err := h.uploadUseCase.ViewURL(c.Request().Context(), property.ImagePrefix(), key)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"viewUrl": url,
	})
}

func listOptionsFromQuery(c echo.Context) repository.ListOptions {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return repository.ListOptions{
		Limit:     limit,
		Cursor:    c.QueryParam("cursor"),
		SortBy:    c.QueryParam("sortBy"),
		SortOrder: c.QueryParam("sortOrder"),
	}
}

func filterCriteriaFromQuery(c echo.Context) usecase.FilterCriteria {
	opts := listOptionsFromQuery(c)

	criteria := usecase.FilterCriteria{
		Query:     c.QueryParam("q"),
		Location:  c.QueryParam("location"),
		Status:    c.QueryParam("status"),
		Limit:     opts.Limit,
		SortBy:    opts.SortBy,
		SortOrder: opts.SortOrder,
		Cursor:    opts.Cursor,
	}

	if typeParam := c.QueryParam("type"); typeParam != "" {
		criteria.Types = strings.Split(typeParam, ",")
	}
	criteria.PriceMin = floatQueryParam(c, "priceMin")
	criteria.PriceMax = floatQueryParam(c, "priceMax")
	criteria.MinArea = floatQueryParam(c, "minArea")
	criteria.MaxArea = floatQueryParam(c, "maxArea")

	if featureParam := c.QueryParam("features"); featureParam != "" {
		filter := usecase.FeatureFilter{}
		for _, name := range strings.Split(featureParam, ",") {
			switch strings.TrimSpace(name) {
			case "parking":
				filter.Parking = true
			case "furnished":
				filter.Furnished = true
			case "aircon":
				filter.Aircon = true
			case "wifi":
				filter.Wifi = true
			case "security":
				filter.Security = true
			}
		}
		criteria.Features = &filter
	}

	return criteria
}

func floatQueryParam(c echo.Context, name string) *float64 {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &value
}
