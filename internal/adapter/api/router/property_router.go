package router

import (
	"lupain/internal/adapter/api/handler"
	"lupain/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func SetupPropertyRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	propertyHandler := handler.GetPropertyHandler()

	properties := e.Group("/v1/properties")
	properties.Use(authMiddleware.Authenticate)
	properties.POST("", propertyHandler.CreateProperty)
	properties.GET("", propertyHandler.ListMyProperties)
	properties.GET("/search", propertyHandler.SearchMyProperties)
	properties.GET("/:id", propertyHandler.GetProperty)
	properties.PUT("/:id", propertyHandler.UpdateProperty)
	properties.DELETE("/:id", propertyHandler.DeleteProperty)
	properties.GET("/:id/images/upload-url", propertyHandler.ImageUploadURL)
	properties.GET("/:id/images/view-url", propertyHandler.ImageViewURL)

	admin := e.Group("/v1/admin/properties")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)
	admin.GET("", propertyHandler.AdminListProperties)
}
