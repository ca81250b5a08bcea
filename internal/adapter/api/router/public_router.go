package router

import (
	"lupain/internal/adapter/api/handler"

	"github.com/labstack/echo/v4"
)

func SetupPublicRouter(e *echo.Echo) {
	publicHandler := handler.GetPublicHandler()

	public := e.Group("/v1/public")
	public.GET("/properties", publicHandler.ListProperties)
	public.GET("/properties/:id", publicHandler.GetProperty)
	public.GET("/search", publicHandler.SearchProperties)
}
