package router

import (
	"lupain/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	SetupPropertyRouter(e, authMiddleware, adminMiddleware)
	SetupPublicRouter(e)
	SetupSignupRouter(e)
	SetupHealthRouter(e)
}
