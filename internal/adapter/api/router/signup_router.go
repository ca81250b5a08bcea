package router

import (
	"lupain/internal/adapter/api/handler"

	"github.com/labstack/echo/v4"
)

func SetupSignupRouter(e *echo.Echo) {
	signupHandler := handler.GetSignupHandler()

	e.POST("/v1/signup", signupHandler.Signup)
}
