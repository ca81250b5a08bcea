package handler

import (
	"github.com/labstack/echo/v4"

	"lupain/internal/usecase"
	"lupain/pkg/errors"
	"lupain/pkg/response"
)

type SignupHandler struct {
	signupUseCase *usecase.SignupUseCase
}

func NewSignupHandler(signupUseCase *usecase.SignupUseCase) *SignupHandler {
	return &SignupHandler{
		signupUseCase: signupUseCase,
	}
}

type signupRequest struct {
	Name   string   `json:"name" form:"name" validate:"required"`
	Email  string   `json:"email" form:"email" validate:"required,email"`
	Source string   `json:"source" form:"source"`
	Tags   []string `json:"tags" form:"tags"`
}

func (h *SignupHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.signupUseCase.Signup(c.Request().Context(), usecase.SignupInput{
		Name:   req.Name,
		Email:  req.Email,
		Source: req.Source,
		Tags:   req.Tags,
	}); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Signed up successfully",
	})
}
