package handler

import (
	"lupain/internal/usecase"
)

var (
	propertyHandler *PropertyHandler
	publicHandler   *PublicHandler
	signupHandler   *SignupHandler
)

func Setup(
	propertyUseCase *usecase.PropertyUseCase,
	uploadUseCase *usecase.UploadUseCase,
	signupUseCase *usecase.SignupUseCase,
) {
	propertyHandler = NewPropertyHandler(propertyUseCase, uploadUseCase)
	publicHandler = NewPublicHandler(propertyUseCase)
	signupHandler = NewSignupHandler(signupUseCase)
}

func GetPropertyHandler() *PropertyHandler {
	return propertyHandler
}

func GetPublicHandler() *PublicHandler {
	return publicHandler
}

func GetSignupHandler() *SignupHandler {
	return signupHandler
}
