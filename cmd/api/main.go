package main

import (
	"context"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"lupain/internal/adapter/api"
	"lupain/internal/adapter/api/handler"
	apimiddleware "lupain/internal/adapter/api/middleware"
	"lupain/internal/adapter/api/router"
	"lupain/internal/adapter/repository"
	"lupain/internal/infrastructure/firebase"
	"lupain/internal/infrastructure/imaging"
	"lupain/internal/infrastructure/mail"
	"lupain/internal/infrastructure/storage"
	"lupain/internal/usecase"
	"lupain/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var appOpts []option.ClientOption
	if cfg.CredentialsPath != "" {
		appOpts = append(appOpts, option.WithCredentialsFile(cfg.CredentialsPath))
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, appOpts...)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, appOpts...)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, cfg.CredentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}
	defer storageClient.Close()

	watermark := imaging.NewWatermarkEngine(cfg.Watermark)
	if cfg.Watermark.Enabled && cfg.Watermark.LogoPath != "" {
		logo, err := os.ReadFile(cfg.Watermark.LogoPath)
		if err != nil {
			log.Printf("Watermark logo unavailable, uploads continue without it: %v", err)
		} else if err := watermark.SetLogo(logo); err != nil {
			log.Printf("Watermark logo unusable, uploads continue without it: %v", err)
		}
	}
	processor := imaging.NewProcessor(cfg.Image, watermark, cfg.Watermark.Enabled)

	propertyRepo := repository.NewFirestorePropertyRepository(firestoreClient, cfg.Collection)
	mailer := mail.NewMailer(cfg.Mail)

	propertyUseCase := usecase.NewPropertyUseCase(propertyRepo, storageClient)
	uploadUseCase := usecase.NewUploadUseCase(storageClient, processor, cfg.Image.Enabled)
	signupUseCase := usecase.NewSignupUseCase(storageClient, mailer, cfg.SignupLogKey)

	handler.Setup(propertyUseCase, uploadUseCase, signupUseCase)

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Validator = api.NewValidator()

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient)
	devAuth := cfg.DevAuthEnabled && cfg.Environment == "development"
	authMiddleware := apimiddleware.NewAuthMiddleware(firebaseAuthClient, devAuth, cfg.DevUserID)
	adminMiddleware := apimiddleware.NewAdminMiddleware()

	router.Setup(e, authMiddleware, adminMiddleware)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
