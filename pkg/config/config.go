package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// WatermarkConfig holds the logo overlay defaults. The struct is built once
// at startup and handed to the watermark engine; nothing reads these from the
// environment after Load.
type WatermarkConfig struct {
	Enabled  bool
	LogoPath string
	Position string
	Opacity  float64
	Scale    float64
	Margin   int
}

type ImageConfig struct {
	Enabled     bool
	AspectRatio string
	Width       int
	Quality     int
	Format      string
}

type MailConfig struct {
	APIKey     string
	APIURL     string
	TemplateID string
	Sender     string
	BCC        string
	SMTPHost   string
	SMTPPort   string
	SMTPUser   string
	SMTPPass   string
}

type Config struct {
	ServerPort      string
	Environment     string
	FirebaseProject string
	CredentialsPath string
	StorageBucket   string
	Collection      string
	SignupLogKey    string
	Watermark       WatermarkConfig
	Image           ImageConfig
	Mail            MailConfig
	DevAuthEnabled  bool
	DevUserID       string
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		FirebaseProject: getEnv("FIREBASE_PROJECT_ID", ""),
		CredentialsPath: getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", ""),
		StorageBucket:   getEnv("STORAGE_BUCKET", ""),
		Collection:      getEnv("PROPERTIES_COLLECTION", "properties"),
		SignupLogKey:    getEnv("SIGNUP_LOG_KEY", "signups/signups.csv"),
		Watermark: WatermarkConfig{
			Enabled:  getEnvAsBool("WATERMARK_ENABLED", true),
			LogoPath: getEnv("WATERMARK_LOGO_PATH", ""),
			Position: getEnv("WATERMARK_POSITION", "bottom-right"),
			Opacity:  getEnvAsFloat("WATERMARK_OPACITY", 0.8),
			Scale:    getEnvAsFloat("WATERMARK_SCALE", 1.0),
			Margin:   getEnvAsInt("WATERMARK_MARGIN", 20),
		},
		Image: ImageConfig{
			Enabled:     getEnvAsBool("IMAGE_PROCESSING_ENABLED", true),
			AspectRatio: getEnv("IMAGE_ASPECT_RATIO", "4:3"),
			Width:       getEnvAsInt("IMAGE_WIDTH", 1200),
			Quality:     getEnvAsInt("IMAGE_QUALITY", 85),
			Format:      getEnv("IMAGE_FORMAT", "jpeg"),
		},
		Mail: MailConfig{
			APIKey:     getEnv("MAIL_API_KEY", ""),
			APIURL:     getEnv("MAIL_API_URL", "https://api.resend.com/emails"),
			TemplateID: getEnv("MAIL_TEMPLATE_ID", ""),
			Sender:     getEnv("MAIL_SENDER", ""),
			BCC:        getEnv("MAIL_BCC", ""),
			SMTPHost:   getEnv("SMTP_HOST", ""),
			SMTPPort:   getEnv("SMTP_PORT", "465"),
			SMTPUser:   getEnv("SMTP_USER", ""),
			SMTPPass:   getEnv("SMTP_PASSWORD", ""),
		},
		DevAuthEnabled: getEnvAsBool("DEV_AUTH_ENABLED", false),
		DevUserID:      getEnv("DEV_USER_ID", "dev-user"),
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.Atoi(value)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		floatValue, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		boolValue, err := strconv.ParseBool(value)
		if err == nil {
			return boolValue
		}
	}
	return defaultValue
}
