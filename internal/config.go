package internal

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env         string
	Port        int
	LogLevel    string
	DatabaseUrl string

	// Default admin account, created on first admin request when no
	// account exists yet
	DefaultAdminUsername string
	DefaultAdminPassword string

	// Secret for the flash-message cookie store
	SessionSecret string

	// Listing sizes
	FrontPageArticleLimit int // previewed older articles shown below the full ones on the blog index
	PreviewLength         int // characters of content shown in previews
	ArchivePerPage        int // articles per public archive page
	AdminBlogPerPage      int // articles per admin listing page
	PaginationWindow      int // page links pinned at each end of a pagination bar

	// Session lifetime for admin logins
	SessionDuration time.Duration

	// Storage Configuration
	StorageProvider string // "local" or "r2"

	// Local Storage (development)
	LocalStoragePath string // Base directory for local file storage
	LocalStorageURL  string // Base URL for accessing local files

	// R2 Storage (production)
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicURL       string // Optional custom domain URL

	// Metrics endpoint authentication
	// If both are empty, the /metrics endpoint will be unprotected (not recommended)
	MetricsUsername string
	MetricsPassword string
}

func NewConfig() (*Config, error) {
	// Load .env file if it exists (ignored in production)
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		DefaultAdminUsername: getEnv("DEFAULT_ADMIN_USERNAME", "admin"),
		DefaultAdminPassword: getEnv("DEFAULT_ADMIN_PASSWORD", "admin"),

		SessionSecret: getEnv("SESSION_SECRET", ""),

		FrontPageArticleLimit: getEnvInt("FRONT_PAGE_ARTICLE_LIMIT", 5),
		PreviewLength:         getEnvInt("PREVIEW_LENGTH", 1000),
		ArchivePerPage:        getEnvInt("ARCHIVE_PER_PAGE", 10),
		AdminBlogPerPage:      getEnvInt("ADMIN_BLOG_PER_PAGE", 5),
		PaginationWindow:      getEnvInt("PAGINATION_WINDOW", 2),

		SessionDuration: getEnvDuration("SESSION_DURATION", 7*24*time.Hour),

		// Storage defaults to local filesystem for development
		StorageProvider:  getEnv("STORAGE_PROVIDER", "local"),
		LocalStoragePath: getEnv("LOCAL_STORAGE_PATH", "./storage"),
		LocalStorageURL:  getEnv("LOCAL_STORAGE_URL", "http://localhost:8080/files"),

		// R2 configuration (production only)
		R2AccountID:       getEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
		R2SecretAccessKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2BucketName:      getEnv("R2_BUCKET_NAME", ""),
		R2PublicURL:       getEnv("R2_PUBLIC_URL", ""),

		// Metrics authentication
		MetricsUsername: getEnv("METRICS_USERNAME", ""),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),
	}

	// Required
	cfg.DatabaseUrl = os.Getenv("DATABASE_URL")
	if cfg.DatabaseUrl == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	// The development fallback keeps local setup friction-free; production
	// must bring its own secret.
	if cfg.SessionSecret == "" {
		if cfg.Env != "development" {
			return nil, fmt.Errorf("SESSION_SECRET is required when ENV is not 'development'")
		}
		cfg.SessionSecret = "development-session-secret"
	}

	// Validate listing sizes
	if cfg.ArchivePerPage < 1 {
		return nil, fmt.Errorf("ARCHIVE_PER_PAGE must be at least 1, got: %d", cfg.ArchivePerPage)
	}
	if cfg.AdminBlogPerPage < 1 {
		return nil, fmt.Errorf("ADMIN_BLOG_PER_PAGE must be at least 1, got: %d", cfg.AdminBlogPerPage)
	}
	if cfg.PaginationWindow < 1 {
		return nil, fmt.Errorf("PAGINATION_WINDOW must be at least 1, got: %d", cfg.PaginationWindow)
	}

	// Validate storage configuration
	if cfg.StorageProvider == "r2" {
		if cfg.R2AccountID == "" {
			return nil, fmt.Errorf("R2_ACCOUNT_ID is required when STORAGE_PROVIDER is 'r2'")
		}
		if cfg.R2AccessKeyID == "" {
			return nil, fmt.Errorf("R2_ACCESS_KEY_ID is required when STORAGE_PROVIDER is 'r2'")
		}
		if cfg.R2SecretAccessKey == "" {
			return nil, fmt.Errorf("R2_SECRET_ACCESS_KEY is required when STORAGE_PROVIDER is 'r2'")
		}
		if cfg.R2BucketName == "" {
			return nil, fmt.Errorf("R2_BUCKET_NAME is required when STORAGE_PROVIDER is 'r2'")
		}
	} else if cfg.StorageProvider != "local" {
		return nil, fmt.Errorf("STORAGE_PROVIDER must be either 'local' or 'r2', got: %s", cfg.StorageProvider)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
