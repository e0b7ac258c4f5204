package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"bookbazaar/internal/model"
)

type Config struct {
	APIBaseURL string
	CookieFile string

	HTTPTimeoutSeconds int

	CoverMaxWidth    int
	CoverMaxHeight   int
	CoverJPEGQuality int
}

// DefaultAPIBaseURL points at the hosted marketplace backend.
const DefaultAPIBaseURL = "https://book-seller-web-backend.onrender.com/api/v1"

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading it, relying on environment variables")
	}

	baseURL := os.Getenv("API_BASE_URL")
	if baseURL == "" {
		baseURL = DefaultAPIBaseURL
	}

	cookieFile := os.Getenv("COOKIE_FILE")
	if cookieFile == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			cookieFile = filepath.Join(dir, "bookbazaar", "cookies.json")
		}
	}

	timeout, err := strconv.Atoi(os.Getenv("HTTP_TIMEOUT_SECONDS"))
	if err != nil || timeout <= 0 {
		timeout = 30
	}

	coverMaxWidth, err := strconv.Atoi(os.Getenv("COVER_MAX_WIDTH"))
	if err != nil || coverMaxWidth <= 0 {
		coverMaxWidth = model.CoverMaxWidth
	}

	coverMaxHeight, err := strconv.Atoi(os.Getenv("COVER_MAX_HEIGHT"))
	if err != nil || coverMaxHeight <= 0 {
		coverMaxHeight = model.CoverMaxHeight
	}

	coverQuality, err := strconv.Atoi(os.Getenv("COVER_JPEG_QUALITY"))
	if err != nil || coverQuality <= 0 || coverQuality > 100 {
		coverQuality = model.CoverJPEGQuality
	}

	return &Config{
		APIBaseURL: baseURL,
		CookieFile: cookieFile,

		HTTPTimeoutSeconds: timeout,

		CoverMaxWidth:    coverMaxWidth,
		CoverMaxHeight:   coverMaxHeight,
		CoverJPEGQuality: coverQuality,
	}, nil
}
