package config

import (
	"encoding/json"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	ServerAddress string    `json:"serverAddress"`
	PublicBaseURL string    `json:"publicBaseUrl"`
	DatabasePath  string    `json:"databasePath"`
	DatabaseURL   string    `json:"databaseUrl"`
	LocalStore    string    `json:"localStorePath"`
	Gallery       Gallery   `json:"gallery"`
	ImageHost     ImageHost `json:"imageHost"`
	Admin         Admin     `json:"admin"`
}

// Gallery configuration: upload limits and the optional upstream photo API.
type Gallery struct {
	MaxImages     int    `json:"maxImages"`
	MaxFileSizeMB int64  `json:"maxFileSizeMB"`
	RemoteAPIBase string `json:"remoteApiBase"`
	ThumbMaxDim   int    `json:"thumbMaxDim"`
}

// ImageHost configuration for the external image hosting service
type ImageHost struct {
	UploadURL  string `json:"uploadUrl"`
	APIKey     string `json:"apiKey"`
	Retries    uint   `json:"retries"`
	RetryDelay string `json:"retryDelay"`
}

// Admin configuration
type Admin struct {
	Password     string `json:"password"`
	PasswordHash string `json:"passwordHash"`
	SessionTTL   string `json:"sessionTtl"`
}

// UsePostgres returns true if PostgreSQL should be used
func (c *Config) UsePostgres() bool {
	return c.DatabaseURL != ""
}

// MaxFileSizeBytes returns the upload size ceiling in bytes
func (c *Config) MaxFileSizeBytes() int64 {
	return c.Gallery.MaxFileSizeMB * 1024 * 1024
}

// RetryDelay parses the configured host retry delay, defaulting to one second
func (c *Config) RetryDelay() time.Duration {
	if d, err := time.ParseDuration(c.ImageHost.RetryDelay); err == nil && d > 0 {
		return d
	}
	return time.Second
}

// SessionTTL parses the admin session lifetime, defaulting to 12 hours
func (c *Config) SessionTTL() time.Duration {
	if d, err := time.ParseDuration(c.Admin.SessionTTL); err == nil && d > 0 {
		return d
	}
	return 12 * time.Hour
}

// Default configuration
func defaultConfig() *Config {
	return &Config{
		ServerAddress: ":5000",
		DatabasePath:  "gradgallery.db",
		LocalStore:    "gallery_store.json",
		Gallery: Gallery{
			MaxImages:     50,
			MaxFileSizeMB: 5,
			ThumbMaxDim:   300,
		},
		ImageHost: ImageHost{
			UploadURL:  "https://api.imgbb.com/1/upload",
			Retries:    3,
			RetryDelay: "1s",
		},
		Admin: Admin{
			SessionTTL: "12h",
		},
	}
}

// Load loads configuration from file or environment
func Load() (*Config, error) {
	cfg := defaultConfig()

	// Try to load from config file
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.json"
	}

	if data, err := os.ReadFile(configPath); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	// Override from environment variables
	if addr := os.Getenv("SERVER_ADDRESS"); addr != "" {
		cfg.ServerAddress = addr
	}
	if base := os.Getenv("PUBLIC_BASE_URL"); base != "" {
		cfg.PublicBaseURL = base
	}
	if dbPath := os.Getenv("DATABASE_PATH"); dbPath != "" {
		cfg.DatabasePath = dbPath
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.DatabaseURL = dbURL
	}
	if storePath := os.Getenv("LOCAL_STORE_PATH"); storePath != "" {
		cfg.LocalStore = storePath
	}
	if remote := os.Getenv("REMOTE_API_BASE"); remote != "" {
		cfg.Gallery.RemoteAPIBase = remote
	}
	if maxImages := os.Getenv("MAX_IMAGES"); maxImages != "" {
		if n, err := strconv.Atoi(maxImages); err == nil && n > 0 {
			cfg.Gallery.MaxImages = n
		}
	}
	if maxSize := os.Getenv("MAX_FILE_SIZE_MB"); maxSize != "" {
		if n, err := strconv.ParseInt(maxSize, 10, 64); err == nil && n > 0 {
			cfg.Gallery.MaxFileSizeMB = n
		}
	}
	if key := os.Getenv("IMAGE_HOST_API_KEY"); key != "" {
		cfg.ImageHost.APIKey = key
	}
	if url := os.Getenv("IMAGE_HOST_UPLOAD_URL"); url != "" {
		cfg.ImageHost.UploadURL = url
	}
	if password := os.Getenv("ADMIN_PASSWORD"); password != "" {
		cfg.Admin.Password = password
	}
	if hash := os.Getenv("ADMIN_PASSWORD_HASH"); hash != "" {
		cfg.Admin.PasswordHash = hash
	}

	return cfg, nil
}
