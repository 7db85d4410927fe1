package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Config holds the application configuration, loaded from the environment.
type Config struct {
	Port   string // HTTP listen port
	AppEnv string // "production" suppresses the OTP echo in responses

	DBDriver   string // "sqlite" (default) or "mysql"
	DBPath     string // sqlite file path
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	AdminUsername string // bootstrap admin account
	AdminPassword string
	UploadDir     string
}

// LoadConfig reads the environment, loading a .env file when present.
func LoadConfig() *Config {
	_ = godotenv.Load()
	return &Config{
		Port:          getEnv("PORT", "8080"),
		AppEnv:        getEnv("APP_ENV", "development"),
		DBDriver:      getEnv("DB_DRIVER", "sqlite"),
		DBPath:        getEnv("DB_PATH", "durumcu.db"),
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBHost:        getEnv("DB_HOST", "127.0.0.1"),
		DBPort:        getEnv("DB_PORT", "3306"),
		DBName:        getEnv("DB_NAME", "durumcu"),
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
		UploadDir:     getEnv("UPLOAD_DIR", "public/uploads"),
	}
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// InitDB opens the configured database. The default is a local sqlite file
// like the shop runs; mysql is available for bigger deployments.
func InitDB(cfg *Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
		return gorm.Open(mysql.Open(dsn), &gorm.Config{})
	case "sqlite":
		return gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
