package api

import (
	"errors"
	"strings"
	"time"

	"github.com/palette-peek/api/account"
	"github.com/palette-peek/api/colorconv"
	"github.com/palette-peek/api/datastore"
)

const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StoragePostgres = "postgres"
)

type Config struct {
	HTTPPort          string
	StorageBackend    string
	DataFile          string
	DatabaseType      string
	DatabaseHost      string
	DatabaseUser      string
	DatabasePassword  string
	DatabaseName      string
	SSLMode           string
	JwtSecret         string
	JwtAccessDuration int // seconds
	JwtDomain         string
	AllowedOrigins    []string
	DailyPaletteSize  int
	MaxRandomColors   int
	DevMode           bool
}

// DefaultJwtSecret is the placeholder secret that only DEV_MODE accepts.
const DefaultJwtSecret = "your-secret-key-change-this"

// Validate checks the configuration and reports every problem at once.
func (c Config) Validate() error {
	var errs []string

	if c.HTTPPort == "" {
		errs = append(errs, "HTTP_PORT is required")
	}

	switch c.StorageBackend {
	case StorageMemory:
	case StorageFile:
		if c.DataFile == "" {
			errs = append(errs, "DATA_FILE is required for file storage")
		}
	case StoragePostgres:
		if c.DatabaseName == "" {
			errs = append(errs, "DB_NAME is required for postgres storage")
		}
	default:
		errs = append(errs, "STORAGE_BACKEND must be memory, file or postgres, got "+c.StorageBackend)
	}

	if c.JwtSecret == "" {
		errs = append(errs, "JWT_SECRET is required")
	} else if c.JwtSecret == DefaultJwtSecret && !c.DevMode {
		errs = append(errs, "JWT_SECRET must be changed outside DEV_MODE")
	}
	if c.JwtAccessDuration <= 0 {
		errs = append(errs, "JWT_ACCESS_DURATION must be positive")
	}
	if c.DailyPaletteSize <= 0 {
		errs = append(errs, "DAILY_PALETTE_SIZE must be positive")
	}
	if c.MaxRandomColors <= 0 {
		errs = append(errs, "MAX_RANDOM_COLORS must be positive")
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n  - " + strings.Join(errs, "\n  - "))
	}
	return nil
}

type Application struct {
	Config           Config
	UserRepo         datastore.UserRepository
	PaletteRepo      datastore.PaletteRepository
	DailyPaletteRepo datastore.DailyPaletteRepository
	Accounts         *account.Provider
	Rand             colorconv.Rand
	Now              func() time.Time
}

func (app *Application) now() time.Time {
	if app.Now == nil {
		return time.Now()
	}
	return app.Now()
}
