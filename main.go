package main

import (
	"database/sql"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/palette-peek/api/account"
	"github.com/palette-peek/api/api"
	"github.com/palette-peek/api/datastore"
	"github.com/palette-peek/api/migrations"
	"github.com/palette-peek/api/scheduler"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Get configuration from environment
	config := api.Config{
		HTTPPort:          getEnv("HTTP_PORT", ":8080"),
		StorageBackend:    strings.ToLower(getEnv("STORAGE_BACKEND", api.StorageFile)),
		DataFile:          getEnv("DATA_FILE", "palette-peek.json"),
		DatabaseType:      getEnv("DB_TYPE", "postgres"),
		DatabaseHost:      getEnv("DB_HOST", "localhost"),
		DatabaseUser:      getEnv("DB_USER", "postgres"),
		DatabasePassword:  getEnv("DB_PASSWORD", ""),
		DatabaseName:      getEnv("DB_NAME", "palettepeek"),
		SSLMode:           getEnv("SSL_MODE", "disable"),
		JwtSecret:         getEnv("JWT_SECRET", api.DefaultJwtSecret),
		JwtAccessDuration: getEnvInt("JWT_ACCESS_DURATION", 86400), // 1 day
		JwtDomain:         getEnv("JWT_DOMAIN", ""),
		AllowedOrigins:    getEnvSlice("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173"),
		DailyPaletteSize:  getEnvInt("DAILY_PALETTE_SIZE", 5),
		MaxRandomColors:   getEnvInt("MAX_RANDOM_COLORS", 50),
		DevMode:           getEnvBool("DEV_MODE", true),
	}

	if err := config.Validate(); err != nil {
		log.Fatal(err)
	}

	store, db, err := openStore(config)
	if err != nil {
		log.Fatalf("Failed to open %s storage: %v", config.StorageBackend, err)
	}
	if db != nil {
		defer db.Close()
	}

	userRepo, err := datastore.NewUserDatabase(store)
	if err != nil {
		log.Fatalf("Failed to create user repository: %v", err)
	}

	paletteRepo, err := datastore.NewPaletteDatabase(store)
	if err != nil {
		log.Fatalf("Failed to create palette repository: %v", err)
	}

	dailyPaletteRepo, err := datastore.NewDailyPaletteDatabase(store)
	if err != nil {
		log.Fatalf("Failed to create daily palette repository: %v", err)
	}

	app := &api.Application{
		Config:           config,
		UserRepo:         userRepo,
		PaletteRepo:      paletteRepo,
		DailyPaletteRepo: dailyPaletteRepo,
		Accounts:         account.NewProvider(userRepo, nil),
	}

	// Start scheduler for the featured palette
	paletteScheduler := scheduler.NewScheduler(dailyPaletteRepo, config.DailyPaletteSize)
	paletteScheduler.Start()

	log.Println("Palette Peek API Starting...")
	if err := app.Serve(paletteScheduler.Stop); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// openStore builds the key-value store for the configured backend. The
// returned *sql.DB is nil unless the backend is postgres.
func openStore(config api.Config) (datastore.KeyValueStore, *sql.DB, error) {
	switch config.StorageBackend {
	case api.StorageMemory:
		log.Println("Using in-memory storage; data is lost on exit")
		return datastore.NewMemoryStore(), nil, nil
	case api.StorageFile:
		store, err := datastore.NewFileStore(config.DataFile)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("Using file storage at %s", config.DataFile)
		return store, nil, nil
	default:
		connStr := datastore.BuildDBConnStr(
			config.DatabaseHost,
			config.DatabasePassword,
			config.DatabaseUser,
			config.DatabaseName,
			config.SSLMode,
		)
		db, err := datastore.NewDB(config.DatabaseType, connStr)
		if err != nil {
			return nil, nil, err
		}

		log.Println("Running database migrations...")
		if err := migrations.RunMigrations(db); err != nil {
			db.Close()
			return nil, nil, err
		}

		store, err := datastore.NewPostgresStore(db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, db, nil
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intVal
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return boolVal
}

func getEnvSlice(key, defaultValue string) []string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}
	return strings.Split(value, ",")
}
