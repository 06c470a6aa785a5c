package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	DBDriver  string
	DBDSN     string
	LogFile   string
	LogMode   string
	SeedUnits bool
}

func Load() Config {
	// .env is optional; real environment wins.
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	driver := os.Getenv("DB_DRIVER")
	if driver == "" {
		driver = "sqlite"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "file:storefront.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	} // sqlite file in project root
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./storefront.log"
	}
	mode := os.Getenv("LOG_MODE")
	if mode == "" {
		mode = "prod"
	}
	seed := true
	if v := os.Getenv("SEED_UNITS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			seed = b
		}
	}

	return Config{Port: port, DBDriver: driver, DBDSN: dsn, LogFile: logFile, LogMode: mode, SeedUnits: seed}
}
