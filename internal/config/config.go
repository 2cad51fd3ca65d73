// Package config loads server settings from the environment, optionally
// seeded from a .env file in the working directory.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"

	"github.com/soaringjerry/QuickScan/internal/db"
	"github.com/soaringjerry/QuickScan/internal/utils"
)

const DriverMemory = "memory"

type Config struct {
	Addr          string
	DBDriver      string
	DBDSN         string
	MigrationsDir string
	JWTSecret     string
	AdminEmail    string
	AdminPassword string
	AdminName     string
	ScoringPolicy string
	CORSOrigins   []string
	StaticDir     string

	// LegacySnapshot points at a JSON export of submissions from the previous
	// system, imported once into an empty store.
	LegacySnapshot string
	S3Bucket       string
	S3Prefix       string
	SQSQueueURL    string
	AWSRegion      string
	SessionTTLMin  int
	Commit         string
	BuildTime      string
}

// Load reads .env (if present) and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using process environment")
	} else {
		log.Println("config: loaded .env")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment without touching .env.
func FromEnv() (Config, error) {
	c := Config{
		Addr:           utils.SafeEnv("QUICKSCAN_ADDR", ":8080"),
		DBDriver:       strings.ToLower(utils.SafeEnv("QUICKSCAN_DB_DRIVER", db.DialectSQLite)),
		DBDSN:          utils.SafeEnv("QUICKSCAN_DB_DSN", ""),
		MigrationsDir:  utils.SafeEnv("QUICKSCAN_MIGRATIONS_DIR", ""),
		JWTSecret:      utils.SafeEnv("QUICKSCAN_JWT_SECRET", ""),
		AdminEmail:     utils.SafeEnv("QUICKSCAN_ADMIN_EMAIL", ""),
		AdminPassword:  utils.SafeEnv("QUICKSCAN_ADMIN_PASSWORD", ""),
		AdminName:      utils.SafeEnv("QUICKSCAN_ADMIN_NAME", "Admin"),
		ScoringPolicy:  utils.SafeEnv("QUICKSCAN_SCORING_POLICY", "lenient"),
		CORSOrigins:    splitList(utils.SafeEnv("QUICKSCAN_CORS_ORIGINS", "")),
		StaticDir:      utils.SafeEnv("QUICKSCAN_STATIC_DIR", ""),
		LegacySnapshot: utils.SafeEnv("QUICKSCAN_LEGACY_SNAPSHOT", ""),
		S3Bucket:       utils.SafeEnv("QUICKSCAN_S3_BUCKET", ""),
		S3Prefix:       utils.SafeEnv("QUICKSCAN_S3_PREFIX", "exports"),
		SQSQueueURL:    utils.SafeEnv("QUICKSCAN_SQS_QUEUE_URL", ""),
		AWSRegion:      utils.SafeEnv("AWS_REGION", utils.SafeEnv("AWS_DEFAULT_REGION", "")),
		SessionTTLMin:  utils.EnvInt("QUICKSCAN_SESSION_TTL_MINUTES", 120),
		Commit:         utils.SafeEnv("QUICKSCAN_COMMIT", ""),
		BuildTime:      utils.SafeEnv("QUICKSCAN_BUILD_TIME", ""),
	}
	if c.DBDriver == db.DialectSQLite && c.DBDSN == "" {
		c.DBDSN = "file:" + utils.SafeEnv("QUICKSCAN_SQLITE_PATH", "data/quickscan.db") + "?_busy_timeout=5000"
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	var errs []error
	switch c.DBDriver {
	case DriverMemory, db.DialectSQLite:
	case db.DialectPostgres:
		if c.DBDSN == "" {
			errs = append(errs, errors.New("QUICKSCAN_DB_DSN is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported QUICKSCAN_DB_DRIVER %q", c.DBDriver))
	}
	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		errs = append(errs, errors.New("QUICKSCAN_ADMIN_EMAIL and QUICKSCAN_ADMIN_PASSWORD must be set together"))
	}
	if (c.S3Bucket != "" || c.SQSQueueURL != "") && c.AWSRegion == "" {
		errs = append(errs, errors.New("AWS_REGION is required when S3 or SQS is configured"))
	}
	if c.SessionTTLMin <= 0 {
		errs = append(errs, errors.New("QUICKSCAN_SESSION_TTL_MINUTES must be positive"))
	}
	return errors.Join(errs...)
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
