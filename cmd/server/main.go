package main

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/soaringjerry/QuickScan/internal/api"
	"github.com/soaringjerry/QuickScan/internal/cloud"
	"github.com/soaringjerry/QuickScan/internal/config"
	"github.com/soaringjerry/QuickScan/internal/db"
	"github.com/soaringjerry/QuickScan/internal/middleware"
	"github.com/soaringjerry/QuickScan/internal/services"
	"github.com/soaringjerry/QuickScan/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.JWTSecret != "" {
		middleware.SetSecret(cfg.JWTSecret)
	} else {
		log.Printf("warning: QUICKSCAN_JWT_SECRET not set, using development secret")
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer closeStore()

	opts := api.Options{
		Policy:     services.ParseScoringPolicy(cfg.ScoringPolicy),
		SessionTTL: time.Duration(cfg.SessionTTLMin) * time.Minute,
	}
	if err := wireAWS(cfg, &opts); err != nil {
		log.Fatalf("aws: %v", err)
	}

	rt := api.NewRouterWithStore(store, opts)
	if cfg.AdminEmail != "" {
		created, err := rt.Admins().EnsureAdmin(cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName)
		if err != nil {
			log.Fatalf("seed admin: %v", err)
		}
		if created {
			log.Printf("created admin account %s", cfg.AdminEmail)
		}
	}
	if _, err := ImportLegacySnapshot(cfg.LegacySnapshot, store, rt.Scans()); err != nil {
		log.Fatalf("legacy import: %v", err)
	}

	handler := newHandler(cfg, rt)
	log.Printf("Quick Scan server listening on %s (policy %s, store %s)", cfg.Addr, opts.Policy, cfg.DBDriver)
	srv := &http.Server{Addr: cfg.Addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func openStore(cfg config.Config) (api.Store, func(), error) {
	if cfg.DBDriver == config.DriverMemory {
		return api.NewMemoryStore(), func() {}, nil
	}
	conn, err := db.Open(cfg.DBDriver, cfg.DBDSN, cfg.MigrationsDir)
	if err != nil {
		return nil, nil, err
	}
	store, err := db.NewStore(conn, cfg.DBDriver)
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return store, func() {
		if cerr := conn.Close(); cerr != nil {
			log.Printf("warning: failed to close database: %v", cerr)
		}
	}, nil
}

func wireAWS(cfg config.Config, opts *api.Options) error {
	if cfg.S3Bucket == "" && cfg.SQSQueueURL == "" {
		return nil
	}
	sess, err := cloud.NewSession(cfg.AWSRegion)
	if err != nil {
		return err
	}
	if cfg.S3Bucket != "" {
		a, err := cloud.NewS3Archiver(sess, cfg.S3Bucket, cfg.S3Prefix)
		if err != nil {
			return err
		}
		opts.Archiver = a
	}
	if cfg.SQSQueueURL != "" {
		n, err := cloud.NewSQSNotifier(sess, cfg.SQSQueueURL)
		if err != nil {
			return err
		}
		opts.Notifier = n
	}
	return nil
}

func newHandler(cfg config.Config, rt *api.Router) http.Handler {
	mux := http.NewServeMux()
	rt.Register(mux)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		locale := middleware.LocaleFromContext(r.Context())
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":         true,
			"name":       "Quick Scan API",
			"locale":     locale,
			"msg":        utils.T(locale, "health.ok"),
			"commit":     cfg.Commit,
			"build_time": cfg.BuildTime,
		})
	})
	mux.HandleFunc("GET /version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"commit":     cfg.Commit,
			"build_time": cfg.BuildTime,
		})
	})
	if cfg.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))
	}
	return middleware.SecureHeaders(middleware.CORS(cfg.CORSOrigins)(middleware.CachePolicy(middleware.LocaleMiddleware(mux))))
}
