package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/msl-itech/MSL-Conseil-sub002/internal/api"
	dbstore "github.com/msl-itech/MSL-Conseil-sub002/internal/db"
	"github.com/msl-itech/MSL-Conseil-sub002/internal/guides"
	"github.com/msl-itech/MSL-Conseil-sub002/internal/middleware"
	"github.com/msl-itech/MSL-Conseil-sub002/internal/services"
	"github.com/msl-itech/MSL-Conseil-sub002/internal/utils"
)

func main() {
	if err := godotenv.Load(); err == nil {
		log.Printf("loaded .env")
	}
	addr := utils.SafeEnv("DIAG_ADDR", ":8080")
	commit := utils.SafeEnv("DIAG_COMMIT", "")
	buildTime := utils.SafeEnv("DIAG_BUILD_TIME", "")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog := guides.MustDefault()
	store := openStore()
	if st, ok := store.(*dbstore.SQLiteStore); ok {
		go pruneResults(ctx, st, utils.DurationEnv("DIAG_RESULT_RETENTION", defaultRetention))
	}

	cfg := api.Config{
		Store:         store,
		SecureCookies: utils.BoolEnv("DIAG_SECURE_COOKIES", false),
	}
	if leadURL := utils.SafeEnv("DIAG_LEAD_API_URL", ""); leadURL != "" {
		leads := services.NewLeadService(services.LeadConfig{
			APIURL:    leadURL,
			Signature: utils.SafeEnv("DIAG_LEAD_SIGNATURE", ""),
			ClientID:  utils.SafeEnv("DIAG_LEAD_CLIENT_ID", ""),
			CompanyID: utils.SafeEnv("DIAG_LEAD_COMPANY_ID", ""),
			Timeout:   utils.DurationEnv("DIAG_LEAD_TIMEOUT", 0),
		}, nil)
		cfg.Leads = leads
		cfg.LeadTimeout = leads.Timeout()
	} else {
		log.Printf("DIAG_LEAD_API_URL not set, lead sync disabled")
	}
	if secret := utils.SafeEnv("DIAG_SECRET", ""); secret != "" {
		configureSecrets(&cfg, []byte(secret), utils.BoolEnv("DIAG_SIGN_SHARE_LINKS", false))
	}

	rt := api.NewRouter(catalog, cfg)
	mux := http.NewServeMux()
	rt.Register(mux)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		locale := middleware.LocaleFromContext(r.Context())
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":         true,
			"name":       "Diagnostics API",
			"locale":     locale,
			"msg":        utils.T(locale, "health.ok"),
			"guides":     len(catalog.List()),
			"commit":     commit,
			"build_time": buildTime,
		})
	})
	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"commit":     commit,
			"build_time": buildTime,
		})
	})

	origins := strings.Split(utils.SafeEnv("DIAG_ALLOWED_ORIGIN", ""), ",")
	handler := middleware.CORS(origins)(middleware.APIHeaders(middleware.LocaleMiddleware(mux)))

	srv := &http.Server{Addr: addr, Handler: handler}
	go func() {
		log.Printf("diagnostics server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	// pending lead updates have their own timeouts
	rt.Wait()
	log.Printf("lead sync drained, bye")
}

const (
	defaultRetention = 180 * 24 * time.Hour
	pruneEvery       = 6 * time.Hour
)

// pruneResults drops stored results not rewritten within retention.
func pruneResults(ctx context.Context, st *dbstore.SQLiteStore, retention time.Duration) {
	t := time.NewTicker(pruneEvery)
	defer t.Stop()
	for {
		if n, err := st.PruneBefore(time.Now().Add(-retention)); err == nil && n > 0 {
			log.Printf("sqlite store: pruned %d results older than %s", n, retention)
		}
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

// openStore prefers SQLite when DIAG_SQLITE_PATH is set and falls back to the
// memory store, optionally mirrored to DIAG_SNAPSHOT_PATH.
func openStore() services.KeyValueStore {
	snapshotPath := utils.SafeEnv("DIAG_SNAPSHOT_PATH", "")
	sqlitePath := utils.SafeEnv("DIAG_SQLITE_PATH", "")
	if sqlitePath == "" {
		st, err := api.NewMemoryStoreFromPath(snapshotPath)
		if err != nil {
			log.Fatalf("memory store: %v", err)
		}
		return st
	}
	migrationsDir := utils.SafeEnv("DIAG_MIGRATIONS_DIR", "")
	if err := MigrateIfNeeded(snapshotPath, sqlitePath, migrationsDir); err != nil {
		log.Fatalf("legacy migration: %v", err)
	}
	sqlDB, err := dbstore.Open(sqlitePath)
	if err != nil {
		log.Fatalf("sqlite: %v", err)
	}
	if err := dbstore.RunMigrations(sqlDB, migrationsDir); err != nil {
		log.Fatalf("sqlite migrations: %v", err)
	}
	st, err := dbstore.NewSQLiteStore(sqlDB)
	if err != nil {
		log.Fatalf("sqlite store: %v", err)
	}
	if n, err := st.Count(); err == nil {
		log.Printf("sqlite store ready at %s (%d stored results)", sqlitePath, n)
	}
	return st
}

// configureSecrets derives the cookie keys and, when enabled, the share-link
// signing key from the one configured secret.
func configureSecrets(cfg *api.Config, secret []byte, signLinks bool) {
	var err error
	if cfg.CookieHashKey, err = utils.DeriveKey(secret, "visitor-cookie-hash", 32); err != nil {
		log.Fatalf("derive cookie key: %v", err)
	}
	if cfg.CookieBlockKey, err = utils.DeriveKey(secret, "visitor-cookie-block", 32); err != nil {
		log.Fatalf("derive cookie key: %v", err)
	}
	if !signLinks {
		return
	}
	shareKey, err := utils.DeriveKey(secret, "share-link", 32)
	if err != nil {
		log.Fatalf("derive share key: %v", err)
	}
	if cfg.Signer, err = services.NewShareSigner(shareKey); err != nil {
		log.Fatalf("share signer: %v", err)
	}
}
