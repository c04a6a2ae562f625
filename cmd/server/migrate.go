package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/msl-itech/MSL-Conseil-sub002/internal/api"
	dbstore "github.com/msl-itech/MSL-Conseil-sub002/internal/db"
	"github.com/msl-itech/MSL-Conseil-sub002/internal/services"
)

// MigrateIfNeeded seeds a new SQLite file with the entries of the JSON
// snapshot used by the memory store. It does nothing once the file exists.
func MigrateIfNeeded(snapshotPath, sqlitePath, migrationsDir string) error {
	if sqlitePath == "" {
		return errors.New("sqlite path is required")
	}
	if _, err := os.Stat(sqlitePath); err == nil {
		return nil // already migrated
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("check sqlite file: %w", err)
	}
	if snapshotPath == "" {
		return nil
	}
	if _, err := os.Stat(snapshotPath); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	legacy, err := api.NewMemoryStoreFromPath(snapshotPath)
	if err != nil {
		return fmt.Errorf("load legacy snapshot: %w", err)
	}
	snapshot := legacy.Snapshot()
	if len(snapshot) == 0 {
		return nil
	}

	log.Printf("First run detected, migrating %d stored results from %s", len(snapshot), snapshotPath)

	if err := os.MkdirAll(filepath.Dir(sqlitePath), 0o755); err != nil {
		return fmt.Errorf("create sqlite dir: %w", err)
	}
	sqliteDB, err := dbstore.Open(sqlitePath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sqliteDB.Close(); cerr != nil {
			log.Printf("warning: failed to close sqlite db: %v", cerr)
		}
	}()
	if err := dbstore.RunMigrations(sqliteDB, migrationsDir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	dst, err := dbstore.NewSQLiteStore(sqliteDB)
	if err != nil {
		return fmt.Errorf("init sqlite store: %w", err)
	}
	if err := copySnapshotToStore(snapshot, dst); err != nil {
		return fmt.Errorf("copy data: %w", err)
	}
	log.Printf("Data migration completed successfully.")
	return nil
}

func copySnapshotToStore(snap map[string]string, dst services.KeyValueStore) error {
	keys := make([]string, 0, len(snap))
	for k := range snap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := dst.Set(k, snap[k]); err != nil {
			return fmt.Errorf("key %q: %w", k, err)
		}
	}
	return nil
}
