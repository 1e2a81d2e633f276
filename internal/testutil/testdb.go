package testutil

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"hagere-admin/internal/store"

	"github.com/caarlos0/env/v11"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type dbConfig struct {
	DSN string `env:"TEST_POSTGRES_DSN,required,notEmpty"`
}

// OpenTestStore hands the test a Store on its own throwaway schema with
// the staff_sessions migration applied, and drops the schema when the
// test finishes. Tests skip when TEST_POSTGRES_DSN is not set.
func OpenTestStore(t *testing.T) *store.Store {
	t.Helper()
	var cfg dbConfig
	if err := env.Parse(&cfg); err != nil {
		t.Skipf("skip test db: %v", err)
	}

	schema := fmt.Sprintf("staff_test_%d", time.Now().UnixNano())
	quoted := pgx.Identifier{schema}.Sanitize()
	execAdmin(t, cfg.DSN, "CREATE SCHEMA "+quoted)

	st, err := store.New(schemaDSN(cfg.DSN, schema))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
		execAdmin(t, cfg.DSN, "DROP SCHEMA "+quoted+" CASCADE")
	})

	if _, err := st.Pool.Exec(context.Background(), sessionsMigration(t)); err != nil {
		t.Fatalf("apply staff_sessions migration: %v", err)
	}
	return st
}

// execAdmin runs one statement over a short-lived connection to the
// base database, outside the per-test schema.
func execAdmin(t *testing.T, dsn, sql string) {
	t.Helper()
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("open admin pool: %v", err)
	}
	defer pool.Close()
	if _, err := pool.Exec(context.Background(), sql); err != nil {
		t.Fatalf("%s: %v", sql, err)
	}
}

// sessionsMigration loads the init migration from the module root,
// found by walking up from the test's working directory to go.mod.
func sessionsMigration(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			b, err := os.ReadFile(filepath.Join(dir, "migrations", "000001_init.up.sql"))
			if err != nil {
				t.Fatalf("read init migration: %v", err)
			}
			return string(b)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("module root with go.mod not found")
		}
		dir = parent
	}
}

func schemaDSN(dsn, schema string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "search_path=" + url.QueryEscape(schema)
}
