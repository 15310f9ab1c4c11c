package migrate_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/meditrack/meditrack-api/pkg/migrate"
)

func readMigration(t *testing.T, suffix string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", "*_"+suffix+".sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no %s migration file found", suffix)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func assertContains(t *testing.T, content string, checks []string) {
	t.Helper()
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestInventoryMigrationContainsConstraints(t *testing.T) {
	assertContains(t, readMigration(t, "create_inventory"), []string{
		"CREATE TABLE IF NOT EXISTS bed_inventory",
		"CHECK (available_beds >= 0 AND available_beds <= total_beds)",
		"version bigint NOT NULL DEFAULT 1",
		"CHECK (units_available >= 0)",
		"CHECK (units_reserved >= 0)",
		"CREATE TABLE IF NOT EXISTS update_logs",
		"DROP TABLE IF EXISTS bed_inventory",
	})
}

func TestHospitalMigrationStoresPreciseCoordinates(t *testing.T) {
	assertContains(t, readMigration(t, "create_hospitals"), []string{
		"latitude numeric(10,7)",
		"longitude numeric(10,7)",
		"CONSTRAINT hospital_staff_user_unique UNIQUE (user_id)",
		"CHECK (role IN ('staff', 'admin'))",
	})
}

func TestAlertsMigrationGuardsResolution(t *testing.T) {
	assertContains(t, readMigration(t, "create_alerts"), []string{
		"CREATE TABLE IF NOT EXISTS alerts",
		"CHECK (is_resolved = (resolved_at IS NOT NULL))",
		"WHERE NOT is_resolved",
		"DROP TABLE IF EXISTS alerts",
	})
}

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestCreateSQLMigrationSanitizesName(t *testing.T) {
	dir := t.TempDir()
	path, err := migrate.CreateSQLMigration(dir, "Add Alert Index!")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.HasSuffix(path, "_add_alert_index.sql") {
		t.Fatalf("unexpected filename %s", path)
	}
	if err := migrate.ValidateDir(dir); err != nil {
		t.Fatalf("created migration should validate: %v", err)
	}
}

func TestEmbeddedMigrationsMatchSourceTree(t *testing.T) {
	fsys, err := migrate.Source("")
	if err != nil {
		t.Fatalf("embedded source: %v", err)
	}
	if err := migrate.ValidateFS(fsys); err != nil {
		t.Fatalf("embedded set should validate: %v", err)
	}

	onDisk, err := filepath.Glob(filepath.Join("migrations", "*.sql"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	bundled, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		t.Fatalf("glob embedded: %v", err)
	}
	if len(bundled) != len(onDisk) {
		t.Fatalf("embedded %d migrations, tree has %d", len(bundled), len(onDisk))
	}
}

func TestSourceRejectsMissingDir(t *testing.T) {
	if _, err := migrate.Source(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatal("expected error for missing dir")
	}
}

func TestParseVersion(t *testing.T) {
	if v, err := migrate.ParseVersion("20260301090100"); err != nil || v != 20260301090100 {
		t.Fatalf("unexpected parse %d %v", v, err)
	}
	for _, raw := range []string{"", "2026", "2026030109010x"} {
		if _, err := migrate.ParseVersion(raw); err == nil {
			t.Fatalf("expected %q to be rejected", raw)
		}
	}
}

func TestNewRunnerRequiresDB(t *testing.T) {
	if _, err := migrate.NewRunner(nil, "", nil); err == nil {
		t.Fatal("expected nil db to be rejected")
	}
}
