package migrations

import (
	"io/fs"
	"strings"
	"testing"
)

// TestMigrationsPaired verifies every embedded up migration has a down
// migration with the same version prefix.
func TestMigrationsPaired(t *testing.T) {
	ups, err := fs.Glob(FS, "*.up.sql")
	if err != nil {
		t.Fatal(err)
	}
	if len(ups) == 0 {
		t.Fatal("no up migrations embedded")
	}
	for _, up := range ups {
		down := strings.TrimSuffix(up, ".up.sql") + ".down.sql"
		if _, err := fs.Stat(FS, down); err != nil {
			t.Errorf("%s has no matching %s", up, down)
		}
	}
}

// TestInitCreatesTables verifies the initial migration creates the tables
// the storage layer queries.
func TestInitCreatesTables(t *testing.T) {
	b, err := fs.ReadFile(FS, "000001_init.up.sql")
	if err != nil {
		t.Fatal(err)
	}
	sql := string(b)
	for _, table := range []string{"users", "workout_sets", "import_logs"} {
		if !strings.Contains(sql, "CREATE TABLE "+table) && !strings.Contains(sql, "CREATE TABLE IF NOT EXISTS "+table) {
			t.Errorf("initial migration does not create %s", table)
		}
	}
}
