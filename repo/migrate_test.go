package repo

import (
	"io/fs"
	"strings"
	"testing"
)

func TestMigrationsEmbedded(t *testing.T) {
	for _, driver := range []string{"postgres", "mysql"} {
		dir, err := migrationDir(driver)
		if err != nil {
			t.Fatalf("migrationDir(%s): %v", driver, err)
		}

		entries, err := fs.ReadDir(migrations, dir)
		if err != nil {
			t.Fatalf("read %s: %v", dir, err)
		}

		var ups, downs int
		for _, e := range entries {
			switch {
			case strings.HasSuffix(e.Name(), ".up.sql"):
				ups++
			case strings.HasSuffix(e.Name(), ".down.sql"):
				downs++
			}
		}
		if ups == 0 || ups != downs {
			t.Fatalf("%s: %d up and %d down migrations", driver, ups, downs)
		}

		b, err := fs.ReadFile(migrations, dir+"/000001_create_email_tables.up.sql")
		if err != nil {
			t.Fatalf("read up migration: %v", err)
		}
		for _, table := range []string{"templates", "sent_emails", "email_opens", "email_clicks"} {
			if !strings.Contains(string(b), "CREATE TABLE IF NOT EXISTS "+table) {
				t.Fatalf("%s: table %s missing", driver, table)
			}
		}
		if strings.Count(string(b), "ON DELETE CASCADE") != 3 {
			t.Fatalf("%s: expected three cascading foreign keys", driver)
		}
	}
}

func TestMigrationDirUnknownDriver(t *testing.T) {
	if _, err := migrationDir("sqlite"); err != ErrUnsupportedDriver {
		t.Fatalf("err = %v, want ErrUnsupportedDriver", err)
	}
}
