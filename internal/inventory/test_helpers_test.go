package inventory

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// testDB creates a temporary SQLite database with the inventory schema
// applied. The database file is cleaned up when the test completes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	// Use a temp file so WAL mode works (in-memory doesn't support it)
	f, err := os.CreateTemp("", "inventory-test-*.db")
	if err != nil {
		t.Fatalf("creating temp db: %v", err)
	}
	dbPath := f.Name()
	f.Close()
	t.Cleanup(func() { os.Remove(dbPath) })

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schema := `
		CREATE TABLE racks (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			location TEXT,
			height INTEGER NOT NULL DEFAULT 42 CHECK (height >= 1),
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		) STRICT;

		CREATE INDEX idx_racks_name ON racks(name);

		CREATE TABLE devices (
			id TEXT PRIMARY KEY,
			rack_id TEXT NOT NULL,
			name TEXT NOT NULL,
			device_type TEXT,
			u_position INTEGER NOT NULL CHECK (u_position >= 1),
			u_height INTEGER NOT NULL CHECK (u_height >= 1),
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			FOREIGN KEY (rack_id) REFERENCES racks(id) ON DELETE CASCADE
		) STRICT;

		CREATE INDEX idx_devices_rack ON devices(rack_id);

		CREATE TABLE ports (
			id TEXT PRIMARY KEY,
			device_id TEXT NOT NULL,
			name TEXT NOT NULL,
			connected_to_id TEXT,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			FOREIGN KEY (device_id) REFERENCES devices(id) ON DELETE CASCADE,
			FOREIGN KEY (connected_to_id) REFERENCES ports(id) ON DELETE SET NULL
		) STRICT;

		CREATE INDEX idx_ports_device ON ports(device_id);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("applying inventory schema: %v", err)
	}

	return db
}

// seedTestRack inserts a rack and returns it.
func seedTestRack(t *testing.T, db *sql.DB, name string, height int) *Rack {
	t.Helper()

	repo := NewRackRepository(db)
	rack := &Rack{Name: name, Height: height}
	if err := repo.Create(context.Background(), rack); err != nil {
		t.Fatalf("creating test rack %s: %v", name, err)
	}
	return rack
}

// seedTestDevice inserts a device into a rack and returns it.
func seedTestDevice(t *testing.T, db *sql.DB, rackID, name string, pos, height int) *Device {
	t.Helper()

	repo := NewDeviceRepository(db)
	device := &Device{
		RackID:    rackID,
		Name:      name,
		UPosition: pos,
		UHeight:   height,
	}
	if err := repo.Create(context.Background(), device); err != nil {
		t.Fatalf("creating test device %s: %v", name, err)
	}
	return device
}

// seedTestPorts creates a batch of ports on a device.
func seedTestPorts(t *testing.T, db *sql.DB, deviceID string, names ...string) []Port {
	t.Helper()

	repo := NewPortRepository(db)
	ports, err := repo.CreateBatch(context.Background(), deviceID, names)
	if err != nil {
		t.Fatalf("creating test ports on %s: %v", deviceID, err)
	}
	return ports
}
