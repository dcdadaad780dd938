// Package persistence provides SQLite-based storage for simulation runs:
// the executed life-event log, end-of-run gameobject snapshots, and run
// metadata.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/storyworld/internal/ecs"
	"github.com/talgya/storyworld/internal/lifeevent"
)

// DB wraps a SQLite connection for run storage.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS life_events (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		roles_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS gameobjects (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		active INTEGER NOT NULL,
		components_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS run_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_life_events_name ON life_events(name);
	CREATE INDEX IF NOT EXISTS idx_life_events_timestamp ON life_events(timestamp);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// EventRow is the flat life-event record stored in and read back from the
// life_events table. Role bindings are kept as a name-to-id JSON object.
type EventRow struct {
	ID        uint64 `db:"id"`
	Name      string `db:"name"`
	Timestamp string `db:"timestamp"`
	RolesJSON string `db:"roles_json"`
}

// SaveEvents writes the full event log to the database (full replace). Log
// ids are globally unique and monotonic, so the primary key is taken from
// the event itself.
func (db *DB) SaveEvents(events []*lifeevent.LifeEvent) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM life_events"); err != nil {
		return err
	}

	stmt, err := tx.Preparex(
		"INSERT INTO life_events (id, name, timestamp, roles_json) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range events {
		roles := make(map[string]uint64, len(e.Roles()))
		for _, r := range e.Roles() {
			roles[r.Name] = r.GameObjectID
		}
		rolesJSON, _ := json.Marshal(roles)

		if _, err := stmt.Exec(e.ID(), e.Name(), e.Timestamp(), string(rolesJSON)); err != nil {
			return fmt.Errorf("insert life event %d: %w", e.ID(), err)
		}
	}

	return tx.Commit()
}

// SaveGameObjects writes snapshots of the given gameobjects (full replace).
func (db *DB) SaveGameObjects(gameobjects []*ecs.GameObject) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM gameobjects"); err != nil {
		return err
	}

	stmt, err := tx.Preparex(
		"INSERT INTO gameobjects (id, name, active, components_json) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, g := range gameobjects {
		snap := g.Snapshot()
		componentsJSON, _ := json.Marshal(snap["components"])

		active := 0
		if snap["active"].(bool) {
			active = 1
		}

		if _, err := stmt.Exec(g.ID(), g.Name(), active, string(componentsJSON)); err != nil {
			return fmt.Errorf("insert gameobject %d: %w", g.ID(), err)
		}
	}

	return tx.Commit()
}

// SaveMeta stores a key-value pair in run metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO run_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM run_meta WHERE key = ?", key)
	return value, err
}

// SaveRun performs a full export of one run: the event log, every live
// gameobject, and the final date.
func (db *DB) SaveRun(w *ecs.World) error {
	log := ecs.MustResource[lifeevent.EventLog](w)
	objects := w.GameObjects()
	slog.Info("saving run", "events", log.Len(), "gameobjects", len(objects))

	if err := db.SaveEvents(log.History()); err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	if err := db.SaveGameObjects(objects); err != nil {
		return fmt.Errorf("save gameobjects: %w", err)
	}

	slog.Info("run saved")
	return nil
}

// RecentEvents returns the most recent N life-event rows.
func (db *DB) RecentEvents(limit int) ([]EventRow, error) {
	var rows []EventRow
	err := db.conn.Select(&rows,
		"SELECT id, name, timestamp, roles_json FROM life_events ORDER BY id DESC LIMIT ?",
		limit,
	)
	return rows, err
}
