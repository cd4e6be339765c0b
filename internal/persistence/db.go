// Package persistence archives exported run snapshots in SQLite.
package persistence

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/chronica/internal/graph"
)

// DB wraps a SQLite connection for run archival.
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
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		seed INTEGER NOT NULL,
		tick INTEGER NOT NULL,
		epoch INTEGER NOT NULL,
		era TEXT NOT NULL,
		entity_count INTEGER NOT NULL,
		relationship_count INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS entities (
		run_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		id INTEGER NOT NULL,
		kind TEXT NOT NULL,
		subtype TEXT,
		name TEXT NOT NULL,
		description TEXT,
		status TEXT,
		prominence INTEGER NOT NULL,
		tags_json TEXT NOT NULL,
		created_tick INTEGER NOT NULL,
		updated_tick INTEGER NOT NULL,
		PRIMARY KEY (run_id, id)
	);

	CREATE TABLE IF NOT EXISTS relationships (
		run_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		kind TEXT NOT NULL,
		src INTEGER NOT NULL,
		dst INTEGER NOT NULL,
		PRIMARY KEY (run_id, seq)
	);

	CREATE TABLE IF NOT EXISTS pressures (
		run_id TEXT NOT NULL,
		name TEXT NOT NULL,
		value REAL NOT NULL,
		PRIMARY KEY (run_id, name)
	);

	CREATE TABLE IF NOT EXISTS events (
		run_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		tick INTEGER NOT NULL,
		era TEXT NOT NULL,
		type TEXT NOT NULL,
		description TEXT NOT NULL,
		created_json TEXT NOT NULL,
		modified_json TEXT NOT NULL,
		relationships_json TEXT NOT NULL,
		PRIMARY KEY (run_id, seq)
	);

	CREATE INDEX IF NOT EXISTS idx_entities_kind ON entities(run_id, kind);
	CREATE INDEX IF NOT EXISTS idx_events_tick ON events(run_id, tick);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveRun archives a snapshot under a fresh run identifier and returns it.
func (db *DB) SaveRun(seed int64, snap graph.Snapshot) (string, error) {
	runID := uuid.NewString()

	tx, err := db.conn.Beginx()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO runs
		(id, created_at, seed, tick, epoch, era, entity_count, relationship_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, time.Now().UTC().Format(time.RFC3339), seed,
		snap.Meta.Tick, snap.Meta.Epoch, snap.Meta.Era,
		snap.Meta.EntityCount, snap.Meta.RelationshipCount,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	entStmt, err := tx.Preparex(`INSERT INTO entities
		(run_id, seq, id, kind, subtype, name, description, status, prominence,
		 tags_json, created_tick, updated_tick)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer entStmt.Close()

	for i, e := range snap.Entities {
		tagsJSON, _ := json.Marshal(e.Tags)
		if _, err := entStmt.Exec(
			runID, i, e.ID, e.Kind, e.Subtype, e.Name, e.Description, e.Status,
			e.Prominence, string(tagsJSON), e.CreatedAt, e.UpdatedAt,
		); err != nil {
			return "", fmt.Errorf("insert entity %d: %w", e.ID, err)
		}
	}

	for i, r := range snap.Relationships {
		if _, err := tx.Exec(
			"INSERT INTO relationships (run_id, seq, kind, src, dst) VALUES (?, ?, ?, ?, ?)",
			runID, i, r.Kind, r.Src, r.Dst,
		); err != nil {
			return "", fmt.Errorf("insert relationship %d: %w", i, err)
		}
	}

	for name, value := range snap.Pressures {
		if _, err := tx.Exec(
			"INSERT INTO pressures (run_id, name, value) VALUES (?, ?, ?)",
			runID, name, value,
		); err != nil {
			return "", fmt.Errorf("insert pressure %s: %w", name, err)
		}
	}

	for i, ev := range snap.History {
		createdJSON, _ := json.Marshal(ev.EntitiesCreated)
		modifiedJSON, _ := json.Marshal(ev.EntitiesModified)
		relsJSON, _ := json.Marshal(ev.RelationshipsCreated)
		if _, err := tx.Exec(`INSERT INTO events
			(run_id, seq, tick, era, type, description, created_json, modified_json, relationships_json)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, i, ev.Tick, ev.Era, ev.Type, ev.Description,
			string(createdJSON), string(modifiedJSON), string(relsJSON),
		); err != nil {
			return "", fmt.Errorf("insert event %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return runID, nil
}

// LatestRunID returns the most recently archived run's identifier.
func (db *DB) LatestRunID() (string, error) {
	var id string
	err := db.conn.Get(&id, "SELECT id FROM runs ORDER BY rowid DESC LIMIT 1")
	if err != nil {
		return "", fmt.Errorf("latest run: %w", err)
	}
	return id, nil
}

// LoadSnapshot reconstructs an archived snapshot.
func (db *DB) LoadSnapshot(runID string) (graph.Snapshot, error) {
	var snap graph.Snapshot

	var meta struct {
		Tick              uint64 `db:"tick"`
		Epoch             int    `db:"epoch"`
		Era               string `db:"era"`
		EntityCount       int    `db:"entity_count"`
		RelationshipCount int    `db:"relationship_count"`
	}
	err := db.conn.Get(&meta,
		"SELECT tick, epoch, era, entity_count, relationship_count FROM runs WHERE id = ?", runID)
	if err != nil {
		return snap, fmt.Errorf("load run %s: %w", runID, err)
	}
	snap.Meta = graph.SnapshotMeta{
		Tick:              meta.Tick,
		Epoch:             meta.Epoch,
		Era:               meta.Era,
		EntityCount:       meta.EntityCount,
		RelationshipCount: meta.RelationshipCount,
	}

	var entityRows []struct {
		ID          uint64 `db:"id"`
		Kind        string `db:"kind"`
		Subtype     string `db:"subtype"`
		Name        string `db:"name"`
		Description string `db:"description"`
		Status      string `db:"status"`
		Prominence  uint8  `db:"prominence"`
		TagsJSON    string `db:"tags_json"`
		CreatedTick uint64 `db:"created_tick"`
		UpdatedTick uint64 `db:"updated_tick"`
	}
	err = db.conn.Select(&entityRows, `SELECT id, kind, subtype, name, description,
		status, prominence, tags_json, created_tick, updated_tick
		FROM entities WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return snap, fmt.Errorf("load entities: %w", err)
	}
	for _, row := range entityRows {
		var tags []string
		json.Unmarshal([]byte(row.TagsJSON), &tags)
		snap.Entities = append(snap.Entities, graph.Entity{
			ID:          graph.EntityID(row.ID),
			Kind:        row.Kind,
			Subtype:     row.Subtype,
			Name:        row.Name,
			Description: row.Description,
			Status:      row.Status,
			Prominence:  graph.Prominence(row.Prominence),
			Tags:        tags,
			CreatedAt:   row.CreatedTick,
			UpdatedAt:   row.UpdatedTick,
		})
	}

	var relRows []struct {
		Kind string `db:"kind"`
		Src  uint64 `db:"src"`
		Dst  uint64 `db:"dst"`
	}
	err = db.conn.Select(&relRows,
		"SELECT kind, src, dst FROM relationships WHERE run_id = ? ORDER BY seq", runID)
	if err != nil {
		return snap, fmt.Errorf("load relationships: %w", err)
	}
	for _, row := range relRows {
		snap.Relationships = append(snap.Relationships, graph.Relationship{
			Kind: row.Kind,
			Src:  graph.EntityID(row.Src),
			Dst:  graph.EntityID(row.Dst),
		})
	}

	var pressureRows []struct {
		Name  string  `db:"name"`
		Value float64 `db:"value"`
	}
	err = db.conn.Select(&pressureRows,
		"SELECT name, value FROM pressures WHERE run_id = ?", runID)
	if err != nil {
		return snap, fmt.Errorf("load pressures: %w", err)
	}
	snap.Pressures = make(map[string]float64, len(pressureRows))
	for _, row := range pressureRows {
		snap.Pressures[row.Name] = row.Value
	}

	events, err := db.RunEvents(runID, 0)
	if err != nil {
		return snap, err
	}
	snap.History = events

	return snap, nil
}

// RunEvents returns a run's archived history events in order. A positive
// limit keeps only the most recent events; 0 means all of them.
func (db *DB) RunEvents(runID string, limit int) ([]graph.HistoryEvent, error) {
	query := `SELECT tick, era, type, description, created_json, modified_json, relationships_json
		FROM events WHERE run_id = ? ORDER BY seq`
	args := []any{runID}
	if limit > 0 {
		query = `SELECT tick, era, type, description, created_json, modified_json, relationships_json
			FROM (SELECT * FROM events WHERE run_id = ? ORDER BY seq DESC LIMIT ?)
			ORDER BY seq`
		args = append(args, limit)
	}

	var rows []struct {
		Tick              uint64 `db:"tick"`
		Era               string `db:"era"`
		Type              string `db:"type"`
		Description       string `db:"description"`
		CreatedJSON       string `db:"created_json"`
		ModifiedJSON      string `db:"modified_json"`
		RelationshipsJSON string `db:"relationships_json"`
	}
	if err := db.conn.Select(&rows, query, args...); err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}

	events := make([]graph.HistoryEvent, 0, len(rows))
	for _, row := range rows {
		ev := graph.HistoryEvent{
			Tick:        row.Tick,
			Era:         row.Era,
			Type:        row.Type,
			Description: row.Description,
		}
		json.Unmarshal([]byte(row.CreatedJSON), &ev.EntitiesCreated)
		json.Unmarshal([]byte(row.ModifiedJSON), &ev.EntitiesModified)
		json.Unmarshal([]byte(row.RelationshipsJSON), &ev.RelationshipsCreated)
		events = append(events, ev)
	}
	return events, nil
}
