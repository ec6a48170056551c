// Package store persists versioned snapshots of fused submission data in
// SQLite. Every write creates a new immutable version row, so the table
// doubles as the audit trail: who changed what, when, and from which
// previous state.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/intakehq/docintel/internal/common"
)

// Schema for the versions table. Applied on Open.
const Schema = `
CREATE TABLE IF NOT EXISTS versions (
	version_id TEXT PRIMARY KEY,
	group_id TEXT NOT NULL,
	version_number INTEGER NOT NULL,
	created_at TEXT NOT NULL,
	created_by TEXT NOT NULL,
	action TEXT NOT NULL,
	notes TEXT NOT NULL DEFAULT '',
	data TEXT NOT NULL,
	UNIQUE (group_id, version_number)
);
CREATE INDEX IF NOT EXISTS idx_versions_group ON versions(group_id, version_number);
`

// Version is one immutable snapshot of a group's fused data.
type Version struct {
	VersionID     string          `json:"version_id"`
	GroupID       string          `json:"group_id"`
	VersionNumber int             `json:"version_number"`
	CreatedAt     time.Time       `json:"created_at"`
	CreatedBy     string          `json:"created_by"`
	Action        string          `json:"action"`
	Notes         string          `json:"notes,omitempty"`
	Data          json.RawMessage `json:"data,omitempty"`
}

// Notes are free text from operators; cap them so a misdirected payload
// cannot balloon the audit table.
func maxNotesLength(fieldName string, value interface{}) *common.ValidationError {
	return common.MaxLength(fieldName, value, 2000)
}

// VersionStore writes and reads version rows. Safe for concurrent use; the
// underlying *sql.DB pools connections.
type VersionStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the SQLite database at cfg.Path and
// applies the schema. A nil logger defaults to slog.Default().
func Open(cfg common.StoreConfig, logger *slog.Logger) (*VersionStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Path == "" {
		return nil, common.NewAppError("STORE_CONFIG_ERROR", "store path is empty", common.ErrInvalidInput)
	}
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, common.NewAppError("STORE_OPEN_ERROR", fmt.Sprintf("opening %s", cfg.Path), err)
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, common.NewAppError("STORE_SCHEMA_ERROR", "applying versions schema", err)
	}
	logger.Debug("store.opened", "path", cfg.Path)
	return &VersionStore{db: db, logger: logger}, nil
}

// Close releases the database handle.
func (s *VersionStore) Close() error {
	return s.db.Close()
}

// CreateVersion snapshots data as the group's next version and returns the
// new version id. The version number is assigned inside the insert
// transaction so concurrent writers cannot collide.
func (s *VersionStore) CreateVersion(ctx context.Context, groupID string, data any, createdBy, action, notes string) (string, error) {
	v := common.NewValidator().
		Field("group_id", groupID, common.Required).
		Field("action", action, common.Required).
		Field("notes", notes, maxNotesLength)
	if v.HasErrors() {
		return "", common.NewAppError("STORE_INVALID_INPUT", v.ErrorMessage(), common.ErrInvalidInput)
	}
	if createdBy == "" {
		createdBy = "system"
	}
	blob, err := json.Marshal(data)
	if err != nil {
		return "", common.NewAppError("STORE_MARSHAL_ERROR", "marshaling version data", err)
	}

	versionID := uuid.NewString()
	createdAt := time.Now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", common.NewAppError("STORE_TX_ERROR", "beginning version transaction", err)
	}
	defer tx.Rollback()

	var next int
	row := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version_number), 0) + 1 FROM versions WHERE group_id = ?`, groupID)
	if err := row.Scan(&next); err != nil {
		return "", common.NewAppError("STORE_QUERY_ERROR", "computing next version number", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO versions (version_id, group_id, version_number, created_at, created_by, action, notes, data)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		versionID, groupID, next, createdAt, createdBy, action, notes, string(blob))
	if err != nil {
		return "", common.NewAppError("STORE_INSERT_ERROR", "inserting version row", err)
	}
	if err := tx.Commit(); err != nil {
		return "", common.NewAppError("STORE_TX_ERROR", "committing version transaction", err)
	}

	s.logger.Info("store.version.created",
		"group_id", groupID,
		"version_id", versionID,
		"version_number", next,
		"action", action)
	return versionID, nil
}

// GetVersion fetches one version, including its data blob.
func (s *VersionStore) GetVersion(ctx context.Context, versionID string) (*Version, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT version_id, group_id, version_number, created_at, created_by, action, notes, data
		 FROM versions WHERE version_id = ?`, versionID)
	v, err := scanVersion(row, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NewAppError("VERSION_NOT_FOUND",
			fmt.Sprintf("version %s", versionID), common.ErrNotFound)
	}
	return v, err
}

// LatestVersion fetches the newest version of a group, or ErrNotFound when
// the group has never been snapshotted.
func (s *VersionStore) LatestVersion(ctx context.Context, groupID string) (*Version, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT version_id, group_id, version_number, created_at, created_by, action, notes, data
		 FROM versions WHERE group_id = ? ORDER BY version_number DESC LIMIT 1`, groupID)
	v, err := scanVersion(row, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NewAppError("VERSION_NOT_FOUND",
			fmt.Sprintf("no versions for group %s", groupID), common.ErrNotFound)
	}
	return v, err
}

// ListVersions returns the group's version summaries in chronological
// order. Data blobs are omitted; fetch a specific version for the payload.
func (s *VersionStore) ListVersions(ctx context.Context, groupID string) ([]Version, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT version_id, group_id, version_number, created_at, created_by, action, notes
		 FROM versions WHERE group_id = ? ORDER BY version_number ASC`, groupID)
	if err != nil {
		return nil, common.NewAppError("STORE_QUERY_ERROR", "listing versions", err)
	}
	defer rows.Close()

	var versions []Version
	for rows.Next() {
		v, err := scanVersion(rows, false)
		if err != nil {
			return nil, err
		}
		versions = append(versions, *v)
	}
	return versions, rows.Err()
}

// Rollback creates a new version carrying the data of an earlier one. The
// rolled-back-to version stays untouched; history only ever grows.
func (s *VersionStore) Rollback(ctx context.Context, groupID, versionID, user string) (string, error) {
	// Version ids are always minted as UUIDs, so anything else is a caller
	// bug rather than a missing row.
	if v := common.NewValidator().Field("version_id", versionID, common.UUID); v.HasErrors() {
		return "", common.NewAppError("STORE_INVALID_INPUT", v.ErrorMessage(), common.ErrInvalidInput)
	}
	target, err := s.GetVersion(ctx, versionID)
	if err != nil {
		return "", err
	}
	if target.GroupID != groupID {
		return "", common.NewAppError("VERSION_NOT_FOUND",
			fmt.Sprintf("version %s does not belong to group %s", versionID, groupID), common.ErrNotFound)
	}
	notes := fmt.Sprintf("rolled back to version %d", target.VersionNumber)
	return s.CreateVersion(ctx, groupID, json.RawMessage(target.Data), user, "rollback", notes)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVersion(row rowScanner, withData bool) (*Version, error) {
	var (
		v       Version
		created string
		data    string
	)
	dest := []any{&v.VersionID, &v.GroupID, &v.VersionNumber, &created, &v.CreatedBy, &v.Action, &v.Notes}
	if withData {
		dest = append(dest, &data)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return nil, common.NewAppError("STORE_SCAN_ERROR", "parsing created_at", err)
	}
	v.CreatedAt = t
	if withData {
		v.Data = json.RawMessage(data)
	}
	return &v, nil
}
