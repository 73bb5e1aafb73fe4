package storage

import (
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/solheim/briefd/internal/brand"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store wraps a SQLite database with methods for drafts, their messages,
// asked clarifying questions, and brand audience profiles.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite database in dataDir and runs pending migrations.
// Pass ":memory:" as dataDir for an in-memory database (used by tests).
func Open(dataDir string) (*Store, error) {
	var dsn string
	if dataDir == ":memory:" {
		dsn = ":memory:"
	} else {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		dsn = filepath.Join(dataDir, "briefd.db")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// Limit to single connection to avoid "database is locked" errors.
	db.SetMaxOpenConns(1)

	// Set busy timeout so concurrent access waits briefly instead of failing immediately.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate reads embedded SQL migration files and applies any that haven't been run yet.
func (s *Store) migrate() error {
	// Ensure schema_version table exists (bootstrap).
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort by filename to guarantee ascending order.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		version, err := parseMigrationVersion(entry.Name())
		if err != nil {
			return err
		}

		// Check if already applied.
		var exists int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM schema_version WHERE version = ?", version).Scan(&exists); err != nil {
			return fmt.Errorf("checking migration %d: %w", version, err)
		}
		if exists > 0 {
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning transaction for migration %d: %w", version, err)
		}

		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration %d: %w", version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", version, err)
		}
	}

	return nil
}

func parseMigrationVersion(filename string) (int, error) {
	var version int
	if _, err := fmt.Sscanf(filename, "%d_", &version); err != nil {
		return 0, fmt.Errorf("parsing migration version from %q: %w", filename, err)
	}
	return version, nil
}

// AppliedMigrations returns the list of applied migration versions in ascending order.
func (s *Store) AppliedMigrations() ([]int, error) {
	rows, err := s.db.Query("SELECT version FROM schema_version ORDER BY version ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// --- Drafts ---

func (s *Store) CreateDraft(d Draft) error {
	status := d.Status
	if status == "" {
		status = DraftActive
	}
	_, err := s.db.Exec(`
		INSERT INTO drafts (id, status, brief_json, summary, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		d.ID, status, d.BriefJSON, d.Summary,
		d.CreatedAt.UTC().Format(time.RFC3339), d.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

func (s *Store) GetDraft(id string) (Draft, error) {
	var d Draft
	var createdAt, updatedAt string
	err := s.db.QueryRow(`
		SELECT id, status, brief_json, summary, created_at, updated_at
		FROM drafts WHERE id = ?`, id,
	).Scan(&d.ID, &d.Status, &d.BriefJSON, &d.Summary, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return Draft{}, ErrNotFound
	}
	if err != nil {
		return Draft{}, err
	}
	if d.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return Draft{}, fmt.Errorf("parsing created_at: %w", err)
	}
	if d.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return Draft{}, fmt.Errorf("parsing updated_at: %w", err)
	}
	return d, nil
}

// ListDrafts returns the most recently updated drafts first.
func (s *Store) ListDrafts(limit int) ([]Draft, error) {
	rows, err := s.db.Query(`
		SELECT id, status, brief_json, summary, created_at, updated_at
		FROM drafts ORDER BY updated_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Draft
	for rows.Next() {
		var d Draft
		var createdAt, updatedAt string
		if err := rows.Scan(&d.ID, &d.Status, &d.BriefJSON, &d.Summary, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		if d.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		if d.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
			return nil, fmt.Errorf("parsing updated_at: %w", err)
		}
		results = append(results, d)
	}
	return results, rows.Err()
}

// UpdateDraftBrief stores the merged brief and its summary after a turn.
func (s *Store) UpdateDraftBrief(id, briefJSON, summary string, updatedAt time.Time) error {
	res, err := s.db.Exec(`UPDATE drafts SET brief_json = ?, summary = ?, updated_at = ? WHERE id = ?`,
		briefJSON, summary, updatedAt.UTC().Format(time.RFC3339), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ArchiveDraft(id string) error {
	res, err := s.db.Exec(`UPDATE drafts SET status = ? WHERE id = ?`, DraftArchived, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ArchiveIdleDrafts archives active drafts whose last update is older than
// the cutoff and reports how many were archived.
func (s *Store) ArchiveIdleDrafts(before time.Time) (int64, error) {
	res, err := s.db.Exec(`UPDATE drafts SET status = ? WHERE status = ? AND updated_at < ?`,
		DraftArchived, DraftActive, before.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// --- Draft messages ---

func (s *Store) AppendDraftMessage(m DraftMessage) error {
	_, err := s.db.Exec(`
		INSERT INTO draft_messages (id, draft_id, role, content, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.DraftID, m.Role, m.Content, m.CreatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// RecentDraftMessages returns up to n of the draft's latest messages in
// conversation order, most recent last.
func (s *Store) RecentDraftMessages(draftID string, n int) ([]DraftMessage, error) {
	rows, err := s.db.Query(`
		SELECT id, draft_id, role, content, created_at
		FROM draft_messages WHERE draft_id = ?
		ORDER BY rowid DESC LIMIT ?`, draftID, n,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []DraftMessage
	for rows.Next() {
		var m DraftMessage
		var createdAt string
		if err := rows.Scan(&m.ID, &m.DraftID, &m.Role, &m.Content, &createdAt); err != nil {
			return nil, err
		}
		if m.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		results = append(results, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Flip newest-first into conversation order.
	for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
		results[i], results[j] = results[j], results[i]
	}
	return results, nil
}

// --- Asked questions ---

// MarkQuestionAsked records that a clarifying question was surfaced for a
// draft so it is never asked twice.
func (s *Store) MarkQuestionAsked(draftID, questionID string, at time.Time) error {
	_, err := s.db.Exec(`
		INSERT INTO asked_questions (draft_id, question_id, asked_at) VALUES (?, ?, ?)
		ON CONFLICT(draft_id, question_id) DO NOTHING`,
		draftID, questionID, at.UTC().Format(time.RFC3339),
	)
	return err
}

func (s *Store) AskedQuestions(draftID string) (map[string]bool, error) {
	rows, err := s.db.Query("SELECT question_id FROM asked_questions WHERE draft_id = ?", draftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	asked := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		asked[id] = true
	}
	return asked, rows.Err()
}

// --- Audiences ---

// SaveAudience inserts or replaces an audience profile. List fields are
// stored as JSON text.
func (s *Store) SaveAudience(p brand.AudienceProfile) error {
	jobTitles, err := marshalList(p.JobTitles)
	if err != nil {
		return err
	}
	industries, err := marshalList(p.Industries)
	if err != nil {
		return err
	}
	psychographics, err := marshalList(p.Psychographics)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO audiences (id, name, job_titles, industries, psychographics, demographics, is_primary)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			job_titles = excluded.job_titles,
			industries = excluded.industries,
			psychographics = excluded.psychographics,
			demographics = excluded.demographics,
			is_primary = excluded.is_primary`,
		p.ID, p.Name, jobTitles, industries, psychographics, p.Demographics, boolToInt(p.IsPrimary),
	)
	return err
}

func (s *Store) ListAudiences() ([]brand.AudienceProfile, error) {
	rows, err := s.db.Query(`
		SELECT id, name, job_titles, industries, psychographics, demographics, is_primary
		FROM audiences ORDER BY is_primary DESC, name ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []brand.AudienceProfile
	for rows.Next() {
		var p brand.AudienceProfile
		var jobTitles, industries, psychographics string
		var isPrimary int
		if err := rows.Scan(&p.ID, &p.Name, &jobTitles, &industries, &psychographics, &p.Demographics, &isPrimary); err != nil {
			return nil, err
		}
		if p.JobTitles, err = unmarshalList(jobTitles); err != nil {
			return nil, fmt.Errorf("parsing job_titles for audience %s: %w", p.ID, err)
		}
		if p.Industries, err = unmarshalList(industries); err != nil {
			return nil, fmt.Errorf("parsing industries for audience %s: %w", p.ID, err)
		}
		if p.Psychographics, err = unmarshalList(psychographics); err != nil {
			return nil, fmt.Errorf("parsing psychographics for audience %s: %w", p.ID, err)
		}
		p.IsPrimary = isPrimary != 0
		results = append(results, p)
	}
	return results, rows.Err()
}

func (s *Store) DeleteAudience(id string) error {
	res, err := s.db.Exec(`DELETE FROM audiences WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func marshalList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encoding list: %w", err)
	}
	return string(b), nil
}

func unmarshalList(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var items []string
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return items, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
