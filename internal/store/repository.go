package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Position is the last known reading position for a publication.
type Position struct {
	PublicationURL string
	Href           string
	Progression    float64
	UpdatedAt      time.Time
}

// Bookmark is a user-saved reading position.
type Bookmark struct {
	ID             string
	PublicationURL string
	Href           string
	Progression    float64
	Label          string
	CreatedAt      time.Time
}

// PositionRepo handles reading positions.
type PositionRepo struct {
	db *sql.DB
}

func NewPositionRepo(db *sql.DB) *PositionRepo { return &PositionRepo{db: db} }

// Upsert records the current position for a publication.
func (r *PositionRepo) Upsert(ctx context.Context, p Position) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO positions(publication_url, href, progression, updated_at)
	VALUES(?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(publication_url) DO UPDATE SET
	 href = excluded.href, progression = excluded.progression, updated_at = CURRENT_TIMESTAMP;
	`, p.PublicationURL, p.Href, p.Progression)
	return err
}

// Get returns the stored position for a publication, or sql.ErrNoRows.
func (r *PositionRepo) Get(ctx context.Context, publicationURL string) (Position, error) {
	var p Position
	err := r.db.QueryRowContext(ctx, `
	SELECT publication_url, href, progression, updated_at
	FROM positions WHERE publication_url = ?`, publicationURL).
		Scan(&p.PublicationURL, &p.Href, &p.Progression, &p.UpdatedAt)
	return p, err
}

// BookmarkRepo handles bookmarks.
type BookmarkRepo struct {
	db *sql.DB
}

func NewBookmarkRepo(db *sql.DB) *BookmarkRepo { return &BookmarkRepo{db: db} }

// Insert saves a bookmark, assigning an ID if empty.
func (r *BookmarkRepo) Insert(ctx context.Context, b Bookmark) (Bookmark, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO bookmarks(id, publication_url, href, progression, label, created_at)
	VALUES(?, ?, ?, ?, ?, CURRENT_TIMESTAMP);
	`, b.ID, b.PublicationURL, b.Href, b.Progression, b.Label)
	return b, err
}

// ListByPublication returns bookmarks for a publication, newest first.
func (r *BookmarkRepo) ListByPublication(ctx context.Context, publicationURL string) ([]Bookmark, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, publication_url, href, progression, label, created_at
	FROM bookmarks WHERE publication_url = ? ORDER BY created_at DESC, id`, publicationURL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Bookmark
	for rows.Next() {
		var b Bookmark
		if err := rows.Scan(&b.ID, &b.PublicationURL, &b.Href, &b.Progression, &b.Label, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Delete removes a bookmark by ID.
func (r *BookmarkRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = ?`, id)
	return err
}
