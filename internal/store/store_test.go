package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "folio.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, RunMigrations(db))
	return db
}

func TestPositionUpsertRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewPositionRepo(newTestDB(t))

	pub := "https://example.com/moby-dick.epub"
	require.NoError(t, repo.Upsert(ctx, Position{PublicationURL: pub, Href: "chap1.xhtml", Progression: 0.1}))
	require.NoError(t, repo.Upsert(ctx, Position{PublicationURL: pub, Href: "chap3.xhtml", Progression: 0.42}))

	got, err := repo.Get(ctx, pub)
	require.NoError(t, err)
	require.Equal(t, "chap3.xhtml", got.Href)
	require.InDelta(t, 0.42, got.Progression, 1e-9)
}

func TestPositionGetMissing(t *testing.T) {
	repo := NewPositionRepo(newTestDB(t))
	_, err := repo.Get(context.Background(), "https://example.com/unknown.epub")
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestBookmarks(t *testing.T) {
	ctx := context.Background()
	repo := NewBookmarkRepo(newTestDB(t))

	pub := "https://example.com/moby-dick.epub"
	first, err := repo.Insert(ctx, Bookmark{PublicationURL: pub, Href: "chap1.xhtml", Progression: 0.1, Label: "the whale"})
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	_, err = repo.Insert(ctx, Bookmark{PublicationURL: pub, Href: "chap2.xhtml", Progression: 0.3, Label: "ishmael"})
	require.NoError(t, err)
	_, err = repo.Insert(ctx, Bookmark{PublicationURL: "https://example.com/other.epub", Href: "a.xhtml"})
	require.NoError(t, err)

	list, err := repo.ListByPublication(ctx, pub)
	require.NoError(t, err)
	require.Len(t, list, 2)

	require.NoError(t, repo.Delete(ctx, first.ID))
	list, err = repo.ListByPublication(ctx, pub)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "ishmael", list[0].Label)
}
