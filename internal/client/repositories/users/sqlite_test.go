package users

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/urchin/internal/client/migrations"
	"github.com/dmitrijs2005/urchin/internal/client/models"
	"github.com/dmitrijs2005/urchin/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.Up(context.Background(), db))
	return db
}

func TestUpsertAndFind(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	terms := time.Date(2022, 3, 4, 5, 6, 7, 0, time.UTC)

	u := &models.User{UserID: "u1", Username: "a@b.c", Emails: []string{"a@b.c", "d@e.f"}, TermsAccepted: terms}
	require.NoError(t, r.Upsert(ctx, u))

	got, err := r.FindByID(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a@b.c", got.Username)
	assert.Equal(t, []string{"a@b.c", "d@e.f"}, got.Emails)
	assert.True(t, got.TermsAccepted.Equal(terms))
	assert.Empty(t, got.ProfileID)
	assert.Empty(t, got.ViewableUserIDs)
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestUpsert_UpdatesInPlace(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, &models.User{UserID: "u1", Username: "old"}))
	require.NoError(t, r.SetProfileID(ctx, "u1", "u1"))
	require.NoError(t, r.SetViewableIDs(ctx, "u1", []string{"x", "y"}))

	require.NoError(t, r.Upsert(ctx, &models.User{UserID: "u1", Username: "new"}))

	got, err := r.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "new", got.Username)
	assert.Equal(t, "u1", got.ProfileID, "profile link survives an upsert without one")
	assert.Equal(t, []string{"x", "y"}, got.ViewableUserIDs)
}

func TestFindByID_Absent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	got, err := r.FindByID(context.Background(), "ghost")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestSetViewableIDs_ReplacesAndKeepsOrder(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	require.NoError(t, r.Upsert(ctx, &models.User{UserID: "u1"}))

	require.NoError(t, r.SetViewableIDs(ctx, "u1", []string{"c", "a", "b"}))
	got, err := r.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, got.ViewableUserIDs)

	require.NoError(t, r.SetViewableIDs(ctx, "u1", []string{"z"}))
	got, err = r.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"z"}, got.ViewableUserIDs)

	require.NoError(t, r.SetViewableIDs(ctx, "u1", nil))
	got, err = r.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, got.ViewableUserIDs)
}

func TestSetProfileID_UnknownUser(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	err := r.SetProfileID(context.Background(), "ghost", "ghost")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDeleteAll(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	require.NoError(t, r.Upsert(ctx, &models.User{UserID: "u1"}))
	require.NoError(t, r.SetViewableIDs(ctx, "u1", []string{"a"}))

	require.NoError(t, r.DeleteAll(ctx))

	got, err := r.FindByID(ctx, "u1")
	require.NoError(t, err)
	require.Nil(t, got)
}
