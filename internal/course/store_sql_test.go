package course

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edutrack/edutrack/internal/db"
)

func openTestStore(t *testing.T) *SQLStore {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "course_test.db")
	dbh, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { dbh.Close() })

	// Selections reference a user row.
	_, err = dbh.ExecContext(context.Background(),
		`INSERT INTO users (id, username, full_name, email, password_hash, created_at, last_sign_in_at)
		 VALUES ('u1','u1','','u1@example.com','x',0,0)`)
	require.NoError(t, err)

	return NewSQLStore(dbh)
}

func TestResolveShortCodes(t *testing.T) {
	assert.Equal(t, "softwareEngineering", Resolve("SE"))
	assert.Equal(t, "dataStructures", Resolve("DS"))
	assert.Equal(t, "softwareEngineering", Resolve("softwareEngineering"))
	assert.Equal(t, "somethingElse", Resolve("somethingElse"))
}

func TestCatalogUpsert(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, Course{ID: "dataStructures", Name: "Data Structures"}))
	require.NoError(t, store.Upsert(ctx, Course{ID: "computerNetworks", Name: "Computer Networks"}))
	// Renaming keeps the ID.
	require.NoError(t, store.Upsert(ctx, Course{ID: "dataStructures", Name: "Data Structures II"}))

	cat, err := store.Catalog(ctx)
	require.NoError(t, err)
	require.Len(t, cat, 2)
	assert.Equal(t, "Computer Networks", cat[0].Name)
	assert.Equal(t, "Data Structures II", cat[1].Name)
}

func TestSelectionReplacesAndResetsMarks(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, Course{ID: "softwareEngineering", Name: "Software Engineering"}))
	require.NoError(t, store.Upsert(ctx, Course{ID: "dataStructures", Name: "Data Structures"}))

	// Short codes are accepted and canonicalized on save.
	require.NoError(t, store.SetSelection(ctx, "u1", []string{"SE", "dataStructures"}))

	sel, err := store.Selection(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, sel, 2)
	for _, s := range sel {
		assert.Zero(t, s.Marks)
	}

	ok, err := store.Enrolled(ctx, "u1", "SE")
	require.NoError(t, err)
	assert.True(t, ok)

	// Re-selecting replaces the prior set wholesale.
	require.NoError(t, store.SetSelection(ctx, "u1", []string{"dataStructures"}))
	sel, err = store.Selection(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, sel, 1)
	assert.Equal(t, "dataStructures", sel[0].ID)

	ok, err = store.Enrolled(ctx, "u1", "softwareEngineering")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetSelectionRejectsEmpty(t *testing.T) {
	store := openTestStore(t)
	err := store.SetSelection(context.Background(), "u1", nil)
	assert.ErrorIs(t, err, ErrEmptySelection)
}
