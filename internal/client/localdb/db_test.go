package localdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/gophtasks/internal/client/repositories/kv"
	"github.com/stretchr/testify/require"
)

func TestOpen_InMemory_MigratesSchema(t *testing.T) {
	db, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := kv.NewSQLiteRepository(db)
	require.NoError(t, repo.Set(context.Background(), kv.KeyClients, []byte("[]")))
}

func TestOpen_FileSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "client.db")
	ctx := context.Background()

	db, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, kv.NewSQLiteRepository(db).Set(ctx, kv.KeyAuthToken, []byte("tok")))
	require.NoError(t, db.Close())

	db, err = Open(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	v, err := kv.NewSQLiteRepository(db).Get(ctx, kv.KeyAuthToken)
	require.NoError(t, err)
	require.Equal(t, []byte("tok"), v)
}
