package server

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophtasks/internal/server/config"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophtasks/internal/server/snapshots"
	"github.com/stretchr/testify/require"
)

type fakeRepoManager struct {
	repomanager.RepositoryManager
	migrateErr error
}

func (f *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return f.migrateErr }

func stubDeps(t *testing.T, rm *fakeRepoManager) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	oldOpen, oldRM, oldArchive := openDB, newRepoManager, newArchive
	t.Cleanup(func() { openDB, newRepoManager, newArchive = oldOpen, oldRM, oldArchive })

	openDB = func(string) (*sql.DB, error) { return db, nil }
	newRepoManager = func() repomanager.RepositoryManager { return rm }
	return mock
}

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.ListenAddr = "127.0.0.1:0"
	c.LogLevel = "error"
	return c
}

func TestNewApp_MigrationError(t *testing.T) {
	mock := stubDeps(t, &fakeRepoManager{migrateErr: errors.New("no db")})
	mock.ExpectClose()

	_, err := NewApp(testConfig())
	require.ErrorContains(t, err, "db init error: no db")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewApp_OpenError(t *testing.T) {
	stubDeps(t, &fakeRepoManager{})
	openDB = func(string) (*sql.DB, error) { return nil, errors.New("bad dsn") }

	_, err := NewApp(testConfig())
	require.ErrorContains(t, err, "bad dsn")
}

func TestNewApp_ArchiveOnlyWhenBucketSet(t *testing.T) {
	stubDeps(t, &fakeRepoManager{})
	called := false
	newArchive = func(context.Context, *config.Config) (snapshots.Archive, error) {
		called = true
		return snapshots.NopArchive{}, nil
	}

	_, err := NewApp(testConfig())
	require.NoError(t, err)
	require.False(t, called)

	c := testConfig()
	c.S3Bucket = "snapshots"
	_, err = NewApp(c)
	require.NoError(t, err)
	require.True(t, called)
}

func TestNewApp_ArchiveError(t *testing.T) {
	mock := stubDeps(t, &fakeRepoManager{})
	mock.ExpectClose()
	newArchive = func(context.Context, *config.Config) (snapshots.Archive, error) {
		return nil, errors.New("no creds")
	}

	c := testConfig()
	c.S3Bucket = "snapshots"
	_, err := NewApp(c)
	require.ErrorContains(t, err, "snapshot archive init error")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRun_StopsOnCancelAndClosesDB(t *testing.T) {
	mock := stubDeps(t, &fakeRepoManager{})
	mock.ExpectClose()

	app, err := NewApp(testConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return")
	}
	require.NoError(t, mock.ExpectationsWereMet())
}
