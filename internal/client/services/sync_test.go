package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/client/client"
	"github.com/dmitrijs2005/gophtasks/internal/client/models"
	"github.com/dmitrijs2005/gophtasks/internal/client/repositories/kv"
	"github.com/dmitrijs2005/gophtasks/internal/client/store"
	"github.com/dmitrijs2005/gophtasks/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	authenticated bool
	logouts       int
}

func (f *fakeSession) IsAuthenticated() bool { return f.authenticated }
func (f *fakeSession) Logout(context.Context) error {
	f.logouts++
	f.authenticated = false
	return nil
}

func localStore(t *testing.T, clients ...string) (*store.Store, *kv.MemoryRepository) {
	t.Helper()
	repo := kv.NewMemoryRepository()
	s := store.New(repo, logging.Discard(), store.WithNow(func() time.Time { return time.UnixMilli(1000) }))
	for _, name := range clients {
		_, err := s.AddClient(context.Background(), name)
		require.NoError(t, err)
	}
	return s, repo
}

func TestReconcile_Unauthenticated_NoRemoteCalls(t *testing.T) {
	fc := &fakeClient{fetchRes: []models.Client{{ID: 1, Name: "Server"}}}
	s, _ := localStore(t, "Local")

	src := NewSyncService(fc, s, &fakeSession{}, logging.Discard()).Reconcile(context.Background())

	assert.Equal(t, SourceLocal, src)
	assert.Equal(t, 0, fc.calls)
	require.Len(t, s.Clients(), 1)
	assert.Equal(t, "Local", s.Clients()[0].Name)
}

func TestReconcile_RemoteEmpty_KeepsLocal(t *testing.T) {
	fc := &fakeClient{fetchRes: []models.Client{}}
	s, _ := localStore(t, "A", "B")

	src := NewSyncService(fc, s, &fakeSession{authenticated: true}, logging.Discard()).Reconcile(context.Background())

	assert.Equal(t, SourceLocal, src)
	assert.Equal(t, 1, fc.fetchCalls)
	assert.Len(t, s.Clients(), 2)
}

func TestReconcile_RemoteNonEmpty_Wins(t *testing.T) {
	remote := []models.Client{{ID: 9, Name: "Server", Tasks: []models.Task{{ID: 10, Text: "x", Urgency: models.UrgencyHigh}}}}
	fc := &fakeClient{fetchRes: remote}
	s, repo := localStore(t, "A", "B")

	src := NewSyncService(fc, s, &fakeSession{authenticated: true}, logging.Discard()).Reconcile(context.Background())

	assert.Equal(t, SourceServer, src)
	assert.Equal(t, remote, s.Clients())

	raw, err := repo.Get(context.Background(), kv.KeyClients)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"Server"`, "server copy written to the slot")
	assert.Empty(t, fc.pushed, "reconcile does not push")
}

func TestReconcile_FetchError_KeepsLocal(t *testing.T) {
	fc := &fakeClient{fetchErr: client.ErrUnavailable}
	s, _ := localStore(t, "A", "B")
	sess := &fakeSession{authenticated: true}

	src := NewSyncService(fc, s, sess, logging.Discard()).Reconcile(context.Background())

	assert.Equal(t, SourceLocal, src)
	assert.Len(t, s.Clients(), 2)
	assert.Equal(t, 0, sess.logouts)
}

func TestReconcile_RejectedToken_LogsOut(t *testing.T) {
	fc := &fakeClient{fetchErr: client.ErrUnauthorized}
	s, _ := localStore(t, "A")
	sess := &fakeSession{authenticated: true}

	src := NewSyncService(fc, s, sess, logging.Discard()).Reconcile(context.Background())

	assert.Equal(t, SourceLocal, src)
	assert.Equal(t, 1, sess.logouts)
	assert.Len(t, s.Clients(), 1)
}

func TestPush_SendsSnapshot(t *testing.T) {
	fc := &fakeClient{}
	s, _ := localStore(t, "A", "B")

	err := NewSyncService(fc, s, &fakeSession{authenticated: true}, logging.Discard()).Push(context.Background())
	require.NoError(t, err)
	require.Len(t, fc.pushed, 1)
	assert.Equal(t, s.Clients(), fc.pushed[0])
}

func TestPush_Unauthenticated_IsNoop(t *testing.T) {
	fc := &fakeClient{}
	s, _ := localStore(t, "A")

	require.NoError(t, NewSyncService(fc, s, &fakeSession{}, logging.Discard()).Push(context.Background()))
	assert.Empty(t, fc.pushed)
}

func TestPush_Unauthorized_EndsSession(t *testing.T) {
	fc := &fakeClient{pushErr: client.ErrUnauthorized}
	s, _ := localStore(t, "A")
	sess := &fakeSession{authenticated: true}

	err := NewSyncService(fc, s, sess, logging.Discard()).Push(context.Background())
	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Equal(t, 1, sess.logouts)
	assert.Len(t, s.Clients(), 1, "local data is kept")
}

func TestPush_OtherErrors_KeepSession(t *testing.T) {
	fc := &fakeClient{pushErr: errors.New("boom")}
	s, _ := localStore(t, "A")
	sess := &fakeSession{authenticated: true}

	err := NewSyncService(fc, s, sess, logging.Discard()).Push(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, sess.logouts)
}

func TestReplace_UsesPut(t *testing.T) {
	fc := &fakeClient{}
	s, _ := localStore(t, "A", "B")

	err := NewSyncService(fc, s, &fakeSession{authenticated: true}, logging.Discard()).Replace(context.Background())
	require.NoError(t, err)
	assert.Empty(t, fc.pushed)
	require.Len(t, fc.replaced, 1)
	assert.Equal(t, s.Clients(), fc.replaced[0])
}

func TestReplace_Unauthenticated_IsNoop(t *testing.T) {
	fc := &fakeClient{}
	s, _ := localStore(t, "A")

	require.NoError(t, NewSyncService(fc, s, &fakeSession{}, logging.Discard()).Replace(context.Background()))
	assert.Equal(t, 0, fc.calls)
}

func TestReplace_Unauthorized_EndsSession(t *testing.T) {
	fc := &fakeClient{replaceErr: client.ErrUnauthorized}
	s, _ := localStore(t, "A")
	sess := &fakeSession{authenticated: true}

	err := NewSyncService(fc, s, sess, logging.Discard()).Replace(context.Background())
	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Equal(t, 1, sess.logouts)
}
