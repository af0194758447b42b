package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/dbx"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/users"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

type fakeUsersRepo struct {
	byEmail map[string]*models.User
	byID    map[int64]*models.User
	nextID  int64

	createErr error
	getErr    error
}

func newFakeUsers() *fakeUsersRepo {
	return &fakeUsersRepo{byEmail: map[string]*models.User{}, byID: map[int64]*models.User{}}
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return nil, common.ErrAlreadyExists
	}
	f.nextID++
	u.ID = f.nextID
	f.byEmail[u.Email] = u
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

type fakeProfilesRepo struct {
	rows      map[int64]*models.Profile
	createErr error
	getErr    error
}

func newFakeProfiles() *fakeProfilesRepo {
	return &fakeProfilesRepo{rows: map[int64]*models.Profile{}}
}

func (f *fakeProfilesRepo) CreateEmpty(_ context.Context, userID int64) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.rows[userID] = &models.Profile{UserID: userID}
	return nil
}

func (f *fakeProfilesRepo) Get(_ context.Context, userID int64) (*models.Profile, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.rows[userID]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfilesRepo) Update(ctx context.Context, userID int64, in models.ProfileFields) (*models.Profile, error) {
	p, ok := f.rows[userID]
	if !ok {
		return nil, common.ErrNotFound
	}
	p.Bio, p.Company, p.Position, p.Phone, p.AvatarURL = in.Bio, in.Company, in.Position, in.Phone, in.AvatarURL
	return f.Get(ctx, userID)
}

type fakeTasksRepo struct {
	docs    map[int64]json.RawMessage
	saveErr error
	getErr  error
}

func (f *fakeTasksRepo) Get(_ context.Context, userID int64) (*models.TaskDocument, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	d, ok := f.docs[userID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &models.TaskDocument{UserID: userID, Data: d}, nil
}

func (f *fakeTasksRepo) Save(_ context.Context, userID int64, data json.RawMessage) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if f.docs == nil {
		f.docs = map[int64]json.RawMessage{}
	}
	f.docs[userID] = data
	return nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	p *fakeProfilesRepo
	t *fakeTasksRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository             { return m.u }
func (m *fakeRepoManager) Profiles(dbx.DBTX) profiles.Repository       { return m.p }
func (m *fakeRepoManager) Tasks(dbx.DBTX) tasks.Repository             { return m.t }
