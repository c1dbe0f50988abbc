package services

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/expensekeeper/internal/common"
	"github.com/dmitrijs2005/expensekeeper/internal/cryptox"
	"github.com/dmitrijs2005/expensekeeper/internal/dbx"
	"github.com/dmitrijs2005/expensekeeper/internal/server/auth"
	"github.com/dmitrijs2005/expensekeeper/internal/server/models"
	"github.com/dmitrijs2005/expensekeeper/internal/server/repositories/expenses"
	usersrepo "github.com/dmitrijs2005/expensekeeper/internal/server/repositories/users"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

type fakeUsersRepo struct {
	byLogin map[string]*models.User
	byID    map[int64]*models.User

	createErr error
	getErr    error
	nextID    int64
}

func newFakeUsersRepo(users ...*models.User) *fakeUsersRepo {
	f := &fakeUsersRepo{byLogin: map[string]*models.User{}, byID: map[int64]*models.User{}}
	for _, u := range users {
		f.byLogin[u.UserName] = u
		f.byID[u.ID] = u
		f.nextID = max(f.nextID, u.ID)
	}
	return f
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	u.ID = f.nextID
	u.CreatedAt = time.Now()
	f.byLogin[u.UserName] = u
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUsersRepo) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byLogin[login]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

type fakeRepoManager struct {
	u *fakeUsersRepo
}

func (m *fakeRepoManager) DriverName() string                           { return "fake" }
func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return m.u }
func (m *fakeRepoManager) Expenses(db dbx.DBTX) expenses.Repository     { return nil }

func newUserService(t *testing.T, db *sql.DB, u *fakeUsersRepo) *UserService {
	t.Helper()
	s, err := NewUserService(db, &fakeRepoManager{u: u}, auth.NewHMACTokens([]byte("k"), time.Hour))
	if err != nil {
		t.Fatalf("NewUserService error: %v", err)
	}
	return s
}

func TestRegister_Success(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	repo := newFakeUsersRepo()
	s := newUserService(t, db, repo)

	u, err := s.Register(context.Background(), "  alice ", "pw")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if u.ID == 0 || u.UserName != "alice" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if !cryptox.VerifyPassword("pw", u.PasswordHash) {
		t.Fatal("stored hash does not verify")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestRegister_Duplicate(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	s := newUserService(t, db, newFakeUsersRepo(&models.User{ID: 1, UserName: "alice"}))

	_, err := s.Register(context.Background(), "alice", "pw")
	if !errors.Is(err, common.ErrorUserExists) {
		t.Fatalf("want ErrorUserExists, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestRegister_RaceLostToUniqueIndex(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	repo := newFakeUsersRepo()
	repo.createErr = common.ErrorUserExists
	s := newUserService(t, db, repo)

	_, err := s.Register(context.Background(), "alice", "pw")
	if !errors.Is(err, common.ErrorUserExists) {
		t.Fatalf("want ErrorUserExists, got %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	db, _ := newSQLMockDB(t)
	s := newUserService(t, db, newFakeUsersRepo())

	for _, in := range [][2]string{{"", "pw"}, {"   ", "pw"}, {"alice", ""}} {
		if _, err := s.Register(context.Background(), in[0], in[1]); !errors.Is(err, common.ErrorValidation) {
			t.Fatalf("Register(%q, %q): want ErrorValidation, got %v", in[0], in[1], err)
		}
	}
}

func TestRegister_StoreError(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	repo := newFakeUsersRepo()
	repo.getErr = errBoom{}
	s := newUserService(t, db, repo)

	_, err := s.Register(context.Background(), "bob", "pw")
	if err == nil || !regexp.MustCompile(`error creating user: .*boom`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestLogin_Flows(t *testing.T) {
	db, _ := newSQLMockDB(t)
	hash, err := cryptox.HashPassword("right")
	if err != nil {
		t.Fatal(err)
	}
	repo := newFakeUsersRepo(&models.User{ID: 7, UserName: "alice", PasswordHash: hash})
	s := newUserService(t, db, repo)
	ctx := context.Background()

	if _, err := s.Login(ctx, "ghost", "right"); !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("unknown user → unauthorized, got %v", err)
	}
	if _, err := s.Login(ctx, "alice", "wrong"); !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("wrong password → unauthorized, got %v", err)
	}

	token, err := s.Login(ctx, "alice", "right")
	if err != nil || token == "" {
		t.Fatalf("Login success: token=%q err=%v", token, err)
	}

	id, err := s.Authenticate(ctx, token)
	if err != nil || id != 7 {
		t.Fatalf("Authenticate: id=%d err=%v", id, err)
	}

	repo.getErr = errBoom{}
	if _, err := s.Login(ctx, "alice", "right"); !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("store failure → ErrorInternal, got %v", err)
	}
}

func TestAuthenticate_WrapsTokenErrors(t *testing.T) {
	db, _ := newSQLMockDB(t)
	s := newUserService(t, db, newFakeUsersRepo())

	_, err := s.Authenticate(context.Background(), "not-a-token")
	if !errors.Is(err, common.ErrorUnauthorized) || !errors.Is(err, common.ErrMalformedToken) {
		t.Fatalf("want unauthorized + malformed, got %v", err)
	}

	other := auth.NewHMACTokens([]byte("other"), time.Hour)
	foreign, _ := other.Issue(1)
	_, err = s.Authenticate(context.Background(), foreign)
	if !errors.Is(err, common.ErrInvalidSignature) {
		t.Fatalf("want invalid signature, got %v", err)
	}
}

func TestMe(t *testing.T) {
	db, _ := newSQLMockDB(t)
	s := newUserService(t, db, newFakeUsersRepo(&models.User{ID: 3, UserName: "carol"}))

	u, err := s.Me(context.Background(), 3)
	if err != nil || u.UserName != "carol" {
		t.Fatalf("Me: %+v, %v", u, err)
	}
	if _, err := s.Me(context.Background(), 4); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
}
