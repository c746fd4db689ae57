package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lattice-hq/sentinel/internal/crypto"
	"github.com/lattice-hq/sentinel/internal/token"
	"github.com/lattice-hq/sentinel/internal/user"
	apperrors "github.com/lattice-hq/sentinel/pkg/errors"
)

type fakeAdminStore struct {
	admins map[string]*Admin
}

func (f *fakeAdminStore) GetByEmail(_ context.Context, email string) (*Admin, error) {
	if a, ok := f.admins[email]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, ErrNotFound
}

type fakeUserStore struct {
	users map[uuid.UUID]*user.User
}

func (f *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	if u, ok := f.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, user.ErrNotFound
}

func (f *fakeUserStore) Update(_ context.Context, u *user.User) (*user.User, error) {
	if _, ok := f.users[u.ID]; !ok {
		return nil, user.ErrNotFound
	}
	copied := *u
	f.users[u.ID] = &copied
	return u, nil
}

func newTestService(t *testing.T) (*Service, *fakeUserStore, token.Classes) {
	t.Helper()

	hasher := crypto.NewHasher(crypto.HashParams{TimeCost: 1, MemoryKiB: 8 * 1024, Parallelism: 1})
	digest, err := hasher.Hash("admin password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	admins := &fakeAdminStore{admins: map[string]*Admin{
		"root@example.com": {
			ID:             uuid.New(),
			EmailAddress:   "root@example.com",
			PasswordDigest: digest,
		},
	}}
	users := &fakeUserStore{users: make(map[uuid.UUID]*user.User)}
	classes := token.Classes{
		AdminAccess: token.NewClass("admin-access", "admin-secret", time.Hour),
	}

	return NewService(admins, users, token.NewService(), hasher, classes), users, classes
}

func TestAdminSignIn(t *testing.T) {
	svc, _, classes := newTestService(t)
	ctx := context.Background()

	result, err := svc.SignIn(ctx, "ROOT@example.com", "admin password")
	if err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}
	if _, err := token.NewService().Verify(result.AccessToken, classes.AdminAccess); err != nil {
		t.Errorf("Verify(admin token) error = %v", err)
	}
}

func TestAdminSignInUniformFailure(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, unknownErr := svc.SignIn(ctx, "nobody@example.com", "admin password")
	_, wrongErr := svc.SignIn(ctx, "root@example.com", "wrong password")

	if !errors.Is(unknownErr, apperrors.ErrInvalidCredentials) {
		t.Errorf("unknown email error = %v, want %v", unknownErr, apperrors.ErrInvalidCredentials)
	}
	if !errors.Is(wrongErr, apperrors.ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want %v", wrongErr, apperrors.ErrInvalidCredentials)
	}
}

func TestSetUserBan(t *testing.T) {
	svc, users, _ := newTestService(t)
	ctx := context.Background()

	id := uuid.New()
	users.users[id] = &user.User{ID: id, EmailAddress: "ada@example.com"}

	updated, err := svc.SetUserBan(ctx, id, true)
	if err != nil {
		t.Fatalf("SetUserBan() error = %v", err)
	}
	if !updated.IsBanned {
		t.Error("SetUserBan(true) did not flag the user")
	}

	updated, err = svc.SetUserBan(ctx, id, false)
	if err != nil {
		t.Fatalf("SetUserBan() error = %v", err)
	}
	if updated.IsBanned {
		t.Error("SetUserBan(false) did not clear the flag")
	}

	if _, err := svc.SetUserBan(ctx, uuid.New(), true); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("SetUserBan(unknown) error = %v, want %v", err, apperrors.ErrNotFound)
	}
}
