package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lattice-hq/sentinel/internal/crypto"
	"github.com/lattice-hq/sentinel/internal/user"
	apperrors "github.com/lattice-hq/sentinel/pkg/errors"
)

type fakeStore struct {
	users map[uuid.UUID]*user.User
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	if u, ok := f.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, user.ErrNotFound
}

func (f *fakeStore) Update(_ context.Context, u *user.User) (*user.User, error) {
	if _, ok := f.users[u.ID]; !ok {
		return nil, user.ErrNotFound
	}
	copied := *u
	f.users[u.ID] = &copied
	return u, nil
}

func strPtr(s string) *string { return &s }

func newTestService(t *testing.T) (*Service, *fakeStore, uuid.UUID) {
	t.Helper()

	id := uuid.New()
	store := &fakeStore{users: map[uuid.UUID]*user.User{
		id: {
			ID:           id,
			FirstName:    "Ada",
			SecondName:   "Lovelace",
			EmailAddress: "ada@example.com",
		},
	}}

	cipher, err := crypto.NewFieldCipher("profile-test-secret")
	if err != nil {
		t.Fatalf("NewFieldCipher() error = %v", err)
	}

	return NewService(store, cipher, zap.NewNop()), store, id
}

func TestGetProfile(t *testing.T) {
	svc, _, id := newTestService(t)

	p, err := svc.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if p.FirstName != "Ada" || p.RecoveryPhone != "" {
		t.Errorf("Get() = %+v, want Ada with no recovery phone", p)
	}

	if _, err := svc.Get(context.Background(), uuid.New()); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("Get(unknown) error = %v, want %v", err, apperrors.ErrNotFound)
	}
}

func TestUpdateEncryptsRecoveryPhone(t *testing.T) {
	svc, store, id := newTestService(t)
	ctx := context.Background()

	p, err := svc.Update(ctx, id, &UpdateRequest{
		Username:      strPtr("ada.l"),
		RecoveryPhone: strPtr("+44 20 7946 0123"),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if p.RecoveryPhone != "+44 20 7946 0123" {
		t.Errorf("Update() recovery phone = %q, want plaintext back", p.RecoveryPhone)
	}
	if p.Username != "ada.l" {
		t.Errorf("Update() username = %q, want %q", p.Username, "ada.l")
	}

	stored := store.users[id]
	if !stored.RecoveryPhone.Valid {
		t.Fatal("recovery phone was not stored")
	}
	if stored.RecoveryPhone.String == "+44 20 7946 0123" {
		t.Error("recovery phone stored in plaintext")
	}

	// Round trip through Get to prove the stored value decrypts.
	got, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.RecoveryPhone != "+44 20 7946 0123" {
		t.Errorf("Get() recovery phone = %q, want decrypted value", got.RecoveryPhone)
	}
}

func TestUpdateClearsRecoveryPhone(t *testing.T) {
	svc, store, id := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Update(ctx, id, &UpdateRequest{RecoveryPhone: strPtr("+1 555 0100")}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if _, err := svc.Update(ctx, id, &UpdateRequest{RecoveryPhone: strPtr("")}); err != nil {
		t.Fatalf("Update(clear) error = %v", err)
	}

	if store.users[id].RecoveryPhone.Valid {
		t.Error("recovery phone was not cleared")
	}
}

func TestGetSurvivesUnreadableCiphertext(t *testing.T) {
	svc, store, id := newTestService(t)

	// Simulate a record written under a different cipher secret.
	other, err := crypto.NewFieldCipher("some-older-secret")
	if err != nil {
		t.Fatalf("NewFieldCipher() error = %v", err)
	}
	sealed, err := other.Encrypt("+1 555 0100")
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	store.users[id].RecoveryPhone.String = sealed
	store.users[id].RecoveryPhone.Valid = true

	p, err := svc.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if p.RecoveryPhone != "" {
		t.Errorf("Get() recovery phone = %q, want empty for unreadable ciphertext", p.RecoveryPhone)
	}
}
