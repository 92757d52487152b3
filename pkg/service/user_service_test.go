package service

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/dishaapp/disha/pkg/db"
)

func newUserService(t *testing.T) *UserService {
	t.Helper()
	gdb, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	return NewUserService(gdb)
}

func TestRegister_FirstAccountBootstrapsAdmin(t *testing.T) {
	svc := newUserService(t)

	first, err := svc.Register("first@example.com", "password1")
	if err != nil {
		t.Fatalf("register first: %v", err)
	}
	second, err := svc.Register("second@example.com", "password2")
	if err != nil {
		t.Fatalf("register second: %v", err)
	}

	if !first.IsAdmin {
		t.Error("first account should hold the admin role")
	}
	if second.IsAdmin {
		t.Error("later accounts must not be admins")
	}
	if !svc.IsAdmin(first.ID) || svc.IsAdmin(second.ID) {
		t.Error("IsAdmin should reflect the stored role")
	}
	if svc.IsAdmin("no-such-user") {
		t.Error("IsAdmin must be false for unknown accounts")
	}
}

func TestRegister_Validation(t *testing.T) {
	svc := newUserService(t)

	if _, err := svc.Register("short@example.com", "seven77"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("short password: got %v, want ErrWeakPassword", err)
	}
	if _, err := svc.Register("not-an-email", "password1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("bad email: got %v, want ErrInvalidCredentials", err)
	}

	if _, err := svc.Register("Dup@Example.com", "password1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register("dup@example.com", "password1"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate email: got %v, want ErrEmailTaken", err)
	}
}
