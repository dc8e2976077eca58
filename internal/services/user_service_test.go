package services

import (
	"testing"

	"papertrade/internal/models"
	"papertrade/internal/testutil"
)

func TestRegister(t *testing.T) {
	t.Run("creates_user_with_hashed_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.Register("alice", "hunter2hunter2")
		testutil.AssertNoError(t, err)

		if user.ID == 0 {
			t.Fatal("expected non-zero user ID")
		}
		if user.Username != "alice" {
			t.Errorf("expected username alice, got %q", user.Username)
		}
		if user.Password == "hunter2hunter2" {
			t.Error("password must not be stored in plaintext")
		}
		if user.Cash != 0 {
			t.Errorf("expected zero starting cash, got %d", user.Cash)
		}
	})

	t.Run("duplicate_username", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		first, err := svc.Register("bob", "password123")
		testutil.AssertNoError(t, err)

		_, err = svc.Register("bob", "different-password")
		testutil.AssertAppError(t, err, "DUPLICATE_USERNAME")

		// First registration is unaffected.
		var count int64
		db.Model(&models.User{}).Where("username = ?", "bob").Count(&count)
		if count != 1 {
			t.Fatalf("expected exactly one bob, got %d", count)
		}
		kept, err := svc.GetUserByID(first.ID)
		testutil.AssertNoError(t, err)
		if !svc.VerifyPassword(kept, "password123") {
			t.Error("first user's password hash was disturbed")
		}
	})

	t.Run("missing_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.Register("", "password123")
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.Register("carol", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestAttemptLogin(t *testing.T) {
	t.Run("valid_credentials", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		registered, err := svc.Register("dave", "correct-horse")
		testutil.AssertNoError(t, err)

		user, err := svc.AttemptLogin("dave", "correct-horse")
		testutil.AssertNoError(t, err)
		if user.ID != registered.ID {
			t.Errorf("expected user %d, got %d", registered.ID, user.ID)
		}
	})

	t.Run("wrong_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.Register("erin", "correct-horse")
		testutil.AssertNoError(t, err)

		_, err = svc.AttemptLogin("erin", "wrong-horse")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("unknown_username", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.AttemptLogin("nobody", "password123")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})
}

func TestGetUserByID(t *testing.T) {
	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.GetUserByID(99999)
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}
