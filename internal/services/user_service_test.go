package services

import (
	"testing"

	"coinconductor/internal/models"
	"coinconductor/internal/testutil"
)

func TestCreateUser(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("Alice@Example.com", "alice", "secret123")
		testutil.AssertNoError(t, err)

		if user.ID == 0 {
			t.Fatal("expected non-zero user ID")
		}
		if user.Email != "alice@example.com" {
			t.Errorf("expected lowercased email, got %s", user.Email)
		}
		if user.Password == "secret123" {
			t.Error("expected password to be hashed")
		}
		if !user.IsActive {
			t.Error("expected new user to be active")
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("bob@example.com", "bob", "secret123")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser("bob@example.com", "bob2", "secret123")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("duplicate_username", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("carol@example.com", "carol", "secret123")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser("carol2@example.com", "carol", "secret123")
		testutil.AssertAppError(t, err, "DUPLICATE_USERNAME")
	})

	t.Run("missing_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("", "dave", "secret123")
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.CreateUser("dave@example.com", "dave", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestAttemptLogin(t *testing.T) {
	t.Run("by_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		created, err := svc.CreateUser("eve@example.com", "eve", "secret123")
		testutil.AssertNoError(t, err)

		user, err := svc.AttemptLogin("eve@example.com", "secret123")
		testutil.AssertNoError(t, err)
		if user.ID != created.ID {
			t.Errorf("expected user %d, got %d", created.ID, user.ID)
		}
	})

	t.Run("by_username", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("frank@example.com", "frank", "secret123")
		testutil.AssertNoError(t, err)

		_, err = svc.AttemptLogin("frank", "secret123")
		testutil.AssertNoError(t, err)
	})

	t.Run("wrong_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("grace@example.com", "grace", "secret123")
		testutil.AssertNoError(t, err)

		_, err = svc.AttemptLogin("grace@example.com", "wrong")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("unknown_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.AttemptLogin("nobody@example.com", "secret123")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})
}

func TestUpdateUser(t *testing.T) {
	t.Run("change_email_and_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("heidi@example.com", "heidi", "secret123")
		testutil.AssertNoError(t, err)

		newEmail := "heidi+new@example.com"
		newPassword := "betterpassword"
		_, err = svc.UpdateUser(user.ID, UserUpdate{Email: &newEmail, Password: &newPassword})
		testutil.AssertNoError(t, err)

		_, err = svc.AttemptLogin(newEmail, newPassword)
		testutil.AssertNoError(t, err)
	})

	t.Run("email_taken_by_other_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("ivan@example.com", "ivan", "secret123")
		testutil.AssertNoError(t, err)
		other, err := svc.CreateUser("judy@example.com", "judy", "secret123")
		testutil.AssertNoError(t, err)

		taken := "ivan@example.com"
		_, err = svc.UpdateUser(other.ID, UserUpdate{Email: &taken})
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})
}

func TestDeleteUser(t *testing.T) {
	t.Run("cascades_owned_rows", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, user.ID, 100)
		testutil.CreateTestTransaction(t, db, user.ID, &category.ID, -25)
		period := testutil.CreateTestBudgetPeriod(t, db, user.ID, 1000)
		testutil.CreateTestAllocation(t, db, category.ID, period.ID, 100)
		testutil.CreateTestBankAccount(t, db, user.ID)

		testutil.AssertNoError(t, svc.DeleteUser(user.ID))

		for _, check := range []struct {
			name  string
			model interface{}
		}{
			{"categories", &models.Category{}},
			{"transactions", &models.Transaction{}},
			{"budget_periods", &models.BudgetPeriod{}},
			{"allocations", &models.EnvelopeAllocation{}},
			{"bank_accounts", &models.BankAccount{}},
		} {
			var count int64
			db.Model(check.model).Count(&count)
			if count != 0 {
				t.Errorf("expected no %s after user deletion, got %d", check.name, count)
			}
		}

		_, err := svc.GetUserByID(user.ID)
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		err := svc.DeleteUser(99999)
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}
