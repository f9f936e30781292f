package services

import (
	"testing"

	"coinconductor/internal/models"
	"coinconductor/internal/testutil"
)

func TestCreateEnvelopeCategory(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		cat, err := svc.CreateCategory(user.ID, "Groceries", 500, "2025-06")
		testutil.AssertNoError(t, err)

		if cat.ID == 0 {
			t.Fatal("expected non-zero category ID")
		}
		if cat.BudgetAmount != 500 {
			t.Errorf("expected budget 500, got %f", cat.BudgetAmount)
		}
		if cat.Month != "2025-06" {
			t.Errorf("expected month 2025-06, got %s", cat.Month)
		}
	})

	t.Run("duplicate_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(user.ID, "Food", 100, "")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateCategory(user.ID, "Food", 200, "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(user.ID, "", 100, "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("same_name_different_users", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(user1.ID, "Rent", 1200, "")
		testutil.AssertNoError(t, err)
		_, err = svc.CreateCategory(user2.ID, "Rent", 900, "")
		testutil.AssertNoError(t, err)
	})
}

func TestGetUserCategoriesWithBalances(t *testing.T) {
	t.Run("computes_spent_and_remaining", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		category := testutil.CreateTestCategory(t, db, user.ID, 500)
		testutil.CreateTestTransaction(t, db, user.ID, &category.ID, -120)
		testutil.CreateTestTransaction(t, db, user.ID, &category.ID, -45.50)

		result, err := svc.GetUserCategories(user.ID, nil)
		testutil.AssertNoError(t, err)

		if len(result) != 1 {
			t.Fatalf("expected 1 category, got %d", len(result))
		}
		if result[0].Spent != 165.50 {
			t.Errorf("expected spent 165.50, got %f", result[0].Spent)
		}
		if result[0].Remaining != 334.50 {
			t.Errorf("expected remaining 334.50, got %f", result[0].Remaining)
		}
	})

	t.Run("month_filter", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(user.ID, "June Food", 100, "2025-06")
		testutil.AssertNoError(t, err)
		_, err = svc.CreateCategory(user.ID, "July Food", 100, "2025-07")
		testutil.AssertNoError(t, err)

		month := "2025-06"
		result, err := svc.GetUserCategories(user.ID, &month)
		testutil.AssertNoError(t, err)

		if len(result) != 1 || result[0].Name != "June Food" {
			t.Errorf("expected only June Food, got %v", result)
		}
	})

	t.Run("scoped_to_owner", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)

		testutil.CreateTestCategory(t, db, user1.ID, 100)
		testutil.CreateTestCategory(t, db, user2.ID, 100)

		result, err := svc.GetUserCategories(user1.ID, nil)
		testutil.AssertNoError(t, err)
		if len(result) != 1 {
			t.Errorf("expected 1 category for user1, got %d", len(result))
		}
	})
}

func TestGetCategoryByID(t *testing.T) {
	t.Run("other_users_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)

		category := testutil.CreateTestCategory(t, db, owner.ID, 100)

		_, err := svc.GetCategoryByID(intruder.ID, category.ID)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestUpdateCategory(t *testing.T) {
	t.Run("partial_update", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		category := testutil.CreateTestCategory(t, db, user.ID, 100)

		amount := 250.0
		updated, err := svc.UpdateCategory(user.ID, category.ID, CategoryUpdate{BudgetAmount: &amount})
		testutil.AssertNoError(t, err)

		if updated.BudgetAmount != 250 {
			t.Errorf("expected budget 250, got %f", updated.BudgetAmount)
		}
		if updated.Name != category.Name {
			t.Errorf("expected name unchanged, got %s", updated.Name)
		}
	})

	t.Run("rename_to_existing_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestCategoryWithName(t, db, user.ID, "Food", 100)
		other := testutil.CreateTestCategoryWithName(t, db, user.ID, "Travel", 100)

		name := "Food"
		_, err := svc.UpdateCategory(user.ID, other.ID, CategoryUpdate{Name: &name})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestDeleteCategory(t *testing.T) {
	t.Run("cascades_transactions_and_allocations", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		category := testutil.CreateTestCategory(t, db, user.ID, 100)
		keep := testutil.CreateTestCategory(t, db, user.ID, 100)
		testutil.CreateTestTransaction(t, db, user.ID, &category.ID, -10)
		kept := testutil.CreateTestTransaction(t, db, user.ID, &keep.ID, -20)
		period := testutil.CreateTestBudgetPeriod(t, db, user.ID, 1000)
		testutil.CreateTestAllocation(t, db, category.ID, period.ID, 50)

		testutil.AssertNoError(t, svc.DeleteCategory(user.ID, category.ID))

		var txCount, allocCount int64
		db.Model(&models.Transaction{}).Count(&txCount)
		db.Model(&models.EnvelopeAllocation{}).Count(&allocCount)
		if txCount != 1 {
			t.Errorf("expected 1 remaining transaction, got %d", txCount)
		}
		if allocCount != 0 {
			t.Errorf("expected no allocations, got %d", allocCount)
		}

		var remaining models.Transaction
		testutil.AssertNoError(t, db.First(&remaining, kept.ID).Error)
	})

	t.Run("not_owned", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)

		category := testutil.CreateTestCategory(t, db, owner.ID, 100)
		err := svc.DeleteCategory(intruder.ID, category.ID)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}
