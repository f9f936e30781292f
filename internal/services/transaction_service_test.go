package services

import (
	"context"
	"testing"
	"time"

	"coinconductor/internal/models"
	"coinconductor/internal/pagination"
	"coinconductor/internal/testutil"
)

// stubCategorizer returns a fixed suggestion for CategorizeTransaction.
type stubCategorizer struct {
	suggestion *Suggestion
	err        error
	calls      int
}

func (s *stubCategorizer) CategorizeTransaction(ctx context.Context, userID, transactionID uint, provider, apiKey string) (*Suggestion, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	suggestion := *s.suggestion
	suggestion.TransactionID = transactionID
	return &suggestion, nil
}

func (s *stubCategorizer) BulkCategorize(ctx context.Context, userID uint, provider, apiKey string) ([]Suggestion, error) {
	return nil, nil
}

func (s *stubCategorizer) SweepUncategorized(ctx context.Context) {}

func TestCreateTransaction(t *testing.T) {
	t.Run("with_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, user.ID, 100)

		stub := &stubCategorizer{}
		svc := NewTransactionService(db, stub)

		tx, err := svc.CreateTransaction(context.Background(), user.ID, TransactionInput{
			Amount:      -42.50,
			Description: "Dinner",
			Date:        time.Now(),
			CategoryID:  &category.ID,
		})
		testutil.AssertNoError(t, err)

		if tx.CategoryID == nil || *tx.CategoryID != category.ID {
			t.Errorf("expected category %d, got %v", category.ID, tx.CategoryID)
		}
		if tx.Source != models.SourceManual {
			t.Errorf("expected source manual, got %s", tx.Source)
		}
		if stub.calls != 0 {
			t.Errorf("expected no categorizer call, got %d", stub.calls)
		}
	})

	t.Run("auto_categorizes_when_uncategorized", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, user.ID, 100)

		stub := &stubCategorizer{suggestion: &Suggestion{CategoryID: &category.ID}}
		svc := NewTransactionService(db, stub)

		tx, err := svc.CreateTransaction(context.Background(), user.ID, TransactionInput{
			Amount:      -10,
			Description: "Coffee",
			Date:        time.Now(),
		})
		testutil.AssertNoError(t, err)

		if tx.CategoryID == nil || *tx.CategoryID != category.ID {
			t.Errorf("expected auto-assigned category %d, got %v", category.ID, tx.CategoryID)
		}

		var stored models.Transaction
		testutil.AssertNoError(t, db.First(&stored, tx.ID).Error)
		if stored.CategoryID == nil || *stored.CategoryID != category.ID {
			t.Error("expected assignment to be persisted")
		}
	})

	t.Run("categorizer_failure_does_not_block_creation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)

		stub := &stubCategorizer{err: context.DeadlineExceeded}
		svc := NewTransactionService(db, stub)

		tx, err := svc.CreateTransaction(context.Background(), user.ID, TransactionInput{
			Amount:      -10,
			Description: "Mystery charge",
			Date:        time.Now(),
		})
		testutil.AssertNoError(t, err)
		if tx.CategoryID != nil {
			t.Errorf("expected uncategorized transaction, got category %v", tx.CategoryID)
		}
	})

	t.Run("nil_categorizer", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		svc := NewTransactionService(db, nil)

		tx, err := svc.CreateTransaction(context.Background(), user.ID, TransactionInput{
			Amount:      -10,
			Description: "Cash withdrawal",
			Date:        time.Now(),
		})
		testutil.AssertNoError(t, err)
		if tx.CategoryID != nil {
			t.Errorf("expected nil category, got %v", tx.CategoryID)
		}
	})

	t.Run("foreign_category_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, owner.ID, 100)
		svc := NewTransactionService(db, nil)

		_, err := svc.CreateTransaction(context.Background(), intruder.ID, TransactionInput{
			Amount:      -10,
			Description: "Sneaky",
			Date:        time.Now(),
			CategoryID:  &category.ID,
		})
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestGetUserTransactions(t *testing.T) {
	t.Run("filters_and_ordering", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, user.ID, 100)
		other := testutil.CreateTestCategory(t, db, user.ID, 100)
		svc := NewTransactionService(db, nil)

		base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		mk := func(day int, categoryID *uint) {
			_, err := svc.CreateTransaction(context.Background(), user.ID, TransactionInput{
				Amount:      -10,
				Description: "txn",
				Date:        base.AddDate(0, 0, day),
				CategoryID:  categoryID,
			})
			testutil.AssertNoError(t, err)
		}
		mk(0, &category.ID)
		mk(5, &category.ID)
		mk(10, &other.ID)

		start := base.AddDate(0, 0, 1)
		result, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{
			CategoryID: &category.ID,
			StartDate:  &start,
		})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 1 {
			t.Fatalf("expected 1 transaction, got %d", result.TotalItems)
		}

		// Without filters, newest first
		all, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{})
		testutil.AssertNoError(t, err)
		if len(all.Data) != 3 {
			t.Fatalf("expected 3 transactions, got %d", len(all.Data))
		}
		if !all.Data[0].Date.After(all.Data[2].Date) {
			t.Error("expected newest-first ordering")
		}
	})

	t.Run("pagination", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		svc := NewTransactionService(db, nil)

		for i := 0; i < 5; i++ {
			testutil.CreateTestTransaction(t, db, user.ID, nil, -1)
		}

		page, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{Page: 2, PageSize: 2}, TransactionFilter{})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 5 || page.TotalPages != 3 || len(page.Data) != 2 {
			t.Errorf("unexpected page: total=%d pages=%d len=%d", page.TotalItems, page.TotalPages, len(page.Data))
		}
	})
}

func TestUpdateTransaction(t *testing.T) {
	t.Run("partial_update", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, user.ID, 100)
		tx := testutil.CreateTestTransaction(t, db, user.ID, nil, -5)
		svc := NewTransactionService(db, nil)

		notes := "reviewed"
		updated, err := svc.UpdateTransaction(user.ID, tx.ID, TransactionUpdate{
			CategoryID: &category.ID,
			Notes:      &notes,
		})
		testutil.AssertNoError(t, err)

		if updated.CategoryID == nil || *updated.CategoryID != category.ID {
			t.Errorf("expected category %d, got %v", category.ID, updated.CategoryID)
		}
		if updated.Amount != -5 {
			t.Errorf("expected amount unchanged, got %f", updated.Amount)
		}
	})

	t.Run("not_owned", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		tx := testutil.CreateTestTransaction(t, db, owner.ID, nil, -5)
		svc := NewTransactionService(db, nil)

		desc := "hijack"
		_, err := svc.UpdateTransaction(intruder.ID, tx.ID, TransactionUpdate{Description: &desc})
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestDeleteTransaction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	user := testutil.CreateTestUser(t, db)
	tx := testutil.CreateTestTransaction(t, db, user.ID, nil, -5)
	svc := NewTransactionService(db, nil)

	testutil.AssertNoError(t, svc.DeleteTransaction(user.ID, tx.ID))

	_, err := svc.GetTransactionByID(user.ID, tx.ID)
	testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
}
