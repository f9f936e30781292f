package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"coinconductor/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	n := nextID()
	return CreateTestUserWithEmail(t, db, fmt.Sprintf("user%d@test.com", n), fmt.Sprintf("user%d", n))
}

// CreateTestUserWithEmail creates a user with the given email and username.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Username: username,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a category with the given monthly budget amount.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID uint, budgetAmount float64) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID:       userID,
		Name:         fmt.Sprintf("Test Category %d", nextID()),
		BudgetAmount: budgetAmount,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestCategoryWithName creates a category with an explicit name.
func CreateTestCategoryWithName(t *testing.T, db *gorm.DB, userID uint, name string, budgetAmount float64) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID:       userID,
		Name:         name,
		BudgetAmount: budgetAmount,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a transaction with the given signed amount.
// A negative amount is an expense, a positive amount is income.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID uint, categoryID *uint, amount float64) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:      userID,
		Amount:      amount,
		Description: fmt.Sprintf("Test Transaction %d", nextID()),
		Date:        time.Now(),
		CategoryID:  categoryID,
		Source:      models.SourceManual,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestBudgetPeriod creates a budget period covering the current month.
func CreateTestBudgetPeriod(t *testing.T, db *gorm.DB, userID uint, totalIncome float64) *models.BudgetPeriod {
	t.Helper()

	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	period := &models.BudgetPeriod{
		UserID:      userID,
		Name:        fmt.Sprintf("Test Period %d", nextID()),
		StartDate:   start,
		EndDate:     start.AddDate(0, 1, 0).Add(-time.Second),
		TotalIncome: totalIncome,
	}
	if err := db.Create(period).Error; err != nil {
		t.Fatalf("failed to create test budget period: %v", err)
	}
	return period
}

// CreateTestAllocation creates an envelope allocation linking a category to a period.
func CreateTestAllocation(t *testing.T, db *gorm.DB, categoryID, periodID uint, amount float64) *models.EnvelopeAllocation {
	t.Helper()

	alloc := &models.EnvelopeAllocation{
		CategoryID:      categoryID,
		BudgetPeriodID:  periodID,
		AllocatedAmount: amount,
	}
	if err := db.Create(alloc).Error; err != nil {
		t.Fatalf("failed to create test allocation: %v", err)
	}
	return alloc
}

// CreateTestBankAccount creates a bank account with sandbox credentials.
func CreateTestBankAccount(t *testing.T, db *gorm.DB, userID uint) *models.BankAccount {
	t.Helper()

	secretID := fmt.Sprintf("sid-%d", nextID())
	secretKey := "sandbox-secret-key"
	account := &models.BankAccount{
		UserID:      userID,
		Name:        fmt.Sprintf("Test Bank Account %d", nextID()),
		AccountType: "checking",
		Provider:    "gocardless",
		SecretID:    &secretID,
		SecretKey:   &secretKey,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test bank account: %v", err)
	}
	return account
}
