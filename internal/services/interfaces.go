package services

import (
	"context"
	"time"

	"coinconductor/internal/balance"
	"coinconductor/internal/bank"
	"coinconductor/internal/models"
	"coinconductor/internal/pagination"
)

// UserUpdate holds optional fields for a partial user update. Nil fields
// are left unchanged.
type UserUpdate struct {
	Email    *string
	Username *string
	Password *string
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, username, password string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(identifier, password string) (*models.User, error)
	UpdateUser(userID uint, update UserUpdate) (*models.User, error)
	DeleteUser(userID uint) error
}

// CategoryWithBalance is a category together with its computed spending
// figures.
type CategoryWithBalance struct {
	models.Category
	Spent     float64 `json:"spent"`
	Remaining float64 `json:"remaining"`
}

// CategoryUpdate holds optional fields for a partial category update.
type CategoryUpdate struct {
	Name         *string
	BudgetAmount *float64
	Month        *string
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID uint, name string, budgetAmount float64, month string) (*models.Category, error)
	GetUserCategories(userID uint, month *string) ([]CategoryWithBalance, error)
	GetCategoryByID(userID, categoryID uint) (*CategoryWithBalance, error)
	UpdateCategory(userID, categoryID uint, update CategoryUpdate) (*models.Category, error)
	DeleteCategory(userID, categoryID uint) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	CategoryID *uint
	StartDate  *time.Time
	EndDate    *time.Time
}

// TransactionInput holds the fields for creating a transaction.
type TransactionInput struct {
	Amount         float64
	Description    string
	Date           time.Time
	CategoryID     *uint
	BudgetPeriodID *uint
	Source         string
	Notes          *string
}

// TransactionUpdate holds optional fields for a partial transaction update.
type TransactionUpdate struct {
	Amount         *float64
	Description    *string
	Date           *time.Time
	CategoryID     *uint
	BudgetPeriodID *uint
	Notes          *string
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(ctx context.Context, userID uint, input TransactionInput) (*models.Transaction, error)
	GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID uint) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID uint, update TransactionUpdate) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID uint) error
}

// PeriodUpdate holds optional fields for a partial budget period update.
type PeriodUpdate struct {
	Name        *string
	StartDate   *time.Time
	EndDate     *time.Time
	TotalIncome *float64
}

// PeriodDetail is a budget period together with its allocation balances
// and envelope totals.
type PeriodDetail struct {
	models.BudgetPeriod
	Summary balance.PeriodSummary `json:"summary"`
}

// BudgetServicer defines the contract for budget periods and envelope
// allocations.
type BudgetServicer interface {
	CreatePeriod(userID uint, name string, startDate, endDate time.Time, totalIncome float64) (*models.BudgetPeriod, error)
	GetUserPeriods(userID uint) ([]models.BudgetPeriod, error)
	GetPeriodByID(userID, periodID uint) (*PeriodDetail, error)
	GetCurrentPeriod(userID uint) (*PeriodDetail, error)
	CreateMonthlyPeriod(userID uint, year int, month time.Month, totalIncome float64) (*models.BudgetPeriod, error)
	UpdatePeriod(userID, periodID uint, update PeriodUpdate) (*models.BudgetPeriod, error)
	DeletePeriod(userID, periodID uint) error
	CreateAllocation(userID, periodID, categoryID uint, amount float64) (*models.EnvelopeAllocation, error)
	UpdateAllocation(userID, allocationID uint, amount float64) (*models.EnvelopeAllocation, error)
	DeleteAllocation(userID, allocationID uint) error
}

// BankAccountInput holds the fields for creating a bank account link.
type BankAccountInput struct {
	Name        string
	AccountType string
	Provider    string
	SecretID    *string
	SecretKey   *string
}

// BankAccountUpdate holds optional fields for a partial bank account update.
type BankAccountUpdate struct {
	Name        *string
	AccountType *string
	Provider    *string
	SecretID    *string
	SecretKey   *string
}

// BankAccountServicer defines the contract for linked bank accounts.
type BankAccountServicer interface {
	CreateBankAccount(userID uint, input BankAccountInput) (*models.BankAccount, error)
	GetUserBankAccounts(userID uint) ([]models.BankAccount, error)
	GetBankAccountByID(userID, accountID uint) (*models.BankAccount, error)
	UpdateBankAccount(userID, accountID uint, update BankAccountUpdate) (*models.BankAccount, error)
	DeleteBankAccount(userID, accountID uint) error
}

// Suggestion is the outcome of categorizing one transaction. CategoryID
// and CategoryName are nil when the provider made no usable suggestion.
type Suggestion struct {
	TransactionID uint    `json:"transaction_id"`
	Description   string  `json:"description"`
	Amount        float64 `json:"amount"`
	CategoryID    *uint   `json:"category_id"`
	CategoryName  *string `json:"category_name"`
}

// CategorizeServicer defines the contract for AI-assisted categorization.
// The provider and apiKey arguments override the configured defaults when
// non-empty.
type CategorizeServicer interface {
	CategorizeTransaction(ctx context.Context, userID, transactionID uint, provider, apiKey string) (*Suggestion, error)
	BulkCategorize(ctx context.Context, userID uint, provider, apiKey string) ([]Suggestion, error)
	SweepUncategorized(ctx context.Context)
}

// SyncResult summarizes one bank account sync run.
type SyncResult struct {
	Fetched  int `json:"fetched"`
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// SyncServicer defines the contract for pulling bank transactions and
// processing provider webhook events.
type SyncServicer interface {
	SyncAccount(ctx context.Context, userID, accountID uint) (*SyncResult, error)
	ProcessWebhookEvents(ctx context.Context, events []bank.Event)
}
