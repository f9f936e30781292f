package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "coinconductor/internal/errors"
	"coinconductor/internal/models"
)

// bankAccountService handles linked bank account business logic.
type bankAccountService struct {
	db *gorm.DB
}

// NewBankAccountService creates a new BankAccountServicer.
func NewBankAccountService(db *gorm.DB) BankAccountServicer {
	return &bankAccountService{db: db}
}

// CreateBankAccount links a new bank account
func (s *bankAccountService) CreateBankAccount(userID uint, input BankAccountInput) (*models.BankAccount, error) {
	if input.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
	}

	account := &models.BankAccount{
		UserID:      userID,
		Name:        input.Name,
		AccountType: input.AccountType,
		Provider:    input.Provider,
		SecretID:    input.SecretID,
		SecretKey:   input.SecretKey,
	}

	if err := s.db.Create(account).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return account, nil
}

// GetUserBankAccounts retrieves all bank accounts for a user.
func (s *bankAccountService) GetUserBankAccounts(userID uint) ([]models.BankAccount, error) {
	var accounts []models.BankAccount
	if err := s.db.Where("user_id = ?", userID).Order("name").Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return accounts, nil
}

// GetBankAccountByID retrieves a bank account by ID for a specific user
func (s *bankAccountService) GetBankAccountByID(userID, accountID uint) (*models.BankAccount, error) {
	var account models.BankAccount
	if err := s.db.Where("id = ? AND user_id = ?", accountID, userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBankAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// UpdateBankAccount applies a partial update to a bank account.
func (s *bankAccountService) UpdateBankAccount(userID, accountID uint, update BankAccountUpdate) (*models.BankAccount, error) {
	account, err := s.GetBankAccountByID(userID, accountID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.Name != nil && *update.Name != "" {
		updates["name"] = *update.Name
	}
	if update.AccountType != nil {
		updates["account_type"] = *update.AccountType
	}
	if update.Provider != nil {
		updates["provider"] = *update.Provider
	}
	if update.SecretID != nil {
		updates["secret_id"] = *update.SecretID
	}
	if update.SecretKey != nil {
		updates["secret_key"] = *update.SecretKey
	}

	if len(updates) > 0 {
		if err := s.db.Model(account).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return account, nil
}

// DeleteBankAccount unlinks a bank account. Transactions already imported
// from it are kept.
func (s *bankAccountService) DeleteBankAccount(userID, accountID uint) error {
	account, err := s.GetBankAccountByID(userID, accountID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(account).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
