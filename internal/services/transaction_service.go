package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "coinconductor/internal/errors"
	"coinconductor/internal/logger"
	"coinconductor/internal/models"
	"coinconductor/internal/pagination"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db          *gorm.DB
	categorizer CategorizeServicer
}

// NewTransactionService creates a new TransactionServicer. The categorizer
// may be nil, in which case transactions created without a category stay
// uncategorized until the next sweep.
func NewTransactionService(db *gorm.DB, categorizer CategorizeServicer) TransactionServicer {
	return &transactionService{db: db, categorizer: categorizer}
}

// CreateTransaction creates a transaction. When no category is given, a
// best-effort AI suggestion is attempted; failures only log and the
// transaction is created uncategorized.
func (s *transactionService) CreateTransaction(ctx context.Context, userID uint, input TransactionInput) (*models.Transaction, error) {
	if input.Description == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}

	if input.CategoryID != nil {
		if err := s.assertCategoryOwned(userID, *input.CategoryID); err != nil {
			return nil, err
		}
	}

	source := input.Source
	if source == "" {
		source = models.SourceManual
	}

	tx := &models.Transaction{
		UserID:         userID,
		Amount:         input.Amount,
		Description:    input.Description,
		Date:           input.Date,
		CategoryID:     input.CategoryID,
		BudgetPeriodID: input.BudgetPeriodID,
		Source:         source,
		Notes:          input.Notes,
	}

	if err := s.db.Create(tx).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if tx.CategoryID == nil && s.categorizer != nil {
		suggestion, err := s.categorizer.CategorizeTransaction(ctx, userID, tx.ID, "", "")
		switch {
		case err != nil:
			logger.Get().Warnw("auto-categorization failed",
				"transaction_id", tx.ID, "error", err.Error())
		case suggestion.CategoryID != nil:
			if err := s.db.Model(tx).Update("category_id", *suggestion.CategoryID).Error; err != nil {
				logger.Get().Warnw("failed to store auto-categorization",
					"transaction_id", tx.ID, "error", err.Error())
			} else {
				tx.CategoryID = suggestion.CategoryID
			}
		}
	}

	return tx, nil
}

// GetUserTransactions retrieves a paginated, filtered list of the user's
// transactions, newest first.
func (s *transactionService) GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	if filter.CategoryID != nil {
		base = base.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.StartDate != nil {
		base = base.Where("date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		base = base.Where("date <= ?", *filter.EndDate)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Preload("Category").
		Order("date DESC, id DESC").
		Scopes(pagination.Paginate(page)).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransactionByID(userID, transactionID uint) (*models.Transaction, error) {
	var tx models.Transaction
	if err := s.db.Preload("Category").
		Where("id = ? AND user_id = ?", transactionID, userID).
		First(&tx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &tx, nil
}

// UpdateTransaction applies a partial update to a transaction.
func (s *transactionService) UpdateTransaction(userID, transactionID uint, update TransactionUpdate) (*models.Transaction, error) {
	tx, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.Amount != nil {
		updates["amount"] = *update.Amount
	}
	if update.Description != nil && *update.Description != "" {
		updates["description"] = *update.Description
	}
	if update.Date != nil {
		updates["date"] = *update.Date
	}
	if update.CategoryID != nil {
		if err := s.assertCategoryOwned(userID, *update.CategoryID); err != nil {
			return nil, err
		}
		updates["category_id"] = *update.CategoryID
	}
	if update.BudgetPeriodID != nil {
		updates["budget_period_id"] = *update.BudgetPeriodID
	}
	if update.Notes != nil {
		updates["notes"] = *update.Notes
	}

	if len(updates) > 0 {
		if err := s.db.Model(tx).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return tx, nil
}

// DeleteTransaction deletes a transaction
func (s *transactionService) DeleteTransaction(userID, transactionID uint) error {
	tx, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(tx).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *transactionService) assertCategoryOwned(userID, categoryID uint) error {
	var count int64
	if err := s.db.Model(&models.Category{}).
		Where("id = ? AND user_id = ?", categoryID, userID).
		Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}
