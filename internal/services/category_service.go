package services

import (
	"errors"

	"gorm.io/gorm"

	"coinconductor/internal/balance"
	apperrors "coinconductor/internal/errors"
	"coinconductor/internal/models"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory creates a new envelope category
func (s *categoryService) CreateCategory(userID uint, name string, budgetAmount float64, month string) (*models.Category, error) {
	// Validate input
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	// Check if a category with the same name already exists for this user
	var count int64
	if err := s.db.Model(&models.Category{}).
		Where("user_id = ? AND name = ?", userID, name).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if count > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category with this name already exists")
	}

	category := &models.Category{
		UserID:       userID,
		Name:         name,
		BudgetAmount: budgetAmount,
		Month:        month,
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return category, nil
}

// GetUserCategories retrieves the user's categories with their spending
// balances, optionally limited to a single YYYY-MM month.
func (s *categoryService) GetUserCategories(userID uint, month *string) ([]CategoryWithBalance, error) {
	query := s.db.Where("user_id = ?", userID)
	if month != nil && *month != "" {
		query = query.Where("month = ?", *month)
	}

	var categories []models.Category
	if err := query.Order("name").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := make([]CategoryWithBalance, 0, len(categories))
	for _, category := range categories {
		withBalance, err := s.withBalance(category)
		if err != nil {
			return nil, err
		}
		result = append(result, *withBalance)
	}
	return result, nil
}

// GetCategoryByID retrieves a category with balances by ID for a specific user
func (s *categoryService) GetCategoryByID(userID, categoryID uint) (*CategoryWithBalance, error) {
	category, err := s.getOwned(userID, categoryID)
	if err != nil {
		return nil, err
	}
	return s.withBalance(*category)
}

// UpdateCategory applies a partial update to a category.
func (s *categoryService) UpdateCategory(userID, categoryID uint, update CategoryUpdate) (*models.Category, error) {
	category, err := s.getOwned(userID, categoryID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.Name != nil && *update.Name != "" {
		var count int64
		if err := s.db.Model(&models.Category{}).
			Where("user_id = ? AND name = ? AND id <> ?", userID, *update.Name, categoryID).
			Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category with this name already exists")
		}
		updates["name"] = *update.Name
	}
	if update.BudgetAmount != nil {
		updates["budget_amount"] = *update.BudgetAmount
	}
	if update.Month != nil {
		updates["month"] = *update.Month
	}

	if len(updates) > 0 {
		if err := s.db.Model(category).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return category, nil
}

// DeleteCategory deletes a category together with its transactions and
// envelope allocations in a single database transaction.
func (s *categoryService) DeleteCategory(userID, categoryID uint) error {
	category, err := s.getOwned(userID, categoryID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", categoryID).Delete(&models.EnvelopeAllocation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? AND category_id = ?", userID, categoryID).Delete(&models.Transaction{}).Error; err != nil {
			return err
		}
		return tx.Delete(category).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *categoryService) getOwned(userID, categoryID uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

func (s *categoryService) withBalance(category models.Category) (*CategoryWithBalance, error) {
	var transactions []models.Transaction
	if err := s.db.Where("user_id = ? AND category_id = ?", category.UserID, category.ID).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	b := balance.ForCategory(category, transactions)
	return &CategoryWithBalance{
		Category:  category,
		Spent:     b.Spent,
		Remaining: b.Remaining,
	}, nil
}
