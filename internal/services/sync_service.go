package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"gorm.io/gorm"

	"coinconductor/internal/bank"
	"coinconductor/internal/config"
	apperrors "coinconductor/internal/errors"
	"coinconductor/internal/logger"
	"coinconductor/internal/models"
)

// uncategorizedName is the fallback category imported transactions land in.
const uncategorizedName = "Uncategorized"

// paymentLister is the slice of the bank client the sync service uses.
type paymentLister interface {
	ListPayments(ctx context.Context, since time.Time) ([]bank.Payment, error)
}

// syncService pulls payments from the bank provider into transactions and
// applies webhook status updates.
type syncService struct {
	db         *gorm.DB
	cfg        *config.Config
	httpClient *http.Client

	// newClient builds the provider client for an account. Swappable in
	// tests.
	newClient func(account *models.BankAccount) (paymentLister, error)
}

// NewSyncService creates a new SyncServicer. Pass nil for
// http.DefaultClient.
func NewSyncService(db *gorm.DB, cfg *config.Config, httpClient *http.Client) SyncServicer {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	s := &syncService{db: db, cfg: cfg, httpClient: httpClient}
	s.newClient = s.defaultClient
	return s
}

func (s *syncService) defaultClient(account *models.BankAccount) (paymentLister, error) {
	if account.SecretKey == nil || *account.SecretKey == "" {
		return nil, fmt.Errorf("bank account %d has no credentials", account.ID)
	}
	return bank.NewClient(s.httpClient, *account.SecretKey, s.cfg.BankEnvironment)
}

// SyncAccount fetches payments newer than the account's watermark and
// imports the ones not seen before. The watermark only advances after a
// fully successful run; a fetch failure leaves it untouched so the next
// run retries the same window.
func (s *syncService) SyncAccount(ctx context.Context, userID, accountID uint) (*SyncResult, error) {
	var account models.BankAccount
	if err := s.db.Where("id = ? AND user_id = ?", accountID, userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBankAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	client, err := s.newClient(&account)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrBankSync, err)
	}

	now := time.Now().UTC()
	since := now.Add(-s.cfg.SyncDefaultWindow)
	if account.LastSynced != nil {
		since = *account.LastSynced
	}

	payments, err := client.ListPayments(ctx, since)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrBankSync, err)
	}

	result := &SyncResult{Fetched: len(payments)}
	for _, payment := range payments {
		imported, err := s.importPayment(userID, payment)
		if err != nil {
			return nil, err
		}
		if imported {
			result.Imported++
		} else {
			result.Skipped++
		}
	}

	// Zero records still advance the watermark: the provider answered, so
	// the window up to now is known clean.
	if err := s.db.Model(&account).Update("last_synced", now).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Get().Infow("bank account synced",
		"account_id", accountID,
		"fetched", result.Fetched,
		"imported", result.Imported,
		"skipped", result.Skipped,
	)
	return result, nil
}

// importPayment inserts a payment as a bank-sync transaction unless the
// owner already has one with the same external id.
func (s *syncService) importPayment(userID uint, payment bank.Payment) (bool, error) {
	var count int64
	if err := s.db.Model(&models.Transaction{}).
		Where("user_id = ? AND external_id = ?", userID, payment.ID).
		Count(&count).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return false, nil
	}

	category, err := s.ensureUncategorized(userID)
	if err != nil {
		return false, err
	}

	description := payment.Description
	if description == "" {
		description = fmt.Sprintf("Payment %s", payment.ID)
	}

	externalID := payment.ID
	tx := &models.Transaction{
		UserID:      userID,
		Amount:      payment.Amount,
		Description: description,
		Date:        payment.CreatedAt,
		CategoryID:  &category.ID,
		Source:      models.SourceBankSync,
		ExternalID:  &externalID,
	}
	if err := s.db.Create(tx).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return true, nil
}

// ensureUncategorized returns the owner's Uncategorized category, creating
// it on first use.
func (s *syncService) ensureUncategorized(userID uint) (*models.Category, error) {
	var category models.Category
	err := s.db.Where(models.Category{UserID: userID, Name: uncategorizedName}).
		Attrs(models.Category{BudgetAmount: 0}).
		FirstOrCreate(&category).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// ProcessWebhookEvents applies provider events to the matching imported
// transactions. Every failure is logged and swallowed; webhook delivery
// is acknowledged regardless.
func (s *syncService) ProcessWebhookEvents(ctx context.Context, events []bank.Event) {
	log := logger.Get()

	for _, event := range events {
		if ctx.Err() != nil {
			return
		}
		if event.ResourceType != "payments" || event.Links.Payment == "" {
			continue
		}

		var tx models.Transaction
		err := s.db.Where("external_id = ?", event.Links.Payment).First(&tx).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Errorw("webhook lookup failed",
					"event_id", event.ID, "payment", event.Links.Payment, "error", err.Error())
			}
			continue
		}

		note := fmt.Sprintf("Payment status: %s", event.Action)
		if tx.Notes != nil && *tx.Notes != "" {
			note = *tx.Notes + "\n" + note
		}
		if err := s.db.Model(&tx).Update("notes", note).Error; err != nil {
			log.Errorw("webhook note update failed",
				"event_id", event.ID, "transaction_id", tx.ID, "error", err.Error())
			continue
		}

		log.Infow("webhook event applied",
			"event_id", event.ID, "transaction_id", tx.ID, "action", event.Action)
	}
}
