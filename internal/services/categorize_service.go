package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dgraph-io/ristretto"
	"gorm.io/gorm"

	"coinconductor/internal/ai"
	"coinconductor/internal/config"
	apperrors "coinconductor/internal/errors"
	"coinconductor/internal/logger"
	"coinconductor/internal/models"
)

const msgNoCategories = "No categories found. Please create categories first."

// cachedSuggestion is the cache value for one (description, candidates)
// lookup. A nil CategoryID is cached too so repeated junk descriptions do
// not hit the provider again.
type cachedSuggestion struct {
	CategoryID *uint
}

// categorizeService orchestrates AI categorization in single, bulk and
// background modes.
type categorizeService struct {
	db         *gorm.DB
	cfg        *config.Config
	httpClient *http.Client
	cache      *ristretto.Cache
}

// NewCategorizeService creates a new CategorizeServicer. The httpClient is
// shared across provider adapters; pass nil for http.DefaultClient.
func NewCategorizeService(db *gorm.DB, cfg *config.Config, httpClient *http.Client) (CategorizeServicer, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10_000,
		MaxCost:     1_000,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("creating suggestion cache: %w", err)
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &categorizeService{
		db:         db,
		cfg:        cfg,
		httpClient: httpClient,
		cache:      cache,
	}, nil
}

// CategorizeTransaction suggests a category for one transaction without
// storing anything.
func (s *categorizeService) CategorizeTransaction(ctx context.Context, userID, transactionID uint, provider, apiKey string) (*Suggestion, error) {
	var tx models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&tx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	candidates, names, err := s.loadCandidates(userID)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrConfiguration, msgNoCategories)
	}

	categorizer, err := s.buildCategorizer(provider, apiKey)
	if err != nil {
		return nil, err
	}

	categoryID, err := s.suggest(ctx, categorizer, tx, candidates)
	if err != nil {
		return nil, err
	}

	return s.suggestionFor(tx, categoryID, names), nil
}

// BulkCategorize categorizes all of the user's uncategorized transactions,
// writing each accepted suggestion immediately so partial progress
// survives a later failure. Provider failures on individual transactions
// are logged and reported with a nil category.
func (s *categorizeService) BulkCategorize(ctx context.Context, userID uint, provider, apiKey string) ([]Suggestion, error) {
	var transactions []models.Transaction
	if err := s.db.Where("user_id = ? AND (category_id IS NULL OR category_id = 0)", userID).
		Order("id").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	report := make([]Suggestion, 0, len(transactions))
	if len(transactions) == 0 {
		return report, nil
	}

	candidates, names, err := s.loadCandidates(userID)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrConfiguration, msgNoCategories)
	}

	categorizer, err := s.buildCategorizer(provider, apiKey)
	if err != nil {
		return nil, err
	}

	log := logger.Get()
	for _, tx := range transactions {
		categoryID, err := s.suggest(ctx, categorizer, tx, candidates)
		if err != nil {
			log.Warnw("bulk categorization failed for transaction",
				"transaction_id", tx.ID, "error", err.Error())
			report = append(report, *s.suggestionFor(tx, nil, names))
			continue
		}

		if categoryID != nil {
			if err := s.db.Model(&models.Transaction{}).
				Where("id = ?", tx.ID).
				Update("category_id", *categoryID).Error; err != nil {
				log.Warnw("failed to store category suggestion",
					"transaction_id", tx.ID, "error", err.Error())
				report = append(report, *s.suggestionFor(tx, nil, names))
				continue
			}
		}
		report = append(report, *s.suggestionFor(tx, categoryID, names))
	}

	return report, nil
}

// SweepUncategorized categorizes uncategorized transactions for every
// user. Each owner's batch commits in its own database transaction, so a
// failure rolls back only that owner. The filter excludes already
// categorized rows, making repeated sweeps idempotent.
func (s *categorizeService) SweepUncategorized(ctx context.Context) {
	log := logger.Get()

	var transactions []models.Transaction
	if err := s.db.Where("category_id IS NULL OR category_id = 0").
		Order("user_id, id").
		Find(&transactions).Error; err != nil {
		log.Errorw("sweep failed to list uncategorized transactions", "error", err.Error())
		return
	}
	if len(transactions) == 0 {
		return
	}

	byOwner := make(map[uint][]models.Transaction)
	for _, tx := range transactions {
		byOwner[tx.UserID] = append(byOwner[tx.UserID], tx)
	}
	log.Infow("categorization sweep started",
		"transactions", len(transactions), "owners", len(byOwner))

	for ownerID, batch := range byOwner {
		if ctx.Err() != nil {
			log.Infow("categorization sweep cancelled")
			return
		}
		s.sweepOwner(ctx, ownerID, batch)
	}
}

func (s *categorizeService) sweepOwner(ctx context.Context, ownerID uint, batch []models.Transaction) {
	log := logger.Get()

	candidates, _, err := s.loadCandidates(ownerID)
	if err != nil {
		log.Errorw("sweep failed to load categories", "user_id", ownerID, "error", err.Error())
		return
	}
	if len(candidates) == 0 {
		log.Infow("sweep skipping owner with no categories", "user_id", ownerID)
		return
	}

	categorizer, err := s.buildCategorizer("", "")
	if err != nil {
		log.Errorw("sweep failed to build categorizer", "user_id", ownerID, "error", err.Error())
		return
	}

	var categorized int
	err = s.db.Transaction(func(dbtx *gorm.DB) error {
		for _, tx := range batch {
			categoryID, err := s.suggest(ctx, categorizer, tx, candidates)
			if err != nil {
				log.Warnw("sweep categorization failed for transaction",
					"transaction_id", tx.ID, "error", err.Error())
				continue
			}
			if categoryID == nil {
				continue
			}
			if err := dbtx.Model(&models.Transaction{}).
				Where("id = ?", tx.ID).
				Update("category_id", *categoryID).Error; err != nil {
				return err
			}
			categorized++
		}
		return nil
	})
	if err != nil {
		log.Errorw("sweep owner batch rolled back", "user_id", ownerID, "error", err.Error())
		return
	}

	log.Infow("sweep owner batch committed",
		"user_id", ownerID, "transactions", len(batch), "categorized", categorized)
}

// buildCategorizer constructs a provider adapter from the configured
// defaults plus optional per-request overrides.
func (s *categorizeService) buildCategorizer(provider, apiKey string) (*ai.Categorizer, error) {
	p, err := ai.New(s.cfg, provider, apiKey, s.httpClient)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrConfiguration, err)
	}
	return ai.NewCategorizer(p), nil
}

// loadCandidates returns the owner's categories as prompt candidates plus
// an id to name lookup.
func (s *categorizeService) loadCandidates(userID uint) ([]ai.Candidate, map[uint]string, error) {
	var categories []models.Category
	if err := s.db.Where("user_id = ?", userID).Order("id").Find(&categories).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	candidates := make([]ai.Candidate, 0, len(categories))
	names := make(map[uint]string, len(categories))
	for _, c := range categories {
		candidates = append(candidates, ai.Candidate{ID: c.ID, Name: c.Name})
		names[c.ID] = c.Name
	}
	return candidates, names, nil
}

// suggest consults the cache before asking the provider. Provider errors
// are wrapped as AI provider errors.
func (s *categorizeService) suggest(ctx context.Context, categorizer *ai.Categorizer, tx models.Transaction, candidates []ai.Candidate) (*uint, error) {
	key := cacheKey(categorizer.ProviderName(), tx.Description, candidates)
	if value, found := s.cache.Get(key); found {
		if cached, ok := value.(cachedSuggestion); ok {
			return cached.CategoryID, nil
		}
	}

	categoryID, err := categorizer.Suggest(ctx, tx.Description, tx.Amount, candidates)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrAIProvider, err)
	}

	s.cache.Set(key, cachedSuggestion{CategoryID: categoryID}, 1)
	return categoryID, nil
}

func (s *categorizeService) suggestionFor(tx models.Transaction, categoryID *uint, names map[uint]string) *Suggestion {
	suggestion := &Suggestion{
		TransactionID: tx.ID,
		Description:   tx.Description,
		Amount:        tx.Amount,
		CategoryID:    categoryID,
	}
	if categoryID != nil {
		if name, ok := names[*categoryID]; ok {
			suggestion.CategoryName = &name
		}
	}
	return suggestion
}

func cacheKey(provider, description string, candidates []ai.Candidate) string {
	var b strings.Builder
	b.WriteString(provider)
	b.WriteByte('|')
	b.WriteString(strings.ToLower(description))
	for _, c := range candidates {
		fmt.Fprintf(&b, "|%d", c.ID)
	}
	return b.String()
}
