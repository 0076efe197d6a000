package services

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	apperrors "github.com/quanghm/coindex/internal/errors"
	"github.com/quanghm/coindex/internal/models"
	"github.com/quanghm/coindex/internal/repositories"
)

// priceService implements the PriceService interface. The singleflight group
// is the per-key in-flight table: concurrent fetches for the same name share
// one provider request and observe the same outcome, and the in-flight marker
// is cleared on every exit path.
type priceService struct {
	repo     repositories.PortfolioRepository
	provider PriceProvider
	logger   *zap.Logger

	group singleflight.Group

	mu     sync.RWMutex
	prices map[string]decimal.Decimal
}

// NewPriceService creates a new price service backed by repo and provider.
func NewPriceService(repo repositories.PortfolioRepository, provider PriceProvider, logger *zap.Logger) PriceService {
	return &priceService{
		repo:     repo,
		provider: provider,
		logger:   logger,
		prices:   make(map[string]decimal.Decimal),
	}
}

func (s *priceService) Warm(ctx context.Context) error {
	entries, err := s.repo.GetPriceCache(ctx)
	if err != nil {
		return &apperrors.ErrBackend{Op: "load price cache", Err: err}
	}

	s.mu.Lock()
	for _, e := range entries {
		s.prices[models.PriceKey(e.Name)] = e.PriceUSD
	}
	s.mu.Unlock()

	s.logger.Debug("price cache warmed", zap.Int("entries", len(entries)))
	return nil
}

func (s *priceService) FetchPrice(ctx context.Context, name string) (decimal.Decimal, error) {
	key := models.PriceKey(name)
	if key == "" {
		return decimal.Zero, &apperrors.ErrValidation{Field: "name", Message: "asset name is required"}
	}

	v, err, shared := s.group.Do(key, func() (interface{}, error) {
		price, err := s.provider.Lookup(ctx, key)
		if err != nil {
			if apperrors.IsPriceNotFound(err) {
				// The provider answered; the key is simply unknown. No
				// cache mutation.
				return nil, err
			}
			return nil, &apperrors.ErrFetch{Asset: name, Err: err}
		}

		if err := s.repo.UpsertPrice(ctx, key, price, time.Now()); err != nil {
			return nil, &apperrors.ErrBackend{Op: "upsert price", Err: err}
		}

		s.mu.Lock()
		s.prices[key] = price
		s.mu.Unlock()
		return price, nil
	})
	if err != nil {
		s.logger.Warn("price fetch failed", zap.String("asset", name), zap.Error(err))
		return decimal.Zero, err
	}

	price := v.(decimal.Decimal)
	s.logger.Info("price fetched",
		zap.String("asset", key),
		zap.String("price_usd", price.String()),
		zap.Bool("shared", shared))
	return price, nil
}

func (s *priceService) GetPrice(name string) (decimal.Decimal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	price, ok := s.prices[models.PriceKey(name)]
	return price, ok
}

func (s *priceService) Entries() []*models.AssetPrice {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]*models.AssetPrice, 0, len(s.prices))
	for name, price := range s.prices {
		entries = append(entries, &models.AssetPrice{Name: name, PriceUSD: price})
	}
	return entries
}
