package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/quanghm/coindex/internal/errors"
	"github.com/quanghm/coindex/internal/models"
	"github.com/quanghm/coindex/internal/repositories"
)

// errNoIdentifier marks a partial write: a row came back without a usable id.
var errNoIdentifier = errors.New("backend returned no usable identifier")

// portfolioService implements the PortfolioService interface
type portfolioService struct {
	repo   repositories.PortfolioRepository
	logger *zap.Logger

	mu       sync.RWMutex
	sessions map[string][]*models.Wallet
	loaded   map[string]bool
}

// NewPortfolioService creates a new portfolio service backed by repo.
func NewPortfolioService(repo repositories.PortfolioRepository, logger *zap.Logger) PortfolioService {
	return &portfolioService{
		repo:     repo,
		logger:   logger,
		sessions: make(map[string][]*models.Wallet),
		loaded:   make(map[string]bool),
	}
}

func (s *portfolioService) Load(ctx context.Context, owner string) error {
	wallets, err := s.repo.ListWallets(ctx, owner)
	if err != nil {
		return &apperrors.ErrBackend{Op: "list wallets", Err: err}
	}

	// One asset query per wallet, fanned out concurrently. Any single
	// failure fails the whole load; a partial load is never a success.
	assetLists := make([][]*models.Asset, len(wallets))
	g, gctx := errgroup.WithContext(ctx)
	for i, w := range wallets {
		g.Go(func() error {
			assets, err := s.repo.ListAssets(gctx, w.ID)
			if err != nil {
				return err
			}
			assetLists[i] = assets
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return &apperrors.ErrBackend{Op: "list assets", Err: err}
	}

	for i, w := range wallets {
		w.Assets = assetLists[i]
		if w.Assets == nil {
			w.Assets = []*models.Asset{}
		}
	}

	s.mu.Lock()
	s.sessions[owner] = wallets
	s.loaded[owner] = true
	s.mu.Unlock()

	s.logger.Debug("portfolio loaded",
		zap.String("owner", owner),
		zap.Int("wallets", len(wallets)))
	return nil
}

func (s *portfolioService) ensureLoaded(ctx context.Context, owner string) error {
	s.mu.RLock()
	done := s.loaded[owner]
	s.mu.RUnlock()
	if done {
		return nil
	}
	return s.Load(ctx, owner)
}

func (s *portfolioService) Wallets(ctx context.Context, owner string) ([]*models.Wallet, error) {
	if err := s.ensureLoaded(ctx, owner); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshotWallets(s.sessions[owner]), nil
}

func (s *portfolioService) AddWallet(ctx context.Context, owner, name string) (*models.Wallet, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &apperrors.ErrValidation{Field: "name", Message: "wallet name is required"}
	}
	if err := s.ensureLoaded(ctx, owner); err != nil {
		return nil, err
	}

	w, err := s.repo.CreateWallet(ctx, name, owner)
	if err != nil {
		return nil, &apperrors.ErrBackend{Op: "create wallet", Err: err}
	}
	if w == nil || w.ID == "" {
		// A row without a usable identifier is a failure, not a partial
		// success.
		return nil, &apperrors.ErrBackend{Op: "create wallet", Err: errNoIdentifier}
	}
	if w.Assets == nil {
		w.Assets = []*models.Asset{}
	}

	s.mu.Lock()
	s.sessions[owner] = append(s.sessions[owner], w)
	s.mu.Unlock()

	s.logger.Info("wallet added", zap.String("id", w.ID), zap.String("name", w.Name))
	copied := *w
	copied.Assets = append([]*models.Asset{}, w.Assets...)
	return &copied, nil
}

func (s *portfolioService) DeleteWallet(ctx context.Context, owner, walletID string) error {
	if err := s.ensureLoaded(ctx, owner); err != nil {
		return err
	}
	if s.findWallet(owner, walletID) == nil {
		return &apperrors.ErrValidation{Field: "wallet", Message: "wallet not found"}
	}

	if err := s.repo.DeleteWallet(ctx, walletID); err != nil {
		return &apperrors.ErrBackend{Op: "delete wallet", Err: err}
	}

	s.mu.Lock()
	wallets := s.sessions[owner]
	for i, w := range wallets {
		if w.ID == walletID {
			s.sessions[owner] = append(wallets[:i], wallets[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.logger.Info("wallet deleted", zap.String("id", walletID))
	return nil
}

func (s *portfolioService) AddAsset(ctx context.Context, owner, walletID, name, amountText string) (*models.Asset, error) {
	// All validation happens before any backend call.
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &apperrors.ErrValidation{Field: "name", Message: "asset name is required"}
	}
	amount, err := models.ParseAmount(amountText)
	if err != nil {
		return nil, err
	}
	if err := s.ensureLoaded(ctx, owner); err != nil {
		return nil, err
	}
	if s.findWallet(owner, walletID) == nil {
		return nil, &apperrors.ErrValidation{Field: "wallet", Message: "wallet not found"}
	}

	a, err := s.repo.CreateAsset(ctx, walletID, name, amount)
	if err != nil {
		return nil, &apperrors.ErrBackend{Op: "create asset", Err: err}
	}
	if a == nil || a.ID == "" {
		return nil, &apperrors.ErrBackend{Op: "create asset", Err: errNoIdentifier}
	}

	s.mu.Lock()
	if w := s.lockedFindWallet(owner, walletID); w != nil {
		w.Assets = append(w.Assets, a)
	}
	s.mu.Unlock()

	s.logger.Info("asset added",
		zap.String("wallet_id", walletID),
		zap.String("name", a.Name),
		zap.String("amount", a.Amount.String()))
	copied := *a
	return &copied, nil
}

func (s *portfolioService) DeleteAsset(ctx context.Context, owner, walletID, assetID string) error {
	if err := s.ensureLoaded(ctx, owner); err != nil {
		return err
	}
	w := s.findWallet(owner, walletID)
	if w == nil {
		return &apperrors.ErrValidation{Field: "wallet", Message: "wallet not found"}
	}
	found := false
	for _, a := range w.Assets {
		if a.ID == assetID {
			found = true
			break
		}
	}
	if !found {
		return &apperrors.ErrValidation{Field: "asset", Message: "asset not found"}
	}

	if err := s.repo.DeleteAsset(ctx, assetID); err != nil {
		return &apperrors.ErrBackend{Op: "delete asset", Err: err}
	}

	s.mu.Lock()
	if w := s.lockedFindWallet(owner, walletID); w != nil {
		for i, a := range w.Assets {
			if a.ID == assetID {
				w.Assets = append(w.Assets[:i], w.Assets[i+1:]...)
				break
			}
		}
	}
	s.mu.Unlock()

	s.logger.Info("asset deleted", zap.String("wallet_id", walletID), zap.String("id", assetID))
	return nil
}

// findWallet returns the session's wallet with the given id, or nil.
func (s *portfolioService) findWallet(owner, walletID string) *models.Wallet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lockedFindWallet(owner, walletID)
}

// lockedFindWallet is findWallet for callers already holding the mutex.
func (s *portfolioService) lockedFindWallet(owner, walletID string) *models.Wallet {
	for _, w := range s.sessions[owner] {
		if w.ID == walletID {
			return w
		}
	}
	return nil
}

// snapshotWallets deep-copies the wallet collection so aggregation and export
// see a consistent view regardless of later mutation.
func snapshotWallets(wallets []*models.Wallet) []*models.Wallet {
	out := make([]*models.Wallet, len(wallets))
	for i, w := range wallets {
		copied := *w
		copied.Assets = make([]*models.Asset, len(w.Assets))
		for j, a := range w.Assets {
			assetCopy := *a
			copied.Assets[j] = &assetCopy
		}
		out[i] = &copied
	}
	return out
}
