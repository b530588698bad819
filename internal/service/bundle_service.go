package service

import (
	"errors"
	"sync"

	"scent-store/internal/domain"

	"go.uber.org/zap"
)

var ErrBundleNotFound = errors.New("bundle not found")

// BundleService serves the promotional bundles. Bundles live in process
// memory only; a restart brings back the starter set.
type BundleService interface {
	ListBundles() []domain.Bundle
	GetBundle(id string) (domain.Bundle, error)
	DeleteBundle(id string) error
}

type bundleService struct {
	logger *zap.Logger

	mu      sync.RWMutex
	bundles []domain.Bundle
}

// NewBundleService creates a BundleService holding bundles
func NewBundleService(bundles []domain.Bundle, logger *zap.Logger) BundleService {
	return &bundleService{
		logger:  logger,
		bundles: append([]domain.Bundle(nil), bundles...),
	}
}

func (s *bundleService) ListBundles() []domain.Bundle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Bundle{}, s.bundles...)
}

func (s *bundleService) GetBundle(id string) (domain.Bundle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, bundle := range s.bundles {
		if bundle.ID == id {
			return bundle, nil
		}
	}
	return domain.Bundle{}, ErrBundleNotFound
}

func (s *bundleService) DeleteBundle(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, bundle := range s.bundles {
		if bundle.ID == id {
			s.bundles = append(s.bundles[:i], s.bundles[i+1:]...)
			s.logger.Info("Bundle removed", zap.String("bundle_id", id))
			return nil
		}
	}
	return ErrBundleNotFound
}
