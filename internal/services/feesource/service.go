package feesource

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"feedesk/internal/models"
	"feedesk/internal/repositories"
	cachekeys "feedesk/internal/utils/cache"

	"golang.org/x/sync/errgroup"
)

type service struct {
	repo    repositories.FeeSourceRepository
	cache   Cache
	config  Config
	metrics MetricsCollector
	now     func() time.Time
}

// NewService creates a new fee source store
func NewService(repo repositories.FeeSourceRepository, cache Cache, config Config, metrics MetricsCollector) Service {
	if repo == nil {
		panic("repo is required")
	}
	if cache == nil {
		panic("cache is required")
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = DefaultCacheTTL
	}
	if config.LoadTimeout <= 0 {
		config.LoadTimeout = DefaultLoadTimeout
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}

	return &service{
		repo:    repo,
		cache:   cache,
		config:  config,
		metrics: metrics,
		now:     time.Now,
	}
}

func (s *service) Load(ctx context.Context, schoolID string) (*Snapshot, error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(opLoad, time.Since(start))
	}()

	if strings.TrimSpace(schoolID) == "" {
		return nil, ErrInvalidDocument.WithMessage("school id is required")
	}

	key := cachekeys.FeeSourcesKey(schoolID)
	var cached Snapshot
	found, err := s.cache.Get(ctx, key, &cached)
	switch {
	case err != nil:
		log.Printf("⚠️ Fee source cache read failed for school %s: %v", schoolID, err)
		s.metrics.RecordError(opLoad, "cache_get")
	case found:
		s.metrics.RecordCacheHit(key)
		s.metrics.RecordOperationResult(opLoad, "cache_hit")
		cached.Sources()
		return &cached, nil
	}
	s.metrics.RecordCacheMiss(key)

	snap, err := s.fetch(ctx, schoolID)
	if err != nil {
		s.metrics.RecordOperationResult(opLoad, "error")
		return nil, err
	}

	if snap.Partial {
		s.metrics.RecordOperationResult(opLoad, "partial")
		return snap, nil
	}

	if err := s.cache.SetWithTTL(ctx, key, snap, s.config.CacheTTL); err != nil {
		log.Printf("⚠️ Failed to cache fee sources for school %s: %v", schoolID, err)
		s.metrics.RecordError(opLoad, "cache_set")
	}
	s.metrics.RecordOperationResult(opLoad, "loaded")
	return snap, nil
}

// fetch loads the three sources concurrently. A failed source never cancels the others.
func (s *service) fetch(ctx context.Context, schoolID string) (*Snapshot, error) {
	lctx, cancel := context.WithTimeout(ctx, s.config.LoadTimeout)
	defer cancel()

	snap := &Snapshot{SchoolID: schoolID}
	var (
		mu       sync.Mutex
		warnings []string
	)
	fail := func(kind models.FeeSourceKind, err error) {
		log.Printf("❌ Failed to load %s fees for school %s: %v", kind, schoolID, err)
		s.metrics.RecordPartialLoad(string(kind))
		mu.Lock()
		warnings = append(warnings, fmt.Sprintf("%s fees could not be loaded", kind))
		mu.Unlock()
	}

	var g errgroup.Group
	g.Go(func() error {
		doc, err := s.repo.GetExamSpecific(lctx, schoolID)
		if err = absentIsEmpty(err); err != nil {
			fail(models.FeeSourceExamSpecific, err)
			return nil
		}
		snap.ExamSpecific = doc
		return nil
	})
	g.Go(func() error {
		doc, err := s.repo.GetByType(lctx, schoolID)
		if err = absentIsEmpty(err); err != nil {
			fail(models.FeeSourceByType, err)
			return nil
		}
		snap.ByType = doc
		return nil
	})
	g.Go(func() error {
		doc, err := s.repo.GetClassWise(lctx, schoolID)
		if err = absentIsEmpty(err); err != nil {
			fail(models.FeeSourceClassWise, err)
			return nil
		}
		snap.ClassWise = doc
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Strings(warnings)
	snap.Warnings = warnings
	snap.Partial = len(warnings) > 0
	snap.LoadedAt = s.now().UTC()
	snap.Sources()
	return snap, nil
}

func absentIsEmpty(err error) error {
	if errors.Is(err, repositories.ErrFeeSourceNotFound) {
		return nil
	}
	return err
}

func (s *service) Invalidate(ctx context.Context, schoolID string) error {
	if err := s.cache.Delete(ctx, cachekeys.FeeSourcesKey(schoolID)); err != nil {
		s.metrics.RecordError(opInvalidate, "cache_delete")
		return fmt.Errorf("failed to invalidate fee sources: %w", err)
	}
	s.metrics.RecordOperationResult(opInvalidate, "success")
	return nil
}

func (s *service) InvalidateAll(ctx context.Context) error {
	if err := s.cache.DeletePattern(ctx, cachekeys.FeeSourcesPattern()); err != nil {
		s.metrics.RecordError(opInvalidate, "cache_delete")
		return fmt.Errorf("failed to invalidate fee sources: %w", err)
	}
	s.metrics.RecordOperationResult(opInvalidate, "success")
	return nil
}

func (s *service) SaveExamSpecific(ctx context.Context, schoolID string, doc *models.ExamSpecificFees, updatedBy string) error {
	if doc == nil {
		return ErrInvalidDocument
	}
	if err := validateNested(doc.Fees); err != nil {
		return err
	}
	return s.save(ctx, schoolID, models.FeeSourceExamSpecific, func() error {
		return s.repo.SaveExamSpecific(ctx, schoolID, doc, updatedBy)
	})
}

func (s *service) SaveByType(ctx context.Context, schoolID string, doc *models.ExamFeesByType, updatedBy string) error {
	if doc == nil {
		return ErrInvalidDocument
	}
	if err := validateNested(doc.Types); err != nil {
		return err
	}
	return s.save(ctx, schoolID, models.FeeSourceByType, func() error {
		return s.repo.SaveByType(ctx, schoolID, doc, updatedBy)
	})
}

func (s *service) SaveClassWise(ctx context.Context, schoolID string, doc *models.ClassWiseFees, updatedBy string) error {
	if doc == nil {
		return ErrInvalidDocument
	}
	if err := validateTable("examFees", doc.ExamFees); err != nil {
		return err
	}
	return s.save(ctx, schoolID, models.FeeSourceClassWise, func() error {
		return s.repo.SaveClassWise(ctx, schoolID, doc, updatedBy)
	})
}

func (s *service) save(ctx context.Context, schoolID string, kind models.FeeSourceKind, write func() error) error {
	start := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(opSave, time.Since(start))
	}()

	if strings.TrimSpace(schoolID) == "" {
		return ErrInvalidDocument.WithMessage("school id is required")
	}
	if err := write(); err != nil {
		s.metrics.RecordError(opSave, string(kind))
		return fmt.Errorf("failed to save %s fees: %w", kind, err)
	}
	if err := s.Invalidate(ctx, schoolID); err != nil {
		// the write went through; a stale snapshot expires with the cache TTL
		log.Printf("⚠️ Saved %s fees for school %s but cache invalidation failed: %v", kind, schoolID, err)
	}
	log.Printf("✅ %s fees saved for school %s", kind, schoolID)
	s.metrics.RecordOperationResult(opSave, string(kind))
	return nil
}
