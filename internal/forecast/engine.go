package forecast

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/atlasmetrics/foresight/internal/models"
)

const cacheNamespace = "foresight:intel"

// IntelligenceCache memoizes full reports per cache key. Implementations
// must be safe under concurrent use.
type IntelligenceCache interface {
	Get(ctx context.Context, key string) (*models.ForwardIntelligence, bool)
	Set(ctx context.Context, key string, intel *models.ForwardIntelligence, ttl time.Duration) error
}

// Engine runs the four analyzer branches over a historical snapshot and
// assembles the ForwardIntelligence aggregate. Construct it with NewEngine;
// there is no package-level singleton.
type Engine struct {
	cfg    *EngineConfig
	cache  IntelligenceCache
	peers  PeerProvider
	logger *logrus.Logger
	tracer trace.Tracer

	flight       singleflight.Group
	computations atomic.Int64
}

// NewEngine creates an engine. cache and peers may be nil: without a cache
// every call recomputes, and without a peer provider the competitive module
// falls back to the static baseline.
func NewEngine(cfg *EngineConfig, cache IntelligenceCache, peers PeerProvider, logger *logrus.Logger) *Engine {
	if cfg == nil {
		cfg = DefaultEngineConfig()
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Engine{
		cfg:    cfg,
		cache:  cache,
		peers:  peers,
		logger: logger,
		tracer: otel.Tracer("foresight/forecast"),
	}
}

// CacheKey derives the memoization key from the entity id plus the series
// tail, so changed history misses naturally instead of serving stale data.
func (e *Engine) CacheKey(entityID string, history []models.HistoricalDataPoint) string {
	var lastTimestamp int64
	if len(history) > 0 {
		lastTimestamp = history[len(history)-1].Timestamp
	}
	sum := sha256.Sum256(fmt.Appendf(nil, "%s|%s|%d|%d", cacheNamespace, entityID, lastTimestamp, len(history)))
	return cacheNamespace + ":" + hex.EncodeToString(sum[:8])
}

// ComputationCount reports how many full analyses this engine has run.
// Cache hits and coalesced callers do not increment it.
func (e *Engine) ComputationCount() int64 {
	return e.computations.Load()
}

// Analyze produces the ForwardIntelligence report for one entity. The call
// either fully succeeds or fully fails; concurrent requests for the same
// snapshot are coalesced into a single computation.
func (e *Engine) Analyze(ctx context.Context, entity models.Entity, history []models.HistoricalDataPoint) (*models.ForwardIntelligence, error) {
	if len(history) < e.cfg.MinHistory {
		return nil, &InsufficientDataError{Got: len(history), Need: e.cfg.MinHistory}
	}
	history = ensureAscending(history)

	key := e.CacheKey(entity.ID, history)
	if e.cache != nil {
		if cached, ok := e.cache.Get(ctx, key); ok {
			e.logger.WithFields(logrus.Fields{"entity_id": entity.ID, "cache_key": key}).Debug("Serving cached intelligence")
			return cached, nil
		}
	}

	result, err, _ := e.flight.Do(key, func() (interface{}, error) {
		intel, err := e.compute(ctx, entity, history)
		if err != nil {
			return nil, err
		}
		if e.cache != nil {
			if cacheErr := e.cache.Set(ctx, key, intel, e.cfg.CacheTTL); cacheErr != nil {
				e.logger.WithError(cacheErr).WithField("cache_key", key).Warn("Failed to cache intelligence")
			}
		}
		return intel, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.ForwardIntelligence), nil
}

func (e *Engine) compute(ctx context.Context, entity models.Entity, history []models.HistoricalDataPoint) (*models.ForwardIntelligence, error) {
	ctx, span := e.tracer.Start(ctx, "forecast.compute",
		trace.WithAttributes(
			attribute.String("entity.id", entity.ID),
			attribute.Int("history.samples", len(history)),
		))
	defer span.End()

	started := time.Now()
	e.logger.WithFields(logrus.Fields{
		"entity_id": entity.ID,
		"samples":   len(history),
	}).Info("Computing forward intelligence")

	var (
		projections []models.EconomicProjection
		risk        models.RiskAssessment
		competitive models.CompetitiveIntelligence
		milestones  models.MilestoneForecast
	)

	// The branches only read the shared snapshot, so they fan out freely.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		projections = e.ProjectEconomy(history)
		return nil
	})
	g.Go(func() error {
		risk = e.AssessRisk(history)
		return nil
	})
	g.Go(func() error {
		competitive = e.AnalyzeCompetition(gctx, entity, history)
		return nil
	})
	g.Go(func() error {
		milestones = e.ForecastMilestones(started, history)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analyzer branch failed: %w", err)
	}

	insights := e.SynthesizeInsights(started, history, projections, risk, competitive, milestones)
	e.computations.Add(1)

	intel := &models.ForwardIntelligence{
		Generated:          started,
		EntityID:           entity.ID,
		DataQuality:        gradeDataQuality(len(history)),
		Projections:        projections,
		Risk:               risk,
		Competitive:        competitive,
		Milestones:         milestones,
		ActionableInsights: insights,
		Metadata: models.ModelMetadata{
			ReportID: uuid.NewString(),
			Algorithms: []string{
				"least_squares_regression",
				"exponential_smoothing",
				"coefficient_of_variation",
				"normal_confidence_banding",
			},
			DataPoints:     len(history),
			TrainingPeriod: fmt.Sprintf("%d samples spanning timestamps %d-%d", len(history), history[0].Timestamp, history[len(history)-1].Timestamp),
			Accuracy:       clamp(float64(len(history))/50.0, 0.1, 0.95),
			GenerationMs:   time.Since(started).Milliseconds(),
		},
	}

	e.logger.WithFields(logrus.Fields{
		"entity_id":    entity.ID,
		"data_quality": intel.DataQuality,
		"insights":     len(insights),
		"duration_ms":  intel.Metadata.GenerationMs,
	}).Info("Forward intelligence computed")

	return intel, nil
}

// ensureAscending returns a timestamp-sorted view of the series without
// mutating the caller's slice.
func ensureAscending(history []models.HistoricalDataPoint) []models.HistoricalDataPoint {
	sorted := true
	for i := 1; i < len(history); i++ {
		if history[i].Timestamp < history[i-1].Timestamp {
			sorted = false
			break
		}
	}
	if sorted {
		return history
	}

	copied := make([]models.HistoricalDataPoint, len(history))
	copy(copied, history)
	sort.Slice(copied, func(i, j int) bool { return copied[i].Timestamp < copied[j].Timestamp })
	return copied
}

func gradeDataQuality(samples int) models.DataQuality {
	switch {
	case samples >= 50:
		return models.DataQualityExcellent
	case samples >= 30:
		return models.DataQualityGood
	case samples >= 15:
		return models.DataQualityFair
	default:
		return models.DataQualityLimited
	}
}
