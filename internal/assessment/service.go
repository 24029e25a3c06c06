// Package assessment wires the scoring core to its collaborators: it runs a
// scoring request end to end and hands the result to history and metrics.
package assessment

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Skufu/riskscope/internal/advice"
	"github.com/Skufu/riskscope/internal/catalog"
	"github.com/Skufu/riskscope/internal/history"
	"github.com/Skufu/riskscope/internal/measure"
	"github.com/Skufu/riskscope/internal/metrics"
	"github.com/Skufu/riskscope/internal/risk"
	"github.com/Skufu/riskscope/internal/symptom"
)

// Assessment is the full result of scoring one condition.
type Assessment struct {
	ID              string              `json:"id"`
	ConditionID     string              `json:"conditionId"`
	ConditionName   string              `json:"conditionName"`
	Score           int                 `json:"score"`
	Tier            risk.Tier           `json:"tier"`
	Breakdown       []risk.Contribution `json:"breakdown"`
	Recommendations []string            `json:"recommendations"`
	AssessedAt      time.Time           `json:"assessedAt"`
}

// DefaultHistoryTimeout bounds how long Assess waits on the history sink.
const DefaultHistoryTimeout = 3 * time.Second

// Service runs assessments against one catalog.
type Service struct {
	catalog        *catalog.Catalog
	sink           history.Sink
	historyTimeout time.Duration
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
}

// Option configures a Service.
type Option func(*Service)

// WithHistory sends every completed assessment to sink.
func WithHistory(sink history.Sink) Option {
	return func(s *Service) { s.sink = sink }
}

// WithHistoryTimeout overrides DefaultHistoryTimeout.
func WithHistoryTimeout(d time.Duration) Option {
	return func(s *Service) { s.historyTimeout = d }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock overrides the time source and id generator, for tests.
func WithClock(now func() time.Time, newID func() string) Option {
	return func(s *Service) {
		s.now = now
		s.newID = newID
	}
}

func New(c *catalog.Catalog, opts ...Option) *Service {
	s := &Service{
		catalog:        c,
		historyTimeout: DefaultHistoryTimeout,
		logger:         slog.Default(),
		now:            time.Now,
		newID:          history.NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Assess scores conditionID, builds its recommendations and records the
// result. A history failure is logged but does not fail the assessment.
func (s *Service) Assess(ctx context.Context, conditionID string, m measure.Measurements) (Assessment, error) {
	cond, err := s.catalog.Get(conditionID)
	if err != nil {
		return Assessment{}, s.reject(err)
	}

	if scoresBMI(cond) {
		m, err = measure.DeriveBMI(m)
		if err != nil {
			return Assessment{}, s.reject(&risk.InvalidValueError{Condition: cond.ID, Factor: measure.KeyBMI, Reason: err.Error()})
		}
	}

	res, err := risk.Evaluate(cond, m)
	if err != nil {
		return Assessment{}, s.reject(err)
	}

	a := Assessment{
		ID:              s.newID(),
		ConditionID:     cond.ID,
		ConditionName:   cond.Name,
		Score:           res.Score,
		Tier:            res.Tier,
		Breakdown:       res.Breakdown,
		Recommendations: advice.Recommend(cond, res.Tier, m),
		AssessedAt:      s.now().UTC(),
	}

	if s.metrics != nil {
		s.metrics.Assessments.WithLabelValues(cond.ID, string(res.Tier)).Inc()
		s.metrics.Scores.WithLabelValues(cond.ID).Observe(float64(res.Score))
	}

	s.record(ctx, a, m)

	s.logger.Debug("assessment completed",
		"id", a.ID,
		"condition", cond.ID,
		"score", a.Score,
		"tier", a.Tier,
	)
	return a, nil
}

func (s *Service) record(ctx context.Context, a Assessment, m measure.Measurements) {
	if s.sink == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, s.historyTimeout)
	defer cancel()

	err := s.sink.Append(ctx, history.Entry{
		ID:            a.ID,
		ConditionID:   a.ConditionID,
		ConditionName: a.ConditionName,
		Score:         a.Score,
		Tier:          a.Tier,
		Measurements:  m,
		Timestamp:     a.AssessedAt,
	})
	if err != nil {
		s.logger.Warn("history append failed", "id", a.ID, "error", err)
		if s.metrics != nil {
			s.metrics.HistoryFailures.Inc()
		}
	}
}

// Recommendations returns the advice for conditionID at the given tier
// without scoring. Measurements are not validated.
func (s *Service) Recommendations(conditionID string, tier risk.Tier, m measure.Measurements) ([]string, error) {
	cond, err := s.catalog.Get(conditionID)
	if err != nil {
		return nil, s.reject(err)
	}
	if scoresBMI(cond) {
		if derived, err := measure.DeriveBMI(m); err == nil {
			m = derived
		}
	}
	return advice.Recommend(cond, tier, m), nil
}

// MatchSymptoms compares selected against every condition.
func (s *Service) MatchSymptoms(selected []string) ([]symptom.Match, error) {
	matches, err := symptom.Find(s.catalog, selected)
	if err != nil {
		return nil, s.reject(err)
	}
	if s.metrics != nil {
		s.metrics.SymptomChecks.Inc()
	}
	return matches, nil
}

// Symptoms lists every distinct symptom for selection.
func (s *Service) Symptoms() []string {
	return s.catalog.AllSymptoms()
}

func (s *Service) Conditions() []catalog.Condition {
	return s.catalog.List()
}

func (s *Service) Condition(id string) (catalog.Condition, error) {
	cond, err := s.catalog.Get(id)
	if err != nil {
		return catalog.Condition{}, s.reject(err)
	}
	return cond, nil
}

// History returns recent entries when the configured sink can be read.
func (s *Service) History(ctx context.Context, limit int) ([]history.Entry, error) {
	reader, ok := s.sink.(interface {
		List(ctx context.Context, limit int) ([]history.Entry, error)
	})
	if !ok {
		return nil, history.ErrNotReadable
	}
	entries, err := reader.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	return entries, nil
}

// scoresBMI reports whether cond has a bmi factor that may need deriving.
func scoresBMI(cond catalog.Condition) bool {
	for _, f := range cond.Factors {
		if f.Name == measure.KeyBMI {
			return true
		}
	}
	return false
}

func (s *Service) reject(err error) error {
	if s.metrics != nil {
		s.metrics.Errors.WithLabelValues(Kind(err)).Inc()
	}
	return err
}

// Error kinds reported by Kind.
const (
	KindUnknownCondition = "unknown_condition"
	KindMissingFactor    = "missing_factor"
	KindInvalidValue     = "invalid_value"
	KindEmptySelection   = "empty_selection"
	KindInternal         = "internal"
)

// Kind classifies err into one of the stable error kinds above.
func Kind(err error) string {
	var (
		unknown *catalog.UnknownConditionError
		missing *risk.MissingFactorError
		invalid *risk.InvalidValueError
	)
	switch {
	case errors.As(err, &unknown):
		return KindUnknownCondition
	case errors.As(err, &missing):
		return KindMissingFactor
	case errors.As(err, &invalid):
		return KindInvalidValue
	case errors.Is(err, symptom.ErrEmptySelection):
		return KindEmptySelection
	default:
		return KindInternal
	}
}
