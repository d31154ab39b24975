// Package accountsync ingests connector trade batches and rescores accounts.
package accountsync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"skillion-sdi/internal/domain"
	"skillion-sdi/internal/idhash"
	"skillion-sdi/internal/observability"
	"skillion-sdi/internal/scoring"
	"skillion-sdi/internal/storage"
)

// Sync errors.
var (
	// ErrInvalidToken is returned when the sync token is missing, too short
	// or not issued to any account.
	ErrInvalidToken = errors.New("invalid sync token")

	// ErrRateLimited is returned when the account synced less than one
	// window ago.
	ErrRateLimited = errors.New("sync rate limited")
)

// Defaults for Service options.
const (
	DefaultRateLimitWindow = time.Minute
	DefaultMinTokenLength  = 10
	DefaultPlatform        = "MT4"
)

// NoTradesMessage is returned for an empty batch.
const NoTradesMessage = "No trades received."

// Stores groups the persistence collaborators of the sync flow.
type Stores struct {
	Accounts   storage.AccountStore
	Trades     storage.TradeStore
	Scores     storage.ScoreStore
	History    storage.ScoreHistoryStore
	RateLimits storage.RateLimitStore
}

// SyncRequest is one connector upload.
type SyncRequest struct {
	Meta   domain.SyncMeta
	Trades []domain.Trade
}

// SyncResult is returned to the connector.
type SyncResult struct {
	Score    int
	Tier     domain.Tier // empty when no trades were received
	Trades   int         // eligible trades in the complete history
	Inserted int         // trades from this batch not seen before
	Message  string
}

// Service runs the sync flow: authenticate, rate limit, store the batch,
// rescore the complete history and persist the score.
type Service struct {
	stores         Stores
	window         time.Duration
	minTokenLength int
	logger         *zap.Logger
	metrics        *observability.Metrics
	now            func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used for rate limiting and score timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithRateLimitWindow sets the minimum interval between accepted syncs of one account.
func WithRateLimitWindow(d time.Duration) Option {
	return func(s *Service) { s.window = d }
}

// WithMinTokenLength sets the shortest token accepted before lookup.
func WithMinTokenLength(n int) Option {
	return func(s *Service) { s.minTokenLength = n }
}

// NewService creates a Service over stores.
func NewService(stores Stores, opts ...Option) *Service {
	s := &Service{
		stores:         stores,
		window:         DefaultRateLimitWindow,
		minTokenLength: DefaultMinTokenLength,
		logger:         zap.NewNop(),
		metrics:        observability.DefaultMetrics,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sync authenticates token, stores req.Trades and rescores the account.
func (s *Service) Sync(ctx context.Context, token string, req SyncRequest) (*SyncResult, error) {
	account, err := s.Authorize(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.Ingest(ctx, account, req)
}

// Authorize resolves token to its account and consumes the account's rate
// limit window. Callers that must parse the payload after authentication
// call Authorize and then Ingest.
func (s *Service) Authorize(ctx context.Context, token string) (account *domain.Account, err error) {
	defer func() {
		if err != nil {
			s.metrics.RecordSync(syncStatus(err))
		}
	}()

	if len(token) < s.minTokenLength {
		return nil, ErrInvalidToken
	}

	account, err = s.stores.Accounts.GetBySyncToken(ctx, token)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		s.metrics.RecordPersistenceError("accounts")
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	if err := s.stores.RateLimits.Acquire(ctx, account.AccountID, s.now(), s.window); err != nil {
		if errors.Is(err, storage.ErrRateLimited) {
			return nil, ErrRateLimited
		}
		s.metrics.RecordPersistenceError("rate_limits")
		return nil, fmt.Errorf("acquire rate limit: %w", err)
	}

	return account, nil
}

// Ingest stores req.Trades for an authorized account and rescores its
// complete history. Trade and score writes are best effort; only loading
// the stored history is fatal.
func (s *Service) Ingest(ctx context.Context, account *domain.Account, req SyncRequest) (res *SyncResult, err error) {
	defer func() { s.metrics.RecordSync(syncStatus(err)) }()

	log := s.logger.With(
		zap.String("account_id", account.AccountID),
		zap.String("platform", req.Meta.Platform),
	)

	if len(req.Trades) == 0 {
		log.Info("sync received no trades")
		return &SyncResult{Message: NoTradesMessage}, nil
	}

	log.Info("sync received trades", zap.Int("trades", len(req.Trades)))

	inserted, err := s.stores.Trades.UpsertBulk(ctx, account.AccountID, req.Trades, req.Meta)
	if err != nil {
		s.metrics.RecordPersistenceError("trades")
		log.Error("upsert trades failed, scoring stored history", zap.Error(err))
	}
	s.metrics.RecordTrades(len(req.Trades), inserted)

	history, err := s.stores.Trades.GetByAccount(ctx, account.AccountID)
	if err != nil {
		s.metrics.RecordPersistenceError("trades")
		return nil, fmt.Errorf("load trade history: %w", err)
	}

	start := time.Now()
	result := scoring.Calculate(history)
	s.metrics.RecordScore(result, time.Since(start))

	record := &domain.ScoreRecord{
		AccountID:  account.AccountID,
		ComputedAt: s.now().UTC(),
		InputHash:  idhash.ComputeTradeSetHash(history),
		Result:     *result,
		Meta:       req.Meta,
	}
	if err := s.stores.Scores.Upsert(ctx, record); err != nil {
		s.metrics.RecordPersistenceError("scores")
		log.Error("save score failed", zap.Error(err))
	}
	if err := s.stores.History.Insert(ctx, record); err != nil {
		s.metrics.RecordPersistenceError("score_history")
		log.Error("append score history failed", zap.Error(err))
	}

	log.Info("score computed",
		zap.Int("sdi", result.Score),
		zap.String("tier", string(result.Tier)),
		zap.Int("inserted", inserted),
		zap.Int("history", len(history)),
	)

	return &SyncResult{
		Score:    result.Score,
		Tier:     result.Tier,
		Trades:   result.TotalTrades,
		Inserted: inserted,
		Message:  ScoreMessage(result.Score, result.Tier),
	}, nil
}

// ScoreMessage formats the human-readable sync reply, e.g.
// "SDI Score: 742 — Tier: Architect".
func ScoreMessage(score int, tier domain.Tier) string {
	name := string(tier)
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	return fmt.Sprintf("SDI Score: %d — Tier: %s", score, name)
}

func syncStatus(err error) string {
	switch {
	case err == nil:
		return observability.SyncOK
	case errors.Is(err, ErrInvalidToken):
		return observability.SyncInvalidToken
	case errors.Is(err, ErrRateLimited):
		return observability.SyncRateLimited
	default:
		return observability.SyncError
	}
}
