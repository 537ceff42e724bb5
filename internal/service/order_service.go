package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/retailops/order-intake/internal/domain"
	"github.com/retailops/order-intake/internal/extractor"
)

const (
	DefaultMatcher = "hybrid"
	DefaultLang    = "en"
)

var supportedLangs = []string{"en", "ms"}

// RecordStore defines the storage operations the service depends on.
type RecordStore interface {
	CreateOrderIfAbsent(ctx context.Context, code string, createdAt time.Time) (bool, error)
	AppendPayment(ctx context.Context, orderCode string, amount float64, createdAt time.Time) error
	AppendEvent(ctx context.Context, orderCode string, kind domain.EventKind, createdAt time.Time) error
	ListPayments(ctx context.Context) ([]domain.Payment, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
}

// CodeExtractor defines the text-to-order-code extraction the service
// depends on.
type CodeExtractor interface {
	Extract(ctx context.Context, text, matcher, lang string) (extractor.Parsed, *extractor.Match)
}

// OrderService implements the order intake operations on top of an injected
// store and extractor.
type OrderService struct {
	store     RecordStore
	extractor CodeExtractor
	logger    *slog.Logger
	now       func() time.Time
}

// NewOrderService creates a new OrderService instance
func NewOrderService(store RecordStore, codeExtractor CodeExtractor, logger *slog.Logger) *OrderService {
	return &OrderService{
		store:     store,
		extractor: codeExtractor,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateOrder records an order for the code unless one already exists.
// Creation is idempotent: re-creating an existing code is a no-op reported
// through the created flag, never an error.
func (s *OrderService) CreateOrder(ctx context.Context, code string) (bool, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return false, &ValidationError{Field: "code", Reason: "must not be empty"}
	}

	created, err := s.store.CreateOrderIfAbsent(ctx, code, s.now())
	if err != nil {
		return false, fmt.Errorf("create order %s: %w", code, err)
	}

	return created, nil
}

// Parse extracts a candidate order code from free text, applying the matcher
// and language defaults.
func (s *OrderService) Parse(ctx context.Context, text, matcher, lang string) (extractor.Parsed, *extractor.Match, error) {
	if matcher == "" {
		matcher = DefaultMatcher
	}
	if lang == "" {
		lang = DefaultLang
	}
	if !slices.Contains(supportedLangs, lang) {
		return nil, nil, &ValidationError{Field: "lang", Reason: "must be one of: " + strings.Join(supportedLangs, ", ")}
	}

	parsed, match := s.extractor.Extract(ctx, text, matcher, lang)
	return parsed, match, nil
}

// RecordPayment appends a payment against the order code, auto-creating the
// order when it does not exist yet.
func (s *OrderService) RecordPayment(ctx context.Context, code string, amount float64) error {
	if amount <= 0 {
		return &ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}

	if err := s.store.AppendPayment(ctx, code, amount, s.now()); err != nil {
		return fmt.Errorf("record payment for %s: %w", code, err)
	}

	return nil
}

// RecordEvent appends a lifecycle event against the order code, auto-creating
// the order when it does not exist yet.
func (s *OrderService) RecordEvent(ctx context.Context, code string, kind domain.EventKind) error {
	if !kind.Valid() {
		return &ValidationError{Field: "event", Reason: "must be one of: " + joinKinds(domain.EventKinds)}
	}

	if err := s.store.AppendEvent(ctx, code, kind, s.now()); err != nil {
		return fmt.Errorf("record event for %s: %w", code, err)
	}

	return nil
}

func joinKinds(kinds []domain.EventKind) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
