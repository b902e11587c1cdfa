// Package posting turns business-event snapshots into balanced journal plans.
// Strategies are pure: they never touch storage and never resolve accounts.
package posting

import (
	"fmt"
	"time"

	"github.com/SscSPs/ledger_posting_service/internal/apperrors"
	"github.com/SscSPs/ledger_posting_service/internal/core/domain"
	"github.com/SscSPs/ledger_posting_service/internal/utils/accounting"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// DefaultPrecision is the number of fractional digits amounts may carry.
const DefaultPrecision int32 = 2

var validate = validator.New()

// Strategy builds a Plan for one event type.
type Strategy interface {
	EventType() domain.EventType
	// NewSnapshot returns a pointer to an empty snapshot suitable for decoding a request body.
	NewSnapshot() any
	// Reference derives the journal reference from the originating document number.
	Reference(documentNumber string) string
	Build(snapshot any) (*Plan, error)
}

// Registry selects the Strategy for an event type.
type Registry struct {
	strategies map[domain.EventType]Strategy
}

// NewRegistry registers the invoice, bill, POS sale and manual strategies.
// now supplies the entry date when a snapshot carries none; nil means time.Now.
func NewRegistry(precision int32, now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	rules := amountRules{precision: precision, now: now}
	r := &Registry{strategies: make(map[domain.EventType]Strategy)}
	r.Register(invoiceStrategy{rules})
	r.Register(billStrategy{rules})
	r.Register(posSaleStrategy{rules})
	r.Register(manualStrategy{rules})
	return r
}

// Register adds or replaces the strategy for its event type.
func (r *Registry) Register(s Strategy) {
	r.strategies[s.EventType()] = s
}

// Strategy returns the strategy registered for eventType.
func (r *Registry) Strategy(eventType domain.EventType) (Strategy, error) {
	s, ok := r.strategies[eventType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownEventType, eventType)
	}
	return s, nil
}

// Plan builds and validates the plan for snapshot.
func (r *Registry) Plan(eventType domain.EventType, snapshot any) (*Plan, error) {
	s, err := r.Strategy(eventType)
	if err != nil {
		return nil, err
	}
	plan, err := s.Build(snapshot)
	if err != nil {
		return nil, err
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return plan, nil
}

// Reference derives the journal reference for a document of the given event type.
func (r *Registry) Reference(eventType domain.EventType, documentNumber string) (string, error) {
	s, err := r.Strategy(eventType)
	if err != nil {
		return "", err
	}
	return s.Reference(documentNumber), nil
}

type amountRules struct {
	precision int32
	now       func() time.Time
}

func (a amountRules) positive(field string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: %s must be greater than zero", apperrors.ErrValidation, field)
	}
	return accounting.CheckPrecision(field, amount, a.precision)
}

func (a amountRules) nonNegative(field string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: %s must not be negative", apperrors.ErrValidation, field)
	}
	return accounting.CheckPrecision(field, amount, a.precision)
}

func (a amountRules) date(t time.Time) time.Time {
	if t.IsZero() {
		return a.now().UTC()
	}
	return t.UTC()
}

func validateSnapshot(snapshot any) error {
	if err := validate.Struct(snapshot); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	return nil
}

// snapshotAs accepts either a T or a *T.
func snapshotAs[T any](snapshot any) (T, error) {
	var zero T
	switch v := snapshot.(type) {
	case T:
		return v, nil
	case *T:
		if v != nil {
			return *v, nil
		}
	}
	return zero, fmt.Errorf("%w: unexpected snapshot type %T", apperrors.ErrValidation, snapshot)
}
