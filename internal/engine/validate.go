package engine

import (
	"fmt"

	"matchcore/internal/common"
)

// validate checks an incoming order against spec.md §4.3's validation
// rules, before it is ever admitted to a book. A failure here means the
// order is REJECTED and never touches matching.
func (e *Engine) validate(o *common.Order) error {
	if _, ok := e.actors[o.Symbol]; !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedSymbol, o.Symbol)
	}

	if !o.Original.IsPositive() {
		return fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	if o.Original.LessThan(e.cfg.MinOrderSize) {
		return fmt.Errorf("%w: quantity below minimum %s", ErrValidation, e.cfg.MinOrderSize.String())
	}
	if o.Original.GreaterThan(e.cfg.MaxOrderSize) {
		return fmt.Errorf("%w: quantity above maximum %s", ErrValidation, e.cfg.MaxOrderSize.String())
	}

	if o.Type.RequiresPrice() {
		if !o.Price.IsPositive() {
			return fmt.Errorf("%w: price must be positive", ErrValidation)
		}
		if o.Price.LessThan(e.cfg.MinPrice) {
			return fmt.Errorf("%w: price below minimum %s", ErrValidation, e.cfg.MinPrice.String())
		}
		if o.Price.GreaterThan(e.cfg.MaxPrice) {
			return fmt.Errorf("%w: price above maximum %s", ErrValidation, e.cfg.MaxPrice.String())
		}
	} else if !o.Price.IsZero() {
		// Open Question 3 (spec.md §9): MARKET orders with a price are rejected.
		return fmt.Errorf("%w: market orders must not carry a price", ErrValidation)
	}

	return nil
}
