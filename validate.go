package relay

import (
	"fmt"
	"strings"
)

// Validate checks universal constraints on Request.
// Provider implementations may apply additional provider-specific validation.
func (r Request) Validate() error {
	if len(r.Turns) == 0 {
		return fmt.Errorf("request has no turns: %w", ErrValidation)
	}
	for i, t := range r.Turns {
		if err := ValidateTurn(t); err != nil {
			return fmt.Errorf("turn %d: %w", i, err)
		}
	}
	if r.Temperature != nil {
		if *r.Temperature < 0 || *r.Temperature > 2 {
			return fmt.Errorf("temperature must be in [0, 2], got %g: %w", *r.Temperature, ErrValidation)
		}
	}
	if r.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must be non-negative, got %d: %w", r.MaxTokens, ErrValidation)
	}
	return nil
}

// ValidateTurn checks that a turn has a known role. User turns must carry
// non-blank content; assistant turns may be empty.
func ValidateTurn(t Turn) error {
	if !t.Role.Valid() {
		return fmt.Errorf("unknown role %q: %w", t.Role, ErrValidation)
	}
	if t.Role == RoleUser && strings.TrimSpace(t.Content) == "" {
		return fmt.Errorf("empty user turn: %w", ErrValidation)
	}
	return nil
}
