package engine

import (
	"fmt"
	"math"

	"github.com/hisab-app/hisab/internal/models"
)

// ValidateItems checks the invariants the engine's compute functions trust.
// It belongs at the input boundary: compute functions do not re-validate, so
// a caller that skips this gets silently skewed totals on bad data.
//
// Checks, per item:
//   - Amount is finite and non-negative
//   - Single items have exactly one payment equal to Amount (within 0.01)
//   - Combination payments sum to Amount (within 0.01)
//   - every payment references a participant or the common pool
//   - every liable person is a participant and appears at most once
//   - a positive-amount item with no liable persons fails under
//     EmptyLiabilityReject
func ValidateItems(items []models.ExpenseItem, participants []models.Person, opts Options) error {
	known := make(map[string]bool, len(participants))
	for _, p := range participants {
		known[p.ID] = true
	}

	for _, item := range items {
		if !finiteNonNegative(item.Amount) {
			return fmt.Errorf("item %q: amount %v: %w", item.Name, item.Amount, ErrNonFiniteAmount)
		}

		paid := 0.0
		for _, payment := range item.Payments {
			if !finiteNonNegative(payment.Amount) {
				return fmt.Errorf("item %q: payment by %s: amount %v: %w", item.Name, payment.PersonID, payment.Amount, ErrNonFiniteAmount)
			}
			if payment.PersonID != models.CommonPayerID && !known[payment.PersonID] {
				return fmt.Errorf("item %q: payment by %s: %w", item.Name, payment.PersonID, ErrUnknownPerson)
			}
			paid += payment.Amount
		}

		switch item.PaymentMethod {
		case models.PaymentSingle:
			if len(item.Payments) != 1 || math.Abs(item.Payments[0].Amount-item.Amount) > tolerance {
				return fmt.Errorf("item %q: single payment must equal amount %.2f: %w", item.Name, item.Amount, ErrPaymentMismatch)
			}
		case models.PaymentCombination:
			if math.Abs(paid-item.Amount) > tolerance {
				return fmt.Errorf("item %q: payments sum to %.2f, amount is %.2f: %w", item.Name, paid, item.Amount, ErrPaymentMismatch)
			}
		}

		seen := make(map[string]bool, len(item.LiablePersons))
		for _, id := range item.LiablePersons {
			if !known[id] {
				return fmt.Errorf("item %q: liable person %s: %w", item.Name, id, ErrUnknownPerson)
			}
			if seen[id] {
				return fmt.Errorf("item %q: liable person %s listed twice: %w", item.Name, id, ErrInvalidLiability)
			}
			seen[id] = true
		}
		if len(item.LiablePersons) == 0 && item.Amount > 0 && opts.EmptyLiability == EmptyLiabilityReject {
			return fmt.Errorf("item %q: %w", item.Name, ErrInvalidLiability)
		}
	}

	return nil
}

// ValidateDeductible checks the deductible's standalone invariants. The
// exceeds-total check lives in ApplyDeductible, where the total is known.
func ValidateDeductible(d models.Deductible) error {
	if !finiteNonNegative(d.Amount) {
		return fmt.Errorf("deductible %v: %w", d.Amount, ErrNonFiniteAmount)
	}
	if !d.IsApplied && d.Amount != 0 {
		return fmt.Errorf("deductible amount %.2f: %w", d.Amount, ErrDeductibleNotApplied)
	}
	return nil
}
