// Package engine computes expense ledgers, deductible adjustments, and
// settlement plans. Every function is pure: inputs are treated as read-only
// snapshots, outputs are freshly allocated, and two calls with identical
// inputs produce identical results.
package engine

import "errors"

// tolerance is the threshold below which a balance counts as settled.
// Matches the 0.01 currency granularity used throughout.
const tolerance = 0.01

var (
	// ErrInvalidLiability is returned when an item's liable set lists the
	// same person twice, or is empty on a positive-amount item and the
	// options demand rejection.
	ErrInvalidLiability = errors.New("invalid liable persons")

	// ErrPaymentMismatch is returned when an item's payments do not match
	// its amount (Single: one payment equal to amount; Combination: payments
	// sum to amount within 0.01).
	ErrPaymentMismatch = errors.New("payments do not sum to item amount")

	// ErrDeductibleExceedsTotal is returned when an applied deductible is
	// greater than or equal to the total amount.
	ErrDeductibleExceedsTotal = errors.New("deductible exceeds total amount")

	// ErrNonFiniteAmount is returned for any NaN, infinite, or negative amount.
	ErrNonFiniteAmount = errors.New("amount must be finite and non-negative")

	// ErrDeductibleNotApplied is returned when a deductible carries a
	// nonzero amount while IsApplied is false.
	ErrDeductibleNotApplied = errors.New("deductible amount set without being applied")

	// ErrUnknownPerson is returned when a payment or liability references a
	// person that is not a participant.
	ErrUnknownPerson = errors.New("unknown participant id")

	// ErrNoParticipants is returned when a computation that divides across
	// participants is given none.
	ErrNoParticipants = errors.New("at least one participant required")
)

// DeductibleAllocation selects how an applied deductible is redistributed
// across participants.
type DeductibleAllocation string

const (
	// AllocationEqualSplit divides the deductible equally per participant.
	// This is the canonical strategy.
	AllocationEqualSplit DeductibleAllocation = "EqualSplit"

	// AllocationProportionalToPaid divides the deductible in proportion to
	// each participant's paid amount.
	AllocationProportionalToPaid DeductibleAllocation = "ProportionalToPaid"
)

// CommonAttribution selects how pooled ("common") payments are credited.
type CommonAttribution string

const (
	// CommonCreditLiable credits a common payment equally to the paid
	// totals of the item's liable persons, keeping the ledger conserved.
	// This is the canonical rule.
	CommonCreditLiable CommonAttribution = "CreditLiable"

	// CommonIgnore leaves common payments out of PaidByPerson entirely.
	// The ledger then no longer conserves and settlement plans report
	// IsSettled=false; callers opt into this knowingly.
	CommonIgnore CommonAttribution = "Ignore"
)

// EmptyLiabilityPolicy selects how items with an empty liable set are treated.
type EmptyLiabilityPolicy string

const (
	// EmptyLiabilityAllow counts such items toward the total while
	// contributing nothing to anyone's owed amount.
	EmptyLiabilityAllow EmptyLiabilityPolicy = "Allow"

	// EmptyLiabilityReject makes ValidateItems fail on such items.
	EmptyLiabilityReject EmptyLiabilityPolicy = "Reject"
)

// Options bundles the engine's behavioral choices. The zero value is not
// usable; start from DefaultOptions.
type Options struct {
	Allocation     DeductibleAllocation
	Common         CommonAttribution
	EmptyLiability EmptyLiabilityPolicy
}

// DefaultOptions returns the canonical configuration: equal-split deductible,
// common payments credited to the liable set, empty liable sets tolerated.
func DefaultOptions() Options {
	return Options{
		Allocation:     AllocationEqualSplit,
		Common:         CommonCreditLiable,
		EmptyLiability: EmptyLiabilityAllow,
	}
}
