package engine

import (
	"fmt"

	"github.com/hisab-app/hisab/internal/models"
)

// Adjustment is the result of applying a deductible to a ledger.
type Adjustment struct {
	FinalTotal        float64
	FinalOwedByPerson map[string]float64
	NetBalances       map[string]float64
}

// ApplyDeductible redistributes an applied deductible across participants and
// produces net balances.
//
// The deductible is cash the group did not ultimately spend (a discount,
// refund, or shared winnings). Two allocations happen:
//
//   - The owed reduction: FinalOwedByPerson[p] = owed[p] - share[p], where
//     shares follow the chosen strategy (equal per participant, or
//     proportional to paid).
//   - The payer refund: the cash itself offsets what the payers fronted,
//     pro-rata to their paid amounts, since a discount reduces the payers'
//     actual outlay.
//
// NetBalances[p] = paid[p] - refund[p] - FinalOwedByPerson[p]. Both sides
// shrink by the full deductible, so the balances sum to ~0 whenever the
// ledger conserved.
//
// An applied deductible >= the total amount is rejected with
// ErrDeductibleExceedsTotal before any output is produced.
func ApplyDeductible(ledger Ledger, d models.Deductible, participantCount int, strategy DeductibleAllocation) (Adjustment, error) {
	amount := 0.0
	if d.IsApplied {
		if !finiteNonNegative(d.Amount) {
			return Adjustment{}, fmt.Errorf("deductible %v: %w", d.Amount, ErrNonFiniteAmount)
		}
		if d.Amount >= ledger.TotalAmount {
			return Adjustment{}, fmt.Errorf("deductible %.2f >= total %.2f: %w", d.Amount, ledger.TotalAmount, ErrDeductibleExceedsTotal)
		}
		if participantCount <= 0 {
			return Adjustment{}, ErrNoParticipants
		}
		amount = d.Amount
	}

	adj := Adjustment{
		FinalTotal:        ledger.TotalAmount - amount,
		FinalOwedByPerson: make(map[string]float64, len(ledger.OwedByPerson)),
		NetBalances:       make(map[string]float64, len(ledger.OwedByPerson)),
	}

	shares := deductibleShares(ledger, amount, participantCount, strategy)
	refunds := payerRefunds(ledger, amount)
	for id, owed := range ledger.OwedByPerson {
		adj.FinalOwedByPerson[id] = owed - shares[id]
		adj.NetBalances[id] = ledger.PaidByPerson[id] - refunds[id] - adj.FinalOwedByPerson[id]
	}

	return adj, nil
}

// deductibleShares computes each participant's owed reduction under the
// chosen strategy.
func deductibleShares(ledger Ledger, amount float64, participantCount int, strategy DeductibleAllocation) map[string]float64 {
	shares := make(map[string]float64, len(ledger.OwedByPerson))
	if amount == 0 {
		return shares
	}

	if strategy == AllocationProportionalToPaid {
		totalPaid := 0.0
		for _, paid := range ledger.PaidByPerson {
			totalPaid += paid
		}
		if totalPaid > 0 {
			for id, paid := range ledger.PaidByPerson {
				shares[id] = paid / totalPaid * amount
			}
			return shares
		}
		// Nobody paid anything; fall through to equal shares.
	}

	equal := amount / float64(participantCount)
	for id := range ledger.OwedByPerson {
		shares[id] = equal
	}
	return shares
}

// payerRefunds allocates the deductible cash against the payers' outlay,
// pro-rata to what each paid. When nobody paid (all-common funding) there is
// no outlay to offset and the refunds are zero.
func payerRefunds(ledger Ledger, amount float64) map[string]float64 {
	refunds := make(map[string]float64, len(ledger.PaidByPerson))
	if amount == 0 {
		return refunds
	}
	totalPaid := 0.0
	for _, paid := range ledger.PaidByPerson {
		totalPaid += paid
	}
	if totalPaid <= 0 {
		return refunds
	}
	for id, paid := range ledger.PaidByPerson {
		refunds[id] = paid / totalPaid * amount
	}
	return refunds
}
