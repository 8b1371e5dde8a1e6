package engine

import (
	"fmt"
	"math"

	"github.com/hisab-app/hisab/internal/models"
)

// Ledger holds per-participant paid and owed totals before any deductible.
// Maps are keyed by participant ID and contain an entry for every
// participant, zero-valued if the person neither paid nor owes.
type Ledger struct {
	TotalAmount  float64
	PaidByPerson map[string]float64
	OwedByPerson map[string]float64
}

// ComputeLedger reduces items into a Ledger.
//
// Payment amounts are taken verbatim; the engine does not re-derive who paid.
// Liability is split equally across each item's liable set. A payment by
// models.CommonPayerID is credited per opts.Common. Items with an empty
// liable set count toward TotalAmount but contribute no owed amounts.
//
// Amounts are accumulated at full precision; rounding happens only at
// presentation boundaries.
func ComputeLedger(items []models.ExpenseItem, participants []models.Person, opts Options) (Ledger, error) {
	ledger := Ledger{
		PaidByPerson: make(map[string]float64, len(participants)),
		OwedByPerson: make(map[string]float64, len(participants)),
	}
	for _, p := range participants {
		ledger.PaidByPerson[p.ID] = 0
		ledger.OwedByPerson[p.ID] = 0
	}

	for _, item := range items {
		if !finiteNonNegative(item.Amount) {
			return Ledger{}, fmt.Errorf("item %q: amount %v: %w", item.Name, item.Amount, ErrNonFiniteAmount)
		}
		ledger.TotalAmount += item.Amount

		liable := knownLiable(item.LiablePersons, ledger.OwedByPerson)

		for _, payment := range item.Payments {
			if !finiteNonNegative(payment.Amount) {
				return Ledger{}, fmt.Errorf("item %q: payment %v: %w", item.Name, payment.Amount, ErrNonFiniteAmount)
			}
			if payment.PersonID == models.CommonPayerID {
				if opts.Common == CommonIgnore || len(liable) == 0 {
					continue
				}
				share := payment.Amount / float64(len(liable))
				for _, id := range liable {
					ledger.PaidByPerson[id] += share
				}
				continue
			}
			if _, ok := ledger.PaidByPerson[payment.PersonID]; ok {
				ledger.PaidByPerson[payment.PersonID] += payment.Amount
			}
		}

		if len(liable) == 0 {
			continue
		}
		share := item.Amount / float64(len(liable))
		for _, id := range liable {
			ledger.OwedByPerson[id] += share
		}
	}

	return ledger, nil
}

// knownLiable filters a liable list down to IDs present in the participant
// set, preserving order. Unknown IDs are ignored here; ValidateItems rejects
// them at the boundary.
func knownLiable(liable []string, owed map[string]float64) []string {
	out := make([]string, 0, len(liable))
	for _, id := range liable {
		if _, ok := owed[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

func finiteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// round2 rounds to two decimal places, used only where the output is part of
// the wire contract (settlement transaction amounts).
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
