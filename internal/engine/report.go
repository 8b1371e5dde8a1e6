package engine

import (
	"github.com/hisab-app/hisab/internal/models"
)

// BuildReport composes the ledger, deductible adjustment, and settlement plan
// into one Report. It is deterministic and idempotent: identical inputs yield
// field-for-field identical output, with no clocks, randomness, or
// iteration-order dependence.
//
// A failed computation yields no report at all; callers keep their
// last-known-good report.
func BuildReport(items []models.ExpenseItem, participants []models.Person, d models.Deductible, opts Options) (models.Report, error) {
	ledger, err := ComputeLedger(items, participants, opts)
	if err != nil {
		return models.Report{}, err
	}

	adj, err := ApplyDeductible(ledger, d, len(participants), opts.Allocation)
	if err != nil {
		return models.Report{}, err
	}

	return models.Report{
		TotalAmount:       ledger.TotalAmount,
		Deductible:        d,
		PaidByPerson:      ledger.PaidByPerson,
		OwedByPerson:      ledger.OwedByPerson,
		FinalTotal:        adj.FinalTotal,
		FinalOwedByPerson: adj.FinalOwedByPerson,
		NetBalances:       adj.NetBalances,
		SettlementPlan:    PlanSettlement(adj.NetBalances),
	}, nil
}
