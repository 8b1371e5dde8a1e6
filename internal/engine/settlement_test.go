package engine

import (
	"math"
	"testing"

	"github.com/hisab-app/hisab/internal/models"
)

func TestPlanSettlement(t *testing.T) {
	tests := []struct {
		name        string
		netBalances map[string]float64
		wantTxns    []models.SettlementTransaction
		wantSettled bool
	}{
		{
			name:        "single payer pair",
			netBalances: map[string]float64{"A": 50, "B": -50},
			wantTxns: []models.SettlementTransaction{
				{From: "B", To: "A", Amount: 50},
			},
			wantSettled: true,
		},
		{
			name:        "largest debtor pays largest creditor first",
			netBalances: map[string]float64{"A": 70, "B": 30, "C": -40, "D": -60},
			wantTxns: []models.SettlementTransaction{
				{From: "D", To: "A", Amount: 60},
				{From: "C", To: "A", Amount: 10},
				{From: "C", To: "B", Amount: 30},
			},
			wantSettled: true,
		},
		{
			name:        "equal magnitudes break ties by id",
			netBalances: map[string]float64{"C": 50, "A": -25, "B": -25},
			wantTxns: []models.SettlementTransaction{
				{From: "A", To: "C", Amount: 25},
				{From: "B", To: "C", Amount: 25},
			},
			wantSettled: true,
		},
		{
			name:        "near-zero balances are discarded",
			netBalances: map[string]float64{"A": 0.005, "B": -0.005},
			wantTxns:    []models.SettlementTransaction{},
			wantSettled: true,
		},
		{
			name:        "everyone already settled",
			netBalances: map[string]float64{"A": 0, "B": 0},
			wantTxns:    []models.SettlementTransaction{},
			wantSettled: true,
		},
		{
			name:        "corrupted ledger yields best-effort plan",
			netBalances: map[string]float64{"A": -60, "B": 10},
			wantTxns: []models.SettlementTransaction{
				{From: "A", To: "B", Amount: 10},
			},
			wantSettled: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := PlanSettlement(tt.netBalances)

			if plan.IsSettled != tt.wantSettled {
				t.Errorf("IsSettled = %v, want %v", plan.IsSettled, tt.wantSettled)
			}
			if plan.TotalTransactions != len(plan.Transactions) {
				t.Errorf("TotalTransactions = %d, len = %d", plan.TotalTransactions, len(plan.Transactions))
			}
			if len(plan.Transactions) != len(tt.wantTxns) {
				t.Fatalf("got %d transactions, want %d: %v", len(plan.Transactions), len(tt.wantTxns), plan.Transactions)
			}
			for i, want := range tt.wantTxns {
				got := plan.Transactions[i]
				if got.From != want.From || got.To != want.To || math.Abs(got.Amount-want.Amount) > 0.01 {
					t.Errorf("transaction %d = %+v, want %+v", i, got, want)
				}
			}
		})
	}
}

// Applying the plan in order must drive every balance to within 0.01 of zero,
// and the plan must stay within the N-1 bound.
func TestPlanSettlementProperties(t *testing.T) {
	netBalances := map[string]float64{
		"A": 120.37, "B": -41.15, "C": -12.02, "D": 3.30, "E": -70.50, "F": 0,
	}
	plan := PlanSettlement(netBalances)

	if !plan.IsSettled {
		t.Fatal("expected conserving balances to settle")
	}

	nonzero := 0
	for _, b := range netBalances {
		if math.Abs(b) > 0.01 {
			nonzero++
		}
	}
	if len(plan.Transactions) > nonzero-1 {
		t.Errorf("%d transactions for %d nonzero balances, want <= %d", len(plan.Transactions), nonzero, nonzero-1)
	}

	final := map[string]float64{}
	for id, b := range netBalances {
		final[id] = b
	}
	for _, txn := range plan.Transactions {
		if txn.Amount <= 0 {
			t.Errorf("transaction %+v has non-positive amount", txn)
		}
		final[txn.From] += txn.Amount
		final[txn.To] -= txn.Amount
	}
	for id, b := range final {
		if math.Abs(b) > 0.01 {
			t.Errorf("balance[%s] = %v after plan, want ~0", id, b)
		}
	}
}

func TestPlanSettlementDeterministic(t *testing.T) {
	netBalances := map[string]float64{"A": 33.34, "B": 33.33, "C": -33.33, "D": -33.34}
	first := PlanSettlement(netBalances)
	for i := 0; i < 10; i++ {
		again := PlanSettlement(netBalances)
		if len(again.Transactions) != len(first.Transactions) {
			t.Fatalf("run %d: %d transactions, want %d", i, len(again.Transactions), len(first.Transactions))
		}
		for j := range first.Transactions {
			if again.Transactions[j] != first.Transactions[j] {
				t.Fatalf("run %d: transaction %d = %+v, want %+v", i, j, again.Transactions[j], first.Transactions[j])
			}
		}
	}
}
