package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/hisab-app/hisab/internal/models"
)

func people(ids ...string) []models.Person {
	ps := make([]models.Person, len(ids))
	for i, id := range ids {
		ps[i] = models.Person{ID: id, Name: id}
	}
	return ps
}

func TestComputeLedger(t *testing.T) {
	tests := []struct {
		name         string
		items        []models.ExpenseItem
		participants []models.Person
		opts         Options
		wantErr      error
		validateFunc func(t *testing.T, ledger Ledger)
	}{
		{
			name: "equal split sanity",
			items: []models.ExpenseItem{
				{Name: "Dinner", Amount: 300, LiablePersons: []string{"A", "B", "C"}},
			},
			participants: people("A", "B", "C"),
			opts:         DefaultOptions(),
			validateFunc: func(t *testing.T, ledger Ledger) {
				for _, id := range []string{"A", "B", "C"} {
					if math.Abs(ledger.OwedByPerson[id]-100.0) > 0.01 {
						t.Errorf("owed[%s] = %v, want 100", id, ledger.OwedByPerson[id])
					}
				}
			},
		},
		{
			name: "mixed liability with common fund",
			items: []models.ExpenseItem{
				{
					Name:          "Lunch",
					Amount:        200,
					PaymentMethod: models.PaymentCombination,
					Payments: []models.PaymentDetail{
						{PersonID: "A", Amount: 150},
						{PersonID: "B", Amount: 50},
					},
					LiablePersons: []string{"A", "B"},
				},
				{
					Name:          "Snacks",
					Amount:        60,
					PaymentMethod: models.PaymentSingle,
					Payments: []models.PaymentDetail{
						{PersonID: models.CommonPayerID, Amount: 60},
					},
					LiablePersons: []string{"A", "B", "C"},
				},
			},
			participants: people("A", "B", "C"),
			opts:         DefaultOptions(),
			validateFunc: func(t *testing.T, ledger Ledger) {
				if math.Abs(ledger.TotalAmount-260.0) > 0.01 {
					t.Errorf("total = %v, want 260", ledger.TotalAmount)
				}
				// Common money is credited equally to the liable set: 20 each.
				wantPaid := map[string]float64{"A": 170, "B": 70, "C": 20}
				wantOwed := map[string]float64{"A": 120, "B": 120, "C": 20}
				for id, want := range wantPaid {
					if math.Abs(ledger.PaidByPerson[id]-want) > 0.01 {
						t.Errorf("paid[%s] = %v, want %v", id, ledger.PaidByPerson[id], want)
					}
				}
				for id, want := range wantOwed {
					if math.Abs(ledger.OwedByPerson[id]-want) > 0.01 {
						t.Errorf("owed[%s] = %v, want %v", id, ledger.OwedByPerson[id], want)
					}
				}
			},
		},
		{
			name: "common fund ignored when configured",
			items: []models.ExpenseItem{
				{
					Name:   "Snacks",
					Amount: 60,
					Payments: []models.PaymentDetail{
						{PersonID: models.CommonPayerID, Amount: 60},
					},
					LiablePersons: []string{"A", "B", "C"},
				},
			},
			participants: people("A", "B", "C"),
			opts: Options{
				Allocation:     AllocationEqualSplit,
				Common:         CommonIgnore,
				EmptyLiability: EmptyLiabilityAllow,
			},
			validateFunc: func(t *testing.T, ledger Ledger) {
				for _, id := range []string{"A", "B", "C"} {
					if ledger.PaidByPerson[id] != 0 {
						t.Errorf("paid[%s] = %v, want 0", id, ledger.PaidByPerson[id])
					}
					if math.Abs(ledger.OwedByPerson[id]-20.0) > 0.01 {
						t.Errorf("owed[%s] = %v, want 20", id, ledger.OwedByPerson[id])
					}
				}
			},
		},
		{
			name: "empty liable set counts toward total only",
			items: []models.ExpenseItem{
				{Name: "Orphan", Amount: 40, Payments: []models.PaymentDetail{{PersonID: "A", Amount: 40}}},
				{Name: "Shared", Amount: 60, LiablePersons: []string{"A", "B"}},
			},
			participants: people("A", "B"),
			opts:         DefaultOptions(),
			validateFunc: func(t *testing.T, ledger Ledger) {
				if math.Abs(ledger.TotalAmount-100.0) > 0.01 {
					t.Errorf("total = %v, want 100", ledger.TotalAmount)
				}
				if math.Abs(ledger.OwedByPerson["A"]-30.0) > 0.01 {
					t.Errorf("owed[A] = %v, want 30", ledger.OwedByPerson["A"])
				}
				if math.Abs(ledger.PaidByPerson["A"]-40.0) > 0.01 {
					t.Errorf("paid[A] = %v, want 40", ledger.PaidByPerson["A"])
				}
			},
		},
		{
			name: "negative amount rejected",
			items: []models.ExpenseItem{
				{Name: "Bad", Amount: -5, LiablePersons: []string{"A"}},
			},
			participants: people("A"),
			opts:         DefaultOptions(),
			wantErr:      ErrNonFiniteAmount,
		},
		{
			name: "NaN payment rejected",
			items: []models.ExpenseItem{
				{
					Name:          "Bad",
					Amount:        10,
					Payments:      []models.PaymentDetail{{PersonID: "A", Amount: math.NaN()}},
					LiablePersons: []string{"A"},
				},
			},
			participants: people("A"),
			opts:         DefaultOptions(),
			wantErr:      ErrNonFiniteAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger, err := ComputeLedger(tt.items, tt.participants, tt.opts)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ComputeLedger error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ComputeLedger failed: %v", err)
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, ledger)
			}
		})
	}
}

func TestComputeLedgerConservation(t *testing.T) {
	items := []models.ExpenseItem{
		{
			Name:   "Hotel",
			Amount: 433.37,
			Payments: []models.PaymentDetail{
				{PersonID: "A", Amount: 400},
				{PersonID: models.CommonPayerID, Amount: 33.37},
			},
			LiablePersons: []string{"A", "B", "C"},
		},
		{
			Name:          "Fuel",
			Amount:        82.19,
			Payments:      []models.PaymentDetail{{PersonID: "B", Amount: 82.19}},
			LiablePersons: []string{"B", "C"},
		},
	}
	ledger, err := ComputeLedger(items, people("A", "B", "C"), DefaultOptions())
	if err != nil {
		t.Fatalf("ComputeLedger failed: %v", err)
	}

	var paid float64
	for _, v := range ledger.PaidByPerson {
		paid += v
	}
	if math.Abs(paid-ledger.TotalAmount) > 1e-6 {
		t.Errorf("sum(paid) = %v, total = %v", paid, ledger.TotalAmount)
	}
}

func TestComputeLedgerDoesNotMutateInputs(t *testing.T) {
	items := []models.ExpenseItem{
		{
			Name:          "Lunch",
			Amount:        30,
			Payments:      []models.PaymentDetail{{PersonID: "A", Amount: 30}},
			LiablePersons: []string{"A", "B"},
		},
	}
	if _, err := ComputeLedger(items, people("A", "B"), DefaultOptions()); err != nil {
		t.Fatalf("ComputeLedger failed: %v", err)
	}
	if items[0].Amount != 30 || items[0].Payments[0].Amount != 30 || len(items[0].LiablePersons) != 2 {
		t.Error("ComputeLedger mutated its input items")
	}
}
