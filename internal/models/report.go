package models

// SettlementTransaction is a single peer-to-peer transfer in a settlement
// plan. Amount is always positive; money flows From -> To.
type SettlementTransaction struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

// SettlementPlan is an ordered list of transfers that drives every
// participant's net balance to zero.
type SettlementPlan struct {
	Transactions      []SettlementTransaction `json:"transactions"`
	TotalTransactions int                     `json:"totalTransactions"`

	// IsSettled reports whether replaying Transactions against the input
	// balances leaves every participant within 0.01 of zero. It is false
	// when the caller passed a non-conserving ledger.
	IsSettled bool `json:"isSettled"`
}

// Report is the derived financial summary of an event. It is a pure function
// of the event's items, participants, and deductible, recomputed in full on
// every change. All maps are keyed by participant ID and always non-nil.
type Report struct {
	// TotalAmount is the sum of all item amounts.
	TotalAmount float64 `json:"totalAmount"`

	// Deductible is the deduction applied to this report, if any.
	Deductible Deductible `json:"deductible"`

	// PaidByPerson is what each participant actually contributed.
	PaidByPerson map[string]float64 `json:"paidByPerson"`

	// OwedByPerson is each participant's equal-split share of the items
	// they are liable for, before the deductible.
	OwedByPerson map[string]float64 `json:"owedByPerson"`

	// FinalTotal is TotalAmount minus the applied deductible.
	FinalTotal float64 `json:"finalTotal"`

	// FinalOwedByPerson is OwedByPerson after deductible redistribution.
	FinalOwedByPerson map[string]float64 `json:"finalOwedByPerson"`

	// NetBalances is paid minus finalOwed per participant. Positive means
	// the participant should receive money, negative means they owe.
	NetBalances map[string]float64 `json:"netBalances"`

	// SettlementPlan is the minimal transfer list that zeroes NetBalances.
	SettlementPlan SettlementPlan `json:"settlementPlan"`
}

// EmptyReport returns a Report with every field at its zero default and all
// maps allocated, so consumers never need null-checks.
func EmptyReport() Report {
	return Report{
		PaidByPerson:      map[string]float64{},
		OwedByPerson:      map[string]float64{},
		FinalOwedByPerson: map[string]float64{},
		NetBalances:       map[string]float64{},
		SettlementPlan:    SettlementPlan{Transactions: []SettlementTransaction{}},
	}
}
