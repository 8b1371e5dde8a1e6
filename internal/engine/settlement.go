package engine

import (
	"math"
	"sort"

	"github.com/hisab-app/hisab/internal/models"
)

// balanceEntry is one side of the settlement matching. Amount is always the
// positive magnitude of the participant's remaining balance.
type balanceEntry struct {
	id     string
	amount float64
}

// PlanSettlement turns net balances into an ordered list of peer-to-peer
// transfers using greedy largest-debtor/largest-creditor matching.
//
// Near-zero balances (|b| <= 0.01) are discarded up front. Both sides are
// sorted by descending magnitude with participant ID as the tie-break, so the
// plan is reproducible for identical inputs. Transaction amounts are rounded
// to two decimals.
//
// The greedy strategy emits at most N-1 transactions for N participants with
// nonzero balances. It does not guarantee the global minimum for arbitrary
// balance sets; that problem is combinatorially hard.
//
// PlanSettlement never fails: given a non-conserving ledger it still emits a
// best-effort plan and reports IsSettled=false.
func PlanSettlement(netBalances map[string]float64) models.SettlementPlan {
	var creditors, debtors []balanceEntry
	for id, balance := range netBalances {
		switch {
		case balance > tolerance:
			creditors = append(creditors, balanceEntry{id: id, amount: balance})
		case balance < -tolerance:
			debtors = append(debtors, balanceEntry{id: id, amount: -balance})
		}
	}
	sortByMagnitude(creditors)
	sortByMagnitude(debtors)

	transactions := []models.SettlementTransaction{}
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor := &debtors[i]
		creditor := &creditors[j]

		amount := round2(math.Min(debtor.amount, creditor.amount))
		if amount > tolerance {
			transactions = append(transactions, models.SettlementTransaction{
				From:   debtor.id,
				To:     creditor.id,
				Amount: amount,
			})
		}

		debtor.amount -= amount
		creditor.amount -= amount

		if debtor.amount <= tolerance {
			i++
		}
		if creditor.amount <= tolerance {
			j++
		}
	}

	return models.SettlementPlan{
		Transactions:      transactions,
		TotalTransactions: len(transactions),
		IsSettled:         replaySettles(netBalances, transactions),
	}
}

// sortByMagnitude orders entries by descending amount, breaking ties by
// ascending participant ID so the plan is deterministic.
func sortByMagnitude(entries []balanceEntry) {
	sort.Slice(entries, func(a, b int) bool {
		if entries[a].amount != entries[b].amount {
			return entries[a].amount > entries[b].amount
		}
		return entries[a].id < entries[b].id
	})
}

// replaySettles applies every transaction to a copy of the input balances and
// reports whether everyone ends within tolerance of zero.
func replaySettles(netBalances map[string]float64, transactions []models.SettlementTransaction) bool {
	final := make(map[string]float64, len(netBalances))
	for id, balance := range netBalances {
		final[id] = balance
	}
	for _, t := range transactions {
		final[t.From] += t.Amount
		final[t.To] -= t.Amount
	}
	for _, balance := range final {
		if math.Abs(balance) > tolerance {
			return false
		}
	}
	return true
}
