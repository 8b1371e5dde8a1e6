package models

// PaymentMethod describes how an expense item was paid.
type PaymentMethod string

const (
	// PaymentSingle means exactly one payment entry covers the full amount.
	PaymentSingle PaymentMethod = "Single"

	// PaymentCombination means several payment entries together cover the
	// amount. Their sum must equal the item amount within 0.01.
	PaymentCombination PaymentMethod = "Combination"
)

// Category classifies an expense item for breakdown views.
type Category string

const (
	CategoryFood          Category = "Food"
	CategoryDrinks        Category = "Drinks"
	CategoryTransport     Category = "Transport"
	CategoryAccommodation Category = "Accommodation"
	CategoryEntertainment Category = "Entertainment"
	CategoryMiscellaneous Category = "Miscellaneous"
)

// PaymentDetail records that a person contributed an amount toward an item.
// PersonID may be CommonPayerID for pooled money.
type PaymentDetail struct {
	PersonID string  `json:"personId"`
	Amount   float64 `json:"amount"`
}

// ExpenseItem is a single expense shared by an event.
// Who paid (Payments) is independent of who is responsible for the cost
// (LiablePersons); the liable set splits the amount equally.
type ExpenseItem struct {
	// ID is the unique identifier for the item (UUID format).
	ID string `json:"id"`

	// Name describes the item (e.g., "Lunch", "Taxi").
	Name string `json:"name"`

	// Amount is the total cost of the item. Always > 0 and finite.
	Amount float64 `json:"amount"`

	// Category classifies the item.
	Category Category `json:"category"`

	// PaymentMethod is Single or Combination.
	PaymentMethod PaymentMethod `json:"paymentMethod"`

	// Payments lists who contributed what toward the amount, in order.
	// For Single there is exactly one entry equal to Amount.
	Payments []PaymentDetail `json:"payments"`

	// LiablePersons are the participant IDs that split this item's cost.
	LiablePersons []string `json:"liablePersons"`
}

// Deductible is an amount subtracted from the total bill before settlement,
// such as a discount or shared winnings, redistributed across participants.
type Deductible struct {
	// Amount to deduct. Zero whenever IsApplied is false.
	Amount float64 `json:"amount"`

	// Reason is a free-form explanation (e.g., "prize money").
	Reason string `json:"reason"`

	// IsApplied reports whether the deductible is in effect.
	IsApplied bool `json:"isApplied"`
}
