package models

// CommonPayerID is the reserved person ID for pooled money that is not tied
// to any single participant (e.g. leftover cash from a previous outing).
// It may appear in ExpenseItem.Payments but never in Participants.
const CommonPayerID = "common"

// Person represents a participant in an event.
// Participants do not need registered accounts; identity is the ID, and
// names are not required to be unique.
type Person struct {
	// ID is the unique identifier for the person within the event (UUID format).
	ID string `json:"id"`

	// Name is the display name of the person.
	Name string `json:"name"`

	// Email is an optional contact address.
	Email string `json:"email,omitempty"`

	// Phone is an optional contact number.
	Phone string `json:"phone,omitempty"`
}
