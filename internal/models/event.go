package models

// EventDetails holds the descriptive fields of an event.
type EventDetails struct {
	// Title is the display name of the event (e.g., "Pokhara Trip").
	Title string `json:"title"`

	// Location is an optional free-form place name.
	Location string `json:"location,omitempty"`

	// Date is an optional date string supplied by the client.
	Date string `json:"date,omitempty"`
}

// Event is the aggregate owned by a user: details, participants, expense
// items, and the derived report. The engine never mutates an Event; the
// service recomputes Report and the store persists the whole aggregate.
type Event struct {
	// ID is the unique identifier for the event (UUID format).
	ID string `json:"id"`

	// OwnerID is the user ID of the account that created the event.
	OwnerID string `json:"ownerId"`

	// Details are the descriptive fields.
	Details EventDetails `json:"details"`

	// Participants are the people splitting this event's expenses.
	Participants []Person `json:"participants"`

	// Items are the recorded expenses.
	Items []ExpenseItem `json:"items"`

	// Report is the derived financial summary. Never hand-edited.
	Report Report `json:"report"`

	// CreatedAt is the Unix timestamp when the event was created.
	CreatedAt int64 `json:"createdAt"`

	// DeletedAt is the Unix timestamp of soft deletion, 0 if live.
	DeletedAt int64 `json:"deletedAt,omitempty"`
}
