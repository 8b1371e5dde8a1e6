package models

// User represents a registered account. Users own events; the participants
// inside an event are plain Person records and need no account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	// Email is the user's email address (unique). Used for login.
	Email string `json:"email"`

	// DisplayName is the name shown in the UI.
	DisplayName string `json:"displayName"`

	// PasswordHash is the bcrypt hash of the user's password.
	// Never serialized to clients.
	PasswordHash string `json:"-"`

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64 `json:"createdAt"`
}

// NewUser builds a User ready for persistence; the store assigns ID and
// CreatedAt if unset.
func NewUser(email, displayName, passwordHash string) *User {
	return &User{
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
	}
}
