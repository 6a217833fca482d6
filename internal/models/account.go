package models

import "time"

// Account is an identity record held by the local provider's store. The
// password hash never leaves the identity layer.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	DisplayName  string
	PhotoURL     string
	CreatedAt    time.Time
}

// Session returns the session value visible to the rest of the app for this
// account.
func (a *Account) Session() *Session {
	return &Session{
		UserID:      a.ID,
		DisplayName: a.DisplayName,
		Email:       a.Email,
		PhotoURL:    a.PhotoURL,
	}
}
