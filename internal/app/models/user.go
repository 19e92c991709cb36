package models

import "time"

// UserAuth carries the full credential record, including the password hash.
// It never leaves the auth domain; API responses use UserProfile.
type UserAuth struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserProfile is the public projection of a user returned by the API.
type UserProfile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Profile returns the public fields of the user.
func (u *UserAuth) Profile() UserProfile {
	return UserProfile{ID: u.ID, Username: u.Username, Email: u.Email}
}
