// Package models defines client-side data models shared by the MedInvest
// auth bootstrap: the backend user record, the session and login credentials.
package models

import "time"

// User is the backend's user record as returned by the auth API.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}
