package models

// Credentials is an email/password pair, typed manually or replayed from
// biometric storage.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Origin tells how a set of credentials was obtained.
type Origin string

const (
	OriginManual    Origin = "manual"
	OriginBiometric Origin = "biometric"
)
