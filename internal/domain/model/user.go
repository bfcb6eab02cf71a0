package model

import "github.com/google/uuid"

// User is the account as reported by the backend. Read-only on the client.
type User struct {
	ID       uuid.UUID
	Username string
	IsActive bool
}

// AuthToken is the result of a successful password login.
type AuthToken struct {
	AccessToken string
	TokenType   string
}
