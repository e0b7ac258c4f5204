package model

import (
	"errors"
	"time"
)

// User is the authenticated identity as the server reports it. The client
// never edits users; it only mirrors what register/login/me return.
type User struct {
	ID        string    `json:"_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// Credentials is the request body for register and login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ErrMissingCredentials is raised by the view layer when email or password
// is empty. It never reaches a store.
var ErrMissingCredentials = errors.New("email and password are required")
