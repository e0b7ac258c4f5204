package model

import (
	"errors"
	"time"
)

// BookRequest is a buyer's message against a listing. Book is nil when the
// referenced listing has been deleted server-side; the request survives it.
type BookRequest struct {
	ID        string    `json:"_id"`
	Book      *Book     `json:"book"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// SendRequestBody is the JSON payload for creating a request.
type SendRequestBody struct {
	Message string `json:"message"`
	Book    string `json:"book"`
}

// ErrEmptyMessage is raised by the view layer when the request message is
// blank; the send never reaches the store.
var ErrEmptyMessage = errors.New("request message cannot be empty")
