package store

import (
	"context"

	"bookbazaar/internal/model"
)

// The stores depend on narrow client interfaces rather than the concrete
// api.Client so unit tests can swap in function-valued fakes.

// SessionClient is the slice of the remote API the session store uses.
type SessionClient interface {
	Register(ctx context.Context, creds model.Credentials) (*model.User, string, error)
	Login(ctx context.Context, creds model.Credentials) (*model.User, string, error)
	Logout(ctx context.Context) (string, error)
	CurrentUser(ctx context.Context) (*model.User, error)
}

// CatalogClient is the slice of the remote API the catalog store uses.
type CatalogClient interface {
	AddBook(ctx context.Context, upload *model.BookUpload) (*model.Book, string, error)
	Books(ctx context.Context) ([]model.Book, error)
	OwnedBooks(ctx context.Context) ([]model.Book, error)
	DeleteBook(ctx context.Context, id string) (string, error)
	UpdateBook(ctx context.Context, id string, upload *model.BookUpload) (*model.Book, string, error)
}

// RequestClient is the slice of the remote API the request store uses.
type RequestClient interface {
	SendRequest(ctx context.Context, message, bookID string) (*model.BookRequest, error)
	Requests(ctx context.Context) ([]model.BookRequest, error)
}

// messageOr substitutes fallback when the server sent no message of its own.
func messageOr(msg, fallback string) string {
	if msg != "" {
		return msg
	}
	return fallback
}
