package store

import (
	"context"

	"bookbazaar/internal/model"
)

// Function-valued fakes for the client interfaces. Each test assigns only
// the calls it expects; an unassigned call panics, which is a test bug.

type mockSessionClient struct {
	registerFn    func(ctx context.Context, creds model.Credentials) (*model.User, string, error)
	loginFn       func(ctx context.Context, creds model.Credentials) (*model.User, string, error)
	logoutFn      func(ctx context.Context) (string, error)
	currentUserFn func(ctx context.Context) (*model.User, error)
}

func (m *mockSessionClient) Register(ctx context.Context, creds model.Credentials) (*model.User, string, error) {
	return m.registerFn(ctx, creds)
}

func (m *mockSessionClient) Login(ctx context.Context, creds model.Credentials) (*model.User, string, error) {
	return m.loginFn(ctx, creds)
}

func (m *mockSessionClient) Logout(ctx context.Context) (string, error) {
	return m.logoutFn(ctx)
}

func (m *mockSessionClient) CurrentUser(ctx context.Context) (*model.User, error) {
	return m.currentUserFn(ctx)
}

type mockCatalogClient struct {
	addBookFn    func(ctx context.Context, upload *model.BookUpload) (*model.Book, string, error)
	booksFn      func(ctx context.Context) ([]model.Book, error)
	ownedBooksFn func(ctx context.Context) ([]model.Book, error)
	deleteBookFn func(ctx context.Context, id string) (string, error)
	updateBookFn func(ctx context.Context, id string, upload *model.BookUpload) (*model.Book, string, error)
}

func (m *mockCatalogClient) AddBook(ctx context.Context, upload *model.BookUpload) (*model.Book, string, error) {
	return m.addBookFn(ctx, upload)
}

func (m *mockCatalogClient) Books(ctx context.Context) ([]model.Book, error) {
	return m.booksFn(ctx)
}

func (m *mockCatalogClient) OwnedBooks(ctx context.Context) ([]model.Book, error) {
	return m.ownedBooksFn(ctx)
}

func (m *mockCatalogClient) DeleteBook(ctx context.Context, id string) (string, error) {
	return m.deleteBookFn(ctx, id)
}

func (m *mockCatalogClient) UpdateBook(ctx context.Context, id string, upload *model.BookUpload) (*model.Book, string, error) {
	return m.updateBookFn(ctx, id, upload)
}

type mockRequestClient struct {
	sendRequestFn func(ctx context.Context, message, bookID string) (*model.BookRequest, error)
	requestsFn    func(ctx context.Context) ([]model.BookRequest, error)
}

func (m *mockRequestClient) SendRequest(ctx context.Context, message, bookID string) (*model.BookRequest, error) {
	return m.sendRequestFn(ctx, message, bookID)
}

func (m *mockRequestClient) Requests(ctx context.Context) ([]model.BookRequest, error) {
	return m.requestsFn(ctx)
}
