// Package apitest provides an in-memory marketplace backend for tests. It
// mirrors the real API's route shape, envelope fields and cookie-based
// sessions so client and store tests run hermetically.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"bookbazaar/internal/model"
)

const sessionCookie = "bb_session"

// Server is a fake marketplace API backed by process memory.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	users    map[string]string // email -> password
	sessions map[string]string // session token -> email
	owners   map[string]string // book id -> owner email
	books    []model.Book
	requests []model.BookRequest

	failStatus  int
	failMessage string
}

// NewServer starts the fake backend. Callers own shutdown via Close.
func NewServer() *Server {
	s := &Server{
		users:    make(map[string]string),
		sessions: make(map[string]string),
		owners:   make(map[string]string),
	}

	r := chi.NewRouter()

	r.Route("/user", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Get("/logout", s.handleLogout)
		r.Get("/me", s.handleMe)
	})

	r.Route("/book", func(r chi.Router) {
		r.Post("/add", s.handleAddBook)
		r.Get("/books", s.handleBooks)
		r.Get("/userbooks", s.handleUserBooks)
		r.Delete("/delete/{id}", s.handleDeleteBook)
		r.Put("/update/{id}", s.handleUpdateBook)
	})

	r.Route("/request", func(r chi.Router) {
		r.Post("/requests", s.handleSendRequest)
		r.Get("/getAllRequests", s.handleRequests)
	})

	s.Server = httptest.NewServer(s.failable(r))
	return s
}

// FailNext makes the next request fail with the given status and message,
// regardless of route. It re-arms on every call.
func (s *Server) FailNext(status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failStatus = status
	s.failMessage = message
}

// SeedBook inserts a listing owned by email and returns it.
func (s *Server) SeedBook(email string, book model.Book) model.Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	if book.ID == "" {
		book.ID = uuid.NewString()
	}
	s.books = append(s.books, book)
	s.owners[book.ID] = email
	return book
}

func (s *Server) failable(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		status, message := s.failStatus, s.failMessage
		s.failStatus, s.failMessage = 0, ""
		s.mu.Unlock()
		if status != 0 {
			writeError(w, status, message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Email == "" || creds.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	s.mu.Lock()
	if _, exists := s.users[creds.Email]; exists {
		s.mu.Unlock()
		writeError(w, http.StatusConflict, "Email already registered")
		return
	}
	s.users[creds.Email] = creds.Password
	token := uuid.NewString()
	s.sessions[token] = creds.Email
	s.mu.Unlock()

	setSession(w, token)
	writeJSON(w, http.StatusCreated, map[string]any{
		"user":    userFor(creds.Email),
		"message": "Account created successfully",
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	s.mu.Lock()
	password, ok := s.users[creds.Email]
	if !ok || password != creds.Password {
		s.mu.Unlock()
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	token := uuid.NewString()
	s.sessions[token] = creds.Email
	s.mu.Unlock()

	setSession(w, token)
	writeJSON(w, http.StatusOK, map[string]any{
		"user":    userFor(creds.Email),
		"message": "Login successful",
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token, ok := sessionToken(r); ok {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", MaxAge: -1, Path: "/"})
	writeJSON(w, http.StatusOK, map[string]any{"message": "Logged out"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	email, ok := s.authed(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not logged in")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": userFor(email)})
}

func (s *Server) handleAddBook(w http.ResponseWriter, r *http.Request) {
	email, ok := s.authed(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not logged in")
		return
	}

	book, errMsg := bookFromForm(r, model.Book{ID: uuid.NewString()})
	if errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}

	s.mu.Lock()
	s.books = append(s.books, book)
	s.owners[book.ID] = email
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{
		"book":    book,
		"message": "Book added successfully",
	})
}

func (s *Server) handleBooks(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	books := make([]model.Book, len(s.books))
	copy(books, s.books)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"books": books})
}

func (s *Server) handleUserBooks(w http.ResponseWriter, r *http.Request) {
	email, ok := s.authed(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not logged in")
		return
	}

	s.mu.Lock()
	books := make([]model.Book, 0)
	for _, b := range s.books {
		if s.owners[b.ID] == email {
			books = append(books, b)
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"books": books})
}

func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authed(r); !ok {
		writeError(w, http.StatusUnauthorized, "Not logged in")
		return
	}
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	kept := s.books[:0]
	found := false
	for _, b := range s.books {
		if b.ID == id {
			found = true
			continue
		}
		kept = append(kept, b)
	}
	s.books = kept
	delete(s.owners, id)
	s.mu.Unlock()

	if !found {
		writeError(w, http.StatusNotFound, "Book not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Book deleted successfully"})
}

func (s *Server) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authed(r); !ok {
		writeError(w, http.StatusUnauthorized, "Not logged in")
		return
	}
	id := chi.URLParam(r, "id")

	book, errMsg := bookFromForm(r, model.Book{ID: id})
	if errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}

	s.mu.Lock()
	found := false
	for i := range s.books {
		if s.books[i].ID == id {
			if book.ImageURL == "" {
				book.ImageURL = s.books[i].ImageURL
			}
			s.books[i] = book
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		// Mirrors the real backend: update succeeds even when the book was
		// never fetched by this client; only local state misses it.
		writeError(w, http.StatusNotFound, "Book not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"book":    book,
		"message": "Book updated successfully",
	})
}

func (s *Server) handleSendRequest(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authed(r); !ok {
		writeError(w, http.StatusUnauthorized, "Not logged in")
		return
	}

	var body model.SendRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Message == "" {
		writeError(w, http.StatusBadRequest, "Message is required")
		return
	}

	s.mu.Lock()
	var book *model.Book
	for i := range s.books {
		if s.books[i].ID == body.Book {
			b := s.books[i]
			book = &b
			break
		}
	}
	req := model.BookRequest{
		ID:        uuid.NewString(),
		Book:      book,
		Message:   body.Message,
		CreatedAt: time.Now().UTC(),
	}
	s.requests = append([]model.BookRequest{req}, s.requests...)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{"request": req})
}

func (s *Server) handleRequests(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	requests := make([]model.BookRequest, len(s.requests))
	copy(requests, s.requests)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"requests": requests})
}

func (s *Server) authed(r *http.Request) (string, bool) {
	token, ok := sessionToken(r)
	if !ok {
		return "", false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.sessions[token]
	return email, ok
}

func sessionToken(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func setSession(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: token, Path: "/", HttpOnly: true})
}

func userFor(email string) model.User {
	return model.User{ID: "user-" + email, Email: email, CreatedAt: time.Now().UTC()}
}

// bookFromForm parses the multipart submission the real backend expects,
// including the "Prize" price field.
func bookFromForm(r *http.Request, book model.Book) (model.Book, string) {
	if err := r.ParseMultipartForm(model.MaxCoverSizeBytes + 1024*1024); err != nil {
		return book, "Content-Type must be multipart/form-data"
	}

	book.Title = r.FormValue("title")
	book.Author = r.FormValue("author")
	book.Condition = model.Condition(r.FormValue("condition"))
	book.Description = r.FormValue("description")

	price, err := strconv.ParseInt(r.FormValue("Prize"), 10, 64)
	if err != nil {
		return book, "Prize must be a number"
	}
	book.Price = price

	if file, header, err := r.FormFile("image"); err == nil {
		file.Close()
		book.ImageURL = "https://covers.test/" + uuid.NewString() + "/" + header.Filename
	}
	return book, ""
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			return
		}
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
