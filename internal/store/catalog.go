package store

import (
	"context"
	"log"
	"sync"

	"bookbazaar/internal/api"
	"bookbazaar/internal/model"
	"bookbazaar/internal/notify"
)

const (
	fallbackAddFailed        = "Failed to add book"
	fallbackFetchFailed      = "Failed to fetch books"
	fallbackFetchOwnedFailed = "Failed to fetch user's books"
	fallbackDeleteFailed     = "Failed to delete book"
	fallbackUpdateFailed     = "Failed to update book"

	msgBookAdded   = "Book added successfully"
	msgBookDeleted = "Book deleted successfully"
	msgBookUpdated = "Book updated successfully"
)

// View tags which fetch last populated the catalog buffer. The two fetch
// intents share one buffer; the tag removes any ambiguity about which view
// is current after interleaved calls.
type View int

const (
	ViewNone View = iota
	ViewAll
	ViewOwned
)

func (v View) String() string {
	switch v {
	case ViewAll:
		return "all"
	case ViewOwned:
		return "owned"
	default:
		return "none"
	}
}

// CatalogState is the point-in-time view of the listings slice. Books keeps
// server order; newly added books are prepended, never re-sorted.
type CatalogState struct {
	Books   []model.Book
	View    View
	Loading bool
	Err     string
	Message string
}

// Catalog holds the collection of book listings. Fetches carry a sequence
// number so that when two overlap, only the most recently issued one is
// allowed to write its result; stale completions are discarded wholesale.
type Catalog struct {
	mu       sync.Mutex
	state    CatalogState
	fetchSeq uint64
	client   CatalogClient
	sink     notify.Sink
}

func NewCatalog(client CatalogClient, sink notify.Sink) *Catalog {
	return &Catalog{client: client, sink: sink}
}

// Snapshot returns a copy of the current state safe to render from.
func (c *Catalog) Snapshot() CatalogState {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.state
	st.Books = make([]model.Book, len(c.state.Books))
	copy(st.Books, c.state.Books)
	return st
}

// Add creates a listing. The server-returned record (authoritative for id and
// image URL) is prepended to the buffer.
func (c *Catalog) Add(ctx context.Context, upload *model.BookUpload) error {
	c.pending()

	book, msg, err := c.client.AddBook(ctx, upload)
	if err != nil {
		c.failed(api.ErrorMessage(err, fallbackAddFailed))
		return err
	}

	c.mu.Lock()
	c.state.Loading = false
	if book != nil {
		c.state.Books = append([]model.Book{*book}, c.state.Books...)
	}
	c.state.Message = msgBookAdded
	c.mu.Unlock()
	c.sink.Success(messageOr(msg, msgBookAdded))
	return nil
}

// FetchAll replaces the buffer with every marketplace listing. Silent: it
// fires automatically on view mount, so neither outcome notifies.
func (c *Catalog) FetchAll(ctx context.Context) error {
	return c.fetch(ctx, ViewAll, c.client.Books, fallbackFetchFailed)
}

// FetchOwned replaces the buffer with the caller's own listings.
func (c *Catalog) FetchOwned(ctx context.Context) error {
	return c.fetch(ctx, ViewOwned, c.client.OwnedBooks, fallbackFetchOwnedFailed)
}

func (c *Catalog) fetch(ctx context.Context, view View, call func(context.Context) ([]model.Book, error), fallback string) error {
	c.mu.Lock()
	c.fetchSeq++
	seq := c.fetchSeq
	c.state.Loading = true
	c.state.Err = ""
	c.mu.Unlock()

	books, err := call(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.fetchSeq {
		log.Printf("[Catalog] discarding stale %s fetch (seq %d, latest %d)", view, seq, c.fetchSeq)
		return nil
	}

	c.state.Loading = false
	if err != nil {
		c.state.Err = api.ErrorMessage(err, fallback)
		return err
	}
	c.state.Books = books
	c.state.View = view
	return nil
}

// Delete removes the listing by id. An id absent from the buffer removes
// nothing locally even though the server call succeeded.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	c.pending()

	msg, err := c.client.DeleteBook(ctx, id)
	if err != nil {
		c.failed(api.ErrorMessage(err, fallbackDeleteFailed))
		return err
	}

	c.mu.Lock()
	c.state.Loading = false
	kept := c.state.Books[:0]
	for _, b := range c.state.Books {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	c.state.Books = kept
	c.state.Message = msgBookDeleted
	c.mu.Unlock()
	c.sink.Success(messageOr(msg, msgBookDeleted))
	return nil
}

// Update replaces the matching entry wholesale with the server's returned
// record. When the id is not present locally the buffer is left unchanged:
// the update happened server-side but is dropped client-side.
func (c *Catalog) Update(ctx context.Context, id string, upload *model.BookUpload) error {
	c.pending()

	book, msg, err := c.client.UpdateBook(ctx, id, upload)
	if err != nil {
		c.failed(api.ErrorMessage(err, fallbackUpdateFailed))
		return err
	}

	c.mu.Lock()
	c.state.Loading = false
	if book != nil {
		for i := range c.state.Books {
			if c.state.Books[i].ID == book.ID {
				c.state.Books[i] = *book
				break
			}
		}
	}
	c.state.Message = msgBookUpdated
	c.mu.Unlock()
	c.sink.Success(messageOr(msg, msgBookUpdated))
	return nil
}

// ClearErrors resets the error field. Synchronous, no network call.
func (c *Catalog) ClearErrors() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Err = ""
}

func (c *Catalog) pending() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Loading = true
	c.state.Err = ""
}

func (c *Catalog) failed(text string) {
	c.mu.Lock()
	c.state.Loading = false
	c.state.Err = text
	c.mu.Unlock()
	c.sink.Error(text)
}
