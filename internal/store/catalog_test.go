package store

import (
	"context"
	"reflect"
	"testing"

	"bookbazaar/internal/api"
	"bookbazaar/internal/model"
	"bookbazaar/internal/notify"
)

func someBooks() []model.Book {
	return []model.Book{
		{ID: "b1", Title: "Dune", Author: "Herbert", Condition: model.ConditionGood, Price: 500},
		{ID: "b2", Title: "Emma", Author: "Austen", Condition: model.ConditionOld, Price: 120},
	}
}

func TestCatalog_Add_PrependsServerRecord(t *testing.T) {
	created := model.Book{ID: "srv-1", Title: "Dune", Author: "Herbert", Condition: model.ConditionGood, Price: 500, ImageURL: "https://covers.test/dune.jpg"}
	mock := &mockCatalogClient{
		booksFn: func(ctx context.Context) ([]model.Book, error) { return someBooks(), nil },
		addBookFn: func(ctx context.Context, upload *model.BookUpload) (*model.Book, string, error) {
			if upload.Title != "Dune" {
				t.Errorf("upload title = %q", upload.Title)
			}
			return &created, "", nil
		},
	}
	sink := &notify.Capture{}
	c := NewCatalog(mock, sink)
	_ = c.FetchAll(context.Background())
	before := len(c.Snapshot().Books)

	upload := &model.BookUpload{Title: "Dune", Author: "Herbert", Condition: model.ConditionGood, Price: 500, Description: "spice"}
	if err := c.Add(context.Background(), upload); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	state := c.Snapshot()
	if len(state.Books) != before+1 {
		t.Fatalf("len = %d, want %d", len(state.Books), before+1)
	}
	if state.Books[0].ID != "srv-1" {
		t.Errorf("Books[0].ID = %q, want the server-assigned id at the head", state.Books[0].ID)
	}
	if state.Message != "Book added successfully" {
		t.Errorf("Message = %q", state.Message)
	}
	if entries := sink.Entries(); len(entries) != 1 || entries[0].Kind != "success" {
		t.Errorf("entries = %+v, want one success", entries)
	}
}

func TestCatalog_Add_Failure(t *testing.T) {
	mock := &mockCatalogClient{
		addBookFn: func(ctx context.Context, upload *model.BookUpload) (*model.Book, string, error) {
			return nil, "", &api.APIError{Status: 500}
		},
	}
	sink := &notify.Capture{}
	c := NewCatalog(mock, sink)

	if err := c.Add(context.Background(), &model.BookUpload{}); err == nil {
		t.Fatal("expected error")
	}

	state := c.Snapshot()
	if state.Err != "Failed to add book" {
		t.Errorf("Err = %q, want fallback", state.Err)
	}
	if len(state.Books) != 0 {
		t.Error("failed add must not touch the buffer")
	}
	if entries := sink.Entries(); len(entries) != 1 || entries[0].Kind != "error" {
		t.Errorf("entries = %+v, want one error", entries)
	}
}

func TestCatalog_FetchAll_ReplacesWholesale(t *testing.T) {
	calls := 0
	mock := &mockCatalogClient{
		booksFn: func(ctx context.Context) ([]model.Book, error) {
			calls++
			return someBooks(), nil
		},
	}
	sink := &notify.Capture{}
	c := NewCatalog(mock, sink)

	if err := c.FetchAll(context.Background()); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	first := c.Snapshot()

	// Idempotence: fetching again with no intervening writes yields the
	// same sequence.
	if err := c.FetchAll(context.Background()); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	second := c.Snapshot()

	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
	if !reflect.DeepEqual(first.Books, second.Books) {
		t.Errorf("repeat fetch changed the sequence: %+v vs %+v", first.Books, second.Books)
	}
	if second.View != ViewAll {
		t.Errorf("View = %v, want ViewAll", second.View)
	}
	if entries := sink.Entries(); len(entries) != 0 {
		t.Errorf("fetches are silent, got %+v", entries)
	}
}

func TestCatalog_FetchAll_Empty(t *testing.T) {
	mock := &mockCatalogClient{
		booksFn: func(ctx context.Context) ([]model.Book, error) { return []model.Book{}, nil },
	}
	c := NewCatalog(mock, notify.Discard{})

	if err := c.FetchAll(context.Background()); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	state := c.Snapshot()
	if len(state.Books) != 0 {
		t.Errorf("Books = %+v, want empty", state.Books)
	}
	if state.Loading {
		t.Error("Loading must end false")
	}
	if state.Err != "" {
		t.Errorf("Err = %q, want empty", state.Err)
	}
}

func TestCatalog_Fetch_FailureIsSilentInSink(t *testing.T) {
	mock := &mockCatalogClient{
		booksFn: func(ctx context.Context) ([]model.Book, error) {
			return nil, &api.APIError{Status: 503}
		},
	}
	sink := &notify.Capture{}
	c := NewCatalog(mock, sink)

	if err := c.FetchAll(context.Background()); err == nil {
		t.Fatal("expected error")
	}

	if state := c.Snapshot(); state.Err != "Failed to fetch books" {
		t.Errorf("Err = %q, want fallback", state.Err)
	}
	if entries := sink.Entries(); len(entries) != 0 {
		t.Errorf("fetch failures stay out of the sink, got %+v", entries)
	}
}

func TestCatalog_FetchOwned_TagsView(t *testing.T) {
	mock := &mockCatalogClient{
		ownedBooksFn: func(ctx context.Context) ([]model.Book, error) {
			return someBooks()[:1], nil
		},
	}
	c := NewCatalog(mock, notify.Discard{})

	if err := c.FetchOwned(context.Background()); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	state := c.Snapshot()
	if state.View != ViewOwned {
		t.Errorf("View = %v, want ViewOwned", state.View)
	}
	if len(state.Books) != 1 {
		t.Errorf("len = %d, want 1", len(state.Books))
	}
}

func TestCatalog_StaleFetchDiscarded(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	mock := &mockCatalogClient{
		booksFn: func(ctx context.Context) ([]model.Book, error) {
			// The slow fetch: issued first, completes last.
			close(started)
			<-release
			return []model.Book{{ID: "stale", Title: "Old Listing"}}, nil
		},
		ownedBooksFn: func(ctx context.Context) ([]model.Book, error) {
			return []model.Book{{ID: "fresh", Title: "Own Listing"}}, nil
		},
	}
	c := NewCatalog(mock, notify.Discard{})

	done := make(chan error, 1)
	go func() { done <- c.FetchAll(context.Background()) }()
	<-started

	// A second fetch is issued while the first is still in flight.
	if err := c.FetchOwned(context.Background()); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("stale fetch must discard silently, got: %v", err)
	}

	state := c.Snapshot()
	if len(state.Books) != 1 || state.Books[0].ID != "fresh" {
		t.Fatalf("Books = %+v, want only the fresh result", state.Books)
	}
	if state.View != ViewOwned {
		t.Errorf("View = %v, want the latest fetch's view", state.View)
	}
	if state.Loading {
		t.Error("Loading must end false")
	}
}

func TestCatalog_Delete_RemovesById(t *testing.T) {
	mock := &mockCatalogClient{
		booksFn:      func(ctx context.Context) ([]model.Book, error) { return someBooks(), nil },
		deleteBookFn: func(ctx context.Context, id string) (string, error) { return "", nil },
	}
	sink := &notify.Capture{}
	c := NewCatalog(mock, sink)
	_ = c.FetchAll(context.Background())
	before := len(c.Snapshot().Books)

	if err := c.Delete(context.Background(), "b1"); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	state := c.Snapshot()
	if len(state.Books) != before-1 {
		t.Fatalf("len = %d, want %d", len(state.Books), before-1)
	}
	for _, b := range state.Books {
		if b.ID == "b1" {
			t.Error("deleted id still present")
		}
	}
	if state.Message != "Book deleted successfully" {
		t.Errorf("Message = %q", state.Message)
	}
}

func TestCatalog_Delete_AbsentIdRemovesNothing(t *testing.T) {
	mock := &mockCatalogClient{
		booksFn:      func(ctx context.Context) ([]model.Book, error) { return someBooks(), nil },
		deleteBookFn: func(ctx context.Context, id string) (string, error) { return "", nil },
	}
	c := NewCatalog(mock, notify.Discard{})
	_ = c.FetchAll(context.Background())
	before := len(c.Snapshot().Books)

	if err := c.Delete(context.Background(), "nope"); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if got := len(c.Snapshot().Books); got != before {
		t.Errorf("len = %d, want unchanged %d", got, before)
	}
}

func TestCatalog_Delete_FailureLeavesBuffer(t *testing.T) {
	mock := &mockCatalogClient{
		booksFn: func(ctx context.Context) ([]model.Book, error) { return someBooks(), nil },
		deleteBookFn: func(ctx context.Context, id string) (string, error) {
			return "", &api.APIError{Status: 403, Message: "Not your book"}
		},
	}
	sink := &notify.Capture{}
	c := NewCatalog(mock, sink)
	_ = c.FetchAll(context.Background())
	before := len(c.Snapshot().Books)

	if err := c.Delete(context.Background(), "b1"); err == nil {
		t.Fatal("expected error")
	}

	state := c.Snapshot()
	if len(state.Books) != before {
		t.Error("failed delete must leave the buffer untouched")
	}
	if state.Err != "Not your book" {
		t.Errorf("Err = %q, want server message", state.Err)
	}
	if entries := sink.Entries(); len(entries) != 1 || entries[0].Kind != "error" {
		t.Errorf("entries = %+v, want one error", entries)
	}
}

func TestCatalog_Update_ReplacesMatchingEntry(t *testing.T) {
	updated := model.Book{ID: "b2", Title: "Persuasion", Author: "Austen", Condition: model.ConditionGood, Price: 150}
	mock := &mockCatalogClient{
		booksFn: func(ctx context.Context) ([]model.Book, error) { return someBooks(), nil },
		updateBookFn: func(ctx context.Context, id string, upload *model.BookUpload) (*model.Book, string, error) {
			return &updated, "", nil
		},
	}
	c := NewCatalog(mock, notify.Discard{})
	_ = c.FetchAll(context.Background())

	if err := c.Update(context.Background(), "b2", &model.BookUpload{Title: "Persuasion"}); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	state := c.Snapshot()
	if state.Books[1].Title != "Persuasion" || state.Books[1].Price != 150 {
		t.Errorf("Books[1] = %+v, want wholesale replacement", state.Books[1])
	}
	if state.Books[0].ID != "b1" {
		t.Error("other entries must keep their positions")
	}
}

func TestCatalog_Update_LocallyAbsentIdIsDropped(t *testing.T) {
	// The server applied the update, but this client never fetched that
	// book; the local sequence stays unchanged.
	updated := model.Book{ID: "elsewhere", Title: "New"}
	mock := &mockCatalogClient{
		booksFn: func(ctx context.Context) ([]model.Book, error) { return someBooks(), nil },
		updateBookFn: func(ctx context.Context, id string, upload *model.BookUpload) (*model.Book, string, error) {
			return &updated, "", nil
		},
	}
	sink := &notify.Capture{}
	c := NewCatalog(mock, sink)
	_ = c.FetchAll(context.Background())
	before := c.Snapshot().Books

	if err := c.Update(context.Background(), "elsewhere", &model.BookUpload{Title: "New"}); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	state := c.Snapshot()
	if !reflect.DeepEqual(state.Books, before) {
		t.Errorf("Books changed: %+v", state.Books)
	}
	// It still notifies: the operation did succeed server-side.
	if entries := sink.Entries(); len(entries) != 1 || entries[0].Kind != "success" {
		t.Errorf("entries = %+v, want one success", entries)
	}
}

func TestCatalog_ClearErrors(t *testing.T) {
	mock := &mockCatalogClient{
		booksFn: func(ctx context.Context) ([]model.Book, error) {
			return nil, &api.APIError{Status: 500, Message: "boom"}
		},
	}
	c := NewCatalog(mock, notify.Discard{})
	_ = c.FetchAll(context.Background())

	c.ClearErrors()

	if state := c.Snapshot(); state.Err != "" {
		t.Errorf("Err = %q, want empty after ClearErrors", state.Err)
	}
}
