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
	fallbackSendFailed          = "Failed to send request"
	fallbackFetchRequestsFailed = "Failed to fetch requests"

	msgRequestSent = "Message sent successfully"
)

// RequestLogState is the point-in-time view of the book-request slice.
// Requests is newest-first: sends prepend, fetches keep server order.
type RequestLogState struct {
	Requests []model.BookRequest
	Loading  bool
	Err      string
}

// RequestLog holds the book-request messages tied to listings.
type RequestLog struct {
	mu       sync.Mutex
	state    RequestLogState
	fetchSeq uint64
	client   RequestClient
	sink     notify.Sink
}

func NewRequestLog(client RequestClient, sink notify.Sink) *RequestLog {
	return &RequestLog{client: client, sink: sink}
}

// Snapshot returns a copy of the current state safe to render from.
func (r *RequestLog) Snapshot() RequestLogState {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.state
	st.Requests = make([]model.BookRequest, len(r.state.Requests))
	copy(st.Requests, r.state.Requests)
	return st
}

// Send creates a request against a listing and prepends the server-returned
// record, keeping the newest-first invariant without a re-sort.
func (r *RequestLog) Send(ctx context.Context, message, bookID string) error {
	r.mu.Lock()
	r.state.Loading = true
	r.state.Err = ""
	r.mu.Unlock()

	req, err := r.client.SendRequest(ctx, message, bookID)
	if err != nil {
		text := api.ErrorMessage(err, fallbackSendFailed)
		r.mu.Lock()
		r.state.Loading = false
		r.state.Err = text
		r.mu.Unlock()
		r.sink.Error(text)
		return err
	}

	r.mu.Lock()
	r.state.Loading = false
	if req != nil {
		r.state.Requests = append([]model.BookRequest{*req}, r.state.Requests...)
	}
	r.mu.Unlock()
	r.sink.Success(msgRequestSent)
	return nil
}

// FetchAll replaces the request list wholesale. Unlike the catalog fetch,
// a failure here does notify.
func (r *RequestLog) FetchAll(ctx context.Context) error {
	r.mu.Lock()
	r.fetchSeq++
	seq := r.fetchSeq
	r.state.Loading = true
	r.state.Err = ""
	r.mu.Unlock()

	requests, err := r.client.Requests(ctx)

	r.mu.Lock()
	if latest := r.fetchSeq; seq != latest {
		r.mu.Unlock()
		log.Printf("[RequestLog] discarding stale fetch (seq %d, latest %d)", seq, latest)
		return nil
	}

	r.state.Loading = false
	if err != nil {
		text := api.ErrorMessage(err, fallbackFetchRequestsFailed)
		r.state.Err = text
		r.mu.Unlock()
		r.sink.Error(text)
		return err
	}
	r.state.Requests = requests
	r.mu.Unlock()
	return nil
}

// ClearErrors resets the error field. Synchronous, no network call.
func (r *RequestLog) ClearErrors() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Err = ""
}
