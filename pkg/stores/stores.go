// Package stores holds the client-side domain collections. Each store
// mirrors one REST resource: fetch replaces the whole collection, create
// appends the server-returned canonical object (prepends for time-ordered
// entities), update replaces by id, delete removes after confirmation.
// Mutations toggle a loading flag and record the last user-facing error
// before returning it.
package stores

import (
	"log/slog"
	"sync"

	"github.com/jpmoralesv/finanzas-cli/pkg/api"
)

type base struct {
	client *api.Client
	logger *slog.Logger

	mu      sync.Mutex
	loading bool
	lastErr string
}

// Loading reports whether an operation is in flight.
func (b *base) Loading() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loading
}

// LastError returns the user-facing message of the last failure, empty
// after a successful operation.
func (b *base) LastError() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}

func (b *base) begin() {
	b.mu.Lock()
	b.loading = true
	b.lastErr = ""
	b.mu.Unlock()
}

func (b *base) end() {
	b.mu.Lock()
	b.loading = false
	b.mu.Unlock()
}

// fail records the server detail (or fallback) as the last error and
// passes the original error through.
func (b *base) fail(err error, fallback string) error {
	msg := api.Message(err, fallback)
	b.mu.Lock()
	b.lastErr = msg
	b.mu.Unlock()
	return err
}
