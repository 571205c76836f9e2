// Package memory provides an in-memory ledger exporter for tests and
// local development.
package memory

import (
	"context"
	"fmt"
	"sync"

	"mobiflow/internal/core"
	ports "mobiflow/internal/ledger"
)

type Exporter struct {
	mu   sync.Mutex
	rows []core.Transaction

	// FailNext makes the next Append return an error, then resets.
	FailNext error
}

var _ ports.Exporter = (*Exporter)(nil)

func New() *Exporter {
	return &Exporter{}
}

func (e *Exporter) Append(_ context.Context, tx core.Transaction) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.FailNext != nil {
		err := e.FailNext
		e.FailNext = nil
		return "", err
	}

	e.rows = append(e.rows, tx)
	return fmt.Sprintf("Ledger!A%d:E%d", len(e.rows), len(e.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (e *Exporter) Rows() []core.Transaction {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]core.Transaction, len(e.rows))
	copy(out, e.rows)
	return out
}
