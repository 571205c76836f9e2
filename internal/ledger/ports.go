package ledger

import (
	"context"

	"mobiflow/internal/core"
)

// Exporter appends transactions to an external ledger and returns a
// reference to the written row.
type Exporter interface {
	Append(ctx context.Context, tx core.Transaction) (rowRef string, err error)
}
