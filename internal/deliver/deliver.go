package deliver

import (
	"context"
)

// Deliverer sends the short digest text to its destination.
type Deliverer interface {
	Deliver(ctx context.Context, text string) error
}
