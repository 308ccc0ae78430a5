package eligibility

import "context"

// Oracle is the external loan-eligibility scoring function. Its computation
// is opaque to this engine; failures are reported as opaque errors.
type Oracle interface {
	Calculate(ctx context.Context, userID, groupID string) (*Result, error)
}
