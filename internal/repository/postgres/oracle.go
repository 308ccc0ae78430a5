package postgres

import (
	"context"
	"fmt"

	"github.com/chamasoft/notify-engine/internal/domain/eligibility"
)

var _ eligibility.Oracle = (*OracleClient)(nil)

// OracleClient calls the loan-eligibility scoring function owned by the main
// application schema. The computation behind it is opaque to this engine.
type OracleClient struct{ db *DB }

func NewOracleClient(db *DB) *OracleClient { return &OracleClient{db: db} }

const qEligibility = `
SELECT is_eligible, max_loan_amount, eligibility_reasons
FROM calculate_loan_eligibility($1, $2);`

func (c *OracleClient) Calculate(ctx context.Context, userID, groupID string) (*eligibility.Result, error) {
	ctx, cancel := c.db.withTimeout(ctx)
	defer cancel()

	var res eligibility.Result
	if err := c.db.Pool.QueryRow(ctx, qEligibility, userID, groupID).
		Scan(&res.IsEligible, &res.MaxLoanAmount, &res.Reasons); err != nil {
		return nil, fmt.Errorf("calculate loan eligibility: %w", err)
	}
	return &res, nil
}
