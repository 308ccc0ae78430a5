package eligibility

// Result is the oracle's answer for one member. It is ephemeral: consumed
// once per scan pass and never persisted by this engine.
type Result struct {
	IsEligible    bool     `json:"is_eligible"`
	MaxLoanAmount float64  `json:"max_loan_amount"`
	Reasons       []string `json:"eligibility_reasons"`
}
