package domain

// TokenOutcome records the delivery result for one device token.
type TokenOutcome struct {
	Token   string
	Success bool
	// Reason carries the provider's failure message when Success is false.
	Reason string
}

// DeliveryReport aggregates per-token outcomes across every batch of one
// event. It exists for logging and metrics only; nothing persists it.
type DeliveryReport struct {
	Outcomes []TokenOutcome
}

func (r *DeliveryReport) Add(outcome TokenOutcome) {
	r.Outcomes = append(r.Outcomes, outcome)
}

// SuccessCount returns the number of tokens delivered successfully.
func (r *DeliveryReport) SuccessCount() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Success {
			n++
		}
	}
	return n
}

// FailureCount returns the number of tokens that failed delivery.
func (r *DeliveryReport) FailureCount() int {
	return len(r.Outcomes) - r.SuccessCount()
}
