// README: Policy for turning notification outcomes into the submitter-facing result.
package inquiry

type Outcome string

const (
	OutcomeSent    Outcome = "sent"
	OutcomeFailed  Outcome = "failed"
	OutcomeSkipped Outcome = "skipped"
)

const (
	MessageSubmitted = "Trailer inquiry submitted successfully."
	MessageFailed    = "An unexpected error occurred."
)

// Decision is what the submitter sees. Degraded is internal only.
type Decision struct {
	Success  bool
	Degraded bool
	Message  string
}

// CombineOutcomes decides the overall result from the two email sends.
// The owner email is mandatory: without it the business never hears about
// the lead. The customer acknowledgement is best-effort and can only degrade
// a success, never turn it into a failure.
func CombineOutcomes(owner, customer Outcome) Decision {
	if owner != OutcomeSent {
		return Decision{Success: false, Message: MessageFailed}
	}
	return Decision{
		Success:  true,
		Degraded: customer != OutcomeSent,
		Message:  MessageSubmitted,
	}
}
