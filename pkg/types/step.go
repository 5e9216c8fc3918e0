package types

// Outcome is the kind of a Step
type Outcome int

const (
	// OutcomeContinue lets the next action in the sequence run
	OutcomeContinue Outcome = iota
	// OutcomeStop ends the current action sequence without failing it
	OutcomeStop
	// OutcomeFailure ends the sequence and fails the resource
	OutcomeFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeContinue:
		return "continue"
	case OutcomeStop:
		return "stop"
	case OutcomeFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Step is the result of applying one action to a resource
type Step struct {
	Outcome Outcome
	Err     error
}

// Continue is the step returned by an action that completed normally
func Continue() Step {
	return Step{Outcome: OutcomeContinue}
}

// StopSequence ends the remaining actions of the current sequence
func StopSequence() Step {
	return Step{Outcome: OutcomeStop}
}

// Failure reports that the action failed. A nil err still fails.
func Failure(err error) Step {
	return Step{Outcome: OutcomeFailure, Err: err}
}

// FailureOrContinue returns Failure(err) when err is non-nil
func FailureOrContinue(err error) Step {
	if err != nil {
		return Failure(err)
	}
	return Continue()
}
