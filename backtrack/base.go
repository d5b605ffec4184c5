// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package backtrack

import "fmt"

const (
	zero = 0.0
	one  = 1.0
	half = 0.5
)

// searchState tracks the driver's position in the accept/reject loop.
type searchState int

const (
	// stateEvaluating a candidate is being built and screened.
	stateEvaluating searchState = iota
	// stateRejectedInfeasible the candidate violated a feasibility bound.
	stateRejectedInfeasible
	// stateRejectedEnergy the candidate failed the termination test.
	stateRejectedEnergy
	// stateAccepted the candidate was accepted.
	stateAccepted
	// stateFailed a fatal condition aborted the search.
	stateFailed
)

// verdict is the outcome of one termination-policy decision.
type verdict int

const (
	verdictAccept verdict = iota
	verdictShrink
	verdictFatal
)

// FailKind classifies the fatal conditions that abort a search.
type FailKind int

const (
	// FailStep the initial step length is not positive.
	FailStep FailKind = iota
	// FailAscent the search direction does not decrease the energy.
	FailAscent
	// FailBudget the retry budget was exhausted without acceptance.
	FailBudget
	// FailStepMin the step became smaller than the minimum allowed value.
	FailStepMin
	// FailStepMax the step became larger than the maximum allowed value.
	FailStepMax
	// FailTermination the configured termination mode is not recognized.
	FailTermination
	// FailPanic an injected callback panicked during the search.
	FailPanic
)

func (k FailKind) String() string {
	switch k {
	case FailStep:
		return "the initial step length must be positive"
	case FailAscent:
		return "the update direction increases the objective function value"
	case FailBudget:
		return "the line search routine reached the maximum number of iterations"
	case FailStepMin:
		return "the line search step became smaller than the minimum allowed value"
	case FailStepMax:
		return "the line search step became larger than the maximum allowed value"
	case FailTermination:
		return "invalid line search termination procedure"
	case FailPanic:
		return "evaluation callback panicked"
	}
	return "unknown failure"
}

// FailError reports a fatal search failure together with the trial
// count and step length at which it was detected. No partial state
// accompanies it: the caller's base point is untouched.
type FailError struct {
	Kind FailKind
	Iter int
	Step float64
}

func (e *FailError) Error() string {
	return fmt.Sprintf("backtrack: %v (iter %d, step %.6g)", e.Kind, e.Iter, e.Step)
}
