// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package backtrack

import (
	"slices"

	"gonum.org/v1/gonum/mat"
)

// searchDriver owns the accept/reject loop of one search call,
// responsible for managing the flow between the candidate builder,
// the feasibility screen, the termination policy and the step
// controller.
type searchDriver[I Index] struct {
	spec  *searchSpec[I]
	ws    *Workspace
	base  State
	dir   Direction
	terms EnergyTerms
	ctrl  stepController

	dg    float64 // directional derivative at the base point
	fx    float64 // energy of the current trial
	state searchState

	iter       int // candidates built
	evals      int // energy evaluations
	infeasible int // feasibility rejections
}

// invoke runs one injected callback, containing panics raised by
// caller code so the search never unwinds with the workspace in an
// unspecified state.
func (d *searchDriver[I]) invoke(f func()) (err *FailError) {
	defer func() {
		if r := recover(); r != nil {
			err = &FailError{Kind: FailPanic, Iter: d.iter, Step: d.ctrl.step}
		}
	}()
	f()
	return
}

// mainLoop is the search state machine: guard the step bounds, build
// a candidate, screen feasibility, evaluate the energy, and either
// accept or shrink and retry.
func (d *searchDriver[I]) mainLoop() (*Result, error) {

	spec := d.spec
	param := &spec.param

	testDecr := param.FTol * d.dg

	for {
		d.state = stateEvaluating
		if err := d.ctrl.guard(d.iter); err != nil {
			return nil, d.exit(err)
		}

		step := d.ctrl.step
		d.iter++
		if err := d.invoke(func() {
			d.buildCandidate(step)
			spec.convert(d.ws.x, d.ws.mu)
		}); err != nil {
			return nil, d.exit(err)
		}

		feasible := false
		if err := d.invoke(func() { feasible = d.feasible() }); err != nil {
			return nil, d.exit(err)
		}
		if !feasible {
			d.state = stateRejectedInfeasible
			d.infeasible++
			d.printTrial(step)
			if err := d.ctrl.reject(d.iter); err != nil {
				return nil, d.exit(err)
			}
			continue
		}

		if err := d.invoke(func() {
			d.fx = spec.energy(d.ws.mu, d.ws.w, d.terms.Growth, d.terms.Distortion, d.ws.lift, d.ws.gamma)
		}); err != nil {
			return nil, d.exit(err)
		}
		d.evals++

		switch decide(param.Termination, d.base.F, d.fx, testDecr, step) {
		case verdictAccept:
			d.state = stateAccepted
			d.printTrial(step)
			return d.accept(step), nil
		case verdictShrink:
			d.state = stateRejectedEnergy
			d.printTrial(step)
			if err := d.ctrl.reject(d.iter); err != nil {
				return nil, d.exit(err)
			}
		default:
			return nil, d.exit(&FailError{Kind: FailTermination, Iter: d.iter, Step: step})
		}
	}
}

// accept copies the trial state out of the workspace into a fresh
// result, leaving the workspace reusable for the next call.
func (d *searchDriver[I]) accept(step float64) *Result {
	ws := d.ws
	res := &Result{
		X:     slices.Clone(ws.x),
		W:     slices.Clone(ws.w),
		F:     d.fx,
		Step:  step,
		Lift:  mat.DenseCopyOf(ws.lift),
		Gamma: slices.Clone(ws.gamma),
		Summary: Summary{
			NumIter:       d.iter,
			NumEval:       d.evals,
			NumInfeasible: d.infeasible,
		},
	}
	d.printExit(nil, step)
	return res
}

// exit records a fatal condition and surfaces it to the caller.
func (d *searchDriver[I]) exit(err *FailError) error {
	d.state = stateFailed
	d.printExit(err, d.ctrl.step)
	return err
}

// printTrial logs the outcome of one candidate.
func (d *searchDriver[I]) printTrial(step float64) {
	log := &d.spec.logger
	if !log.enable(LogTrace) {
		return
	}
	var word string
	switch d.state {
	case stateAccepted:
		word = "acc"
	case stateRejectedInfeasible:
		word = "inf"
	case stateRejectedEnergy:
		word = "rej"
	default:
		word = "---"
	}
	if d.state == stateRejectedInfeasible {
		log.log("LINE SEARCH %3d  %s    step = %12.5e\n", d.iter, word, step)
	} else {
		log.log("LINE SEARCH %3d  %s    step = %12.5e    f = %12.5e\n", d.iter, word, step, d.fx)
	}
}

// printExit logs the final statistics and exit condition of the search.
func (d *searchDriver[I]) printExit(err *FailError, step float64) {
	log := &d.spec.logger
	if !log.enable(LogLast) {
		return
	}
	if err != nil {
		log.log("LINE SEARCH ABORTED after %d trials: %v\n", d.iter, err.Kind)
		return
	}
	log.log("LINE SEARCH DONE: f = %12.5e  step = %12.5e  (%d trials, %d evals, %d infeasible)\n",
		d.fx, step, d.iter, d.evals, d.infeasible)
}
