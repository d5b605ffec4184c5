// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package backtrack

// stepController manages the adaptive step length of one search call:
// a bound guard run before every candidate is built and a decay
// applied on every rejection, subject to the retry budget. The step
// is monotonically non-increasing within a call.
type stepController struct {
	step    float64
	rejects int
	min     float64
	max     float64
	shrink  float64
	budget  int
}

// guard enforces the step bounds before a candidate is built, so no
// out-of-range step is ever evaluated. The minimum is checked first.
func (c *stepController) guard(iter int) *FailError {
	switch {
	case c.step < c.min:
		return &FailError{Kind: FailStepMin, Iter: iter, Step: c.step}
	case c.step > c.max:
		return &FailError{Kind: FailStepMax, Iter: iter, Step: c.step}
	}
	return nil
}

// reject consumes one unit of retry budget and shrinks the step.
func (c *stepController) reject(iter int) *FailError {
	if c.rejects >= c.budget {
		return &FailError{Kind: FailBudget, Iter: iter, Step: c.step}
	}
	c.rejects++
	c.step *= c.shrink
	return nil
}
