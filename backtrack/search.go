// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package backtrack

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/curioloop/conformal/surface"
)

// LogLevel controls the frequency and type of logger output
type LogLevel int

const (
	// LogNoop no output is generated (level < 0)
	LogNoop LogLevel = -1
	// LogLast print only one line when the search exits
	LogLast LogLevel = 0
	// LogTrace print one line for every candidate tried
	LogTrace LogLevel = 1
)

// Logger handles logging output for the searcher.
// Note the writer must be thread-safe.
type Logger struct {
	Level LogLevel
	Msg   io.Writer // Writer to output log messages.
}

func (l *Logger) enable(level LogLevel) bool {
	return l.Level >= level
}

func (l *Logger) log(format string, a ...any) {
	if len(a) > 0 {
		_, _ = fmt.Fprintf(l.Msg, format, a...)
	} else {
		_, _ = fmt.Fprint(l.Msg, format)
	}
}

// Termination selects the criterion that accepts a feasible candidate.
type Termination int

const (
	// Armijo accepts a step satisfying the sufficient-decrease bound
	//   𝒇(𝐱 + λ𝐝) ≤ 𝒇(𝐱) + λ·𝚏𝚝𝚘𝚕·⟨𝒈,𝐝⟩
	Armijo Termination = iota
	// Decrease accepts any step that does not increase the energy.
	Decrease
	// None accepts the first feasible step with finite energy.
	None
)

// Index constrains the vertex index width of face connectivity.
type Index = surface.Index

// ConvertFunc maps the real unknown vector onto the complex Beltrami
// coefficient, writing one entry of mu per entry of x.
type ConvertFunc func(x []float64, mu []complex128)

// EnergyFunc evaluates the mapping energy of a feasible trial. The
// growth and distortion flags select which energy terms to include.
// The evaluator may additionally populate the n×3 lifted embedding and
// the per-vertex scalar field as side channels; the values written by
// the accepted evaluation are handed back through the Result.
type EnergyFunc func(mu, w []complex128, growth, distortion bool, lift *mat.Dense, gamma []float64) float64

// IntersectFunc reports whether a lifted triangulated surface
// intersects itself.
type IntersectFunc[I Index] func(pts []r3.Vector, faces [][3]I) bool

// Param configures the line search.
type Param struct {
	// FTol is the Armijo sufficient-decrease constant, 0 < FTol < 1.
	FTol float64
	// MaxLineSearch bounds the number of rejected candidates per call;
	// at most MaxLineSearch+1 energy evaluations are performed.
	MaxLineSearch int
	// MinStep and MaxStep bound the step length of every candidate
	// actually evaluated. Leaving either at zero selects the default.
	MinStep, MaxStep float64
	// Shrink is the decay applied to the step on every rejection,
	// 0 < Shrink < 1.
	Shrink float64
	// Termination selects the acceptance criterion.
	Termination Termination
	// CheckSelfIntersections screens every candidate embedding for
	// self-intersections of the lifted surface.
	CheckSelfIntersections bool
}

// DefaultParam returns the recommended search configuration.
func DefaultParam() Param {
	return Param{
		FTol:                   1e-4,
		MaxLineSearch:          20,
		MinStep:                1e-20,
		MaxStep:                1e+20,
		Shrink:                 half,
		Termination:            Armijo,
		CheckSelfIntersections: true,
	}
}

// Problem specifies a line-search problem over a fixed mesh.
type Problem[I Index] struct {
	N         int              // The number of mesh vertices
	Faces     [][3]I           // Face connectivity of the triangulated surface
	Boundary  []I              // Vertices projected onto the unit circle after every update
	Fixed     []I              // Vertices pinned to their pre-search embedding
	Convert   ConvertFunc      // Real field to Beltrami coefficient
	Energy    EnergyFunc       // External energy evaluator
	Intersect IntersectFunc[I] // Optional predicate, surface.Intersects by default
	Param     Param            // Search configuration
}

// New validates the problem and creates a searcher for it.
func (p *Problem[I]) New(logger *Logger) (searcher *Searcher[I], err error) {

	if logger == nil {
		logger = new(Logger)
		logger.Level = LogNoop
	}
	if logger.Msg == nil {
		logger.Msg = os.Stdout
	}

	param := p.Param
	if param.FTol == zero {
		param.FTol = 1e-4
	}
	if param.MinStep == zero {
		param.MinStep = 1e-20
	}
	if param.MaxStep == zero {
		param.MaxStep = 1e+20
	}
	if param.Shrink == zero {
		param.Shrink = half
	}

	switch {
	case p.N <= 0:
		err = errors.New("problem dimension must greater than 0")
	case p.Convert == nil:
		err = errors.New("conversion callback is required")
	case p.Energy == nil:
		err = errors.New("energy evaluation is required")
	case !(param.FTol > zero && param.FTol < one):
		err = errors.New("sufficient-decrease constant must lie in (0,1)")
	case param.MaxLineSearch < 0:
		err = errors.New("line search budget must not less than 0")
	case !(param.MinStep > zero):
		err = errors.New("minimum step must greater than 0")
	case param.MaxStep < param.MinStep:
		err = errors.New("maximum step must not less than minimum step")
	case !(param.Shrink > zero && param.Shrink < one):
		err = errors.New("step decay factor must lie in (0,1)")
	}

	if err == nil {
		err = checkIndices(p.N, p.Faces, p.Boundary, p.Fixed)
	}
	if err != nil {
		return
	}

	intersect := p.Intersect
	if intersect == nil {
		intersect = surface.Intersects[I]
	}

	searcher = &Searcher[I]{searchSpec[I]{
		n:         p.N,
		faces:     slices.Clone(p.Faces),
		boundary:  slices.Clone(p.Boundary),
		fixed:     slices.Clone(p.Fixed),
		convert:   p.Convert,
		energy:    p.Energy,
		intersect: intersect,
		param:     param,
		logger:    *logger,
	}}
	return
}

func checkIndices[I Index](n int, faces [][3]I, boundary, fixed []I) error {
	for k, f := range faces {
		for _, v := range f {
			if int(v) < 0 || int(v) >= n {
				return errors.New(fmt.Sprintf("face %d references vertex out of range", k))
			}
		}
	}
	for k, v := range boundary {
		if int(v) < 0 || int(v) >= n {
			return errors.New(fmt.Sprintf("boundary index at %d is out of range", k))
		}
	}
	for k, v := range fixed {
		if int(v) < 0 || int(v) >= n {
			return errors.New(fmt.Sprintf("fixed index at %d is out of range", k))
		}
	}
	return nil
}

type searchSpec[I Index] struct {
	n         int
	faces     [][3]I
	boundary  []I
	fixed     []I
	convert   ConvertFunc
	energy    EnergyFunc
	intersect IntersectFunc[I]
	param     Param
	logger    Logger
}

// Searcher performs constrained backtracking line searches over one
// problem. A searcher is immutable after creation and may be shared.
type Searcher[I Index] struct {
	searchSpec[I]
}

// Workspace contains the trial buffers of one search call.
// To avoid race conditions, separate workspaces need to be created for
// each goroutine. But multiple workspaces could share one searcher.
type Workspace struct {
	n     int
	x     []float64    // trial real field
	w     []complex128 // trial embedding
	mu    []complex128 // trial Beltrami coefficient
	pts   []r3.Vector  // planar lift fed to the intersection predicate
	lift  *mat.Dense   // n×3 lift side channel of the evaluator
	gamma []float64    // scalar side channel of the evaluator
}

// Init allocates a workspace for the searcher.
func (s *Searcher[I]) Init() *Workspace {
	w := new(Workspace)
	w.n = s.n
	w.x = make([]float64, w.n)
	w.w = make([]complex128, w.n)
	w.mu = make([]complex128, w.n)
	w.pts = make([]r3.Vector, w.n)
	w.lift = mat.NewDense(w.n, 3, nil)
	w.gamma = make([]float64, w.n)
	return w
}

// State is the base point of one search: the current real field, its
// embedding, the energy there and the initial step length.
type State struct {
	X    []float64
	W    []complex128
	F    float64
	Step float64
}

// Direction carries the fixed update directions for one search and
// the gradient at the base point, used only for the directional
// derivative ⟨𝒈,𝐝⟩.
type Direction struct {
	X    []float64
	W    []complex128
	Grad []float64
}

// EnergyTerms selects which energy terms the evaluator computes.
// The flags are forwarded to the evaluator verbatim.
type EnergyTerms struct {
	Growth     bool
	Distortion bool
}

// Result contains the accepted state of one search.
type Result struct {
	X     []float64    // Accepted real field.
	W     []complex128 // Accepted embedding.
	F     float64      // Energy at the accepted state.
	Step  float64      // Accepted step length.
	Lift  *mat.Dense   // Lifted embedding filled by the accepted evaluation.
	Gamma []float64    // Scalar side channel filled by the accepted evaluation.
	Summary
}

// Summary counts the work performed by one search.
type Summary struct {
	NumIter       int // Number of candidates built.
	NumEval       int // Number of energy evaluations performed.
	NumInfeasible int // Number of candidates rejected as infeasible.
}

// Search runs one backtracking line search from the given base state
// along the given direction, reusing the workspace buffers. On
// success the result holds fresh copies of the accepted trial; on
// failure the error is a *FailError and no partial state is returned.
// The base slices are never written.
func (s *Searcher[I]) Search(state State, dir Direction, terms EnergyTerms, ws *Workspace) (*Result, error) {

	if len(state.X) != s.n || len(state.W) != s.n {
		panic("base state dimension not match spec")
	}
	if len(dir.X) != s.n || len(dir.W) != s.n || len(dir.Grad) != s.n {
		panic("direction dimension not match spec")
	}
	if ws == nil || ws.n != s.n {
		panic("workspace dimension not match spec")
	}

	dg := floats.Dot(dir.Grad, dir.X)

	if !(state.Step > zero) {
		return nil, &FailError{Kind: FailStep, Step: state.Step}
	}
	if !(dg < zero) {
		return nil, &FailError{Kind: FailAscent, Step: state.Step}
	}

	driver := searchDriver[I]{
		spec:  &s.searchSpec,
		ws:    ws,
		base:  state,
		dir:   dir,
		terms: terms,
		dg:    dg,
		ctrl: stepController{
			step:   state.Step,
			min:    s.param.MinStep,
			max:    s.param.MaxStep,
			shrink: s.param.Shrink,
			budget: s.param.MaxLineSearch,
		},
	}
	return driver.mainLoop()
}
