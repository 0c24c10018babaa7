package simplex

import "gonum.org/v1/gonum/mat"

// Phase tells which objective a Step was taken under.
type Phase int

const (
	// PhaseOne minimizes the sum of artificial variables.
	PhaseOne Phase = 1
	// PhaseTwo optimizes the program's own objective.
	PhaseTwo Phase = 2
)

func (p Phase) String() string {
	if p == PhaseOne {
		return "phase I"
	}

	return "phase II"
}

// Step is the state handed to an Observer. Iteration 0 is the starting tableau
// of a phase and has Entering, Leaving and PivotRow set to -1.
type Step struct {
	Phase     Phase
	Iteration int

	// Entering and Leaving are column indices of the variables swapped by the
	// pivot; PivotRow is the row they were swapped in.
	Entering int
	Leaving  int
	PivotRow int

	// Tableau and Basis are copies owned by the observer.
	Tableau *mat.Dense
	Basis   []int
}

// Observer receives a Step for every tableau the engine produces.
type Observer func(Step)

func (s *settings) notify(t *Tableau, phase Phase, iter, entering, leaving, row int) {
	if s.observer == nil {
		return
	}

	s.observer(Step{
		Phase:     phase,
		Iteration: iter,
		Entering:  entering,
		Leaving:   leaving,
		PivotRow:  row,
		Tableau:   t.Snapshot(),
		Basis:     t.Basis(),
	})
}
