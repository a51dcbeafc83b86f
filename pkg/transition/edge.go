package transition

import (
	"fmt"
	"math"
)

// DefaultProbability marks an edge whose weight has not been set explicitly.
// Auto-balancing treats exactly 1.0 as "unset", so a certain transition and an
// unspecified one look the same.
const DefaultProbability = 1.0

// Edge is a directed, weighted link between two node ids.
// ID is assigned by the owning tree on insertion; 0 means unregistered.
type Edge struct {
	ID      int
	From    int
	To      int
	Effects []Effect

	probability float64
}

// New creates an unregistered edge. The probability is clamped to [0,1].
func New(from, to int, probability float64, effects ...Effect) *Edge {
	e := &Edge{From: from, To: to}
	e.SetProbability(probability)
	e.Effects = append(e.Effects, effects...)
	return e
}

func (e *Edge) Probability() float64 {
	return e.probability
}

// SetProbability stores p clamped to [0,1]; NaN becomes 0
func (e *Edge) SetProbability(p float64) {
	if math.IsNaN(p) {
		p = 0
	}
	e.probability = math.Max(0, math.Min(1, p))
}

// Explicit reports whether the probability was set to something other than the default
func (e *Edge) Explicit() bool {
	return e.probability < DefaultProbability
}

func (e *Edge) AddEffect(effects ...Effect) {
	e.Effects = append(e.Effects, effects...)
}

func (e *Edge) String() string {
	return fmt.Sprintf("Transition(%d -> %d, probability=%.2f, effects=%d)", e.From, e.To, e.probability, len(e.Effects))
}
