package permission

import (
	"sync"

	"github.com/kbukum/accessmatrix/snapshot"
)

// Evaluator computes permission matrices from snapshots. It holds no
// mutable state and is safe for concurrent use.
type Evaluator struct {
	table *Table
}

// NewEvaluator returns an Evaluator over t.
func NewEvaluator(t *Table) *Evaluator {
	return &Evaluator{table: t}
}

var (
	defaultOnce      sync.Once
	defaultEvaluator *Evaluator
)

// Default returns the Evaluator over the canonical table. It panics if the
// built-in table fails validation, which is a programming error.
func Default() *Evaluator {
	defaultOnce.Do(func() {
		t, err := CanonicalTable()
		if err != nil {
			panic(err)
		}
		defaultEvaluator = NewEvaluator(t)
	})
	return defaultEvaluator
}

// Table returns the rule table.
func (e *Evaluator) Table() *Table { return e.table }

// Keys returns the evaluator's key set, sorted.
func (e *Evaluator) Keys() []Key { return e.table.Keys() }

// DefaultMatrix returns the matrix with every key denied.
func (e *Evaluator) DefaultMatrix() Matrix {
	m := make(Matrix, len(e.table.keys))
	for _, k := range e.table.keys {
		m[k] = false
	}
	return m
}

// Evaluate decides every key of the table against s. A nil snapshot, or
// one without a membership, yields DefaultMatrix.
func (e *Evaluator) Evaluate(s *snapshot.Snapshot) Matrix {
	if s.Validate() != nil {
		return e.DefaultMatrix()
	}
	m := make(Matrix, len(e.table.keys))
	for _, k := range e.table.keys {
		m[k] = e.table.rules[k].Predicate.Match(s)
	}
	return m
}

// EvaluateKey decides a single key. Unknown keys are denied.
func (e *Evaluator) EvaluateKey(s *snapshot.Snapshot, k Key) bool {
	r, ok := e.table.rules[k]
	if !ok || s.Validate() != nil {
		return false
	}
	return r.Predicate.Match(s)
}

// Evaluate decides every canonical key against s.
func Evaluate(s *snapshot.Snapshot) Matrix {
	return Default().Evaluate(s)
}

// DefaultMatrix returns the canonical key set with every key denied.
func DefaultMatrix() Matrix {
	return Default().DefaultMatrix()
}
