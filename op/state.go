package op

import (
	"sync"

	"github.com/lvlath-tract/tract/tensor"
)

// OpState is the per-run object a StatefulOp produces: it is called
// instead of Evaluator.Eval for the lifetime of one Session. The Delay
// ring buffer is the motivating example (spec.md §4.C, §5).
type OpState interface {
	Eval(session *Session, inputs []tensor.Tensor) ([]tensor.Tensor, error)
}

// StatefulOp is implemented by ops that need per-run state: State is
// called once per Session, lazily, the first time the node is reached.
type StatefulOp interface {
	Op
	State(session *Session) (OpState, error)
}

// Session is the per-run, per-thread scope stateful ops' state lives in
// (spec.md §5: "the session is mutated only by its owning executor, so
// no locking is needed" — the mutex here only protects the lazy-init map
// itself against first-touch races from a caller that does choose to
// share a Session across goroutines for read-only node dispatch).
type Session struct {
	mu     sync.Mutex
	states map[int]OpState
}

// NewSession returns an empty per-run session.
func NewSession() *Session {
	return &Session{states: make(map[int]OpState)}
}

// StateFor returns the OpState for nodeID, creating it via so.State on
// first use and caching it for the remainder of the session.
func (s *Session) StateFor(nodeID int, so StatefulOp) (OpState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.states[nodeID]; ok {
		return st, nil
	}
	st, err := so.State(s)
	if err != nil {
		return nil, err
	}
	s.states[nodeID] = st
	return st, nil
}

// Reset discards all per-node state, starting the session over.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states = make(map[int]OpState)
}
