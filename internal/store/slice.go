package store

import (
	"slices"
	"sync"
)

// State mirrors one entity slice: the fetched list, the single selected entity
// and the loading/error flags of the read and the create requests.
type State[T any] struct {
	Items    []T    `json:"list"`
	Current  *T     `json:"single"`
	Loading  bool   `json:"loading"`
	Error    string `json:"error,omitempty"`
	Adding   bool   `json:"adding"`
	AddError string `json:"addError,omitempty"`
}

type Slice[T any] struct {
	name  string
	mu    sync.RWMutex
	state State[T]
}

func NewSlice[T any](name string) *Slice[T] {
	return &Slice[T]{
		name:  name,
		state: State[T]{Items: []T{}},
	}
}

func (s *Slice[T]) Name() string {
	return s.name
}

// Update applies a synchronous reducer under the lock.
func (s *Slice[T]) Update(reduce func(st *State[T])) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reduce(&s.state)
}

func (s *Slice[T]) ClearItems() {
	s.Update(func(st *State[T]) {
		st.Items = []T{}
	})
}

func (s *Slice[T]) ClearCurrent() {
	s.Update(func(st *State[T]) {
		st.Current = nil
	})
}

func (s *Slice[T]) Reset() {
	s.Update(func(st *State[T]) {
		*st = State[T]{Items: []T{}}
	})
}

// Snapshot returns a copy safe to use after the lock is released.
func (s *Slice[T]) Snapshot() State[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := s.state
	snapshot.Items = slices.Clone(s.state.Items)
	if snapshot.Items == nil {
		snapshot.Items = []T{}
	}
	if s.state.Current != nil {
		current := *s.state.Current
		snapshot.Current = &current
	}
	return snapshot
}

// reducers, usable directly as the reduce func of Dispatch

func ReplaceItems[T any](st *State[T], items []T) {
	if items == nil {
		items = []T{}
	}
	st.Items = items
}

func ReplaceCurrent[T any](st *State[T], current *T) {
	st.Current = current
}

func AppendItem[T any](st *State[T], item T) {
	st.Items = append(st.Items, item)
}

func RemoveItems[T any](st *State[T], match func(T) bool) {
	st.Items = slices.DeleteFunc(st.Items, match)
}
