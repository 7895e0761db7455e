package session

import (
	"sync"

	"github.com/2beens/blogfront/internal/articles"
	"github.com/2beens/blogfront/internal/blogs"
	"github.com/2beens/blogfront/internal/comments"
	"github.com/2beens/blogfront/internal/store"
	"github.com/2beens/blogfront/internal/users"
)

type AlertKind string

const (
	AlertError   AlertKind = "error"
	AlertSuccess AlertKind = "success"
)

type Alert struct {
	Kind    AlertKind `json:"kind"`
	Message string    `json:"message"`
}

// State is the ephemeral entity store of one session. It is never persisted.
type State struct {
	Users       *users.Slice
	Blogs       *blogs.Slice
	ReaderBlogs *blogs.Slice
	Articles    *articles.Slice
	Comments    *comments.Slice

	mu             sync.Mutex
	alerts         []Alert
	skipViewsCount map[int]bool
}

func NewState() *State {
	return &State{
		Users:          users.NewSlice(),
		Blogs:          blogs.NewSlice("blogs"),
		ReaderBlogs:    blogs.NewSlice("readerBlogs"),
		Articles:       articles.NewSlice(),
		Comments:       comments.NewSlice(),
		skipViewsCount: map[int]bool{},
	}
}

// Navigate clears the fetched entities, the same as leaving a page does.
func (s *State) Navigate() {
	s.Users.Reset()
	s.Blogs.Reset()
	s.ReaderBlogs.Reset()
	s.Articles.Reset()
	s.Comments.Reset()
}

func (s *State) AddAlert(kind AlertKind, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, Alert{Kind: kind, Message: message})
}

// PopAlerts returns the pending alerts and forgets them.
func (s *State) PopAlerts() []Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	alerts := s.alerts
	s.alerts = nil
	return alerts
}

// SkipNextView marks the next visit of the article as not counted (e.g. the reload after posting a comment).
func (s *State) SkipNextView(articleID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skipViewsCount[articleID] = true
}

// CountView reports whether this visit of the article should increment its views.
func (s *State) CountView(articleID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.skipViewsCount[articleID] {
		delete(s.skipViewsCount, articleID)
		return false
	}
	return true
}

type Snapshot struct {
	Users       store.State[users.User]       `json:"users"`
	Blogs       store.State[blogs.Blog]       `json:"blogs"`
	ReaderBlogs store.State[blogs.Blog]       `json:"readerBlogs"`
	Articles    store.State[articles.Article] `json:"articles"`
	Comments    store.State[comments.Comment] `json:"articleComments"`
}

func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Users:       s.Users.Snapshot(),
		Blogs:       s.Blogs.Snapshot(),
		ReaderBlogs: s.ReaderBlogs.Snapshot(),
		Articles:    s.Articles.Snapshot(),
		Comments:    s.Comments.Snapshot(),
	}
}

// Registry keeps the states of live sessions by token.
type Registry struct {
	mu     sync.Mutex
	states map[string]*State
}

func NewRegistry() *Registry {
	return &Registry{
		states: map[string]*State{},
	}
}

func (r *Registry) State(token string) *State {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.states[token]
	if !ok {
		st = NewState()
		r.states[token] = st
	}
	return st
}

func (r *Registry) Forget(tokens ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, token := range tokens {
		delete(r.states, token)
	}
}

func (r *Registry) Tokens() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	tokens := make([]string, 0, len(r.states))
	for token := range r.states {
		tokens = append(tokens, token)
	}
	return tokens
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}
