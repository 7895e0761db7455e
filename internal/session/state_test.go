package session

import (
	"testing"

	"github.com/2beens/blogfront/internal/blogs"
	"github.com/2beens/blogfront/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_Navigate(t *testing.T) {
	st := NewState()
	st.Blogs.Update(func(s *store.State[blogs.Blog]) {
		s.Items = []blogs.Blog{{BlogID: 1}}
		s.Current = &blogs.Blog{BlogID: 1}
		s.Error = "Failed to fetch blogs"
	})
	st.ReaderBlogs.Update(func(s *store.State[blogs.Blog]) {
		s.Items = []blogs.Blog{{BlogID: 2}}
	})

	st.Navigate()

	snapshot := st.Snapshot()
	assert.Empty(t, snapshot.Blogs.Items)
	assert.Nil(t, snapshot.Blogs.Current)
	assert.Empty(t, snapshot.Blogs.Error)
	assert.Empty(t, snapshot.ReaderBlogs.Items)
}

func TestState_Alerts(t *testing.T) {
	st := NewState()
	assert.Empty(t, st.PopAlerts())

	st.AddAlert(AlertError, "Failed to add blog")
	st.AddAlert(AlertSuccess, "saved")
	alerts := st.PopAlerts()
	require.Len(t, alerts, 2)
	assert.Equal(t, Alert{Kind: AlertError, Message: "Failed to add blog"}, alerts[0])
	assert.Empty(t, st.PopAlerts())
}

func TestState_CountView(t *testing.T) {
	st := NewState()
	assert.True(t, st.CountView(3))

	st.SkipNextView(3)
	assert.False(t, st.CountView(3))
	assert.True(t, st.CountView(3))
	assert.True(t, st.CountView(4))
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	a := r.State("a")
	assert.Same(t, a, r.State("a"))
	assert.NotSame(t, a, r.State("b"))
	assert.Equal(t, 2, r.Len())

	assert.ElementsMatch(t, []string{"a", "b"}, r.Tokens())

	r.Forget("a", "missing")
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, []string{"b"}, r.Tokens())
	assert.NotSame(t, a, r.State("a"))
}
