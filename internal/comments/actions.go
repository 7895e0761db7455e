package comments

import (
	"context"

	"github.com/2beens/blogfront/internal/store"
)

var (
	ActionAddComment  = store.Action{Type: "article/addComment", Kind: store.KindAdd, Fallback: "Failed to add comment"}
	ActionGetComments = store.Action{Type: "article/getComments", Kind: store.KindFetch, Fallback: "Failed to fetch comments"}
)

type Slice = store.Slice[Comment]

func NewSlice() *Slice {
	return store.NewSlice[Comment]("articleComments")
}

type Actions struct {
	api        *Api
	dispatcher *store.Dispatcher
}

func NewActions(api *Api, dispatcher *store.Dispatcher) *Actions {
	return &Actions{
		api:        api,
		dispatcher: dispatcher,
	}
}

func (a *Actions) AddComment(ctx context.Context, slice *Slice, emailAccountID, blogID, articleID int, comment Comment) (Comment, error) {
	return store.Dispatch(ctx, a.dispatcher, slice, ActionAddComment,
		func(ctx context.Context) (Comment, error) {
			return a.api.Add(ctx, emailAccountID, blogID, articleID, comment)
		},
		store.AppendItem[Comment],
	)
}

func (a *Actions) GetComments(ctx context.Context, slice *Slice, emailAccountID, blogID, articleID int) ([]Comment, error) {
	return store.Dispatch(ctx, a.dispatcher, slice, ActionGetComments,
		func(ctx context.Context) ([]Comment, error) {
			return a.api.GetAll(ctx, emailAccountID, blogID, articleID)
		},
		store.ReplaceItems[Comment],
	)
}

func ClearComments(slice *Slice) {
	slice.ClearItems()
}
