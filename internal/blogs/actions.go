package blogs

import (
	"context"

	"github.com/2beens/blogfront/internal/store"
)

var (
	ActionAuthorGetAllBlogs = store.Action{Type: "blogs/authorGetAllBlogs", Kind: store.KindFetch, Fallback: "Failed to fetch blogs"}
	ActionReaderGetAllBlogs = store.Action{Type: "blogs/readerGetAllBlogs", Kind: store.KindFetch, Fallback: "Failed to fetch blogs"}
	ActionGetBlogByID       = store.Action{Type: "blogs/getBlogById", Kind: store.KindFetch, Fallback: "Failed to fetch a blog"}
	ActionCreateBlog        = store.Action{Type: "blogs/createBlog", Kind: store.KindAdd, Fallback: "Failed to add blog"}
	ActionDeleteBlogByID    = store.Action{Type: "blogs/deleteBlogById", Kind: store.KindFetch, Fallback: "Failed to delete blog"}
	ActionUpdateBlog        = store.Action{Type: "blogs/updateBlog", Kind: store.KindFetch, Fallback: "Failed to update blog"}
)

type Slice = store.Slice[Blog]

func NewSlice(name string) *Slice {
	return store.NewSlice[Blog](name)
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

func (a *Actions) AuthorGetAllBlogs(ctx context.Context, slice *Slice, emailAccountID int) ([]Blog, error) {
	return store.Dispatch(ctx, a.dispatcher, slice, ActionAuthorGetAllBlogs,
		func(ctx context.Context) ([]Blog, error) {
			return a.api.AuthorGetAll(ctx, emailAccountID)
		},
		store.ReplaceItems[Blog],
	)
}

// ReaderGetAllBlogs fills the reader list, kept apart from the author list.
func (a *Actions) ReaderGetAllBlogs(ctx context.Context, readerSlice *Slice, emailAccountID int) ([]Blog, error) {
	return store.Dispatch(ctx, a.dispatcher, readerSlice, ActionReaderGetAllBlogs,
		func(ctx context.Context) ([]Blog, error) {
			return a.api.ReaderGetAll(ctx, emailAccountID)
		},
		store.ReplaceItems[Blog],
	)
}

func (a *Actions) GetBlogByID(ctx context.Context, slice *Slice, emailAccountID, blogID int) (*Blog, error) {
	return store.Dispatch(ctx, a.dispatcher, slice, ActionGetBlogByID,
		func(ctx context.Context) (*Blog, error) {
			return a.api.Get(ctx, emailAccountID, blogID)
		},
		store.ReplaceCurrent[Blog],
	)
}

func (a *Actions) CreateBlog(ctx context.Context, slice *Slice, emailAccountID int, dto Dto) (Blog, error) {
	return store.Dispatch(ctx, a.dispatcher, slice, ActionCreateBlog,
		func(ctx context.Context) (Blog, error) {
			return a.api.Add(ctx, emailAccountID, dto)
		},
		store.AppendItem[Blog],
	)
}

func (a *Actions) DeleteBlogByID(ctx context.Context, slice *Slice, emailAccountID, blogID int) error {
	_, err := store.Dispatch(ctx, a.dispatcher, slice, ActionDeleteBlogByID,
		func(ctx context.Context) (int, error) {
			return blogID, a.api.Delete(ctx, emailAccountID, blogID)
		},
		func(st *store.State[Blog], deletedID int) {
			store.RemoveItems(st, func(b Blog) bool {
				return b.BlogID == deletedID
			})
		},
	)
	return err
}

func (a *Actions) UpdateBlog(ctx context.Context, slice *Slice, emailAccountID, blogID int, dto Dto) error {
	_, err := store.Dispatch(ctx, a.dispatcher, slice, ActionUpdateBlog,
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, a.api.Update(ctx, emailAccountID, blogID, dto)
		},
		nil,
	)
	return err
}

func ClearBlogs(slice *Slice) {
	slice.ClearItems()
}

func ClearBlog(slice *Slice) {
	slice.ClearCurrent()
}
