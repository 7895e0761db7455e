package articles

import (
	"context"

	"github.com/2beens/blogfront/internal/store"
)

var (
	ActionGetAllArticles        = store.Action{Type: "articles/getAllArticles", Kind: store.KindFetch, Fallback: "Failed to fetch articles"}
	ActionGetArticleByID        = store.Action{Type: "articles/getArticleById", Kind: store.KindFetch, Fallback: "Failed to fetch article"}
	ActionGetReaderArticleByID  = store.Action{Type: "articles/getReaderArticleById", Kind: store.KindFetch, Fallback: "Failed to fetch article"}
	ActionAddArticle            = store.Action{Type: "articles/addArticle", Kind: store.KindAdd, Fallback: "Failed to add article"}
	ActionPublishArticle        = store.Action{Type: "articles/publishArticle", Kind: store.KindFetch, Fallback: "Failed to publish an article"}
	ActionUnpublishArticle      = store.Action{Type: "articles/unpublishArticle", Kind: store.KindFetch, Fallback: "Failed to unpublish an article"}
	ActionDeleteArticle         = store.Action{Type: "articles/deleteArticle", Kind: store.KindFetch, Fallback: "Failed to delete article"}
	ActionUpdateArticle         = store.Action{Type: "articles/updateArticle", Kind: store.KindFetch, Fallback: "Failed to update article"}
	ActionIncrementArticleViews = store.Action{Type: "articles/incrementArticleViews", Kind: store.KindFetch, Fallback: "Failed to increment article views"}
)

type Slice = store.Slice[Article]

func NewSlice() *Slice {
	return store.NewSlice[Article]("articles")
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

func (a *Actions) GetAllArticles(ctx context.Context, slice *Slice, emailAccountID, blogID int) ([]Article, error) {
	return store.Dispatch(ctx, a.dispatcher, slice, ActionGetAllArticles,
		func(ctx context.Context) ([]Article, error) {
			return a.api.GetAll(ctx, emailAccountID, blogID)
		},
		store.ReplaceItems[Article],
	)
}

func (a *Actions) GetArticleByID(ctx context.Context, slice *Slice, emailAccountID, blogID, articleID int) (*Article, error) {
	return store.Dispatch(ctx, a.dispatcher, slice, ActionGetArticleByID,
		func(ctx context.Context) (*Article, error) {
			return a.api.Get(ctx, emailAccountID, blogID, articleID)
		},
		store.ReplaceCurrent[Article],
	)
}

func (a *Actions) GetReaderArticleByID(ctx context.Context, slice *Slice, emailAccountID, blogID, articleID int) (*Article, error) {
	return store.Dispatch(ctx, a.dispatcher, slice, ActionGetReaderArticleByID,
		func(ctx context.Context) (*Article, error) {
			return a.api.GetForReader(ctx, emailAccountID, blogID, articleID)
		},
		store.ReplaceCurrent[Article],
	)
}

func (a *Actions) AddArticle(ctx context.Context, slice *Slice, emailAccountID, blogID int, dto CreateDto) (Article, error) {
	return store.Dispatch(ctx, a.dispatcher, slice, ActionAddArticle,
		func(ctx context.Context) (Article, error) {
			return a.api.Add(ctx, emailAccountID, blogID, dto)
		},
		store.AppendItem[Article],
	)
}

// flagOnly runs a mutation which only drives loading/error.
func (a *Actions) flagOnly(ctx context.Context, slice *Slice, action store.Action, mutation func(ctx context.Context) error) error {
	_, err := store.Dispatch(ctx, a.dispatcher, slice, action,
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, mutation(ctx)
		},
		nil,
	)
	return err
}

func (a *Actions) PublishArticle(ctx context.Context, slice *Slice, emailAccountID, blogID, articleID int) error {
	return a.flagOnly(ctx, slice, ActionPublishArticle, func(ctx context.Context) error {
		return a.api.Publish(ctx, emailAccountID, blogID, articleID)
	})
}

func (a *Actions) UnpublishArticle(ctx context.Context, slice *Slice, emailAccountID, blogID, articleID int) error {
	return a.flagOnly(ctx, slice, ActionUnpublishArticle, func(ctx context.Context) error {
		return a.api.ToDrafts(ctx, emailAccountID, blogID, articleID)
	})
}

func (a *Actions) UpdateArticle(ctx context.Context, slice *Slice, emailAccountID, blogID, articleID int, dto UpdateDto) error {
	return a.flagOnly(ctx, slice, ActionUpdateArticle, func(ctx context.Context) error {
		return a.api.Update(ctx, emailAccountID, blogID, articleID, dto)
	})
}

func (a *Actions) IncrementArticleViews(ctx context.Context, slice *Slice, emailAccountID, blogID, articleID int) error {
	return a.flagOnly(ctx, slice, ActionIncrementArticleViews, func(ctx context.Context) error {
		return a.api.IncrementViews(ctx, emailAccountID, blogID, articleID)
	})
}

func (a *Actions) DeleteArticle(ctx context.Context, slice *Slice, emailAccountID, blogID, articleID int) error {
	_, err := store.Dispatch(ctx, a.dispatcher, slice, ActionDeleteArticle,
		func(ctx context.Context) (int, error) {
			return articleID, a.api.Delete(ctx, emailAccountID, blogID, articleID)
		},
		func(st *store.State[Article], deletedID int) {
			store.RemoveItems(st, func(article Article) bool {
				return article.ArticleID == deletedID
			})
		},
	)
	return err
}

func ClearArticles(slice *Slice) {
	slice.ClearItems()
}

func ClearArticle(slice *Slice) {
	slice.ClearCurrent()
}
