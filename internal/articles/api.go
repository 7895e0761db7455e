package articles

import (
	"context"
	"fmt"
	"net/http"

	"github.com/2beens/blogfront/internal/apiclient"
)

type Api struct {
	client *apiclient.Client
}

func NewApi(client *apiclient.Client) *Api {
	return &Api{client: client}
}

func articlePath(emailAccountID, blogID, articleID int, action string) string {
	return fmt.Sprintf("/user/%d/blog/%d/article/%d/%s", emailAccountID, blogID, articleID, action)
}

// GetAll returns all articles of a blog; 404 means no articles.
func (a *Api) GetAll(ctx context.Context, emailAccountID, blogID int) ([]Article, error) {
	var list []Article
	path := fmt.Sprintf("/user/%d/blog/%d/articles", emailAccountID, blogID)
	if err := a.client.Do(ctx, http.MethodGet, path, nil, &list); err != nil {
		if apiclient.IsNotFound(err) {
			return []Article{}, nil
		}
		return nil, fmt.Errorf("get articles of blog %d: %w", blogID, err)
	}
	if list == nil {
		list = []Article{}
	}
	return list, nil
}

// Get returns nil, nil when the article is not found.
func (a *Api) Get(ctx context.Context, emailAccountID, blogID, articleID int) (*Article, error) {
	return a.get(ctx, fmt.Sprintf("/user/%d/blog/%d/article/%d", emailAccountID, blogID, articleID), articleID)
}

// GetForReader returns a published article, nil, nil when not found.
func (a *Api) GetForReader(ctx context.Context, emailAccountID, blogID, articleID int) (*Article, error) {
	return a.get(ctx, fmt.Sprintf("/user/%d/blog/%d/reader-article/%d", emailAccountID, blogID, articleID), articleID)
}

func (a *Api) get(ctx context.Context, path string, articleID int) (*Article, error) {
	article := &Article{}
	if err := a.client.Do(ctx, http.MethodGet, path, nil, article); err != nil {
		if apiclient.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get article %d: %w", articleID, err)
	}
	return article, nil
}

func (a *Api) Add(ctx context.Context, emailAccountID, blogID int, dto CreateDto) (Article, error) {
	dto.EmailAccountID = emailAccountID
	dto.BlogID = blogID
	var created Article
	path := fmt.Sprintf("/user/%d/blog/%d/add-article", emailAccountID, blogID)
	if err := a.client.Do(ctx, http.MethodPost, path, dto, &created); err != nil {
		return Article{}, fmt.Errorf("add article: %w", err)
	}
	return created, nil
}

func (a *Api) Publish(ctx context.Context, emailAccountID, blogID, articleID int) error {
	if err := a.client.Do(ctx, http.MethodPut, articlePath(emailAccountID, blogID, articleID, "publish"), nil, nil); err != nil {
		return fmt.Errorf("publish article %d: %w", articleID, err)
	}
	return nil
}

func (a *Api) ToDrafts(ctx context.Context, emailAccountID, blogID, articleID int) error {
	if err := a.client.Do(ctx, http.MethodPut, articlePath(emailAccountID, blogID, articleID, "to-drafts"), nil, nil); err != nil {
		return fmt.Errorf("unpublish article %d: %w", articleID, err)
	}
	return nil
}

func (a *Api) IncrementViews(ctx context.Context, emailAccountID, blogID, articleID int) error {
	if err := a.client.Do(ctx, http.MethodPost, articlePath(emailAccountID, blogID, articleID, "increment-views"), nil, nil); err != nil {
		return fmt.Errorf("increment views of article %d: %w", articleID, err)
	}
	return nil
}

func (a *Api) Delete(ctx context.Context, emailAccountID, blogID, articleID int) error {
	if err := a.client.Do(ctx, http.MethodDelete, articlePath(emailAccountID, blogID, articleID, "delete-article"), nil, nil); err != nil {
		return fmt.Errorf("delete article %d: %w", articleID, err)
	}
	return nil
}

func (a *Api) Update(ctx context.Context, emailAccountID, blogID, articleID int, dto UpdateDto) error {
	if err := a.client.Do(ctx, http.MethodPut, articlePath(emailAccountID, blogID, articleID, "update-article"), dto, nil); err != nil {
		return fmt.Errorf("update article %d: %w", articleID, err)
	}
	return nil
}
