package blogs

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

// AuthorGetAll returns all blogs of the email account; 404 means no blogs.
func (a *Api) AuthorGetAll(ctx context.Context, emailAccountID int) ([]Blog, error) {
	return a.getAll(ctx, fmt.Sprintf("/user/%d/authorGetAllBlogs", emailAccountID))
}

// ReaderGetAll returns the blogs visible to readers; 404 means no blogs.
func (a *Api) ReaderGetAll(ctx context.Context, emailAccountID int) ([]Blog, error) {
	return a.getAll(ctx, fmt.Sprintf("/user/%d/readerGetAllBlogs", emailAccountID))
}

func (a *Api) getAll(ctx context.Context, path string) ([]Blog, error) {
	var blogs []Blog
	if err := a.client.Do(ctx, http.MethodGet, path, nil, &blogs); err != nil {
		if apiclient.IsNotFound(err) {
			return []Blog{}, nil
		}
		return nil, fmt.Errorf("get blogs: %w", err)
	}
	if blogs == nil {
		blogs = []Blog{}
	}
	return blogs, nil
}

// Get returns nil, nil when the blog is not found.
func (a *Api) Get(ctx context.Context, emailAccountID, blogID int) (*Blog, error) {
	blog := &Blog{}
	path := fmt.Sprintf("/user/%d/blog/%d", emailAccountID, blogID)
	if err := a.client.Do(ctx, http.MethodGet, path, nil, blog); err != nil {
		if apiclient.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get blog %d: %w", blogID, err)
	}
	return blog, nil
}

func (a *Api) Add(ctx context.Context, emailAccountID int, dto Dto) (Blog, error) {
	dto.EmailAccountID = emailAccountID
	var created Blog
	if err := a.client.Do(ctx, http.MethodPost, fmt.Sprintf("/user/%d/add-blog", emailAccountID), dto, &created); err != nil {
		return Blog{}, fmt.Errorf("add blog: %w", err)
	}
	return created, nil
}

func (a *Api) Delete(ctx context.Context, emailAccountID, blogID int) error {
	path := fmt.Sprintf("/user/%d/delete-blog/%d", emailAccountID, blogID)
	if err := a.client.Do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("delete blog %d: %w", blogID, err)
	}
	return nil
}

func (a *Api) Update(ctx context.Context, emailAccountID, blogID int, dto Dto) error {
	dto.EmailAccountID = 0
	path := fmt.Sprintf("/user/%d/update-blog/%d", emailAccountID, blogID)
	if err := a.client.Do(ctx, http.MethodPut, path, dto, nil); err != nil {
		return fmt.Errorf("update blog %d: %w", blogID, err)
	}
	return nil
}
