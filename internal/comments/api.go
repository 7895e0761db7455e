package comments

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

func (a *Api) Add(ctx context.Context, emailAccountID, blogID, articleID int, comment Comment) (Comment, error) {
	path := fmt.Sprintf("/user/%d/blog/%d/article/%d/add-comment", emailAccountID, blogID, articleID)
	var created Comment
	if err := a.client.Do(ctx, http.MethodPost, path, comment, &created); err != nil {
		return Comment{}, fmt.Errorf("add comment to article %d: %w", articleID, err)
	}
	// some backends answer add-comment with an empty body
	if created.Comment == "" && created.CommentatorName == "" {
		created = comment
	}
	return created, nil
}

// GetAll returns the comments of an article; 404 means no comments.
func (a *Api) GetAll(ctx context.Context, emailAccountID, blogID, articleID int) ([]Comment, error) {
	path := fmt.Sprintf("/user/%d/blog/%d/article/%d/get-comments", emailAccountID, blogID, articleID)
	var list []Comment
	if err := a.client.Do(ctx, http.MethodGet, path, nil, &list); err != nil {
		if apiclient.IsNotFound(err) {
			return []Comment{}, nil
		}
		return nil, fmt.Errorf("get comments of article %d: %w", articleID, err)
	}
	if list == nil {
		list = []Comment{}
	}
	return list, nil
}
