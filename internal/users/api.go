package users

import (
	"context"
	"fmt"
	"net/http"

	"github.com/2beens/blogfront/internal/apiclient"
)

const usersPath = "/users"

type Api struct {
	client *apiclient.Client
}

func NewApi(client *apiclient.Client) *Api {
	return &Api{client: client}
}

func (a *Api) GetAll(ctx context.Context) ([]User, error) {
	var users []User
	if err := a.client.Do(ctx, http.MethodGet, usersPath, nil, &users); err != nil {
		return nil, fmt.Errorf("get all users: %w", err)
	}
	if users == nil {
		users = []User{}
	}
	return users, nil
}

func (a *Api) Get(ctx context.Context, id int) (*User, error) {
	user := &User{}
	if err := a.client.Do(ctx, http.MethodGet, fmt.Sprintf("%s/%d", usersPath, id), nil, user); err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return user, nil
}

func (a *Api) Add(ctx context.Context, user User) (User, error) {
	var created User
	if err := a.client.Do(ctx, http.MethodPost, usersPath, user, &created); err != nil {
		return User{}, fmt.Errorf("add user: %w", err)
	}
	return created, nil
}
