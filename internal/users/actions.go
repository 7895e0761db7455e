package users

import (
	"context"

	"github.com/2beens/blogfront/internal/store"
)

var (
	ActionGetAllUsers = store.Action{Type: "users/getAllUsers", Kind: store.KindFetch, Fallback: "Failed to fetch users"}
	ActionGetUserByID = store.Action{Type: "users/getUserById", Kind: store.KindFetch, Fallback: "Failed to fetch user"}
	ActionCreateUser  = store.Action{Type: "users/createUser", Kind: store.KindAdd, Fallback: "Failed to add user"}
)

type Slice = store.Slice[User]

func NewSlice() *Slice {
	return store.NewSlice[User]("users")
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

func (a *Actions) GetAllUsers(ctx context.Context, slice *Slice) ([]User, error) {
	return store.Dispatch(ctx, a.dispatcher, slice, ActionGetAllUsers,
		a.api.GetAll,
		store.ReplaceItems[User],
	)
}

func (a *Actions) GetUserByID(ctx context.Context, slice *Slice, id int) (*User, error) {
	return store.Dispatch(ctx, a.dispatcher, slice, ActionGetUserByID,
		func(ctx context.Context) (*User, error) {
			return a.api.Get(ctx, id)
		},
		store.ReplaceCurrent[User],
	)
}

func (a *Actions) CreateUser(ctx context.Context, slice *Slice, user User) (User, error) {
	return store.Dispatch(ctx, a.dispatcher, slice, ActionCreateUser,
		func(ctx context.Context) (User, error) {
			return a.api.Add(ctx, user)
		},
		store.AppendItem[User],
	)
}
