package blogs_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2beens/blogfront/internal/apiclient"
	"github.com/2beens/blogfront/internal/articles"
	"github.com/2beens/blogfront/internal/blogs"
	"github.com/2beens/blogfront/internal/devapi"
	"github.com/2beens/blogfront/internal/store"
	"github.com/2beens/blogfront/internal/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*blogs.Actions, *devapi.MemoryRepo) {
	t.Helper()
	repo := devapi.NewMemoryRepo()
	repo.AddUser(users.User{
		UserName:      "Ana",
		EmailAccounts: []users.EmailAccount{{EmailAddress: "ana@work.test"}, {EmailAddress: "ana@home.test"}},
	})
	server := httptest.NewServer(devapi.NewRouter(repo))
	t.Cleanup(server.Close)

	client, err := apiclient.NewClient(server.URL, server.Client(), nil)
	require.NoError(t, err)
	return blogs.NewActions(blogs.NewApi(client), store.NewDispatcher(nil)), repo
}

func TestActions_AuthorGetAllBlogs_NotFoundIsEmpty(t *testing.T) {
	actions, _ := setup(t)
	slice := blogs.NewSlice("blogs")

	list, err := actions.AuthorGetAllBlogs(context.Background(), slice, 1)
	require.NoError(t, err)
	assert.Empty(t, list)

	snapshot := slice.Snapshot()
	assert.False(t, snapshot.Loading)
	assert.Empty(t, snapshot.Error)
	assert.Empty(t, snapshot.Items)
}

func TestActions_CreateUpdateDelete(t *testing.T) {
	actions, repo := setup(t)
	ctx := context.Background()
	slice := blogs.NewSlice("blogs")

	created, err := actions.CreateBlog(ctx, slice, 1, blogs.Dto{
		BlogTitle:    "Go Notes",
		BlogAuthor:   "Ana",
		BlogCategory: "Technology",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, created.BlogID)

	second, err := actions.CreateBlog(ctx, slice, 1, blogs.Dto{
		BlogTitle:    "Travel Log",
		BlogAuthor:   "Ana",
		BlogCategory: "Travel",
	})
	require.NoError(t, err)

	snapshot := slice.Snapshot()
	assert.False(t, snapshot.Adding)
	assert.Equal(t, []blogs.Blog{created, second}, snapshot.Items)

	require.NoError(t, actions.UpdateBlog(ctx, slice, 1, created.BlogID, blogs.Dto{
		BlogTitle:    "Go Notes, revised",
		BlogAuthor:   "Ana",
		BlogCategory: "Technology",
	}))
	blog, err := actions.GetBlogByID(ctx, slice, 1, created.BlogID)
	require.NoError(t, err)
	require.NotNil(t, blog)
	assert.Equal(t, "Go Notes, revised", blog.BlogTitle)
	assert.Equal(t, "Go Notes, revised", slice.Snapshot().Current.BlogTitle)

	require.NoError(t, actions.DeleteBlogByID(ctx, slice, 1, created.BlogID))
	assert.Equal(t, []blogs.Blog{second}, slice.Snapshot().Items)
	assert.Len(t, repo.AuthorBlogs(1), 1)

	blogs.ClearBlogs(slice)
	blogs.ClearBlog(slice)
	snapshot = slice.Snapshot()
	assert.Empty(t, snapshot.Items)
	assert.Nil(t, snapshot.Current)
}

func TestActions_GetBlogByID_NotFoundIsNil(t *testing.T) {
	actions, _ := setup(t)
	slice := blogs.NewSlice("blogs")

	blog, err := actions.GetBlogByID(context.Background(), slice, 1, 404)
	require.NoError(t, err)
	assert.Nil(t, blog)
	assert.Nil(t, slice.Snapshot().Current)
}

func TestActions_CreateBlog_Rejected(t *testing.T) {
	actions, _ := setup(t)
	slice := blogs.NewSlice("blogs")

	_, err := actions.CreateBlog(context.Background(), slice, 1, blogs.Dto{BlogTitle: "no author"})
	require.Error(t, err)
	assert.True(t, apiclient.IsBadRequest(err))

	snapshot := slice.Snapshot()
	assert.False(t, snapshot.Adding)
	assert.Contains(t, snapshot.AddError, "status code 400")
	assert.Empty(t, snapshot.Items)
}

func TestActions_DeleteBlog_RejectedKeepsList(t *testing.T) {
	actions, _ := setup(t)
	ctx := context.Background()
	slice := blogs.NewSlice("blogs")

	created, err := actions.CreateBlog(ctx, slice, 1, blogs.Dto{BlogTitle: "Go", BlogAuthor: "Ana", BlogCategory: "Tech"})
	require.NoError(t, err)

	// account 2 does not own the blog
	err = actions.DeleteBlogByID(ctx, slice, 2, created.BlogID)
	require.Error(t, err)

	snapshot := slice.Snapshot()
	assert.Equal(t, []blogs.Blog{created}, snapshot.Items)
	assert.Contains(t, snapshot.Error, "status code 404")
}

func TestActions_ReaderBlogsUseTheirOwnSlice(t *testing.T) {
	actions, repo := setup(t)
	ctx := context.Background()
	authorSlice := blogs.NewSlice("blogs")
	readerSlice := blogs.NewSlice("readerBlogs")

	_, err := actions.CreateBlog(ctx, authorSlice, 1, blogs.Dto{BlogTitle: "Go", BlogAuthor: "Ana", BlogCategory: "Tech"})
	require.NoError(t, err)

	// nothing published yet
	list, err := actions.ReaderGetAllBlogs(ctx, readerSlice, 2)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Len(t, authorSlice.Snapshot().Items, 1)

	_, err = repo.AddArticle(1, 1, articles.CreateDto{
		ArticleTitle:  "Hello",
		ArticleAuthor: "Ana",
		ArticleStatus: articles.StatusPublished,
		Content:       "First post",
	})
	require.NoError(t, err)

	list, err = actions.ReaderGetAllBlogs(ctx, readerSlice, 2)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Len(t, readerSlice.Snapshot().Items, 1)
}

func TestActions_ServerDown(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	serverURL := server.URL
	server.Close()

	client, err := apiclient.NewClient(serverURL, nil, nil)
	require.NoError(t, err)
	actions := blogs.NewActions(blogs.NewApi(client), store.NewDispatcher(nil))
	slice := blogs.NewSlice("blogs")

	_, err = actions.AuthorGetAllBlogs(context.Background(), slice, 1)
	require.Error(t, err)
	snapshot := slice.Snapshot()
	assert.False(t, snapshot.Loading)
	assert.NotEmpty(t, snapshot.Error)
}
