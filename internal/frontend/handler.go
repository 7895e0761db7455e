package frontend

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/2beens/blogfront/internal/articles"
	"github.com/2beens/blogfront/internal/blogs"
	"github.com/2beens/blogfront/internal/comments"
	"github.com/2beens/blogfront/internal/session"
	"github.com/2beens/blogfront/internal/store"
	"github.com/2beens/blogfront/internal/users"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type sessionSaver interface {
	Save(ctx context.Context, s *session.Session) error
}

type Handler struct {
	users    *users.Actions
	blogs    *blogs.Actions
	articles *articles.Actions
	comments *comments.Actions

	sessions sessionSaver
	registry *session.Registry
	renderer *renderer
	validate *validator.Validate

	publicBaseURL string
}

func NewHandler(
	usersActions *users.Actions,
	blogsActions *blogs.Actions,
	articlesActions *articles.Actions,
	commentsActions *comments.Actions,
	sessions sessionSaver,
	registry *session.Registry,
	publicBaseURL string,
) (*Handler, error) {
	r, err := newRenderer()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	return &Handler{
		users:         usersActions,
		blogs:         blogsActions,
		articles:      articlesActions,
		comments:      commentsActions,
		sessions:      sessions,
		registry:      registry,
		renderer:      r,
		validate:      newValidator(),
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}, nil
}

// SetupRoutes registers the pages. commentMiddlewares wrap only the comment posting route.
func (h *Handler) SetupRoutes(router *mux.Router, commentMiddlewares ...mux.MiddlewareFunc) {
	router.HandleFunc("/", h.withSession(h.handleChangeUser)).Methods("GET").Name("change-user")
	router.HandleFunc("/persona", h.withSession(h.handleSelectPersona)).Methods("POST").Name("select-persona")
	router.HandleFunc("/theme", h.withSession(h.handleToggleTheme)).Methods("POST").Name("toggle-theme")
	router.HandleFunc("/state", h.withSession(h.handleState)).Methods("GET").Name("state")
	router.HandleFunc("/author", h.withSession(h.handleAuthorHome)).Methods("GET").Name("author")
	router.HandleFunc("/reader", h.withSession(h.handleReaderHome)).Methods("GET").Name("reader")

	authorRouter := router.PathPrefix("/author/{eid:[0-9]+}").Subrouter()
	authorRouter.HandleFunc("/blogs", h.withSession(h.handleAuthorBlogs)).Methods("GET").Name("author-blogs")
	authorRouter.HandleFunc("/create-new-blog", h.withSession(h.handleNewBlogForm)).Methods("GET").Name("new-blog-form")
	authorRouter.HandleFunc("/create-new-blog", h.withSession(h.handleCreateBlog)).Methods("POST").Name("create-blog")
	authorRouter.HandleFunc("/blog/{bid:[0-9]+}/edit", h.withSession(h.handleEditBlogForm)).Methods("GET").Name("edit-blog-form")
	authorRouter.HandleFunc("/blog/{bid:[0-9]+}/edit", h.withSession(h.handleUpdateBlog)).Methods("POST").Name("update-blog")
	authorRouter.HandleFunc("/blog/{bid:[0-9]+}/delete", h.withSession(h.handleDeleteBlog)).Methods("POST").Name("delete-blog")
	authorRouter.HandleFunc("/blog/{bid:[0-9]+}/articles", h.withSession(h.handleAuthorArticles)).Methods("GET").Name("author-articles")
	authorRouter.HandleFunc("/blog/{bid:[0-9]+}/create-new-article", h.withSession(h.handleNewArticleForm)).Methods("GET").Name("new-article-form")
	authorRouter.HandleFunc("/blog/{bid:[0-9]+}/create-new-article", h.withSession(h.handleCreateArticle)).Methods("POST").Name("create-article")
	authorRouter.HandleFunc("/blog/{bid:[0-9]+}/article/{aid:[0-9]+}/edit", h.withSession(h.handleEditArticleForm)).Methods("GET").Name("edit-article-form")
	authorRouter.HandleFunc("/blog/{bid:[0-9]+}/article/{aid:[0-9]+}/edit", h.withSession(h.handleUpdateArticle)).Methods("POST").Name("update-article")
	authorRouter.HandleFunc("/blog/{bid:[0-9]+}/article/{aid:[0-9]+}/publish", h.withSession(h.handlePublishArticle)).Methods("POST").Name("publish-article")
	authorRouter.HandleFunc("/blog/{bid:[0-9]+}/article/{aid:[0-9]+}/unpublish", h.withSession(h.handleUnpublishArticle)).Methods("POST").Name("unpublish-article")
	authorRouter.HandleFunc("/blog/{bid:[0-9]+}/article/{aid:[0-9]+}/delete", h.withSession(h.handleDeleteArticle)).Methods("POST").Name("delete-article")

	readerRouter := router.PathPrefix("/reader/{eid:[0-9]+}").Subrouter()
	readerRouter.HandleFunc("/blogs", h.withSession(h.handleReaderBlogs)).Methods("GET").Name("reader-blogs")
	readerRouter.HandleFunc("/blog/{bid:[0-9]+}/articles", h.withSession(h.handleReaderArticles)).Methods("GET").Name("reader-articles")
	readerRouter.HandleFunc("/blog/{bid:[0-9]+}/article/{aid:[0-9]+}", h.withSession(h.handleReaderArticle)).Methods("GET").Name("reader-article")

	var postComment http.Handler = h.withSession(h.handlePostComment)
	for i := len(commentMiddlewares) - 1; i >= 0; i-- {
		postComment = commentMiddlewares[i].Middleware(postComment)
	}
	readerRouter.Handle("/blog/{bid:[0-9]+}/article/{aid:[0-9]+}/comment", postComment).Methods("POST").Name("post-comment")
}

type sessionHandlerFunc func(w http.ResponseWriter, r *http.Request, sess *session.Session, st *session.State)

// withSession hands the visitor session (put in the context by the session middleware) and its state to fn.
func (h *Handler) withSession(fn sessionHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session.FromContext(r.Context())
		if !ok {
			log.Errorf("no session in context for %s", r.URL.Path)
			http.Error(w, "session missing", http.StatusInternalServerError)
			return
		}
		fn(w, r, sess, h.registry.State(sess.Token))
	}
}

func (h *Handler) selectPage(ctx context.Context, sess *session.Session, page session.Page) {
	if sess.SelectedPage == page {
		return
	}
	sess.SelectedPage = page
	h.saveSession(ctx, sess)
}

func (h *Handler) saveSession(ctx context.Context, sess *session.Session) {
	if err := h.sessions.Save(ctx, sess); err != nil {
		log.Errorf("save session [%s]: %s", sess.Token, err)
	}
}

// alertFailure shows the action's fallback message only, the error itself stays in the
// logs and on the slice.
func (h *Handler) alertFailure(st *session.State, action store.Action) {
	st.AddAlert(session.AlertError, action.Fallback)
}

// actionError tags a failed request with the action it ran for.
type actionError struct {
	action store.Action
	err    error
}

func (e *actionError) Error() string {
	return e.action.Type + ": " + e.err.Error()
}

func (e *actionError) Unwrap() error {
	return e.err
}

func redirect(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// pathInt reads a numeric route var; the route patterns only let digits through.
func pathInt(r *http.Request, name string) int {
	v, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		return 0
	}
	return v
}

func authorBlogsPath(eid int) string {
	return fmt.Sprintf("/author/%d/blogs", eid)
}

func authorArticlesPath(eid, bid int) string {
	return fmt.Sprintf("/author/%d/blog/%d/articles", eid, bid)
}

func readerBlogsPath(eid int) string {
	return fmt.Sprintf("/reader/%d/blogs", eid)
}

func readerArticlePath(eid, bid, aid int) string {
	return fmt.Sprintf("/reader/%d/blog/%d/article/%d", eid, bid, aid)
}

// ShareURL is the absolute link to the reader page of an article.
func (h *Handler) ShareURL(eid, bid, aid int) string {
	return h.publicBaseURL + readerArticlePath(eid, bid, aid)
}
