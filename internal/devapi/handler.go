package devapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/2beens/blogfront/internal/articles"
	"github.com/2beens/blogfront/internal/blogs"
	"github.com/2beens/blogfront/internal/comments"
	"github.com/2beens/blogfront/internal/users"
	"github.com/2beens/blogfront/pkg"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// Handler serves the remote blog API contract from a MemoryRepo.
// Empty lists are answered with 404, the same way the real backend does it.
type Handler struct {
	repo     *MemoryRepo
	validate *validator.Validate
}

func NewHandler(repo *MemoryRepo) *Handler {
	return &Handler{
		repo:     repo,
		validate: validator.New(),
	}
}

func (h *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/users", h.handleAllUsers).Methods("GET").Name("all-users")
	router.HandleFunc("/users", h.handleAddUser).Methods("POST").Name("add-user")
	router.HandleFunc("/users/{id:[0-9]+}", h.handleGetUser).Methods("GET").Name("get-user")

	ur := router.PathPrefix("/user/{eid:[0-9]+}").Subrouter()
	ur.HandleFunc("/authorGetAllBlogs", h.handleAuthorBlogs).Methods("GET").Name("author-blogs")
	ur.HandleFunc("/readerGetAllBlogs", h.handleReaderBlogs).Methods("GET").Name("reader-blogs")
	ur.HandleFunc("/blog/{bid:[0-9]+}", h.handleGetBlog).Methods("GET").Name("get-blog")
	ur.HandleFunc("/add-blog", h.handleAddBlog).Methods("POST").Name("add-blog")
	ur.HandleFunc("/update-blog/{bid:[0-9]+}", h.handleUpdateBlog).Methods("PUT").Name("update-blog")
	ur.HandleFunc("/delete-blog/{bid:[0-9]+}", h.handleDeleteBlog).Methods("DELETE").Name("delete-blog")

	br := ur.PathPrefix("/blog/{bid:[0-9]+}").Subrouter()
	br.HandleFunc("/articles", h.handleArticles).Methods("GET").Name("articles")
	br.HandleFunc("/add-article", h.handleAddArticle).Methods("POST").Name("add-article")
	br.HandleFunc("/article/{aid:[0-9]+}", h.handleGetArticle).Methods("GET").Name("get-article")
	br.HandleFunc("/reader-article/{aid:[0-9]+}", h.handleGetReaderArticle).Methods("GET").Name("get-reader-article")
	br.HandleFunc("/article/{aid:[0-9]+}/publish", h.handlePublish).Methods("PUT").Name("publish-article")
	br.HandleFunc("/article/{aid:[0-9]+}/to-drafts", h.handleToDrafts).Methods("PUT").Name("unpublish-article")
	br.HandleFunc("/article/{aid:[0-9]+}/update-article", h.handleUpdateArticle).Methods("PUT").Name("update-article")
	br.HandleFunc("/article/{aid:[0-9]+}/increment-views", h.handleIncrementViews).Methods("POST").Name("increment-views")
	br.HandleFunc("/article/{aid:[0-9]+}/delete-article", h.handleDeleteArticle).Methods("DELETE").Name("delete-article")
	br.HandleFunc("/article/{aid:[0-9]+}/add-comment", h.handleAddComment).Methods("POST").Name("add-comment")
	br.HandleFunc("/article/{aid:[0-9]+}/get-comments", h.handleGetComments).Methods("GET").Name("get-comments")
}

// pathInt reads an int path var; the route patterns only match digits.
func pathInt(r *http.Request, name string) int {
	v, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		return 0
	}
	return v
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Warnf("dev api, %s %s, decode body: %s", r.Method, r.URL.Path, err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		log.Warnf("dev api, %s %s, validate body: %s", r.Method, r.URL.Path, err)
		http.Error(w, fmt.Sprintf("validation failed: %s", err), http.StatusBadRequest)
		return false
	}
	return true
}

func writeRepoError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	log.Errorf("dev api: %s", err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func writeList[T any](w http.ResponseWriter, list []T) {
	if len(list) == 0 {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	pkg.WriteJSONResponseOK(w, list)
}

func (h *Handler) handleAllUsers(w http.ResponseWriter, r *http.Request) {
	pkg.WriteJSONResponseOK(w, h.repo.AllUsers())
}

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.repo.User(pathInt(r, "id"))
	if err != nil {
		writeRepoError(w, err)
		return
	}
	pkg.WriteJSONResponseOK(w, user)
}

type addUserRequest struct {
	UserName      string               `json:"userName" validate:"required"`
	EmailAccounts []users.EmailAccount `json:"emailAccounts"`
}

func (h *Handler) handleAddUser(w http.ResponseWriter, r *http.Request) {
	var req addUserRequest
	if !h.decode(w, r, &req) {
		return
	}
	created := h.repo.AddUser(users.User{
		UserName:      req.UserName,
		EmailAccounts: req.EmailAccounts,
	})
	pkg.WriteJSONResponse(w, created, http.StatusCreated)
}

func (h *Handler) handleAuthorBlogs(w http.ResponseWriter, r *http.Request) {
	writeList(w, h.repo.AuthorBlogs(pathInt(r, "eid")))
}

func (h *Handler) handleReaderBlogs(w http.ResponseWriter, r *http.Request) {
	writeList(w, h.repo.ReaderBlogs())
}

func (h *Handler) handleGetBlog(w http.ResponseWriter, r *http.Request) {
	blog, err := h.repo.Blog(pathInt(r, "bid"))
	if err != nil {
		writeRepoError(w, err)
		return
	}
	pkg.WriteJSONResponseOK(w, blog)
}

func (h *Handler) handleAddBlog(w http.ResponseWriter, r *http.Request) {
	var dto blogs.Dto
	if !h.decode(w, r, &dto) {
		return
	}
	blog, err := h.repo.AddBlog(pathInt(r, "eid"), dto)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	pkg.WriteJSONResponse(w, blog, http.StatusCreated)
}

func (h *Handler) handleUpdateBlog(w http.ResponseWriter, r *http.Request) {
	var dto blogs.Dto
	if !h.decode(w, r, &dto) {
		return
	}
	if err := h.repo.UpdateBlog(pathInt(r, "eid"), pathInt(r, "bid"), dto); err != nil {
		writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDeleteBlog(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.DeleteBlog(pathInt(r, "eid"), pathInt(r, "bid")); err != nil {
		writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleArticles(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.Articles(pathInt(r, "bid"))
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeList(w, list)
}

func (h *Handler) handleGetArticle(w http.ResponseWriter, r *http.Request) {
	article, err := h.repo.Article(pathInt(r, "bid"), pathInt(r, "aid"), false)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	pkg.WriteJSONResponseOK(w, article)
}

func (h *Handler) handleGetReaderArticle(w http.ResponseWriter, r *http.Request) {
	article, err := h.repo.Article(pathInt(r, "bid"), pathInt(r, "aid"), true)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	pkg.WriteJSONResponseOK(w, article)
}

func (h *Handler) handleAddArticle(w http.ResponseWriter, r *http.Request) {
	var dto articles.CreateDto
	if !h.decode(w, r, &dto) {
		return
	}
	article, err := h.repo.AddArticle(pathInt(r, "eid"), pathInt(r, "bid"), dto)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	pkg.WriteJSONResponse(w, article, http.StatusCreated)
}

func (h *Handler) handlePublish(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, articles.StatusPublished)
}

func (h *Handler) handleToDrafts(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, articles.StatusDraft)
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request, status articles.Status) {
	if err := h.repo.SetArticleStatus(pathInt(r, "eid"), pathInt(r, "bid"), pathInt(r, "aid"), status); err != nil {
		writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleUpdateArticle(w http.ResponseWriter, r *http.Request) {
	var dto articles.UpdateDto
	if !h.decode(w, r, &dto) {
		return
	}
	if err := h.repo.UpdateArticle(pathInt(r, "eid"), pathInt(r, "bid"), pathInt(r, "aid"), dto); err != nil {
		writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleIncrementViews(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.IncrementViews(pathInt(r, "bid"), pathInt(r, "aid")); err != nil {
		writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDeleteArticle(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.DeleteArticle(pathInt(r, "eid"), pathInt(r, "bid"), pathInt(r, "aid")); err != nil {
		writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var comment comments.Comment
	if !h.decode(w, r, &comment) {
		return
	}
	created, err := h.repo.AddComment(pathInt(r, "bid"), pathInt(r, "aid"), comment)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	pkg.WriteJSONResponse(w, created, http.StatusCreated)
}

func (h *Handler) handleGetComments(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.Comments(pathInt(r, "bid"), pathInt(r, "aid"))
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeList(w, list)
}

// NewRouter returns a ready router serving the API, used by cmd/devapi and tests.
func NewRouter(repo *MemoryRepo) *mux.Router {
	r := mux.NewRouter()
	NewHandler(repo).SetupRoutes(r)
	return r
}
