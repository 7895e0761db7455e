package frontend

import (
	"fmt"
	"net/http"

	"github.com/2beens/blogfront/internal/articles"
	"github.com/2beens/blogfront/internal/blogs"
	"github.com/2beens/blogfront/internal/session"
	"github.com/2beens/blogfront/internal/store"

	log "github.com/sirupsen/logrus"
)

type authorBlogsView struct {
	EmailAccountID int
	Blogs          store.State[blogs.Blog]
}

type blogFormView struct {
	Heading string
	Action  string
	Submit  string
	Cancel  string
	Form    blogs.Dto
	Errors  formErrors
}

// articleCard is an article with its page url (author: base of the edit/publish/delete actions).
type articleCard struct {
	articles.Article
	URL      string
	ShareURL string
}

type authorArticlesView struct {
	EmailAccountID int
	BlogID         int
	Blog           *blogs.Blog
	Drafts         []articleCard
	Published      []articleCard
}

type articleFormView struct {
	Heading  string
	Action   string
	Submit   string
	Cancel   string
	IsCreate bool
	Title    string
	Author   string
	Status   articles.Status
	Content  string
	Statuses []articles.Status
	Errors   formErrors
}

func (h *Handler) handleAuthorBlogs(w http.ResponseWriter, r *http.Request, sess *session.Session, st *session.State) {
	eid := pathInt(r, "eid")
	st.Navigate()
	h.selectPage(r.Context(), sess, session.PageAuthor)

	if _, err := h.blogs.AuthorGetAllBlogs(r.Context(), st.Blogs, eid); err != nil {
		h.alertFailure(st, blogs.ActionAuthorGetAllBlogs)
	}

	h.render(w, r, http.StatusOK, "author_blogs", sess, st, "My Blogs", authorBlogsView{
		EmailAccountID: eid,
		Blogs:          st.Blogs.Snapshot(),
	})
}

func newBlogFormView(eid int) blogFormView {
	return blogFormView{
		Heading: "Create New Blog",
		Action:  fmt.Sprintf("/author/%d/create-new-blog", eid),
		Submit:  "Create",
		Cancel:  authorBlogsPath(eid),
	}
}

func editBlogFormView(eid, bid int) blogFormView {
	return blogFormView{
		Heading: "Edit Blog",
		Action:  fmt.Sprintf("/author/%d/blog/%d/edit", eid, bid),
		Submit:  "Update",
		Cancel:  authorBlogsPath(eid),
	}
}

func (h *Handler) handleNewBlogForm(w http.ResponseWriter, r *http.Request, sess *session.Session, st *session.State) {
	st.Navigate()
	view := newBlogFormView(pathInt(r, "eid"))
	h.render(w, r, http.StatusOK, "blog_form", sess, st, view.Heading, view)
}

func (h *Handler) handleCreateBlog(w http.ResponseWriter, r *http.Request, sess *session.Session, st *session.State) {
	eid := pathInt(r, "eid")
	st.Navigate()

	view := newBlogFormView(eid)
	dto, err := parseBlogForm(r)
	if err != nil {
		log.Errorf("create blog, parse form: %s", err)
		http.Error(w, "parse form error", http.StatusBadRequest)
		return
	}
	view.Form = dto

	if view.Errors = h.validateForm(dto); view.Errors != nil {
		h.render(w, r, http.StatusBadRequest, "blog_form", sess, st, view.Heading, view)
		return
	}

	blog, err := h.blogs.CreateBlog(r.Context(), st.Blogs, eid, dto)
	if err != nil {
		h.alertFailure(st, blogs.ActionCreateBlog)
		h.render(w, r, http.StatusBadGateway, "blog_form", sess, st, view.Heading, view)
		return
	}

	log.Tracef("blog %d [%s] created for email account %d", blog.BlogID, blog.BlogTitle, eid)
	st.AddAlert(session.AlertSuccess, fmt.Sprintf("Blog %q created", blog.BlogTitle))
	redirect(w, r, authorBlogsPath(eid))
}

func (h *Handler) handleEditBlogForm(w http.ResponseWriter, r *http.Request, sess *session.Session, st *session.State) {
	eid, bid := pathInt(r, "eid"), pathInt(r, "bid")
	st.Navigate()

	blog, err := h.blogs.GetBlogByID(r.Context(), st.Blogs, eid, bid)
	if err != nil {
		h.alertFailure(st, blogs.ActionGetBlogByID)
		redirect(w, r, authorBlogsPath(eid))
		return
	}
	if blog == nil {
		h.renderNotFound(w, r, sess, st, "Blog")
		return
	}

	view := editBlogFormView(eid, bid)
	view.Form = blogs.DtoFromBlog(*blog)
	h.render(w, r, http.StatusOK, "blog_form", sess, st, view.Heading, view)
}

func (h *Handler) handleUpdateBlog(w http.ResponseWriter, r *http.Request, sess *session.Session, st *session.State) {
	eid, bid := pathInt(r, "eid"), pathInt(r, "bid")
	st.Navigate()

	view := editBlogFormView(eid, bid)
	dto, err := parseBlogForm(r)
	if err != nil {
		log.Errorf("update blog, parse form: %s", err)
		http.Error(w, "parse form error", http.StatusBadRequest)
		return
	}
	view.Form = dto

	if view.Errors = h.validateForm(dto); view.Errors != nil {
		h.render(w, r, http.StatusBadRequest, "blog_form", sess, st, view.Heading, view)
		return
	}

	if err := h.blogs.UpdateBlog(r.Context(), st.Blogs, eid, bid, dto); err != nil {
		h.alertFailure(st, blogs.ActionUpdateBlog)
		h.render(w, r, http.StatusBadGateway, "blog_form", sess, st, view.Heading, view)
		return
	}

	st.AddAlert(session.AlertSuccess, fmt.Sprintf("Blog %q updated", dto.BlogTitle))
	redirect(w, r, authorBlogsPath(eid))
}

func (h *Handler) handleDeleteBlog(w http.ResponseWriter, r *http.Request, _ *session.Session, st *session.State) {
	eid, bid := pathInt(r, "eid"), pathInt(r, "bid")
	st.Navigate()

	if err := h.blogs.DeleteBlogByID(r.Context(), st.Blogs, eid, bid); err != nil {
		h.alertFailure(st, blogs.ActionDeleteBlogByID)
	} else {
		st.AddAlert(session.AlertSuccess, "Blog deleted")
	}
	redirect(w, r, authorBlogsPath(eid))
}

func (h *Handler) articleCards(eid, bid int, list []articles.Article, readerPage bool) []articleCard {
	cards := make([]articleCard, 0, len(list))
	for _, a := range list {
		card := articleCard{Article: a}
		if readerPage {
			card.URL = readerArticlePath(eid, bid, a.ArticleID)
		} else {
			card.URL = fmt.Sprintf("/author/%d/blog/%d/article/%d", eid, bid, a.ArticleID)
		}
		if a.IsPublished() {
			card.ShareURL = h.ShareURL(eid, bid, a.ArticleID)
		}
		cards = append(cards, card)
	}
	return cards
}

func (h *Handler) handleAuthorArticles(w http.ResponseWriter, r *http.Request, sess *session.Session, st *session.State) {
	eid, bid := pathInt(r, "eid"), pathInt(r, "bid")
	st.Navigate()
	h.selectPage(r.Context(), sess, session.PageAuthor)

	blog, err := h.blogs.GetBlogByID(r.Context(), st.Blogs, eid, bid)
	if err != nil {
		h.alertFailure(st, blogs.ActionGetBlogByID)
	} else if blog == nil {
		h.renderNotFound(w, r, sess, st, "Blog")
		return
	}

	list, err := h.articles.GetAllArticles(r.Context(), st.Articles, eid, bid)
	if err != nil {
		h.alertFailure(st, articles.ActionGetAllArticles)
	}

	h.render(w, r, http.StatusOK, "author_articles", sess, st, "Articles", authorArticlesView{
		EmailAccountID: eid,
		BlogID:         bid,
		Blog:           blog,
		Drafts:         h.articleCards(eid, bid, articles.Drafts(list), false),
		Published:      h.articleCards(eid, bid, articles.Published(list), false),
	})
}

func newArticleFormView(eid, bid int) articleFormView {
	return articleFormView{
		Heading:  "Create New Article",
		Action:   fmt.Sprintf("/author/%d/blog/%d/create-new-article", eid, bid),
		Submit:   "Create",
		Cancel:   authorArticlesPath(eid, bid),
		IsCreate: true,
		Status:   articles.StatusDraft,
		Statuses: []articles.Status{articles.StatusDraft, articles.StatusPublished},
	}
}

func editArticleFormView(eid, bid, aid int) articleFormView {
	return articleFormView{
		Heading: "Edit Article",
		Action:  fmt.Sprintf("/author/%d/blog/%d/article/%d/edit", eid, bid, aid),
		Submit:  "Update",
		Cancel:  authorArticlesPath(eid, bid),
	}
}

func (h *Handler) handleNewArticleForm(w http.ResponseWriter, r *http.Request, sess *session.Session, st *session.State) {
	st.Navigate()
	view := newArticleFormView(pathInt(r, "eid"), pathInt(r, "bid"))
	h.render(w, r, http.StatusOK, "article_form", sess, st, view.Heading, view)
}

func (h *Handler) handleCreateArticle(w http.ResponseWriter, r *http.Request, sess *session.Session, st *session.State) {
	eid, bid := pathInt(r, "eid"), pathInt(r, "bid")
	st.Navigate()

	dto, err := parseArticleCreateForm(r, eid, bid)
	if err != nil {
		log.Errorf("create article, parse form: %s", err)
		http.Error(w, "parse form error", http.StatusBadRequest)
		return
	}

	view := newArticleFormView(eid, bid)
	view.Title, view.Author, view.Status, view.Content = dto.ArticleTitle, dto.ArticleAuthor, dto.ArticleStatus, dto.Content

	if view.Errors = h.validateForm(dto); view.Errors != nil {
		h.render(w, r, http.StatusBadRequest, "article_form", sess, st, view.Heading, view)
		return
	}

	article, err := h.articles.AddArticle(r.Context(), st.Articles, eid, bid, dto)
	if err != nil {
		h.alertFailure(st, articles.ActionAddArticle)
		h.render(w, r, http.StatusBadGateway, "article_form", sess, st, view.Heading, view)
		return
	}

	log.Tracef("article %d [%s] added to blog %d", article.ArticleID, article.ArticleTitle, bid)
	st.AddAlert(session.AlertSuccess, fmt.Sprintf("Article %q created", article.ArticleTitle))
	redirect(w, r, authorArticlesPath(eid, bid))
}

func (h *Handler) handleEditArticleForm(w http.ResponseWriter, r *http.Request, sess *session.Session, st *session.State) {
	eid, bid, aid := pathInt(r, "eid"), pathInt(r, "bid"), pathInt(r, "aid")
	st.Navigate()

	article, err := h.articles.GetArticleByID(r.Context(), st.Articles, eid, bid, aid)
	if err != nil {
		h.alertFailure(st, articles.ActionGetArticleByID)
		redirect(w, r, authorArticlesPath(eid, bid))
		return
	}
	if article == nil {
		h.renderNotFound(w, r, sess, st, "Article")
		return
	}

	view := editArticleFormView(eid, bid, aid)
	dto := articles.UpdateDtoFromArticle(*article)
	view.Title, view.Author, view.Content = dto.ArticleTitle, dto.ArticleAuthor, dto.Content
	view.Status = article.ArticleStatus
	h.render(w, r, http.StatusOK, "article_form", sess, st, view.Heading, view)
}

func (h *Handler) handleUpdateArticle(w http.ResponseWriter, r *http.Request, sess *session.Session, st *session.State) {
	eid, bid, aid := pathInt(r, "eid"), pathInt(r, "bid"), pathInt(r, "aid")
	st.Navigate()

	dto, err := parseArticleUpdateForm(r)
	if err != nil {
		log.Errorf("update article, parse form: %s", err)
		http.Error(w, "parse form error", http.StatusBadRequest)
		return
	}

	view := editArticleFormView(eid, bid, aid)
	view.Title, view.Author, view.Content = dto.ArticleTitle, dto.ArticleAuthor, dto.Content

	if view.Errors = h.validateForm(dto); view.Errors != nil {
		h.render(w, r, http.StatusBadRequest, "article_form", sess, st, view.Heading, view)
		return
	}

	if err := h.articles.UpdateArticle(r.Context(), st.Articles, eid, bid, aid, dto); err != nil {
		h.alertFailure(st, articles.ActionUpdateArticle)
		h.render(w, r, http.StatusBadGateway, "article_form", sess, st, view.Heading, view)
		return
	}

	st.AddAlert(session.AlertSuccess, fmt.Sprintf("Article %q updated", dto.ArticleTitle))
	redirect(w, r, authorArticlesPath(eid, bid))
}

func (h *Handler) handlePublishArticle(w http.ResponseWriter, r *http.Request, _ *session.Session, st *session.State) {
	eid, bid, aid := pathInt(r, "eid"), pathInt(r, "bid"), pathInt(r, "aid")
	st.Navigate()

	if err := h.articles.PublishArticle(r.Context(), st.Articles, eid, bid, aid); err != nil {
		h.alertFailure(st, articles.ActionPublishArticle)
	} else {
		st.AddAlert(session.AlertSuccess, "Article published")
	}
	redirect(w, r, authorArticlesPath(eid, bid))
}

func (h *Handler) handleUnpublishArticle(w http.ResponseWriter, r *http.Request, _ *session.Session, st *session.State) {
	eid, bid, aid := pathInt(r, "eid"), pathInt(r, "bid"), pathInt(r, "aid")
	st.Navigate()

	if err := h.articles.UnpublishArticle(r.Context(), st.Articles, eid, bid, aid); err != nil {
		h.alertFailure(st, articles.ActionUnpublishArticle)
	} else {
		st.AddAlert(session.AlertSuccess, "Article moved to drafts")
	}
	redirect(w, r, authorArticlesPath(eid, bid))
}

func (h *Handler) handleDeleteArticle(w http.ResponseWriter, r *http.Request, _ *session.Session, st *session.State) {
	eid, bid, aid := pathInt(r, "eid"), pathInt(r, "bid"), pathInt(r, "aid")
	st.Navigate()

	if err := h.articles.DeleteArticle(r.Context(), st.Articles, eid, bid, aid); err != nil {
		h.alertFailure(st, articles.ActionDeleteArticle)
	} else {
		st.AddAlert(session.AlertSuccess, "Article deleted")
	}
	redirect(w, r, authorArticlesPath(eid, bid))
}
