package frontend

import (
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/2beens/blogfront/internal/apiclient"
	"github.com/2beens/blogfront/internal/articles"
	"github.com/2beens/blogfront/internal/blogs"
	"github.com/2beens/blogfront/internal/comments"
	"github.com/2beens/blogfront/internal/session"
	"github.com/2beens/blogfront/internal/store"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type readerBlogsView struct {
	EmailAccountID int
	Blogs          store.State[blogs.Blog]
}

type readerArticlesView struct {
	EmailAccountID int
	BlogID         int
	Blog           *blogs.Blog
	Articles       []articleCard
}

type readerArticleView struct {
	EmailAccountID int
	BlogID         int
	Article        *articles.Article
	ShareURL       string
	CommentURL     string
	Comments       store.State[comments.Comment]
}

func (h *Handler) handleReaderBlogs(w http.ResponseWriter, r *http.Request, sess *session.Session, st *session.State) {
	eid := pathInt(r, "eid")
	st.Navigate()
	h.selectPage(r.Context(), sess, session.PageReader)

	if _, err := h.blogs.ReaderGetAllBlogs(r.Context(), st.ReaderBlogs, eid); err != nil {
		h.alertFailure(st, blogs.ActionReaderGetAllBlogs)
	}

	h.render(w, r, http.StatusOK, "reader_blogs", sess, st, "Blogs", readerBlogsView{
		EmailAccountID: eid,
		Blogs:          st.ReaderBlogs.Snapshot(),
	})
}

func (h *Handler) handleReaderArticles(w http.ResponseWriter, r *http.Request, sess *session.Session, st *session.State) {
	eid, bid := pathInt(r, "eid"), pathInt(r, "bid")
	st.Navigate()
	h.selectPage(r.Context(), sess, session.PageReader)

	blog, err := h.blogs.GetBlogByID(r.Context(), st.ReaderBlogs, eid, bid)
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

	h.render(w, r, http.StatusOK, "reader_articles", sess, st, "Articles", readerArticlesView{
		EmailAccountID: eid,
		BlogID:         bid,
		Blog:           blog,
		Articles:       h.articleCards(eid, bid, articles.Published(list), true),
	})
}

func (h *Handler) handleReaderArticle(w http.ResponseWriter, r *http.Request, sess *session.Session, st *session.State) {
	eid, bid, aid := pathInt(r, "eid"), pathInt(r, "bid"), pathInt(r, "aid")
	st.Navigate()
	h.selectPage(r.Context(), sess, session.PageReader)

	// views are counted before the article is fetched, so the page shows the new count
	if st.CountView(aid) {
		if err := h.articles.IncrementArticleViews(r.Context(), st.Articles, eid, bid, aid); err != nil {
			log.Warnf("increment views of article %d: %s", aid, err)
		}
	}

	var article *articles.Article
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		article, err = h.articles.GetReaderArticleByID(ctx, st.Articles, eid, bid, aid)
		if err != nil {
			return &actionError{action: articles.ActionGetReaderArticleByID, err: err}
		}
		return nil
	})
	g.Go(func() error {
		if _, err := h.comments.GetComments(ctx, st.Comments, eid, bid, aid); err != nil {
			return &actionError{action: comments.ActionGetComments, err: err}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		var actionErr *actionError
		if errors.As(err, &actionErr) {
			h.alertFailure(st, actionErr.action)
		}
	} else if article == nil {
		h.renderNotFound(w, r, sess, st, "Article")
		return
	}

	h.render(w, r, http.StatusOK, "reader_article", sess, st, articleTitle(article), readerArticleView{
		EmailAccountID: eid,
		BlogID:         bid,
		Article:        article,
		ShareURL:       h.ShareURL(eid, bid, aid),
		CommentURL:     readerArticlePath(eid, bid, aid) + "/comment",
		Comments:       st.Comments.Snapshot(),
	})
}

func articleTitle(a *articles.Article) string {
	if a == nil {
		return "Article"
	}
	return a.ArticleTitle
}

func (h *Handler) handlePostComment(w http.ResponseWriter, r *http.Request, _ *session.Session, st *session.State) {
	eid, bid, aid := pathInt(r, "eid"), pathInt(r, "bid"), pathInt(r, "aid")
	back := readerArticlePath(eid, bid, aid)
	st.Navigate()

	comment, err := parseCommentForm(r)
	if err != nil {
		log.Errorf("post comment, parse form: %s", err)
		http.Error(w, "parse form error", http.StatusBadRequest)
		return
	}

	if errs := h.validateForm(comment); errs != nil {
		problems := make([]string, 0, len(errs))
		for field, msg := range errs {
			problems = append(problems, commentFieldLabel(field)+" "+msg)
		}
		sort.Strings(problems)
		st.AddAlert(session.AlertError, "Comment not added: "+strings.Join(problems, "; "))
		st.SkipNextView(aid)
		redirect(w, r, back)
		return
	}

	comment.CreatedTimestamp = apiclient.NewTime(time.Now().UTC())
	if _, err := h.comments.AddComment(r.Context(), st.Comments, eid, bid, aid, comment); err != nil {
		h.alertFailure(st, comments.ActionAddComment)
	} else {
		st.AddAlert(session.AlertSuccess, "Comment added")
	}
	// the reload after posting is not a new view
	st.SkipNextView(aid)
	redirect(w, r, back)
}

func commentFieldLabel(field string) string {
	switch field {
	case "commentatorName":
		return "Name"
	case "comment":
		return "Comment"
	default:
		return field
	}
}
