package devapi

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/2beens/blogfront/internal/apiclient"
	"github.com/2beens/blogfront/internal/articles"
	"github.com/2beens/blogfront/internal/blogs"
	"github.com/2beens/blogfront/internal/comments"
	"github.com/2beens/blogfront/internal/users"
)

var ErrNotFound = errors.New("not found")

type blogRecord struct {
	blogs.Blog
	emailAccountID int
}

type articleRecord struct {
	articles.Article
	blogID int
}

// MemoryRepo keeps the whole remote API data set in memory.
type MemoryRepo struct {
	mu sync.RWMutex

	users    []users.User
	blogs    []*blogRecord
	articles []*articleRecord
	comments map[int][]comments.Comment

	nextUserID         int
	nextEmailAccountID int
	nextBlogID         int
	nextArticleID      int

	now func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		users:              []users.User{},
		comments:           map[int][]comments.Comment{},
		nextUserID:         1,
		nextEmailAccountID: 1,
		nextBlogID:         1,
		nextArticleID:      1,
		now:                time.Now,
	}
}

func (r *MemoryRepo) timestamp() apiclient.Time {
	return apiclient.NewTime(r.now().UTC().Truncate(time.Second))
}

func (r *MemoryRepo) AllUsers() []users.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.users)
}

func (r *MemoryRepo) User(id int) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.UserID == id {
			return u, nil
		}
	}
	return users.User{}, ErrNotFound
}

func (r *MemoryRepo) AddUser(user users.User) users.User {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.UserID = r.nextUserID
	r.nextUserID++
	accounts := make([]users.EmailAccount, 0, len(user.EmailAccounts))
	for _, acc := range user.EmailAccounts {
		acc.EmailAccountID = r.nextEmailAccountID
		r.nextEmailAccountID++
		accounts = append(accounts, acc)
	}
	user.EmailAccounts = accounts
	r.users = append(r.users, user)

	return user
}

func (r *MemoryRepo) emailAccountExists(emailAccountID int) bool {
	owner, _ := users.FindEmailAccount(r.users, emailAccountID)
	return owner != nil
}

func (r *MemoryRepo) AuthorBlogs(emailAccountID int) []blogs.Blog {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := []blogs.Blog{}
	for _, b := range r.blogs {
		if b.emailAccountID == emailAccountID {
			list = append(list, b.Blog)
		}
	}
	return list
}

// ReaderBlogs returns every blog with at least one published article.
func (r *MemoryRepo) ReaderBlogs() []blogs.Blog {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := []blogs.Blog{}
	for _, b := range r.blogs {
		for _, a := range r.articles {
			if a.blogID == b.BlogID && a.IsPublished() {
				list = append(list, b.Blog)
				break
			}
		}
	}
	return list
}

func (r *MemoryRepo) findBlog(blogID int) *blogRecord {
	for _, b := range r.blogs {
		if b.BlogID == blogID {
			return b
		}
	}
	return nil
}

func (r *MemoryRepo) Blog(blogID int) (blogs.Blog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if b := r.findBlog(blogID); b != nil {
		return b.Blog, nil
	}
	return blogs.Blog{}, ErrNotFound
}

func (r *MemoryRepo) AddBlog(emailAccountID int, dto blogs.Dto) (blogs.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.emailAccountExists(emailAccountID) {
		return blogs.Blog{}, ErrNotFound
	}

	record := &blogRecord{
		Blog: blogs.Blog{
			BlogID:       r.nextBlogID,
			BlogTitle:    dto.BlogTitle,
			BlogAuthor:   dto.BlogAuthor,
			BlogCategory: dto.BlogCategory,
		},
		emailAccountID: emailAccountID,
	}
	r.nextBlogID++
	r.blogs = append(r.blogs, record)

	return record.Blog, nil
}

func (r *MemoryRepo) UpdateBlog(emailAccountID, blogID int, dto blogs.Dto) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := r.findBlog(blogID)
	if b == nil || b.emailAccountID != emailAccountID {
		return ErrNotFound
	}
	b.BlogTitle = dto.BlogTitle
	b.BlogAuthor = dto.BlogAuthor
	b.BlogCategory = dto.BlogCategory
	return nil
}

// DeleteBlog removes the blog together with its articles and their comments.
func (r *MemoryRepo) DeleteBlog(emailAccountID, blogID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := r.findBlog(blogID)
	if b == nil || b.emailAccountID != emailAccountID {
		return ErrNotFound
	}

	r.blogs = slices.DeleteFunc(r.blogs, func(rec *blogRecord) bool {
		return rec.BlogID == blogID
	})
	r.articles = slices.DeleteFunc(r.articles, func(rec *articleRecord) bool {
		if rec.blogID == blogID {
			delete(r.comments, rec.ArticleID)
			return true
		}
		return false
	})
	return nil
}

func (r *MemoryRepo) Articles(blogID int) ([]articles.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.findBlog(blogID) == nil {
		return nil, ErrNotFound
	}
	list := []articles.Article{}
	for _, a := range r.articles {
		if a.blogID == blogID {
			list = append(list, a.Article)
		}
	}
	return list, nil
}

// ownsBlog reports whether the email account owns the blog. Article mutations are
// only allowed to the owner, reads and comments are open to every account.
func (r *MemoryRepo) ownsBlog(emailAccountID, blogID int) bool {
	b := r.findBlog(blogID)
	return b != nil && b.emailAccountID == emailAccountID
}

func (r *MemoryRepo) findOwnedArticle(emailAccountID, blogID, articleID int) *articleRecord {
	if !r.ownsBlog(emailAccountID, blogID) {
		return nil
	}
	return r.findArticle(blogID, articleID)
}

func (r *MemoryRepo) findArticle(blogID, articleID int) *articleRecord {
	for _, a := range r.articles {
		if a.ArticleID == articleID && a.blogID == blogID {
			return a
		}
	}
	return nil
}

func (r *MemoryRepo) Article(blogID, articleID int, publishedOnly bool) (articles.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a := r.findArticle(blogID, articleID)
	if a == nil || (publishedOnly && !a.IsPublished()) {
		return articles.Article{}, ErrNotFound
	}
	return a.Article, nil
}

func (r *MemoryRepo) AddArticle(emailAccountID, blogID int, dto articles.CreateDto) (articles.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.ownsBlog(emailAccountID, blogID) {
		return articles.Article{}, ErrNotFound
	}

	now := r.timestamp()
	record := &articleRecord{
		Article: articles.Article{
			ArticleID:        r.nextArticleID,
			ArticleTitle:     dto.ArticleTitle,
			ArticleAuthor:    dto.ArticleAuthor,
			ArticleStatus:    dto.ArticleStatus,
			CreatedTimestamp: now,
			UpdatedTimestamp: now,
			Content:          dto.Content,
		},
		blogID: blogID,
	}
	if record.IsPublished() {
		record.PublishedTimestamp = now
	}
	r.nextArticleID++
	r.articles = append(r.articles, record)

	return record.Article, nil
}

func (r *MemoryRepo) UpdateArticle(emailAccountID, blogID, articleID int, dto articles.UpdateDto) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a := r.findOwnedArticle(emailAccountID, blogID, articleID)
	if a == nil {
		return ErrNotFound
	}
	a.ArticleTitle = dto.ArticleTitle
	a.ArticleAuthor = dto.ArticleAuthor
	a.Content = dto.Content
	a.UpdatedTimestamp = r.timestamp()
	return nil
}

func (r *MemoryRepo) SetArticleStatus(emailAccountID, blogID, articleID int, status articles.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a := r.findOwnedArticle(emailAccountID, blogID, articleID)
	if a == nil {
		return ErrNotFound
	}
	a.ArticleStatus = status
	now := r.timestamp()
	a.UpdatedTimestamp = now
	if status == articles.StatusPublished {
		a.PublishedTimestamp = now
	} else {
		a.PublishedTimestamp = apiclient.Time{}
	}
	return nil
}

func (r *MemoryRepo) IncrementViews(blogID, articleID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a := r.findArticle(blogID, articleID)
	if a == nil {
		return ErrNotFound
	}
	a.ArticleViewsCount++
	return nil
}

func (r *MemoryRepo) DeleteArticle(emailAccountID, blogID, articleID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findOwnedArticle(emailAccountID, blogID, articleID) == nil {
		return ErrNotFound
	}
	r.articles = slices.DeleteFunc(r.articles, func(rec *articleRecord) bool {
		return rec.ArticleID == articleID
	})
	delete(r.comments, articleID)
	return nil
}

func (r *MemoryRepo) AddComment(blogID, articleID int, comment comments.Comment) (comments.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findArticle(blogID, articleID) == nil {
		return comments.Comment{}, ErrNotFound
	}
	if comment.CreatedTimestamp.IsZero() {
		comment.CreatedTimestamp = r.timestamp()
	}
	r.comments[articleID] = append(r.comments[articleID], comment)
	return comment, nil
}

func (r *MemoryRepo) Comments(blogID, articleID int) ([]comments.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.findArticle(blogID, articleID) == nil {
		return nil, ErrNotFound
	}
	return slices.Clone(r.comments[articleID]), nil
}
