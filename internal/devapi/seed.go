package devapi

import (
	"fmt"
	"strings"

	"github.com/2beens/blogfront/internal/articles"
	"github.com/2beens/blogfront/internal/blogs"
	"github.com/2beens/blogfront/internal/comments"
	"github.com/2beens/blogfront/internal/users"

	"github.com/brianvoe/gofakeit/v6"
	log "github.com/sirupsen/logrus"
)

var blogCategories = []string{"Technology", "Travel", "Food", "Science", "Lifestyle", "Music"}

type SeedParams struct {
	Seed               int64
	Users              int
	AccountsPerUser    int
	BlogsPerAccount    int
	ArticlesPerBlog    int
	CommentsPerArticle int
}

func DefaultSeedParams() SeedParams {
	return SeedParams{
		Seed:               42,
		Users:              3,
		AccountsPerUser:    2,
		BlogsPerAccount:    2,
		ArticlesPerBlog:    4,
		CommentsPerArticle: 3,
	}
}

// Seed fills the repo with fake data; the same seed always produces the same data set.
func Seed(repo *MemoryRepo, params SeedParams) error {
	faker := gofakeit.New(params.Seed)

	for u := 0; u < params.Users; u++ {
		name := faker.Name()
		user := users.User{UserName: name}
		for e := 0; e < params.AccountsPerUser; e++ {
			user.EmailAccounts = append(user.EmailAccounts, users.EmailAccount{
				EmailAddress: strings.ToLower(fmt.Sprintf("%s.%d@%s", faker.Username(), e, faker.DomainName())),
			})
		}
		user = repo.AddUser(user)

		for _, account := range user.EmailAccounts {
			for b := 0; b < params.BlogsPerAccount; b++ {
				blog, err := repo.AddBlog(account.EmailAccountID, blogs.Dto{
					BlogTitle:    strings.TrimSuffix(faker.Sentence(3), "."),
					BlogAuthor:   name,
					BlogCategory: blogCategories[faker.Number(0, len(blogCategories)-1)],
				})
				if err != nil {
					return fmt.Errorf("seed blog: %w", err)
				}

				for a := 0; a < params.ArticlesPerBlog; a++ {
					status := articles.StatusPublished
					if a%2 == 1 {
						status = articles.StatusDraft
					}
					article, err := repo.AddArticle(account.EmailAccountID, blog.BlogID, articles.CreateDto{
						EmailAccountID: account.EmailAccountID,
						BlogID:         blog.BlogID,
						ArticleTitle:   strings.TrimSuffix(faker.Sentence(5), "."),
						ArticleAuthor:  name,
						ArticleStatus:  status,
						Content:        faker.Paragraph(3, 4, 12, "\n\n"),
					})
					if err != nil {
						return fmt.Errorf("seed article: %w", err)
					}

					if status != articles.StatusPublished {
						continue
					}
					for c := 0; c < params.CommentsPerArticle; c++ {
						if _, err := repo.AddComment(blog.BlogID, article.ArticleID, comments.Comment{
							CommentatorName: faker.FirstName(),
							Comment:         faker.Sentence(8),
						}); err != nil {
							return fmt.Errorf("seed comment: %w", err)
						}
					}
				}
			}
		}
	}

	repo.mu.RLock()
	log.Debugf("dev api seeded: %d users, %d blogs, %d articles", len(repo.users), len(repo.blogs), len(repo.articles))
	repo.mu.RUnlock()
	return nil
}
