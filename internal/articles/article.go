package articles

import (
	"github.com/2beens/blogfront/internal/apiclient"
)

type Status string

const (
	StatusDraft     Status = "Draft"
	StatusPublished Status = "Published"
)

type Article struct {
	ArticleID          int            `json:"articleId"`
	ArticleTitle       string         `json:"articleTitle"`
	ArticleAuthor      string         `json:"articleAuthor"`
	ArticleStatus      Status         `json:"articleStatus"`
	CreatedTimestamp   apiclient.Time `json:"createdTimestamp"`
	UpdatedTimestamp   apiclient.Time `json:"updatedTimestamp"`
	PublishedTimestamp apiclient.Time `json:"publishedTimestamp"`
	ArticleViewsCount  int            `json:"articleViewsCount"`
	Content            string         `json:"content"`
}

func (a Article) IsPublished() bool {
	return a.ArticleStatus == StatusPublished
}

type CreateDto struct {
	EmailAccountID int    `json:"emailAccountId"`
	BlogID         int    `json:"blogId"`
	ArticleTitle   string `json:"articleTitle" validate:"required,max=200"`
	ArticleAuthor  string `json:"articleAuthor" validate:"required,max=100"`
	ArticleStatus  Status `json:"articleStatus" validate:"required,oneof=Draft Published"`
	Content        string `json:"content" validate:"required"`
}

type UpdateDto struct {
	ArticleTitle  string `json:"articleTitle" validate:"required,max=200"`
	ArticleAuthor string `json:"articleAuthor" validate:"required,max=100"`
	Content       string `json:"content" validate:"required"`
}

func UpdateDtoFromArticle(a Article) UpdateDto {
	return UpdateDto{
		ArticleTitle:  a.ArticleTitle,
		ArticleAuthor: a.ArticleAuthor,
		Content:       a.Content,
	}
}

func filterByStatus(list []Article, status Status) []Article {
	filtered := []Article{}
	for _, a := range list {
		if a.ArticleStatus == status {
			filtered = append(filtered, a)
		}
	}
	return filtered
}

func Drafts(list []Article) []Article {
	return filterByStatus(list, StatusDraft)
}

func Published(list []Article) []Article {
	return filterByStatus(list, StatusPublished)
}
