package blogs

type Blog struct {
	BlogID       int    `json:"blogId"`
	BlogTitle    string `json:"blogTitle"`
	BlogAuthor   string `json:"blogAuthor"`
	BlogCategory string `json:"blogCategory"`
}

// Dto is the request body of add-blog and update-blog. EmailAccountID is only sent on add.
type Dto struct {
	EmailAccountID int    `json:"emailAccountId,omitempty"`
	BlogTitle      string `json:"blogTitle" validate:"required,max=200"`
	BlogAuthor     string `json:"blogAuthor" validate:"required,max=100"`
	BlogCategory   string `json:"blogCategory" validate:"required,max=100"`
}

func DtoFromBlog(b Blog) Dto {
	return Dto{
		BlogTitle:    b.BlogTitle,
		BlogAuthor:   b.BlogAuthor,
		BlogCategory: b.BlogCategory,
	}
}
