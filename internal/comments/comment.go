package comments

import (
	"github.com/2beens/blogfront/internal/apiclient"
)

// Comment is both the listed entity and the add-comment request body.
type Comment struct {
	CommentatorName  string         `json:"commentatorName" validate:"required,max=100"`
	Comment          string         `json:"comment" validate:"required,max=2000"`
	CreatedTimestamp apiclient.Time `json:"createdTimestamp"`
}
