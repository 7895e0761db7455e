package frontend

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/2beens/blogfront/internal/articles"
	"github.com/2beens/blogfront/internal/blogs"
	"github.com/2beens/blogfront/internal/comments"

	"github.com/go-playground/validator/v10"
)

// formErrors maps a form field (its json name) to what is wrong with it.
type formErrors map[string]string

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (h *Handler) validateForm(form any) formErrors {
	err := h.validate.Struct(form)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return formErrors{"": err.Error()}
	}

	errs := formErrors{}
	for _, fieldErr := range validationErrs {
		errs[fieldErr.Field()] = fieldMessage(fieldErr)
	}
	return errs
}

func fieldMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters long", fieldErr.Param())
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(fieldErr.Param()), ", ")
	case "gt":
		return "must be selected"
	default:
		return "is invalid"
	}
}

func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.PostForm.Get(key))
}

type personaForm struct {
	EmailAccountID int    `json:"emailAccountId" validate:"gt=0"`
	EmailAddress   string `json:"emailAddress" validate:"required,max=320"`
}

func parsePersonaForm(r *http.Request) (personaForm, error) {
	if err := r.ParseForm(); err != nil {
		return personaForm{}, err
	}
	form := personaForm{
		EmailAddress: formValue(r, "emailAddress"),
	}
	if raw := formValue(r, "emailAccountId"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return personaForm{}, fmt.Errorf("parse email account id [%s]: %w", raw, err)
		}
		form.EmailAccountID = id
	}
	return form, nil
}

func parseBlogForm(r *http.Request) (blogs.Dto, error) {
	if err := r.ParseForm(); err != nil {
		return blogs.Dto{}, err
	}
	return blogs.Dto{
		BlogTitle:    formValue(r, "blogTitle"),
		BlogAuthor:   formValue(r, "blogAuthor"),
		BlogCategory: formValue(r, "blogCategory"),
	}, nil
}

func parseArticleCreateForm(r *http.Request, eid, bid int) (articles.CreateDto, error) {
	if err := r.ParseForm(); err != nil {
		return articles.CreateDto{}, err
	}
	return articles.CreateDto{
		EmailAccountID: eid,
		BlogID:         bid,
		ArticleTitle:   formValue(r, "articleTitle"),
		ArticleAuthor:  formValue(r, "articleAuthor"),
		ArticleStatus:  articles.Status(formValue(r, "articleStatus")),
		Content:        formValue(r, "content"),
	}, nil
}

func parseArticleUpdateForm(r *http.Request) (articles.UpdateDto, error) {
	if err := r.ParseForm(); err != nil {
		return articles.UpdateDto{}, err
	}
	return articles.UpdateDto{
		ArticleTitle:  formValue(r, "articleTitle"),
		ArticleAuthor: formValue(r, "articleAuthor"),
		Content:       formValue(r, "content"),
	}, nil
}

func parseCommentForm(r *http.Request) (comments.Comment, error) {
	if err := r.ParseForm(); err != nil {
		return comments.Comment{}, err
	}
	return comments.Comment{
		CommentatorName: formValue(r, "commentatorName"),
		Comment:         formValue(r, "comment"),
	}, nil
}
