package session

import (
	"context"
	"errors"
	"time"
)

const (
	DefaultTTL = 24 * 7 * time.Hour
	CookieName = "blogfront_session"
	tokenSize  = 35
)

var ErrNotFound = errors.New("session not found")

type Page string

const (
	PageChangeUser Page = "Change User"
	PageAuthor     Page = "Author"
	PageReader     Page = "Reader"
)

func (p Page) Valid() bool {
	switch p {
	case PageChangeUser, PageAuthor, PageReader:
		return true
	}
	return false
}

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Session keeps the visitor preferences which survive page reloads:
// the chosen email account persona, the selected page and the theme.
type Session struct {
	Token          string    `json:"token"`
	EmailAccountID int       `json:"emailAccountId,omitempty"`
	EmailAddress   string    `json:"emailAddress,omitempty"`
	SelectedPage   Page      `json:"selectedPage"`
	ThemeMode      Theme     `json:"themeMode"`
	CreatedAt      time.Time `json:"createdAt"`
}

func New(token string, createdAt time.Time) *Session {
	return &Session{
		Token:        token,
		SelectedPage: PageChangeUser,
		ThemeMode:    ThemeLight,
		CreatedAt:    createdAt,
	}
}

func (s *Session) HasPersona() bool {
	return s.EmailAccountID > 0
}

// SelectPersona switches to the given email account and opens the author page.
func (s *Session) SelectPersona(emailAccountID int, emailAddress string) {
	s.EmailAccountID = emailAccountID
	s.EmailAddress = emailAddress
	s.SelectedPage = PageAuthor
}

func (s *Session) Expired(ttl time.Duration, now time.Time) bool {
	return now.Sub(s.CreatedAt) > ttl
}

type Repo interface {
	Get(ctx context.Context, token string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, token string) error
	// ScanAndClean removes expired sessions and returns their tokens.
	ScanAndClean(ctx context.Context) []string
}
