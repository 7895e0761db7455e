package middleware

import (
	"net/http"

	"github.com/2beens/blogfront/internal/session"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=session_mocks_test.go -package=middleware_test

type sessionLoader interface {
	Load(w http.ResponseWriter, r *http.Request) (*session.Session, error)
}

// Session loads (or creates) the visitor session and stores it in the request context.
func Session(loader sessionLoader) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, err := loader.Load(w, r)
			if err != nil {
				log.Errorf("[session middleware] load session for %s: %s", r.URL.Path, err)
				http.Error(w, "session unavailable", http.StatusServiceUnavailable)
				return
			}

			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), s)))
		})
	}
}
