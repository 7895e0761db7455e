package frontend

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/2beens/blogfront/internal/session"
	"github.com/2beens/blogfront/internal/store"
	"github.com/2beens/blogfront/internal/users"
	"github.com/2beens/blogfront/pkg"

	log "github.com/sirupsen/logrus"
)

type changeUserView struct {
	Users          store.State[users.User]
	EmailAccountID int
}

func (h *Handler) handleChangeUser(w http.ResponseWriter, r *http.Request, sess *session.Session, st *session.State) {
	st.Navigate()
	h.selectPage(r.Context(), sess, session.PageChangeUser)

	if _, err := h.users.GetAllUsers(r.Context(), st.Users); err != nil {
		h.alertFailure(st, users.ActionGetAllUsers)
	}

	h.render(w, r, http.StatusOK, "change_user", sess, st, "Change User", changeUserView{
		Users:          st.Users.Snapshot(),
		EmailAccountID: sess.EmailAccountID,
	})
}

func (h *Handler) handleSelectPersona(w http.ResponseWriter, r *http.Request, sess *session.Session, st *session.State) {
	form, err := parsePersonaForm(r)
	if err != nil {
		log.Warnf("select persona, parse form: %s", err)
		st.AddAlert(session.AlertError, "Invalid email account")
		redirect(w, r, "/")
		return
	}
	if errs := h.validateForm(form); errs != nil {
		log.Warnf("select persona, invalid form: %v", errs)
		st.AddAlert(session.AlertError, "Invalid email account")
		redirect(w, r, "/")
		return
	}

	sess.SelectPersona(form.EmailAccountID, form.EmailAddress)
	h.saveSession(r.Context(), sess)
	log.Debugf("session [%s] switched to email account %d", sess.Token, form.EmailAccountID)

	redirect(w, r, authorBlogsPath(form.EmailAccountID))
}

func (h *Handler) handleAuthorHome(w http.ResponseWriter, r *http.Request, sess *session.Session, st *session.State) {
	h.dashboardRedirect(w, r, sess, st, session.PageAuthor, authorBlogsPath)
}

func (h *Handler) handleReaderHome(w http.ResponseWriter, r *http.Request, sess *session.Session, st *session.State) {
	h.dashboardRedirect(w, r, sess, st, session.PageReader, readerBlogsPath)
}

func (h *Handler) dashboardRedirect(
	w http.ResponseWriter,
	r *http.Request,
	sess *session.Session,
	st *session.State,
	page session.Page,
	dashboardPath func(eid int) string,
) {
	if !sess.HasPersona() {
		st.AddAlert(session.AlertError, "Choose an email account first")
		redirect(w, r, "/")
		return
	}
	h.selectPage(r.Context(), sess, page)
	redirect(w, r, dashboardPath(sess.EmailAccountID))
}

func (h *Handler) handleToggleTheme(w http.ResponseWriter, r *http.Request, sess *session.Session, _ *session.State) {
	sess.ThemeMode = sess.ThemeMode.Toggle()
	h.saveSession(r.Context(), sess)

	back := "/"
	if err := r.ParseForm(); err == nil {
		if target := r.PostForm.Get("redirect"); isLocalPath(target) {
			back = target
		}
	}
	redirect(w, r, back)
}

// isLocalPath guards the redirect target against leaving the site.
func isLocalPath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") && !strings.HasPrefix(p, "/\\")
}

type stateResponse struct {
	Session *session.Session `json:"session"`
	State   session.Snapshot `json:"state"`
}

func (h *Handler) handleState(w http.ResponseWriter, _ *http.Request, sess *session.Session, st *session.State) {
	pkg.WriteJSONResponseOK(w, stateResponse{
		Session: sess,
		State:   st.Snapshot(),
	})
}

func (h *Handler) renderNotFound(w http.ResponseWriter, r *http.Request, sess *session.Session, st *session.State, what string) {
	h.render(w, r, http.StatusNotFound, "not_found", sess, st, "Not Found", fmt.Sprintf("%s not found", what))
}
