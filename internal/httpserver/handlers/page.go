package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/a-h/templ"
	"golang.org/x/text/language"

	"github.com/MrSnakeDoc/shelf/internal/bookmarks"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/views"
	"github.com/MrSnakeDoc/shelf/internal/i18n"
	"github.com/MrSnakeDoc/shelf/internal/logger"
	"github.com/MrSnakeDoc/shelf/internal/ui"
)

func newController(d deps.Deps) *ui.Controller {
	return ui.New(d.Storage, d.Logger, ui.Options{
		Now:        d.TimeNow,
		Validate:   d.Validate,
		StrictURLs: d.StrictURLs,
	})
}

func renderPage(w http.ResponseWriter, r *http.Request, d deps.Deps, tag language.Tag, page ui.Page, status int) {
	data := views.PageData{
		Page:     page,
		Lang:     tag,
		Printer:  i18n.Printer(tag),
		Location: d.Location,
	}
	w.Header().Set("Cache-Control", "no-store")
	templ.Handler(views.Index(data), templ.WithStatus(status)).ServeHTTP(w, r)
}

// serverError logs err and answers 500. Malformed stored data is reported as such.
func serverError(w http.ResponseWriter, d deps.Deps, userID string, err error) {
	d.Logger.Error("request failed", logger.String("user_id", userID), logger.Error(err))
	msg := http.StatusText(http.StatusInternalServerError)
	if errors.Is(err, bookmarks.ErrMalformedData) {
		msg = "stored bookmarks for this user are unreadable"
	}
	http.Error(w, msg, http.StatusInternalServerError)
}

// Index renders the bookmarks page. The user query parameter is the selection.
func Index(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tag := i18n.ResolveTag(r, d.DefaultLang)
		userID := r.URL.Query().Get("user")

		page, err := newController(d).Select(r.Context(), userID)
		if err != nil {
			serverError(w, d, userID, err)
			return
		}
		renderPage(w, r, d, tag, page, http.StatusOK)
	}
}

// AddBookmark handles the add-bookmark form.
func AddBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, 64<<10)
		if err := r.ParseForm(); err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		tag := i18n.ResolveTag(r, d.DefaultLang)
		if v, ok := i18n.ParseTag(r.PostForm.Get(i18n.LangParam)); ok {
			tag = v
		}

		c := newController(d)
		c.Restore(r.PostForm.Get("user"))

		outcome, page, err := c.Submit(r.Context(), ui.Form{
			URL:         r.PostForm.Get("url"),
			Title:       r.PostForm.Get("title"),
			Description: r.PostForm.Get("description"),
		})
		if err != nil {
			serverError(w, d, c.CurrentUser(), err)
			return
		}

		switch outcome {
		case ui.Added:
			q := url.Values{}
			q.Set("user", c.CurrentUser())
			q.Set(i18n.LangParam, tag.String())
			http.Redirect(w, r, "/?"+q.Encode(), http.StatusSeeOther)
		case ui.NoUserSelected:
			renderPage(w, r, d, tag, page, http.StatusUnprocessableEntity)
		default:
			renderPage(w, r, d, tag, page, http.StatusOK)
		}
	}
}
