// Package ui holds the page controller: user selection, rendering of the
// selected user's bookmarks and the add-bookmark form.
package ui

import (
	"context"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/logger"
	"github.com/MrSnakeDoc/shelf/internal/metrics"
)

// Store is the part of the storage adapter the controller needs.
type Store interface {
	GetData(ctx context.Context, userID string) ([]domain.Bookmark, bool, error)
	Update(ctx context.Context, userID string, fn func([]domain.Bookmark) []domain.Bookmark) ([]domain.Bookmark, error)
	GetUserIDs() []string
}

// Outcome tells the caller what a submission did.
type Outcome int

const (
	Added Outcome = iota
	NoUserSelected
	Incomplete
)

func (o Outcome) String() string {
	switch o {
	case Added:
		return "added"
	case NoUserSelected:
		return "no_user_selected"
	case Incomplete:
		return "incomplete"
	default:
		return "unknown"
	}
}

// Form carries the add-bookmark fields as submitted.
type Form struct {
	URL         string `validate:"required"`
	Title       string `validate:"required"`
	Description string `validate:"required"`
}

// Options tune a Controller. Zero values fall back to time.Now and a fresh validator.
type Options struct {
	Now        func() time.Time
	Validate   *validator.Validate
	StrictURLs bool
}

// Controller owns the selected user for one page interaction.
type Controller struct {
	store      Store
	logger     logger.Logger
	validate   *validator.Validate
	now        func() time.Time
	strictURLs bool

	currentUser string
}

func New(store Store, log logger.Logger, opts Options) *Controller {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Validate == nil {
		opts.Validate = validator.New(validator.WithRequiredStructEnabled())
	}
	return &Controller{
		store:      store,
		logger:     log,
		validate:   opts.Validate,
		now:        opts.Now,
		strictURLs: opts.StrictURLs,
	}
}

// CurrentUser returns the selected user id, or "" when none is selected.
func (c *Controller) CurrentUser() string {
	return c.currentUser
}

// Restore sets the selection without reading storage. Ids outside the
// configured set leave the selection unset.
func (c *Controller) Restore(userID string) {
	if userID != "" && !slices.Contains(c.store.GetUserIDs(), userID) {
		c.logger.Debug("ignoring unknown user selection", logger.String("user_id", userID))
		userID = ""
	}
	c.currentUser = userID
}

// Init returns the initial page: the user selector and no rendered list.
func (c *Controller) Init() Page {
	return Page{Options: c.options()}
}

// Select changes the selected user and renders their bookmarks.
// An empty id clears the selection and the rendered list.
func (c *Controller) Select(ctx context.Context, userID string) (Page, error) {
	c.Restore(userID)
	return c.Render(ctx)
}

// Render builds the page for the current selection.
func (c *Controller) Render(ctx context.Context) (Page, error) {
	page := c.Init()
	page.CurrentUser = c.currentUser
	if c.currentUser == "" {
		return page, nil
	}

	list, _, err := c.store.GetData(ctx, c.currentUser)
	if err != nil {
		return Page{}, err
	}
	page.Bookmarks = domain.SortByRecency(list)
	page.Empty = len(page.Bookmarks) == 0
	return page, nil
}

// Submit adds a bookmark for the current user.
//
// Without a selected user nothing is written and the page carries the
// select-user notice. With any field blank after trimming nothing is written
// and no notice is shown. On success the form is reset.
func (c *Controller) Submit(ctx context.Context, form Form) (Outcome, Page, error) {
	if c.currentUser == "" {
		metrics.SubmissionsRejectedTotal.WithLabelValues(NoUserSelected.String()).Inc()
		page := c.Init()
		page.Notice = NoticeSelectUser
		page.Form = form
		return NoUserSelected, page, nil
	}

	b := domain.NewBookmark(form.URL, form.Title, form.Description, c.now())
	if !c.complete(b) {
		metrics.SubmissionsRejectedTotal.WithLabelValues(Incomplete.String()).Inc()
		page, err := c.Render(ctx)
		if err != nil {
			return Incomplete, Page{}, err
		}
		page.Form = form
		return Incomplete, page, nil
	}

	list, err := c.store.Update(ctx, c.currentUser, func(current []domain.Bookmark) []domain.Bookmark {
		return domain.Append(current, b)
	})
	if err != nil {
		return Added, Page{}, err
	}
	metrics.BookmarksAddedTotal.Inc()
	c.logger.Info("bookmark added",
		logger.String("user_id", c.currentUser),
		logger.Int("count", len(list)))

	page, err := c.Render(ctx)
	if err != nil {
		return Added, Page{}, err
	}
	return Added, page, nil
}

func (c *Controller) complete(b domain.Bookmark) bool {
	form := Form{URL: b.URL, Title: b.Title, Description: b.Description}
	if err := c.validate.Struct(form); err != nil {
		return false
	}
	if c.strictURLs {
		if err := c.validate.Var(b.URL, "http_url"); err != nil {
			c.logger.Debug("rejecting non-http url", logger.String("url", b.URL))
			return false
		}
	}
	return true
}

func (c *Controller) options() []Option {
	ids := c.store.GetUserIDs()
	opts := make([]Option, 0, len(ids)+1)
	opts = append(opts, Option{Placeholder: true, Selected: c.currentUser == ""})
	for _, id := range ids {
		opts = append(opts, Option{ID: id, Selected: id == c.currentUser})
	}
	return opts
}
