// Package views renders the bookmarks page as templ components.
package views

import (
	"context"
	"io"
	"net/url"
	"time"

	"github.com/a-h/templ"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"golang.org/x/text/message"

	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/i18n"
	"github.com/MrSnakeDoc/shelf/internal/ui"
)

// PageData is the view model of the bookmarks page.
type PageData struct {
	Page     ui.Page
	Lang     language.Tag
	Printer  *message.Printer
	Location *time.Location
}

// Index renders the full bookmarks page.
func Index(d PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)
		h.raw(`<!DOCTYPE html><html`)
		h.attr("lang", d.Lang.String())
		h.raw(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		h.text(d.Printer.Sprintf(i18n.KeyPageTitle))
		h.raw(`</title></head><body><main><h1>`)
		h.text(d.Printer.Sprintf(i18n.KeyPageTitle))
		h.raw(`</h1>`)
		h.component(LanguageSwitch(d))
		if d.Page.Notice == ui.NoticeSelectUser {
			h.component(Alert(d.Printer.Sprintf(i18n.KeyAlertNoUser)))
		}
		h.component(UserSelector(d))
		h.component(BookmarkForm(d))
		h.component(BookmarkList(d))
		h.raw(`</main></body></html>`)
		return h.err
	})
}

// Alert renders a blocking notification.
func Alert(text string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)
		h.raw(`<div class="alert" role="alert">`)
		h.text(text)
		h.raw(`</div>`)
		return h.err
	})
}

// LanguageSwitch links to the page in every supported language, keeping the selection.
func LanguageSwitch(d PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)
		h.raw(`<nav`)
		h.attr("aria-label", d.Printer.Sprintf(i18n.KeyNavLanguage))
		h.raw(`>`)
		for _, tag := range i18n.Supported() {
			q := url.Values{}
			q.Set(i18n.LangParam, tag.String())
			if d.Page.CurrentUser != "" {
				q.Set("user", d.Page.CurrentUser)
			}
			h.raw(`<a`)
			h.attr("href", "/?"+q.Encode())
			h.attr("hreflang", tag.String())
			if tag == d.Lang {
				h.raw(` aria-current="true"`)
			}
			h.raw(`>`)
			h.text(display.Self.Name(tag))
			h.raw(`</a> `)
		}
		h.raw(`</nav>`)
		return h.err
	})
}

// UserSelector renders the user dropdown. Changing it reloads the page for that user.
func UserSelector(d PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)
		h.raw(`<form id="user-form" method="get" action="/">`)
		h.raw(`<input type="hidden"`)
		h.attr("name", i18n.LangParam)
		h.attr("value", d.Lang.String())
		h.raw(`><label for="user-select">`)
		h.text(d.Printer.Sprintf(i18n.KeySelectorLabel))
		h.raw(`</label> <select id="user-select" name="user" onchange="this.form.submit()">`)
		for _, opt := range d.Page.Options {
			h.raw(`<option`)
			h.attr("value", opt.ID)
			if opt.Selected {
				h.raw(` selected`)
			}
			h.raw(`>`)
			if opt.Placeholder {
				h.text(d.Printer.Sprintf(i18n.KeySelectorPlaceholder))
			} else {
				h.text(d.Printer.Sprintf(i18n.KeySelectorOption, opt.ID))
			}
			h.raw(`</option>`)
		}
		h.raw(`</select><noscript><button type="submit">`)
		h.text(d.Printer.Sprintf(i18n.KeySelectorSubmit))
		h.raw(`</button></noscript></form>`)
		return h.err
	})
}

// BookmarkForm renders the add-bookmark form, prefilled with d.Page.Form.
func BookmarkForm(d PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)
		h.raw(`<section><h2>`)
		h.text(d.Printer.Sprintf(i18n.KeyFormHeading))
		h.raw(`</h2><form id="bookmark-form" method="post" action="/bookmarks">`)
		h.raw(`<input type="hidden" name="user"`)
		h.attr("value", d.Page.CurrentUser)
		h.raw(`><input type="hidden"`)
		h.attr("name", i18n.LangParam)
		h.attr("value", d.Lang.String())
		h.raw(`>`)
		field(h, "url", "url", d.Printer.Sprintf(i18n.KeyFormURL), d.Page.Form.URL)
		field(h, "title", "text", d.Printer.Sprintf(i18n.KeyFormTitle), d.Page.Form.Title)
		field(h, "description", "text", d.Printer.Sprintf(i18n.KeyFormDescription), d.Page.Form.Description)
		h.raw(`<button type="submit">`)
		h.text(d.Printer.Sprintf(i18n.KeyFormSubmit))
		h.raw(`</button></form></section>`)
		return h.err
	})
}

func field(h *html, name, kind, label, value string) {
	id := "bookmark-" + name
	h.raw(`<p><label`)
	h.attr("for", id)
	h.raw(`>`)
	h.text(label)
	h.raw(`</label> <input`)
	h.attr("type", kind)
	h.attr("id", id)
	h.attr("name", name)
	h.attr("value", value)
	h.raw(`></p>`)
}

// BookmarkList renders the selected user's bookmarks. Nothing is rendered without a selection.
func BookmarkList(d PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)
		h.raw(`<section id="bookmarks" aria-live="polite">`)
		if d.Page.HasSelection() {
			h.raw(`<h2>`)
			h.text(d.Printer.Sprintf(i18n.KeyListHeading))
			h.raw(`</h2>`)
			if d.Page.Empty {
				h.raw(`<p>`)
				h.text(d.Printer.Sprintf(i18n.KeyListEmpty))
				h.raw(`</p>`)
			} else {
				h.raw(`<ul>`)
				for _, b := range d.Page.Bookmarks {
					h.component(BookmarkItem(b, d.Printer, d.Location))
				}
				h.raw(`</ul>`)
			}
		}
		h.raw(`</section>`)
		return h.err
	})
}

// BookmarkItem renders one entry: link, description and creation time.
func BookmarkItem(b domain.Bookmark, p *message.Printer, loc *time.Location) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)
		h.raw(`<li><a`)
		h.attr("href", string(templ.URL(b.URL)))
		h.raw(` target="_blank" rel="noopener noreferrer"`)
		h.attr("aria-label", p.Sprintf(i18n.KeyListAriaLabel, b.Title))
		h.raw(`>`)
		h.text(b.Title)
		h.raw(`</a> - `)
		h.text(b.Description)
		h.raw(`<div><small><time`)
		h.attr("datetime", b.CreatedAt.UTC().Format(time.RFC3339Nano))
		h.raw(`>`)
		h.text(i18n.FormatTime(p, b.CreatedAt, loc))
		h.raw(`</time></small></div></li>`)
		return h.err
	})
}
