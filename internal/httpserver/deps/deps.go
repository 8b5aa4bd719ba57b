package deps

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"

	"github.com/MrSnakeDoc/shelf/internal/bookmarks"
	"github.com/MrSnakeDoc/shelf/internal/logger"
	"github.com/MrSnakeDoc/shelf/internal/store"
)

type Deps struct {
	Logger          logger.Logger
	StartTime       time.Time
	Version         string
	Commit          string
	BuildDate       string
	GoVersion       string
	TimeNow         func() time.Time    // for testing, defaults to time.Now
	AllowedHosts    []string            // Host headers allowed to access the server
	AllowedCIDRS    []string            // IPs allowed to access healthz/readyz/metrics and the API
	TrustProxy      bool                // true if running behind a trusted reverse proxy (e.g., cloudflared)
	RateLimitBurst  int                 // form submissions per client IP before throttling
	RateLimitPerMin int                 // token refill per client IP
	Store           store.KV            // substrate, pinged by readyz
	Storage         *bookmarks.Storage  // per-user bookmark lists
	Validate        *validator.Validate // shared, safe for concurrent use
	StrictURLs      bool                // only accept absolute http(s) bookmark urls
	Location        *time.Location      // time zone used to display timestamps
	DefaultLang     language.Tag        // language used when the request expresses none
}
