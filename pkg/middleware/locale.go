package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

// LocaleKey is the gin context key holding the locale of the current page.
const LocaleKey = "locale"

// LocaleOptions configures LocaleRedirect.
type LocaleOptions struct {
	Supported  []string // first entry is used when nothing matches
	Default    string
	CookieName string
	// path prefixes that are never localized
	Skip []string
}

// DefaultLocaleSkips are the non-page prefixes served by this process.
var DefaultLocaleSkips = []string{"/api", "/dashboard", "/login", "/health", "/ready", "/metrics", "/swagger"}

type localeNegotiator struct {
	opts    LocaleOptions
	tags    []string
	matcher language.Matcher
}

func newLocaleNegotiator(opts LocaleOptions) *localeNegotiator {
	supported := make([]string, 0, len(opts.Supported))
	if opts.Default != "" {
		supported = append(supported, opts.Default)
	}
	for _, l := range opts.Supported {
		if l != opts.Default {
			supported = append(supported, l)
		}
	}
	if len(supported) == 0 {
		supported = []string{"en"}
	}
	tags := make([]language.Tag, 0, len(supported))
	for _, l := range supported {
		tags = append(tags, language.Make(l))
	}
	return &localeNegotiator{opts: opts, tags: supported, matcher: language.NewMatcher(tags)}
}

func (n *localeNegotiator) supported(l string) (string, bool) {
	for _, s := range n.tags {
		if strings.EqualFold(s, l) {
			return s, true
		}
	}
	return "", false
}

// pick returns the cookie locale when supported, else the best
// Accept-Language match, else the default.
func (n *localeNegotiator) pick(cookie, acceptLanguage string) string {
	if l, ok := n.supported(cookie); ok {
		return l
	}
	wanted, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(wanted) == 0 {
		return n.tags[0]
	}
	_, idx, conf := n.matcher.Match(wanted...)
	if conf == language.No {
		return n.tags[0]
	}
	return n.tags[idx]
}

func (n *localeNegotiator) skip(path string) bool {
	for _, p := range n.opts.Skip {
		if UnderPrefix(path, p) {
			return true
		}
	}
	last := path[strings.LastIndex(path, "/")+1:]
	return strings.Contains(last, ".")
}

// LocaleRedirect sends page requests without a locale prefix to
// /<locale><path>, keeping the query string. Requests that already carry a
// supported prefix get the locale stored under LocaleKey.
func LocaleRedirect(opts LocaleOptions) gin.HandlerFunc {
	n := newLocaleNegotiator(opts)
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.Next()
			return
		}
		path := c.Request.URL.Path
		if n.skip(path) {
			c.Next()
			return
		}
		first := strings.SplitN(strings.TrimPrefix(path, "/"), "/", 2)[0]
		if l, ok := n.supported(first); ok {
			c.Set(LocaleKey, l)
			c.Next()
			return
		}

		cookie := ""
		if n.opts.CookieName != "" {
			cookie, _ = c.Cookie(n.opts.CookieName)
		}
		locale := n.pick(cookie, c.GetHeader("Accept-Language"))
		target := "/" + locale
		if path != "/" {
			target += path
		}
		if q := c.Request.URL.RawQuery; q != "" {
			target += "?" + q
		}
		c.Redirect(http.StatusTemporaryRedirect, target)
		c.Abort()
	}
}
