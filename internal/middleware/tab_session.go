package middleware

import (
	"net/http"
	"net/url"
	"regexp"

	"github.com/gin-gonic/gin"
)

const (
	TabSessionHeader = "X-Tab-Session"
	TabSessionCookie = "tab_session"
	tabSessionKey    = "tab_session"
	tabScopeKey      = "tab_scope"
)

var tabSessionPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// TabSession requires every request to name the browser tab it comes from.
// The header wins over the cookie. Mounted after BearerAuth, it qualifies the
// tab with the verified user so two users presenting the same tab id never
// share views or handoff records.
func TabSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(TabSessionHeader)
		if id == "" {
			id, _ = c.Cookie(TabSessionCookie)
		}

		switch {
		case id == "":
			abort(c, http.StatusBadRequest, "Tab session is required", "TAB_SESSION_REQUIRED")
			return
		case !tabSessionPattern.MatchString(id):
			abort(c, http.StatusBadRequest, "Invalid tab session", "TAB_SESSION_INVALID")
			return
		}

		scope := id
		if user := c.GetString(UserIDKey); user != "" {
			scope = url.QueryEscape(user) + ":" + id
		}

		c.Set(tabSessionKey, id)
		c.Set(tabScopeKey, scope)
		c.Next()
	}
}

// GetTabSession returns the tab session set by TabSession.
func GetTabSession(c *gin.Context) string {
	return c.GetString(tabSessionKey)
}

// TabScope returns the key that tab-scoped state is stored under: the tab
// session, prefixed by the escaped verified user when there is one. Neither
// segment can contain ':', so no scope is a prefix of another.
func TabScope(c *gin.Context) string {
	return c.GetString(tabScopeKey)
}
