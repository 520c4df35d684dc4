package common

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// BindForm reads a form post (or JSON body) into req.
// Field validation happens later, in the validation package.
func BindForm(c *gin.Context, req interface{}) error {
	if err := c.ShouldBind(req); err != nil {
		return fmt.Errorf("ошибка разбора формы: %w", err)
	}
	return nil
}

// RedirectAfterPost sends the browser to target with 303 so a refresh does not repost the form.
func RedirectAfterPost(c *gin.Context, target string) {
	c.Redirect(http.StatusSeeOther, target)
}

// SafeReturnPath accepts only local paths under prefix, otherwise returns fallback.
func SafeReturnPath(raw, prefix, fallback string) string {
	if raw == "" {
		return fallback
	}
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, prefix) {
		return fallback
	}
	return u.RequestURI()
}

// QueryString builds "?k=v" from non-empty pairs, or "" when all are empty.
func QueryString(pairs ...string) string {
	q := url.Values{}
	for i := 0; i+1 < len(pairs); i += 2 {
		if v := strings.TrimSpace(pairs[i+1]); v != "" {
			q.Set(pairs[i], v)
		}
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}
