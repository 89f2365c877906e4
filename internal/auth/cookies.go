package auth

import (
	"net/http"
	"time"
)

// CookieSettings are the attributes of the session cookie. The same values
// are used to set and to clear it so browsers match the two.
type CookieSettings struct {
	Name         string
	IsProduction bool
	MaxAge       time.Duration
}

func (c CookieSettings) base() *http.Cookie {
	cookie := &http.Cookie{
		Name:     c.Name,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.IsProduction,
		SameSite: http.SameSiteLaxMode,
	}
	// the SPA is served from another site in production
	if c.IsProduction {
		cookie.SameSite = http.SameSiteNoneMode
	}
	return cookie
}

// SetSessionCookie stores token in the session cookie
func (c CookieSettings) SetSessionCookie(w http.ResponseWriter, token string) {
	cookie := c.base()
	cookie.Value = token
	cookie.MaxAge = int(c.MaxAge.Seconds())
	cookie.Expires = time.Now().Add(c.MaxAge)
	http.SetCookie(w, cookie)
}

// ClearSessionCookie tells the browser to drop the session cookie
func (c CookieSettings) ClearSessionCookie(w http.ResponseWriter) {
	cookie := c.base()
	cookie.MaxAge = -1
	cookie.Expires = time.Unix(0, 0)
	http.SetCookie(w, cookie)
}

// GetSessionToken reads the session cookie value
func (c CookieSettings) GetSessionToken(r *http.Request) (string, error) {
	cookie, err := r.Cookie(c.Name)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}
