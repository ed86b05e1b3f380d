package config

import "net/http"

type CookieSameSite string

const (
	CookieSameSiteNone   CookieSameSite = "None"
	CookieSameSiteLax    CookieSameSite = "Lax"
	CookieSameSiteStrict CookieSameSite = "Strict"
)

type CookieConfig struct {
	Name     string
	Path     string
	Domain   string
	MaxAge   int
	Secure   bool
	HTTPOnly bool
	SameSite CookieSameSite
}

func (cc CookieConfig) ToCookie(value string) *http.Cookie {
	var sameSite http.SameSite
	switch cc.SameSite {
	case CookieSameSiteNone:
		sameSite = http.SameSiteNoneMode
	case CookieSameSiteLax:
		sameSite = http.SameSiteLaxMode
	case CookieSameSiteStrict:
		sameSite = http.SameSiteStrictMode
	}

	return &http.Cookie{
		Name:     cc.Name,
		Value:    value,
		MaxAge:   cc.MaxAge,
		Path:     cc.Path,
		Domain:   cc.Domain,
		Secure:   cc.Secure,
		HttpOnly: cc.HTTPOnly,
		SameSite: sameSite,
	}
}
