package fetchx

import (
	"net/http"
	"net/url"
	"strings"
)

// cookiesAllowed applies the credentials policy of cfg to target.
func cookiesAllowed(cfg *RequestConfig, target *url.URL) bool {
	switch cfg.Credentials {
	case CredentialsOmit:
		return false
	case CredentialsInclude:
		return true
	}

	// same-origin: without a base URL there is no other origin to compare against.
	if cfg.BaseURL == "" {
		return true
	}
	origin, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(origin.Scheme, target.Scheme) && strings.EqualFold(origin.Host, target.Host)
}

func (c *Client) attachCookies(req *http.Request, cfg *RequestConfig) {
	if c.jar == nil || !cookiesAllowed(cfg, req.URL) {
		if cfg.Credentials == CredentialsOmit {
			req.Header.Del("Cookie")
		}
		return
	}
	for _, cookie := range c.jar.Cookies(req.URL) {
		req.AddCookie(cookie)
	}
}

func (c *Client) storeCookies(req *http.Request, resp *http.Response, cfg *RequestConfig) {
	if c.jar == nil || !cookiesAllowed(cfg, req.URL) {
		return
	}
	if cookies := resp.Cookies(); len(cookies) > 0 {
		c.jar.SetCookies(req.URL, cookies)
	}
}
