// Package httpclient provides the HTTP client chart archive downloads run
// through: bounded timeouts, a redirect cap, and an http(s)-only scheme
// check so a malformed catalog URL fails fast instead of hanging a load.
package httpclient

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/navtool/chartload/errors"
)

const (
	defaultTimeout  = 60 * time.Second
	maxRedirects    = 10
	tlsHandshakeCap = 10 * time.Second
)

var allowedSchemes = []string{"http", "https"}

// NewDownloadClient returns an HTTP client tuned for archive downloads.
// timeout <= 0 selects the default.
func NewDownloadClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: tlsHandshakeCap,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return errors.Newf("stopped after %d redirects", maxRedirects)
			}
			if err := ValidateURL(req.URL); err != nil {
				return errors.Wrap(err, "redirect blocked")
			}
			return nil
		},
	}
}

// ValidateURL rejects URLs a chart mirror would never legitimately serve
// from. file: sources bypass this client entirely.
func ValidateURL(u *url.URL) error {
	scheme := strings.ToLower(u.Scheme)
	allowed := false
	for _, s := range allowedSchemes {
		if scheme == s {
			allowed = true
			break
		}
	}
	if !allowed {
		return errors.Newf("scheme %q not allowed (allowed: %v)", scheme, allowedSchemes)
	}

	if u.User != nil {
		return errors.New("URL carries userinfo")
	}
	if u.Hostname() == "" {
		return errors.New("URL missing hostname")
	}
	return nil
}

// ValidateURLString parses and validates a URL in one step.
func ValidateURLString(urlStr string) (*url.URL, error) {
	u, err := url.Parse(urlStr)
	if err != nil {
		return nil, errors.Wrap(err, "invalid URL")
	}
	if err := ValidateURL(u); err != nil {
		return nil, err
	}
	return u, nil
}
