package server

import (
	stderrors "errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/matzehuels/treeflow/pkg/errors"
	"github.com/matzehuels/treeflow/pkg/httputil"
)

const maxRedirects = 10

// hostList is a lower-cased allow-list of "host" or "host:port" entries.
type hostList []string

func newHostList(hosts []string) hostList {
	l := make(hostList, 0, len(hosts))
	for _, h := range hosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			l = append(l, h)
		}
	}
	return l
}

func (l hostList) allows(u *url.URL) bool {
	name, hostPort := strings.ToLower(u.Hostname()), strings.ToLower(u.Host)
	for _, h := range l {
		if h == "*" || h == name || h == hostPort {
			return true
		}
	}
	return false
}

// checkHost rejects URLs whose host is not allowed.
func (s *Server) checkHost(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return errors.New(errors.ErrCodeInvalidInput, "url must be an absolute http(s) URL")
	}
	if !s.hosts.allows(u) {
		return errors.New(errors.ErrCodeForbidden, "host %q is not allowed", u.Hostname())
	}
	return nil
}

// newFetchClient returns a client that only follows redirects to allowed
// hosts.
func (s *Server) newFetchClient() *http.Client {
	c := httputil.NewClient()
	c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return stderrors.New("stopped after 10 redirects")
		}
		if !s.hosts.allows(req.URL) {
			return errors.New(errors.ErrCodeForbidden, "redirect to host %q is not allowed", req.URL.Hostname())
		}
		return nil
	}
	return c
}
