// Package proxy forwards gateway requests to the internal services. By the
// time a request reaches the proxy it already carries the internal identity
// headers set by the gateway middleware chain.
package proxy

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/upb/storefront-platform/utils"
)

// ServiceProxy is a reverse proxy to one internal service.
type ServiceProxy struct {
	target *url.URL
	proxy  *httputil.ReverseProxy
	logger *zap.Logger
}

// New creates a proxy for the given service base URL.
func New(rawURL string, logger *zap.Logger) (*ServiceProxy, error) {
	target, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}

	p := &ServiceProxy{
		target: target,
		logger: logger,
	}

	rp := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
			// Identity headers were set on the inbound request by the
			// propagation middleware; carry them through unchanged.
			pr.Out.Host = target.Host
		},
		ErrorHandler: p.handleError,
		Transport: &http.Transport{
			ResponseHeaderTimeout: 30 * time.Second,
		},
	}
	p.proxy = rp

	return p, nil
}

// ServeHTTP implements http.Handler.
func (p *ServiceProxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.proxy.ServeHTTP(w, r)
}

// handleError reports an unreachable or failing upstream as a 502.
func (p *ServiceProxy) handleError(w http.ResponseWriter, r *http.Request, err error) {
	p.logger.Error("upstream request failed",
		zap.String("target", p.target.String()),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	_ = utils.WriteBadGateway(w, "Upstream service unavailable")
}
