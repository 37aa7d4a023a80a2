package tls

import (
	"net"
	"net/http"
	"strings"

	"shoppinglist-api/internal/logging"

	"github.com/sirupsen/logrus"
)

// HTTPSRedirectHandler redirects plain HTTP requests to the HTTPS port.
// Requests under /health are passed to passthrough instead, so probes that
// only speak HTTP keep working; a nil passthrough redirects them too.
func HTTPSRedirectHandler(httpsPort string, passthrough http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if passthrough != nil && (r.URL.Path == "/health" || strings.HasPrefix(r.URL.Path, "/health/")) {
			passthrough.ServeHTTP(w, r)
			return
		}

		host := r.Host
		if h, _, err := net.SplitHostPort(host); err == nil {
			host = h
		}
		if httpsPort != "443" {
			host = net.JoinHostPort(host, httpsPort)
		} else if strings.Contains(host, ":") {
			host = "[" + host + "]"
		}
		httpsURL := "https://" + host + r.URL.RequestURI()

		logging.Logger.WithFields(logrus.Fields{
			"client_ip": r.RemoteAddr,
			"method":    r.Method,
			"https_url": httpsURL,
		}).Debug("HTTP to HTTPS redirect")

		// 308 keeps the method and body of writes
		status := http.StatusPermanentRedirect
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			status = http.StatusMovedPermanently
		}
		http.Redirect(w, r, httpsURL, status)
	})
}
