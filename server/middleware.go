// middleware.go - Host-Pruefung und Request-Metriken
package server

import (
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// localSuffixes sind Namensraeume die nie aus dem Internet aufloesen
var localSuffixes = []string{".localhost", ".local", ".internal"}

// onInterface meldet ob ip einem Netzwerk-Interface dieser Maschine gehoert
func onInterface(ip netip.Addr) bool {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return false
	}

	return slices.ContainsFunc(addrs, func(a net.Addr) bool {
		p, err := netip.ParsePrefix(a.String())
		return err == nil && p.Addr().Unmap() == ip.Unmap()
	})
}

// allowedHost meldet ob der Host-Header (ohne Port) auf diese Maschine zeigt
func allowedHost(host string) bool {
	host = strings.ToLower(strings.Trim(host, "[]"))

	if ip, err := netip.ParseAddr(host); err == nil {
		return ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() || onInterface(ip)
	}

	if host == "" || host == "localhost" {
		return true
	}
	if name, err := os.Hostname(); err == nil && strings.EqualFold(host, name) {
		return true
	}

	return slices.ContainsFunc(localSuffixes, func(suffix string) bool {
		return strings.HasSuffix(host, suffix)
	})
}

// loopbackOnly meldet ob der Server ausschliesslich auf einer Loopback-Adresse lauscht
func loopbackOnly(addr net.Addr) bool {
	if addr == nil {
		return false
	}
	ap, err := netip.ParseAddrPort(addr.String())
	return err != nil || ap.Addr().IsLoopback()
}

// allowedHostsMiddleware schuetzt einen Loopback-Server vor DNS-Rebinding:
// Requests mit fremdem Host-Header werden mit 403 abgewiesen.
func allowedHostsMiddleware(addr func() net.Addr) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !loopbackOnly(addr()) {
			c.Next()
			return
		}

		host, _, err := net.SplitHostPort(c.Request.Host)
		if err != nil {
			host = c.Request.Host
		}

		switch {
		case !allowedHost(host):
			c.AbortWithStatus(http.StatusForbidden)
		case c.Request.Method == http.MethodOptions:
			c.AbortWithStatus(http.StatusNoContent)
		default:
			c.Next()
		}
	}
}

// requestMetrics zaehlt Requests pro Route und loggt sie
func (s *Server) requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		code := c.Writer.Status()

		s.metrics.Requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
		slog.Debug("request", "method", c.Request.Method, "route", route, "status", code, "duration", time.Since(start))
	}
}
