// routes.go - Router-Registrierung und allgemeine Handler
package server

import (
	"net"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/smolchat/smolchat/envconfig"
	"github.com/smolchat/smolchat/openai"
	"github.com/smolchat/smolchat/version"
)

// stainlessHeaders senden die offiziellen OpenAI SDKs mit jedem Request
var stainlessHeaders = []string{
	"arch", "async", "lang", "os", "package-version",
	"retry-count", "runtime", "runtime-version", "timeout",
}

// corsConfig erlaubt lokale Origins, SMOLCHAT_ORIGINS und die Header der OpenAI SDKs
func corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowWildcard = true
	cfg.AllowBrowserExtensions = true
	cfg.AllowOrigins = envconfig.AllowedOrigins()
	cfg.ExposeHeaders = []string{chatHeader}

	cfg.AllowHeaders = []string{"Authorization", "Content-Type", "User-Agent", "Accept", "X-Requested-With", "OpenAI-Beta", chatHeader}
	for _, h := range stainlessHeaders {
		cfg.AllowHeaders = append(cfg.AllowHeaders, "x-stainless-"+h)
	}
	return cfg
}

// GenerateRoutes baut den Router: Status, Version, Metriken und die OpenAI-Endpunkte
func (s *Server) GenerateRoutes() http.Handler {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(
		gin.Recovery(),
		s.requestMetrics(),
		cors.New(corsConfig()),
		allowedHostsMiddleware(func() net.Addr { return s.addr }),
	)

	running := func(c *gin.Context) { c.String(http.StatusOK, "smolchat is running") }
	r.HEAD("/", running)
	r.GET("/", running)
	r.GET("/api/version", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"version": version.Version}) })
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	r.POST("/v1/chat/completions", s.ChatCompletionsHandler)
	r.GET("/v1/models", s.ListHandler)
	r.GET("/v1/models/:model", s.RetrieveHandler)

	return r
}

// ListHandler meldet das geladene Modell
func (s *Server) ListHandler(c *gin.Context) {
	c.JSON(http.StatusOK, openai.ToListCompletion(openai.ToModel(s.model, s.created)))
}

// RetrieveHandler meldet das Modell :model, falls es das geladene ist
func (s *Server) RetrieveHandler(c *gin.Context) {
	if name := c.Param("model"); name != s.model {
		c.AbortWithStatusJSON(http.StatusNotFound, openai.NewError(http.StatusNotFound, "model '"+name+"' not found"))
		return
	}

	c.JSON(http.StatusOK, openai.ToModel(s.model, s.created))
}
