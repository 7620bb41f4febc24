package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"roomhub/internal/core/auth"
	"roomhub/internal/core/server"
	"roomhub/internal/transport/http/ez"
	mdw "roomhub/internal/transport/http/middleware"
	resp "roomhub/internal/transport/http/response"
)

// Options carries the middleware limits and the media mount shared by both engines.
type Options struct {
	RPS         float64
	Burst       int
	Concurrency int64
	MaxBody     int64
	Timeout     time.Duration
	CORSOrigins []string
	MediaDir    string // served under MediaURL when set
	MediaURL    string
}

func (o Options) withDefaults() Options {
	if o.RPS <= 0 {
		o.RPS = 50
	}
	if o.Burst <= 0 {
		o.Burst = 100
	}
	if o.Concurrency <= 0 {
		o.Concurrency = 300
	}
	if o.MaxBody <= 0 {
		o.MaxBody = 16 << 20
	}
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	return o
}

func base(l *zap.Logger, name string, o Options) *gin.Engine {
	r := server.NewRouter(l, o.CORSOrigins)
	r.Use(
		mdw.RequestID(),
		mdw.Recovery(l),
		mdw.RateLimitPerIP(rate.Limit(o.RPS), o.Burst),
		mdw.ConcurrencyLimit(o.Concurrency),
		mdw.MaxBodyBytes(o.MaxBody),
		mdw.Timeout(o.Timeout),
		mdw.Metrics(name),
		mdw.AccessLog(l),
	)
	r.NoRoute(func(c *gin.Context) { resp.Abort(c, http.StatusNotFound, "not found") })
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", mdw.MetricsHandler())
	return r
}

func NewAPIEngine(l *zap.Logger, jwter *auth.JWTer, reg *Registry, o Options) *gin.Engine {
	o = o.withDefaults()
	r := base(l, "api", o)
	if o.MediaDir != "" && o.MediaURL != "" {
		r.Static(o.MediaURL, o.MediaDir)
	}

	api := r.Group("/api/v1")
	authed := api.Group("")
	authed.Use(mdw.AuthJWT(jwter))

	reg.MountAPI(ez.New(api, l), ez.New(authed, l))
	return r
}
