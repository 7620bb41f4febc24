package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"roomhub/internal/core/auth"
	"roomhub/internal/transport/http/ez"
	mdw "roomhub/internal/transport/http/middleware"
)

func NewAdminEngine(l *zap.Logger, jwter *auth.JWTer, reg *Registry, o Options) *gin.Engine {
	r := base(l, "admin", o.withDefaults())

	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(jwter, auth.RoleAdmin))

	reg.MountAdmin(ez.New(admin, l))
	return r
}
