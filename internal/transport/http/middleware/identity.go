package middleware

import (
	"github.com/gin-gonic/gin"

	"roomhub/internal/core/auth"
)

const ctxIdentity = "identity"

func setIdentity(c *gin.Context, id auth.Identity) { c.Set(ctxIdentity, id) }

// IdentityFrom returns the caller authenticated by AuthJWT.
func IdentityFrom(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(ctxIdentity)
	if !ok {
		return auth.Identity{}, false
	}
	id, ok := v.(auth.Identity)
	return id, ok && id.UserID != 0
}
