package ez

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"roomhub/internal/core/auth"
	mdw "roomhub/internal/transport/http/middleware"
	resp "roomhub/internal/transport/http/response"
)

// EZ registers typed handlers on a router group.
type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ {
	useJSONNames()
	return EZ{g: g, log: l}
}

// Action describes one non-CRUD endpoint: I is bound from the request, O is
// returned as the envelope's data.
type Action[I any, O any] struct {
	Method  string   // GET | POST | PUT | PATCH | DELETE
	Path    string   // e.g. "/auth/login", "/users/:id/ban"
	Binder  Binder   // how I is filled
	Auth    bool     // require an authenticated identity
	Roles   []string // optional role allow-list, implies Auth
	Status  int      // success status, default 200
	Handler func(c *gin.Context, id auth.Identity, in *I) (O, error)
}

// identify enforces Auth/Roles. It reports false after aborting.
func identify(c *gin.Context, needAuth bool, roles []string) (auth.Identity, bool) {
	id, ok := mdw.IdentityFrom(c)
	if !needAuth && len(roles) == 0 {
		return id, true
	}
	if !ok {
		resp.Abort(c, http.StatusUnauthorized, "authentication credentials were not provided")
		return id, false
	}
	if len(roles) > 0 && !slices.Contains(roles, id.Role) {
		resp.Abort(c, http.StatusForbidden, "you do not have permission to perform this action")
		return id, false
	}
	return id, true
}

func Register[I any, O any](e EZ, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}
	h := func(c *gin.Context) {
		id, ok := identify(c, a.Auth, a.Roles)
		if !ok {
			return
		}
		var in I
		if err := bind(c, a.Binder, &in); err != nil {
			WriteError(c, e.log, err)
			return
		}
		out, err := a.Handler(c, id, &in)
		if err != nil {
			WriteError(c, e.log, err)
			return
		}
		resp.Write(c, status, out)
	}
	e.g.Handle(strings.ToUpper(orDefault(a.Method, http.MethodPost)), a.Path, h)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
