package router

import (
	"sort"

	"roomhub/internal/transport/http/ez"
)

// APIModule mounts on /api/v1. public is anonymous, authed runs behind AuthJWT.
type APIModule interface{ MountAPI(public, authed ez.EZ) }

// AdminModule mounts on /admin/v1, which requires the admin role.
type AdminModule interface{ MountAdmin(admin ez.EZ) }

// Modules with a Priority mount in ascending order; the default is 100.
type prioritizer interface{ Priority() int }

type Registry struct {
	api   []APIModule
	admin []AdminModule
}

// Register files mod under every surface it implements.
func (r *Registry) Register(mods ...any) *Registry {
	for _, mod := range mods {
		if m, ok := mod.(APIModule); ok {
			r.api = append(r.api, m)
		}
		if m, ok := mod.(AdminModule); ok {
			r.admin = append(r.admin, m)
		}
	}
	return r
}

func (r *Registry) MountAPI(public, authed ez.EZ) {
	for _, m := range ordered(r.api) {
		m.MountAPI(public, authed)
	}
}

func (r *Registry) MountAdmin(admin ez.EZ) {
	for _, m := range ordered(r.admin) {
		m.MountAdmin(admin)
	}
}

func ordered[M any](mods []M) []M {
	out := append([]M(nil), mods...)
	sort.SliceStable(out, func(i, j int) bool {
		return priorityOf(out[i]) < priorityOf(out[j])
	})
	return out
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
