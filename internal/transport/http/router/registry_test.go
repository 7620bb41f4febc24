package router

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"roomhub/internal/transport/http/ez"
)

type probe struct {
	name  string
	prio  int
	trail *[]string
}

func (p probe) Priority() int { return p.prio }
func (p probe) MountAPI(_, _ ez.EZ) { *p.trail = append(*p.trail, "api:"+p.name) }
func (p probe) MountAdmin(_ ez.EZ) { *p.trail = append(*p.trail, "admin:"+p.name) }

type apiOnly struct{ trail *[]string }

func (a apiOnly) MountAPI(_, _ ez.EZ) { *a.trail = append(*a.trail, "api:plain") }

func TestRegistryOrdersByPriority(t *testing.T) {
	var trail []string
	reg := (&Registry{}).Register(
		apiOnly{trail: &trail},
		probe{name: "late", prio: 200, trail: &trail},
		probe{name: "early", prio: 1, trail: &trail},
		"not a module",
	)

	reg.MountAPI(ez.EZ{}, ez.EZ{})
	reg.MountAdmin(ez.EZ{})

	assert.Equal(t, []string{"api:early", "api:plain", "api:late", "admin:early", "admin:late"}, trail)
}
