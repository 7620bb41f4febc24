package ez

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"roomhub/internal/core/auth"
	resp "roomhub/internal/transport/http/response"
)

// CrudService is an owner-scoped resource. Every call carries the caller's
// identity; rows outside it must behave as missing.
type CrudService[In any, Out any] interface {
	List(ctx context.Context, id auth.Identity) ([]Out, error)
	Get(ctx context.Context, id auth.Identity, key uint) (Out, error)
	Create(ctx context.Context, id auth.Identity, in *In) (Out, error)
	Update(ctx context.Context, id auth.Identity, key uint, in *In) (Out, error)
	Delete(ctx context.Context, id auth.Identity, key uint) error
}

type CrudConfig[In any, Out any] struct {
	Path    string
	Service CrudService[In, Out]
	// Bind fills In for create and update; default is JSON.
	Bind func(c *gin.Context, in *In) error
}

// Crud mounts list/get/create/update/delete for cfg.Path on an authenticated group.
func Crud[In any, Out any](e EZ, cfg CrudConfig[In, Out]) {
	bindIn := cfg.Bind
	if bindIn == nil {
		bindIn = func(c *gin.Context, in *In) error { return bind(c, BindJSON, in) }
	}
	svc := cfg.Service
	item := cfg.Path + "/:id"

	withID := func(fn func(c *gin.Context, id auth.Identity, key uint)) gin.HandlerFunc {
		return func(c *gin.Context) {
			id, ok := identify(c, true, nil)
			if !ok {
				return
			}
			key, err := strconv.ParseUint(c.Param("id"), 10, 64)
			if err != nil || key == 0 {
				resp.Abort(c, http.StatusNotFound, "not found")
				return
			}
			fn(c, id, uint(key))
		}
	}
	missingID := func(c *gin.Context) {
		if _, ok := identify(c, true, nil); ok {
			resp.Abort(c, http.StatusBadRequest, "id required")
		}
	}

	e.g.GET(cfg.Path, func(c *gin.Context) {
		id, ok := identify(c, true, nil)
		if !ok {
			return
		}
		items, err := svc.List(c.Request.Context(), id)
		if err != nil {
			WriteError(c, e.log, err)
			return
		}
		resp.Write(c, http.StatusOK, resp.NewList(items))
	})

	e.g.GET(item, withID(func(c *gin.Context, id auth.Identity, key uint) {
		out, err := svc.Get(c.Request.Context(), id, key)
		if err != nil {
			WriteError(c, e.log, err)
			return
		}
		resp.Write(c, http.StatusOK, out)
	}))

	e.g.POST(cfg.Path, func(c *gin.Context) {
		id, ok := identify(c, true, nil)
		if !ok {
			return
		}
		var in In
		if err := bindIn(c, &in); err != nil {
			WriteError(c, e.log, err)
			return
		}
		out, err := svc.Create(c.Request.Context(), id, &in)
		if err != nil {
			WriteError(c, e.log, err)
			return
		}
		resp.Write(c, http.StatusCreated, out)
	})

	update := withID(func(c *gin.Context, id auth.Identity, key uint) {
		var in In
		if err := bindIn(c, &in); err != nil {
			WriteError(c, e.log, err)
			return
		}
		out, err := svc.Update(c.Request.Context(), id, key, &in)
		if err != nil {
			WriteError(c, e.log, err)
			return
		}
		resp.Write(c, http.StatusOK, out)
	})
	e.g.PUT(item, update)
	e.g.PATCH(item, update)

	e.g.DELETE(item, withID(func(c *gin.Context, id auth.Identity, key uint) {
		if err := svc.Delete(c.Request.Context(), id, key); err != nil {
			WriteError(c, e.log, err)
			return
		}
		resp.Write(c, http.StatusOK, gin.H{"id": key})
	}))

	e.g.PUT(cfg.Path, missingID)
	e.g.PATCH(cfg.Path, missingID)
	e.g.DELETE(cfg.Path, missingID)
}
