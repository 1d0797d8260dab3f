// Package handler exposes a content service over REST routes.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/khanhtoandng/me-sub001/internal/content"
	"github.com/khanhtoandng/me-sub001/internal/content/service"
	"github.com/khanhtoandng/me-sub001/pkg/metrics"
	"github.com/khanhtoandng/me-sub001/pkg/response"
)

// Handler serves the CRUD routes of one schema.
type Handler[T content.Entity] struct {
	svc    *service.Service[T]
	schema content.Schema[T]
}

func New[T content.Entity](svc *service.Service[T]) *Handler[T] {
	return &Handler[T]{svc: svc, schema: svc.Schema()}
}

// Register mounts the routes under rg/<schema path>. Reads are public; the
// write middleware chain guards POST, PUT and DELETE.
func (h *Handler[T]) Register(rg *gin.RouterGroup, write ...gin.HandlerFunc) {
	g := rg.Group("/" + h.schema.Path)
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.POST("", chain(write, h.create)...)
	g.PUT("/:id", chain(write, h.update)...)
	g.DELETE("/:id", chain(write, h.delete)...)
}

func chain(mw []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(mw)+1)
	return append(append(out, mw...), h)
}

// Register wires a schema to a service and mounts it in one call.
func Register[T content.Entity](rg *gin.RouterGroup, svc *service.Service[T], write ...gin.HandlerFunc) {
	New(svc).Register(rg, write...)
}

func (h *Handler[T]) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), c.Request.URL.Query())
	h.record("list", err)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, http.StatusOK, items)
}

func (h *Handler[T]) get(c *gin.Context) {
	item, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	h.record("get", err)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, item)
}

func (h *Handler[T]) create(c *gin.Context) {
	in := h.schema.New()
	if err := c.ShouldBindJSON(in); err != nil {
		h.record("create", content.NewValidationError("", "invalid JSON body"))
		response.Fail(c, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	item, err := h.svc.Create(c.Request.Context(), in)
	h.record("create", err)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusCreated, item)
}

func (h *Handler[T]) update(c *gin.Context) {
	in := h.schema.New()
	if err := c.ShouldBindJSON(in); err != nil {
		h.record("update", content.NewValidationError("", "invalid JSON body"))
		response.Fail(c, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	item, err := h.svc.Update(c.Request.Context(), c.Param("id"), in)
	h.record("update", err)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, item)
}

func (h *Handler[T]) delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	h.record("delete", err)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Envelope{Success: true})
}

func (h *Handler[T]) fail(c *gin.Context, err error) {
	if errors.Is(err, content.ErrNotFound) {
		response.Fail(c, http.StatusNotFound, h.schema.Name+" not found")
		return
	}
	response.FromError(c, err)
}

func (h *Handler[T]) record(op string, err error) {
	outcome := "ok"
	var verr *content.ValidationError
	switch {
	case err == nil:
	case errors.Is(err, content.ErrNotFound):
		outcome = "not_found"
	case errors.As(err, &verr):
		outcome = "invalid"
	default:
		outcome = "error"
	}
	metrics.ContentOperations.WithLabelValues(h.schema.Collection, op, outcome).Inc()
}
