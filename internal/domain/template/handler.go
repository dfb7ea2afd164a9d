package template

import (
	"net/http"

	"notifyme/internal/common"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for the template domain.
type Handler struct {
	service *Service
}

// NewHandler creates a new template handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /api/templates
func (h *Handler) List(c *gin.Context) {
	templates, err := h.service.List(c.Request.Context())
	if err != nil {
		common.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, templates)
}

// Get handles GET /api/templates/:id
func (h *Handler) Get(c *gin.Context) {
	tmpl, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, tmpl)
}

// Create handles POST /api/templates
func (h *Handler) Create(c *gin.Context) {
	var req UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	tmpl, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, tmpl)
}

// Update handles PUT /api/templates/:id
func (h *Handler) Update(c *gin.Context) {
	var req UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	tmpl, err := h.service.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, tmpl)
}

// Delete handles DELETE /api/templates/:id
func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		common.HandleError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// RegisterRoutes registers template CRUD routes on the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.POST("", h.Create)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}
