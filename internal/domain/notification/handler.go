package notification

import (
	"errors"
	"log/slog"
	"net/http"

	"notifyme/internal/common"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for the notification domain.
type Handler struct {
	service *Service
}

// NewHandler creates a new notification handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Send handles POST /api/notify.
// The response reports that a record was created and processed; a delivery
// failure still answers success=true, queryable afterwards as a FAILED record.
func (h *Handler) Send(c *gin.Context) {
	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, SendResponse{
			Success: false,
			Message: "invalid request body: " + err.Error(),
		})
		return
	}

	n, err := h.service.Dispatch(c.Request.Context(), &req)
	if err != nil {
		slog.Error("dispatch failed",
			"template_id", req.TemplateID,
			"to", req.Recipient,
			"error", err,
		)

		status := http.StatusInternalServerError
		var validation *common.ValidationError
		if errors.As(err, &validation) {
			status = http.StatusBadRequest
		}
		c.JSON(status, SendResponse{Success: false, Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, SendResponse{
		Success:        true,
		NotificationID: n.ID,
		Message:        "Notification sent successfully",
	})
}

// List handles GET /api/notifications with an optional ?status= filter.
func (h *Handler) List(c *gin.Context) {
	views, err := h.service.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// Get handles GET /api/notifications/:id
func (h *Handler) Get(c *gin.Context) {
	view, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Stats handles GET /api/dashboard/stats
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		common.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
