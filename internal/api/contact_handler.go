package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MdFayaz7/portfolio1/internal/content"
)

// ContactHandler serves the contact form and the admin inbox.
type ContactHandler struct {
	messages *content.MessageService
}

func NewContactHandler(messages *content.MessageService) *ContactHandler {
	return &ContactHandler{messages: messages}
}

// Create stores a public submission. Notification happens out of band.
func (h *ContactHandler) Create(c *gin.Context) {
	var in content.MessageInput
	if err := bind(c, &in, nil); err != nil {
		fail(c, err)
		return
	}
	m, err := h.messages.Create(c.Request.Context(), in, content.Origin{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, "Thank you for your message! I'll get back to you soon.", gin.H{"messageId": m.ID})
}

func (h *ContactHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	items, pagination, err := h.messages.List(c.Request.Context(), c.Query("status"), page, limit)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "", gin.H{"messages": items, "pagination": pagination})
}

// Get returns one message under the "message" key and marks it read.
func (h *ContactHandler) Get(c *gin.Context) {
	m, err := h.messages.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": m})
}

type statusRequest struct {
	Status string `json:"status" form:"status" binding:"required"`
}

var statusMessages = map[string]fieldMessage{
	"Status": {field: "status", message: "Status must be one of new, read, replied"},
}

func (h *ContactHandler) SetStatus(c *gin.Context) {
	var req statusRequest
	if err := bind(c, &req, statusMessages); err != nil {
		fail(c, err)
		return
	}
	m, err := h.messages.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": m})
}

func (h *ContactHandler) Delete(c *gin.Context) {
	if err := h.messages.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "Message deleted successfully", nil)
}
