package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MdFayaz7/portfolio1/internal/content"
)

// EducationHandler exposes the education timeline.
type EducationHandler struct {
	education *content.EducationService
}

func NewEducationHandler(education *content.EducationService) *EducationHandler {
	return &EducationHandler{education: education}
}

func (h *EducationHandler) List(c *gin.Context) {
	items, err := h.education.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "", gin.H{"education": items})
}

func (h *EducationHandler) Create(c *gin.Context) {
	var in content.EducationInput
	if err := bind(c, &in, nil); err != nil {
		fail(c, err)
		return
	}
	e, err := h.education.Create(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, "Education entry created successfully", gin.H{"education": e})
}

func (h *EducationHandler) Update(c *gin.Context) {
	var in content.EducationInput
	if err := bind(c, &in, nil); err != nil {
		fail(c, err)
		return
	}
	e, err := h.education.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "Education entry updated successfully", gin.H{"education": e})
}

func (h *EducationHandler) Delete(c *gin.Context) {
	if err := h.education.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "Education entry deleted successfully", nil)
}
