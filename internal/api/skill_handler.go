package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MdFayaz7/portfolio1/internal/content"
)

// SkillHandler exposes the skills grid.
type SkillHandler struct {
	skills *content.SkillService
}

func NewSkillHandler(skills *content.SkillService) *SkillHandler {
	return &SkillHandler{skills: skills}
}

// List returns the skills both flat and grouped by category.
func (h *SkillHandler) List(c *gin.Context) {
	items, err := h.skills.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "", gin.H{"skills": items, "skillsByCategory": content.ByCategory(items)})
}

func (h *SkillHandler) Create(c *gin.Context) {
	var in content.SkillInput
	if err := bind(c, &in, nil); err != nil {
		fail(c, err)
		return
	}
	sk, err := h.skills.Create(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, "Skill created successfully", gin.H{"skill": sk})
}

func (h *SkillHandler) Update(c *gin.Context) {
	var in content.SkillInput
	if err := bind(c, &in, nil); err != nil {
		fail(c, err)
		return
	}
	sk, err := h.skills.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "Skill updated successfully", gin.H{"skill": sk})
}

func (h *SkillHandler) Delete(c *gin.Context) {
	if err := h.skills.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "Skill deleted successfully", nil)
}
