package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MdFayaz7/portfolio1/internal/content"
	"github.com/MdFayaz7/portfolio1/internal/upload"
)

// ProjectHandler exposes the project showcase.
type ProjectHandler struct {
	projects *content.ProjectService
	uploader *upload.Uploader
}

func NewProjectHandler(projects *content.ProjectService, uploader *upload.Uploader) *ProjectHandler {
	return &ProjectHandler{projects: projects, uploader: uploader}
}

// List supports ?featured=true.
func (h *ProjectHandler) List(c *gin.Context) {
	items, err := h.projects.List(c.Request.Context(), c.Query("featured") == "true")
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "", gin.H{"projects": items})
}

func (h *ProjectHandler) Get(c *gin.Context) {
	p, err := h.projects.GetActive(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "", gin.H{"project": p})
}

// bindProject decodes and checks the fields, then stores an optional "image"
// file part.
func (h *ProjectHandler) bindProject(c *gin.Context, create bool) (content.ProjectInput, error) {
	var in content.ProjectInput
	if err := bind(c, &in, nil); err != nil {
		return in, err
	}
	if err := in.CheckFields(create); err != nil {
		return in, err
	}
	fh, err := optionalFile(c, "image")
	if err != nil || fh == nil {
		return in, err
	}
	stored, err := h.uploader.Store(c.Request.Context(), fh, "project", upload.ProjectImagePolicy)
	if err != nil {
		return in, err
	}
	in.Image = &stored.Path
	return in, nil
}

func (h *ProjectHandler) Create(c *gin.Context) {
	in, err := h.bindProject(c, true)
	if err != nil {
		fail(c, err)
		return
	}
	p, err := h.projects.Create(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, "Project created successfully", gin.H{"project": p})
}

func (h *ProjectHandler) Update(c *gin.Context) {
	in, err := h.bindProject(c, false)
	if err != nil {
		fail(c, err)
		return
	}
	p, err := h.projects.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "Project updated successfully", gin.H{"project": p})
}

func (h *ProjectHandler) ToggleFeatured(c *gin.Context) {
	p, err := h.projects.ToggleFeatured(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	state := "unfeatured"
	if p.Featured {
		state = "featured"
	}
	ok(c, http.StatusOK, "Project "+state+" successfully", gin.H{"project": p})
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.projects.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "Project deleted successfully", nil)
}
