package api

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/MdFayaz7/portfolio1/internal/content"
	"github.com/MdFayaz7/portfolio1/internal/errcode"
	"github.com/MdFayaz7/portfolio1/internal/storage"
	"github.com/MdFayaz7/portfolio1/internal/upload"
)

// ProfileHandler serves the profile singleton and the resume download.
type ProfileHandler struct {
	profiles *content.ProfileService
	uploader *upload.Uploader
	files    storage.ObjectStore
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(profiles *content.ProfileService, uploader *upload.Uploader, files storage.ObjectStore) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, uploader: uploader, files: files}
}

func (h *ProfileHandler) Get(c *gin.Context) {
	profile, err := h.profiles.Get(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "", gin.H{"profile": profile})
}

// Resume streams the uploaded resume as an attachment.
func (h *ProfileHandler) Resume(c *gin.Context) {
	ctx := c.Request.Context()
	ref, err := h.profiles.ResumePath(ctx)
	if err != nil {
		fail(c, err)
		return
	}

	name := storage.NameFromPath(ref)
	if !storage.ValidName(name) {
		fail(c, errcode.Missing("Resume file not found"))
		return
	}
	obj, err := h.files.Open(ctx, name)
	if errors.Is(err, storage.ErrNotExist) {
		fail(c, errcode.Missing("Resume file not found"))
		return
	}
	if err != nil {
		fail(c, errcode.Wrap(errcode.Internal, "Server error while downloading resume", err))
		return
	}
	defer obj.Close()

	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, obj.Size, contentType, obj, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", name),
	})
}

// profileFileFields maps multipart file fields to the profile reference they set.
var profileFileFields = []string{"profilePicture", "resume", "homeImage", "aboutImage"}

// Update accepts JSON or multipart; multipart may carry up to four files.
func (h *ProfileHandler) Update(c *gin.Context) {
	var in content.ProfileInput
	if err := bind(c, &in, nil); err != nil {
		fail(c, err)
		return
	}
	if err := in.Check(); err != nil {
		fail(c, err)
		return
	}

	for _, field := range profileFileFields {
		fh, err := optionalFile(c, field)
		if err != nil {
			fail(c, err)
			return
		}
		if fh == nil {
			continue
		}
		stored, err := h.uploader.Store(c.Request.Context(), fh, field, upload.AssetPolicy)
		if err != nil {
			fail(c, err)
			return
		}
		path := stored.Path
		switch field {
		case "profilePicture":
			in.ProfilePicture = &path
		case "resume":
			in.ResumeURL = &path
		case "homeImage":
			in.HomeImage = &path
		case "aboutImage":
			in.AboutImage = &path
		}
	}

	profile, err := h.profiles.Update(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "Profile updated successfully", gin.H{"profile": profile})
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// optionalFile returns the named file part, or nil when the request carries none.
func optionalFile(c *gin.Context, field string) (*multipart.FileHeader, error) {
	if !isMultipart(c) {
		return nil, nil
	}
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, errcode.Wrap(errcode.Validation, "Invalid multipart form", err)
	}
	return fh, nil
}
