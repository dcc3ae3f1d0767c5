package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MdFayaz7/portfolio1/internal/errcode"
	"github.com/MdFayaz7/portfolio1/internal/upload"
)

const maxFilesPerUpload = 5

// UploadHandler exposes the raw upload utility endpoints.
type UploadHandler struct {
	uploader *upload.Uploader
}

func NewUploadHandler(uploader *upload.Uploader) *UploadHandler {
	return &UploadHandler{uploader: uploader}
}

func (h *UploadHandler) Single(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		fail(c, errcode.Rejected("No file uploaded"))
		return
	}
	stored, err := h.uploader.Store(c.Request.Context(), fh, "file", upload.AssetPolicy)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "File uploaded successfully", gin.H{"file": stored})
}

func (h *UploadHandler) Multiple(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		fail(c, errcode.Wrap(errcode.Validation, "Invalid multipart form", err))
		return
	}
	if form == nil || len(form.File["files"]) == 0 {
		fail(c, errcode.Rejected("No files uploaded"))
		return
	}
	headers := form.File["files"]
	if len(headers) > maxFilesPerUpload {
		fail(c, errcode.Rejected("Too many files (max 5)"))
		return
	}

	files := make([]upload.File, 0, len(headers))
	for _, fh := range headers {
		stored, err := h.uploader.Store(c.Request.Context(), fh, "files", upload.AssetPolicy)
		if err != nil {
			fail(c, err)
			return
		}
		files = append(files, stored)
	}
	ok(c, http.StatusOK, "Files uploaded successfully", gin.H{"files": files})
}

func (h *UploadHandler) Profile(c *gin.Context) {
	fh, err := c.FormFile("profilePicture")
	if err != nil {
		fail(c, errcode.Rejected("No profile picture uploaded"))
		return
	}
	stored, err := h.uploader.Store(c.Request.Context(), fh, "profilePicture", upload.ImagePolicy)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "Profile picture uploaded successfully", gin.H{"profilePicture": stored})
}
