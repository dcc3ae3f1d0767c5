package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MdFayaz7/portfolio1/internal/api/middleware"
	"github.com/MdFayaz7/portfolio1/internal/storage"
)

// placeholderSVG is served instead of a 404 so broken references still render.
const placeholderSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="400" height="300" viewBox="0 0 400 300">` +
	`<rect width="400" height="300" fill="#E5E7EB"/>` +
	`<text x="200" y="155" font-family="sans-serif" font-size="18" fill="#6B7280" text-anchor="middle">Image not available</text>` +
	`</svg>`

// FileHandler serves uploaded files to any origin.
type FileHandler struct {
	files storage.ObjectStore
}

func NewFileHandler(files storage.ObjectStore) *FileHandler {
	return &FileHandler{files: files}
}

func crossOriginHeaders(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "*")
	c.Header("Cross-Origin-Resource-Policy", "cross-origin")
}

// Preflight answers OPTIONS on the uploads path.
func (h *FileHandler) Preflight(c *gin.Context) {
	crossOriginHeaders(c)
	c.Status(http.StatusNoContent)
}

// Serve streams /uploads/:name, or the placeholder when the file is missing.
func (h *FileHandler) Serve(c *gin.Context) {
	crossOriginHeaders(c)

	name := c.Param("name")
	if !storage.ValidName(name) {
		h.placeholder(c)
		return
	}

	obj, err := h.files.Open(c.Request.Context(), name)
	if err != nil {
		if !errors.Is(err, storage.ErrNotExist) {
			middleware.LoggerFromContext(c).Error("open upload failed", "name", name, "error", err)
		}
		h.placeholder(c)
		return
	}
	defer obj.Close()

	if obj.ContentType != "" {
		c.Header("Content-Type", obj.ContentType)
	}
	c.Header("X-Content-Type-Options", "nosniff")
	if rs, ok := obj.ReadCloser.(io.ReadSeeker); ok {
		http.ServeContent(c.Writer, c.Request, name, obj.ModTime, rs)
		return
	}
	c.DataFromReader(http.StatusOK, obj.Size, obj.ContentType, obj, nil)
}

func (h *FileHandler) placeholder(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/svg+xml", []byte(placeholderSVG))
}
