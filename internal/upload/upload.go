// Package upload validates multipart files and stores them under collision-free names.
package upload

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/MdFayaz7/portfolio1/internal/errcode"
	"github.com/MdFayaz7/portfolio1/internal/storage"
)

const mb = 1 << 20

// Policy bounds what a form field may carry.
type Policy struct {
	MaxBytes int64
	AllowPDF bool
}

var (
	// AssetPolicy covers profile assets and the generic upload endpoints.
	AssetPolicy = Policy{MaxBytes: 10 * mb, AllowPDF: true}
	// ImagePolicy is AssetPolicy restricted to images.
	ImagePolicy = Policy{MaxBytes: 10 * mb}
	// ProjectImagePolicy applies to project images.
	ProjectImagePolicy = Policy{MaxBytes: 5 * mb}
)

func (p Policy) allows(mimeType string) bool {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	if strings.HasPrefix(mimeType, "image/") {
		return true
	}
	return p.AllowPDF && mimeType == "application/pdf"
}

func (p Policy) rejectType() *errcode.Error {
	if p.AllowPDF {
		return errcode.Rejected("Only image and PDF files are allowed!")
	}
	return errcode.Rejected("Only image files are allowed")
}

// File describes a stored upload.
type File struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Path         string `json:"path"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mimetype"`
}

// Scanner inspects content for malware. A nil Scanner disables scanning.
type Scanner interface {
	Scan(ctx context.Context, r io.Reader) error
}

// Uploader stores validated files into an object store.
type Uploader struct {
	store   storage.ObjectStore
	scanner Scanner
	logger  *slog.Logger
	now     func() time.Time
}

// NewUploader returns an Uploader. scanner may be nil.
func NewUploader(store storage.ObjectStore, scanner Scanner, logger *slog.Logger) *Uploader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Uploader{store: store, scanner: scanner, logger: logger, now: time.Now}
}

// Store validates fh against policy and writes it as <field>-<unixms>-<random><ext>.
func (u *Uploader) Store(ctx context.Context, fh *multipart.FileHeader, field string, policy Policy) (File, error) {
	if fh == nil {
		return File{}, errcode.Rejected("No file uploaded")
	}
	if fh.Size > policy.MaxBytes {
		return File{}, errcode.Rejected(fmt.Sprintf("File too large (max %dMB)", policy.MaxBytes/mb))
	}

	declared := fh.Header.Get("Content-Type")
	if !policy.allows(declared) {
		return File{}, policy.rejectType()
	}

	f, err := fh.Open()
	if err != nil {
		return File{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	detected, err := mimetype.DetectReader(f)
	if err != nil {
		return File{}, fmt.Errorf("sniff upload: %w", err)
	}
	if !policy.allows(detected.String()) {
		u.logger.Warn("upload content does not match declared type",
			slog.String("field", field),
			slog.String("declared", declared),
			slog.String("detected", detected.String()),
		)
		return File{}, policy.rejectType()
	}

	if u.scanner != nil {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return File{}, fmt.Errorf("rewind upload: %w", err)
		}
		if err := u.scanner.Scan(ctx, f); err != nil {
			return File{}, err
		}
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return File{}, fmt.Errorf("rewind upload: %w", err)
	}

	name := u.filename(field, fh.Filename, detected)
	if err := u.store.Put(ctx, name, f, fh.Size, declared); err != nil {
		return File{}, fmt.Errorf("store upload: %w", err)
	}

	return File{
		Filename:     name,
		OriginalName: fh.Filename,
		Path:         "/uploads/" + name,
		Size:         fh.Size,
		MimeType:     declared,
	}, nil
}

func (u *Uploader) filename(field, original string, detected *mimetype.MIME) string {
	ext := strings.ToLower(filepath.Ext(original))
	if !cleanExt(ext) {
		ext = detected.Extension()
	}
	return fmt.Sprintf("%s-%d-%d%s", cleanField(field), u.now().UnixMilli(), rand.Int64N(1e9), ext)
}

func cleanExt(ext string) bool {
	if len(ext) < 2 || len(ext) > 8 || ext[0] != '.' {
		return false
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

func cleanField(field string) string {
	var b strings.Builder
	for _, r := range field {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}
