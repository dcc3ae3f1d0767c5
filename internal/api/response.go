package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/MdFayaz7/portfolio1/internal/api/middleware"
	"github.com/MdFayaz7/portfolio1/internal/errcode"
)

// ok writes a success envelope. body may be nil.
func ok(c *gin.Context, status int, message string, body gin.H) {
	out := gin.H{"success": true}
	if message != "" {
		out["message"] = message
	}
	for k, v := range body {
		out[k] = v
	}
	c.JSON(status, out)
}

// fail renders err as an error envelope. Unclassified errors become 500s and
// their cause is only exposed outside release mode.
func fail(c *gin.Context, err error) {
	e, classified := errcode.From(err)
	if !classified {
		e = errcode.Wrap(errcode.Internal, "Server error", err)
	}
	status := e.Kind.HTTPStatus()

	body := gin.H{"success": false, "message": e.Message}
	if len(e.Fields) > 0 {
		body["errors"] = e.Fields
	}
	if status >= http.StatusInternalServerError {
		middleware.LoggerFromContext(c).Error("request failed",
			slog.String("message", e.Message),
			slog.Any("error", e.Err),
		)
		if gin.Mode() != gin.ReleaseMode && e.Err != nil {
			body["error"] = e.Err.Error()
		}
	}
	c.AbortWithStatusJSON(status, body)
}

// fieldMessage maps a bound struct field to its wire name and message.
type fieldMessage struct {
	field   string
	message string
}

// bind decodes the request body by content type. Validation failures on
// binding tags are reported with the provided messages.
func bind(c *gin.Context, dst any, messages map[string]fieldMessage) error {
	err := c.ShouldBind(dst)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]errcode.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			m, ok := messages[fe.Field()]
			if !ok {
				m = fieldMessage{field: lowerFirst(fe.Field()), message: fe.Field() + " is invalid"}
			}
			fields = append(fields, errcode.FieldError{Field: m.field, Message: m.message})
		}
		return errcode.Invalid(fields...)
	}
	if errors.Is(err, io.EOF) {
		return errcode.New(errcode.Validation, "Request body is required")
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return errcode.New(errcode.Validation, "Request body too large")
	}
	return errcode.Wrap(errcode.Validation, "Invalid request body", err)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
