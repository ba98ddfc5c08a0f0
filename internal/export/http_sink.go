package export

import (
	"context"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HTTPSink sends the file as an attachment on a gin response.
type HTTPSink struct {
	c *gin.Context
}

// NewHTTPSink wraps the request context c.
func NewHTTPSink(c *gin.Context) *HTTPSink {
	return &HTTPSink{c: c}
}

// Save writes f as the response body.
func (s *HTTPSink) Save(ctx context.Context, f File) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": f.Name})
	if disposition == "" {
		disposition = "attachment; filename=" + DefaultFilename
	}
	s.c.Header("Content-Disposition", disposition)
	s.c.Data(http.StatusOK, f.ContentType, f.Data)
	return nil
}
