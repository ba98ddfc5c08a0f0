package mockapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/goatkit/novadmin/internal/apierrors"
	"github.com/goatkit/novadmin/internal/dateutil"
	"github.com/goatkit/novadmin/internal/export"
	"github.com/goatkit/novadmin/internal/status"
)

// Column kinds accepted by the export endpoint.
const (
	columnValue    = ""
	columnDate     = "date"
	columnRelative = "relative"
	columnStatus   = "status"
	columnPriority = "priority"
	columnText     = "text"
)

type columnSpec struct {
	Key      string `json:"key"`
	Title    string `json:"title"`
	Type     string `json:"type"`
	Pattern  string `json:"pattern"`
	Category string `json:"category"`
}

type exportRequest struct {
	Filename string          `json:"filename"`
	Columns  []columnSpec    `json:"columns"`
	Data     []export.Record `json:"data"`
	// Range keeps only records whose DateKey falls in the named range.
	Range   string `json:"range"`
	DateKey string `json:"date_key"`
}

var errBadColumn = errors.New("bad column")

func buildColumns(specs []columnSpec) ([]export.Column, error) {
	cols := make([]export.Column, 0, len(specs))
	for _, sp := range specs {
		if strings.TrimSpace(sp.Key) == "" {
			return nil, errBadColumn
		}
		switch strings.ToLower(sp.Type) {
		case columnValue:
			cols = append(cols, export.Column{Key: sp.Key, Title: sp.Title})
		case columnDate:
			cols = append(cols, export.DateColumn(sp.Key, sp.Title, sp.Pattern))
		case columnRelative:
			cols = append(cols, export.RelativeTimeColumn(sp.Key, sp.Title))
		case columnStatus:
			category, ok := status.ParseCategory(sp.Category)
			if !ok {
				return nil, errBadColumn
			}
			cols = append(cols, export.StatusColumn(sp.Key, sp.Title, category))
		case columnPriority:
			cols = append(cols, export.PriorityColumn(sp.Key, sp.Title))
		case columnText:
			cols = append(cols, export.PlainTextColumn(sp.Key, sp.Title))
		default:
			return nil, errBadColumn
		}
	}
	return cols, nil
}

func filterByRange(data []export.Record, r dateutil.Range, key string) []export.Record {
	out := make([]export.Record, 0, len(data))
	for _, rec := range data {
		t, ok := dateutil.Parse(export.Value(rec, key))
		if ok && r.Contains(t) {
			out = append(out, rec)
		}
	}
	return out
}

func (s *Server) handleExport(c *gin.Context) {
	format, err := export.ParseFormat(c.Param("format"))
	if err != nil {
		apierrors.Error(c, apierrors.CodeUnknownFormat)
		return
	}

	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.Error(c, apierrors.CodeInvalidRequest)
		return
	}
	cols, err := buildColumns(req.Columns)
	if err != nil {
		apierrors.ErrorWithMessage(c, apierrors.CodeInvalidRequest, "Invalid column definition")
		return
	}

	data := req.Data
	if req.Range != "" {
		r, ok := dateutil.DateRange(req.Range)
		if !ok || req.DateKey == "" {
			apierrors.ErrorWithMessage(c, apierrors.CodeInvalidRequest, "Invalid date range filter")
			return
		}
		data = filterByRange(data, r, req.DateKey)
	}
	if len(data) == 0 {
		apierrors.Error(c, apierrors.CodeNoData)
		return
	}

	opts := []export.Option{
		export.WithLogger(s.logger),
		export.WithClock(s.now),
		export.WithSheetName(s.cfg.Export.SheetName),
	}

	if c.Query("save") == "true" {
		sink := export.NewDirSink(s.cfg.Export.Dir)
		if err := export.New(sink, opts...).Export(c.Request.Context(), format, data, cols, req.Filename); err != nil {
			s.logger.Printf("Export to %s failed: %v", s.cfg.Export.Dir, err)
			apierrors.Error(c, apierrors.CodeExportFailed)
			return
		}
		file, _ := sink.Path(export.Filename(req.Filename, format))
		sendSuccess(c, gin.H{
			"file":  file,
			"rows":  len(data),
			"saved": true,
		})
		return
	}

	if err := export.New(export.NewHTTPSink(c), opts...).Export(c.Request.Context(), format, data, cols, req.Filename); err != nil {
		s.logger.Printf("Export failed: %v", err)
		if !c.Writer.Written() {
			apierrors.Error(c, apierrors.CodeExportFailed)
		}
		return
	}
	if !c.Writer.Written() {
		c.Status(http.StatusNoContent)
	}
}
