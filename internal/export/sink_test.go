package export

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goatkit/novadmin/internal/dateutil"
)

func TestDirSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	sink := NewDirSink(dir)

	err := sink.Save(context.Background(), File{Name: "../escape/users.csv", Data: []byte("a,b\n")})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "users.csv"))
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not remain")
}

func TestDirSinkPath(t *testing.T) {
	sink := NewDirSink("/srv/exports")

	p, ok := sink.Path("../escape/users.csv")
	require.True(t, ok)
	assert.Equal(t, filepath.Join("/srv/exports", "users.csv"), p)

	for _, name := range []string{"", ".", "..", "/"} {
		_, ok := sink.Path(name)
		assert.False(t, ok, name)
	}
}

func TestDirSinkOverwrites(t *testing.T) {
	dir := t.TempDir()
	sink := NewDirSink(dir)
	ctx := context.Background()

	require.NoError(t, sink.Save(ctx, File{Name: "x.json", Data: []byte("[1]")}))
	require.NoError(t, sink.Save(ctx, File{Name: "x.json", Data: []byte("[2]")}))

	data, err := os.ReadFile(filepath.Join(dir, "x.json"))
	require.NoError(t, err)
	assert.Equal(t, "[2]", string(data))
}

func TestDirSinkRenameFailureCleansUp(t *testing.T) {
	dir := t.TempDir()
	// A directory in the way makes the final rename fail.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "busy.csv"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "busy.csv", "keep"), []byte("x"), 0o644))

	err := NewDirSink(dir).Save(context.Background(), File{Name: "busy.csv", Data: []byte("x")})
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestHTTPSink(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	err := NewHTTPSink(c).Save(context.Background(), File{
		Name:        "用户.csv",
		ContentType: ContentTypeCSV,
		Data:        []byte("a\n"),
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ContentTypeCSV, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Equal(t, "a\n", w.Body.String())
}

func TestColumnHelpers(t *testing.T) {
	prev := dateutil.Default()
	t.Cleanup(func() { dateutil.SetDefault(prev) })
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	dateutil.SetDefault(dateutil.New(
		dateutil.WithLocation(time.UTC),
		dateutil.WithClock(func() time.Time { return now }),
	))

	rec := Record{
		"created": "2024-03-05T14:07:09Z",
		"seen":    now.Add(-3 * time.Hour),
		"status":  "BANNED",
		"level":   "urgent",
		"body":    "<p>Great <b>chapter</b> &amp; plot</p><script>alert(1)</script>",
	}

	assert.Equal(t, "2024/03/05", CellText(DateColumn("created", "创建时间", "YYYY/MM/DD"), rec))
	assert.Equal(t, "", CellText(DateColumn("missing", "x", ""), rec))
	assert.Equal(t, "3小时前", CellText(RelativeTimeColumn("seen", "最近"), rec))
	assert.Equal(t, "已封禁", CellText(StatusColumn("status", "状态", "USER"), rec))
	assert.Equal(t, "紧急", CellText(PriorityColumn("level", "优先级"), rec))
	assert.Equal(t, "Great chapter & plot", CellText(PlainTextColumn("body", "内容"), rec))
}

func TestCellText(t *testing.T) {
	rec := Record{
		"n":    nil,
		"f":    1.5,
		"tags": []interface{}{"a", "b"},
		"at":   time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	assert.Equal(t, "", CellText(Column{Key: "n"}, rec))
	assert.Equal(t, "1.5", CellText(Column{Key: "f"}, rec))
	assert.Equal(t, `["a","b"]`, CellText(Column{Key: "tags"}, rec))
	assert.Equal(t, "2024-01-02 03:04:05", CellText(Column{Key: "at"}, rec))
}
