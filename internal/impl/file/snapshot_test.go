package file

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Durun/ytsnap/internal/entity"
)

func ptr(s string) *string { return &s }

func fixedWriter(t *testing.T, now time.Time, loc *time.Location) *SnapshotWriter {
	t.Helper()

	w := NewSnapshotWriter(filepath.Join(t.TempDir(), "data"), DefaultPrefix, loc)
	w.Now = func() time.Time { return now }
	return w
}

func TestSnapshotWriter_RoundTrip(t *testing.T) {
	t.Parallel()

	records := []entity.VideoRecord{
		{
			VideoID:      "a",
			Title:        ptr("café <b>&</b>"),
			PublishedAt:  ptr("2024-05-01T10:00:00Z"),
			Duration:     ptr("PT10M"),
			ViewCount:    ptr("100"),
			LikeCount:    nil,
			CommentCount: ptr("0"),
		},
		{VideoID: "b"},
	}

	w := fixedWriter(t, time.Date(2025, 12, 12, 10, 0, 0, 0, time.UTC), time.UTC)
	path, err := w.WriteSnapshot(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(w.Dir, "YT_data_2025-12-12.json"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"title": "café <b>&</b>"`)
	assert.NotContains(t, string(raw), `\u00e9`)
	assert.Contains(t, string(raw), `"likeCount": null`)
	assert.True(t, strings.HasPrefix(string(raw), "[\n    {\n        \"video_id\": \"a\",\n"), "4-space indent:\n%s", raw)

	got, err := ReadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestSnapshotWriter_KeyOrder(t *testing.T) {
	t.Parallel()

	w := fixedWriter(t, time.Now(), time.UTC)
	path, err := w.WriteSnapshot(context.Background(), []entity.VideoRecord{{VideoID: "a"}})
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	keys := []string{"video_id", "title", "publishedAt", "duration", "viewCount", "likeCount", "commentCount"}
	last := -1
	for _, key := range keys {
		i := bytes.Index(raw, []byte(`"`+key+`"`))
		require.Greater(t, i, last, "key %s out of order", key)
		last = i
	}
}

func TestSnapshotWriter_Empty(t *testing.T) {
	t.Parallel()

	w := fixedWriter(t, time.Now(), time.UTC)
	path, err := w.WriteSnapshot(context.Background(), nil)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(string(raw)))
}

func TestSnapshotWriter_Truncates(t *testing.T) {
	t.Parallel()

	w := fixedWriter(t, time.Now(), time.UTC)
	_, err := w.WriteSnapshot(context.Background(), []entity.VideoRecord{{VideoID: "a"}, {VideoID: "b"}})
	require.NoError(t, err)
	path, err := w.WriteSnapshot(context.Background(), []entity.VideoRecord{{VideoID: "c"}})
	require.NoError(t, err)

	got, err := ReadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, []entity.VideoRecord{{VideoID: "c"}}, got)
}

func TestSnapshotWriter_DateUsesLocation(t *testing.T) {
	t.Parallel()

	jakarta := time.FixedZone("WIB", 7*60*60)
	w := fixedWriter(t, time.Date(2025, 12, 12, 20, 0, 0, 0, time.UTC), jakarta)
	assert.Equal(t, "2025-12-13", w.Date())
}

func TestSnapshotWriter_WriteFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	blocker := filepath.Join(dir, "data")
	require.NoError(t, os.WriteFile(blocker, []byte("not a directory"), 0o644))

	w := NewSnapshotWriter(blocker, DefaultPrefix, time.UTC)
	_, err := w.WriteSnapshot(context.Background(), []entity.VideoRecord{{VideoID: "a"}})
	assert.Error(t, err)
}

func TestWriteJSONs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := WriteJSONs(json.NewEncoder(&buf), []entity.VideoRecord{{VideoID: "a"}, {VideoID: "b"}})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], `{"video_id":"b"`))
}
