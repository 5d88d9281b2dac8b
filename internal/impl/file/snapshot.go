package file

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/Durun/ytsnap/internal/entity"
)

const (
	DefaultDir    = "./data"
	DefaultPrefix = "YT_data_"
)

// SnapshotWriter writes the records of a run to <Dir>/<Prefix><date>.json,
// the date being taken from Now in Location.
type SnapshotWriter struct {
	Dir      string
	Prefix   string
	Location *time.Location
	Now      func() time.Time
}

func NewSnapshotWriter(dir, prefix string, loc *time.Location) *SnapshotWriter {
	if dir == "" {
		dir = DefaultDir
	}
	if loc == nil {
		loc = time.Local
	}
	return &SnapshotWriter{
		Dir:      dir,
		Prefix:   prefix,
		Location: loc,
		Now:      time.Now,
	}
}

func (w *SnapshotWriter) Date() string {
	return w.Now().In(w.Location).Format(time.DateOnly)
}

func (w *SnapshotWriter) Path(date string) string {
	return filepath.Join(w.Dir, w.Prefix+date+".json")
}

// WriteSnapshot creates or truncates today's snapshot file. The write is not
// atomic: a failure can leave a partial file behind.
func (w *SnapshotWriter) WriteSnapshot(_ context.Context, records []entity.VideoRecord) (string, error) {
	if records == nil {
		records = []entity.VideoRecord{}
	}

	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", errors.WithStack(err)
	}

	path := w.Path(w.Date())
	f, err := os.Create(path)
	if err != nil {
		return "", errors.WithStack(err)
	}
	defer f.Close()

	writer := bufio.NewWriter(f)
	encoder := json.NewEncoder(writer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "    ")
	if err := encoder.Encode(records); err != nil {
		return "", errors.WithStack(err)
	}
	if err := writer.Flush(); err != nil {
		return "", errors.WithStack(err)
	}

	return path, errors.WithStack(f.Close())
}

func ReadSnapshot(path string) ([]entity.VideoRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()

	var records []entity.VideoRecord
	if err := json.NewDecoder(bufio.NewReader(f)).Decode(&records); err != nil {
		return nil, errors.Wrapf(err, "decode snapshot %s", path)
	}
	return records, nil
}
