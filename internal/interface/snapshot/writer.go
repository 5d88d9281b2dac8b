package snapshot

import (
	"context"

	"github.com/Durun/ytsnap/internal/entity"
)

// Writer persists the records of one run and returns where they went.
type Writer interface {
	// Date is the calendar date the next snapshot is filed under.
	Date() string
	WriteSnapshot(ctx context.Context, records []entity.VideoRecord) (string, error)
}

// Archive keeps a copy of every run next to the snapshot files.
type Archive interface {
	WriteRun(ctx context.Context, run entity.Run, records []entity.VideoRecord) error
}
