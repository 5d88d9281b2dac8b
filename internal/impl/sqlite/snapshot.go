package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/sosodev/duration"
	"github.com/wroge/superbasic"

	"github.com/Durun/ytsnap/internal/entity"
	"github.com/Durun/ytsnap/internal/util"
	"github.com/Durun/ytsnap/internal/util/either"
	"github.com/Durun/ytsnap/internal/util/slice"
)

// insertChunk keeps a multi-row INSERT well below SQLite's bound parameter limit.
const insertChunk = 500

// createdAtLayout has a fixed width so that createdAt sorts as text.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z"

var ErrRunNotFound = errors.New("run not found")

func NewSnapshotStore(db *sql.DB) *SnapshotStore {
	return &SnapshotStore{
		db: db,
	}
}

// SnapshotStore archives every run and its records so older snapshots can be
// queried without parsing the JSON files.
type SnapshotStore struct {
	prepared bool
	db       *sql.DB
}

func (s *SnapshotStore) Prepare(ctx context.Context) error {
	if s.prepared {
		return nil
	}

	err := util.ExecAll(ctx, s.db.ExecContext,
		`CREATE TABLE IF NOT EXISTS runs (
			runId TEXT PRIMARY KEY,
			date TEXT NOT NULL,
			channelHandle TEXT NOT NULL,
			playlistId TEXT NOT NULL,
			snapshotPath TEXT NOT NULL,
			videoCount INT NOT NULL,
			createdAt TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS runs_date ON runs (date, createdAt)`,
		`CREATE TABLE IF NOT EXISTS run_videos (
			runId TEXT NOT NULL REFERENCES runs (runId),
			position INT NOT NULL,
			videoId TEXT NOT NULL,
			title TEXT,
			publishedAt TEXT,
			publishedDate TEXT,
			duration TEXT,
			durationSeconds INT,
			viewCount TEXT,
			likeCount TEXT,
			commentCount TEXT,
			PRIMARY KEY (runId, position)
		)`,
		`CREATE INDEX IF NOT EXISTS run_videos_videoId ON run_videos (videoId)`,
	)
	if err != nil {
		return err
	}

	s.prepared = true
	return nil
}

func (s *SnapshotStore) WriteRun(ctx context.Context, run entity.Run, records []entity.VideoRecord) error {
	if err := s.Prepare(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.WithStack(err)
	}
	defer tx.Rollback()

	_, err = util.DoExpr(ctx, tx.ExecContext, superbasic.Compile(`
		INSERT INTO runs (runId, date, channelHandle, playlistId, snapshotPath, videoCount, createdAt)
		VALUES ?`,
		superbasic.SQL(`(?,?,?,?,?,?,?)`,
			run.ID,
			run.Date,
			run.ChannelHandle,
			run.PlaylistID,
			run.SnapshotPath,
			len(records),
			run.CreatedAt.UTC().Format(createdAtLayout),
		),
	))
	if err != nil {
		return err
	}

	for i, chunk := range slice.Chunked(records, insertChunk) {
		offset := i * insertChunk
		_, err := util.DoExpr(ctx, tx.ExecContext, superbasic.Compile(`
			INSERT INTO run_videos (runId, position, videoId, title, publishedAt, publishedDate, duration, durationSeconds, viewCount, likeCount, commentCount)
			VALUES ?`,
			superbasic.Join(`,`, superbasic.Map(chunk, func(j int, record entity.VideoRecord) superbasic.Expression {
				return superbasic.SQL(`(?,?,?,?,?,?,?,?,?,?,?)`,
					run.ID,
					offset+j,
					record.VideoID,
					nullable(record.Title),
					nullable(record.PublishedAt),
					nullable(publishedDate(record)),
					nullable(record.Duration),
					nullable(durationSeconds(record)),
					nullable(record.ViewCount),
					nullable(record.LikeCount),
					nullable(record.CommentCount),
				)
			})...),
		))
		if err != nil {
			return err
		}
	}

	return errors.WithStack(tx.Commit())
}

// FindRun returns the latest run, restricted to date unless it is empty.
func (s *SnapshotStore) FindRun(ctx context.Context, date string) (entity.Run, error) {
	if err := s.Prepare(ctx); err != nil {
		return entity.Run{}, err
	}

	rows, err := util.DoExpr(ctx, s.db.QueryContext, superbasic.Compile(`
		SELECT runId, date, channelHandle, playlistId, snapshotPath, videoCount, createdAt
		FROM runs
		?
		ORDER BY createdAt DESC
		LIMIT 1`,
		superbasic.If(date != "", superbasic.SQL(`WHERE date = ?`, date)),
	))
	if err != nil {
		return entity.Run{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return entity.Run{}, errors.WithStack(err)
		}
		return entity.Run{}, errors.Wrapf(ErrRunNotFound, "date %q", date)
	}

	var run entity.Run
	var createdAt string
	err = rows.Scan(
		&run.ID,
		&run.Date,
		&run.ChannelHandle,
		&run.PlaylistID,
		&run.SnapshotPath,
		&run.VideoCount,
		&createdAt,
	)
	if err != nil {
		return entity.Run{}, errors.WithStack(err)
	}

	run.CreatedAt, err = time.Parse(createdAtLayout, createdAt)
	return run, errors.WithStack(err)
}

// DumpRun streams the records of a run in snapshot order.
func (s *SnapshotStore) DumpRun(ctx context.Context, runID string) <-chan either.Either[entity.VideoRecord] {
	ch := make(chan either.Either[entity.VideoRecord])

	go func() {
		defer close(ch)

		if err := s.Prepare(ctx); err != nil {
			ch <- either.ErrorOf[entity.VideoRecord](err)
			return
		}

		rows, err := util.DoExpr(ctx, s.db.QueryContext, superbasic.Compile(`
			SELECT videoId, title, publishedAt, duration, viewCount, likeCount, commentCount
			FROM run_videos
			WHERE runId = ?
			ORDER BY position`,
			superbasic.Value(runID),
		))
		if err != nil {
			ch <- either.ErrorOf[entity.VideoRecord](err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			var record entity.VideoRecord
			err := rows.Scan(
				&record.VideoID,
				&record.Title,
				&record.PublishedAt,
				&record.Duration,
				&record.ViewCount,
				&record.LikeCount,
				&record.CommentCount,
			)
			if err != nil {
				ch <- either.ErrorOf[entity.VideoRecord](errors.WithStack(err))
				return
			}

			ch <- either.Of(record)
		}
		if err := rows.Err(); err != nil {
			ch <- either.ErrorOf[entity.VideoRecord](errors.WithStack(err))
		}
	}()

	return ch
}

func publishedDate(record entity.VideoRecord) *string {
	t, err := record.PublishedTime()
	if err != nil {
		return nil
	}
	date := t.UTC().Format(time.DateOnly)
	return &date
}

func durationSeconds(record entity.VideoRecord) *int64 {
	if record.Duration == nil {
		return nil
	}
	d, err := duration.Parse(*record.Duration)
	if err != nil {
		return nil
	}
	seconds := int64(d.ToTimeDuration().Seconds())
	return &seconds
}

// nullable turns a nil pointer into SQL NULL.
func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
