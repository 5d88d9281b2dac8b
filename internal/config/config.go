package config

import (
	"io/fs"
	"log/slog"
	"time"
	_ "time/tzdata"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/Durun/ytsnap/internal/impl/file"
	"github.com/Durun/ytsnap/internal/impl/yt"
)

// Config holds everything a run needs. It is read once at startup and passed
// down explicitly.
type Config struct {
	// Required.
	APIKey        string
	ChannelHandle string

	APIBaseURL  string
	PageSize    int
	BatchSize   int
	MaxPages    int
	ExtractMode yt.ExtractMode

	DataDir        string
	SnapshotPrefix string
	Location       *time.Location

	RunTimeout     time.Duration
	RequestTimeout time.Duration

	// ArchiveDB enables the SQLite archive when not empty.
	ArchiveDB string

	Schedule         string
	ScheduleLocation *time.Location
	Port             string

	LogLevel slog.Level
}

// LoadDotenv loads path into the process environment without overriding
// variables that are already set. A missing file is not an error.
func LoadDotenv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errors.Wrapf(err, "load %s", path)
	}
	return nil
}

// FromEnv reads the configuration from the process environment.
// It does not validate; call Validate before running the pipeline.
func FromEnv() (Config, error) {
	c := Config{
		APIKey:         env.Str("YOUTUBE_API_KEY", ""),
		ChannelHandle:  env.Str("CHANNEL_HANDLE", ""),
		APIBaseURL:     env.Str("YOUTUBE_API_BASE", yt.DefaultBaseURL),
		PageSize:       env.Int("PAGE_SIZE", yt.MaxPageSize),
		BatchSize:      env.Int("BATCH_SIZE", yt.MaxBatchSize),
		MaxPages:       env.Int("MAX_PAGES", 1000),
		DataDir:        env.Str("DATA_DIR", file.DefaultDir),
		SnapshotPrefix: env.Str("SNAPSHOT_PREFIX", file.DefaultPrefix),
		RunTimeout:     env.Duration("RUN_TIMEOUT", time.Hour),
		RequestTimeout: env.Duration("REQUEST_TIMEOUT", 0),
		ArchiveDB:      env.Str("ARCHIVE_DB", ""),
		Schedule:       env.Str("SCHEDULE", "0 14 * * *"),
		Port:           env.Str("PORT", "8080"),
	}

	var err error
	if c.ExtractMode, err = yt.ParseExtractMode(env.Str("EXTRACT_MODE", "all")); err != nil {
		return Config{}, err
	}
	if c.Location, err = loadLocation(env.Str("TZ_NAME", "Local")); err != nil {
		return Config{}, err
	}
	if c.ScheduleLocation, err = loadLocation(env.Str("SCHEDULE_TZ", "Asia/Jakarta")); err != nil {
		return Config{}, err
	}
	if err := c.LogLevel.UnmarshalText([]byte(env.Str("LOG_LEVEL", "info"))); err != nil {
		return Config{}, errors.Wrap(err, "LOG_LEVEL")
	}

	return c, nil
}

func (c Config) Validate() error {
	var missing []string
	if c.APIKey == "" {
		missing = append(missing, "YOUTUBE_API_KEY")
	}
	if c.ChannelHandle == "" {
		missing = append(missing, "CHANNEL_HANDLE")
	}
	if 0 < len(missing) {
		return errors.Errorf("required environment: %s", missing)
	}

	if c.PageSize < 1 || yt.MaxPageSize < c.PageSize {
		return errors.Errorf("PAGE_SIZE must be in 1..%d, got %d", yt.MaxPageSize, c.PageSize)
	}
	if c.BatchSize < 1 || yt.MaxBatchSize < c.BatchSize {
		return errors.Errorf("BATCH_SIZE must be in 1..%d, got %d", yt.MaxBatchSize, c.BatchSize)
	}
	if c.MaxPages < 0 {
		return errors.Errorf("MAX_PAGES must not be negative, got %d", c.MaxPages)
	}
	if c.RunTimeout < 0 || c.RequestTimeout < 0 {
		return errors.New("timeouts must not be negative")
	}
	if c.DataDir == "" {
		return errors.New("DATA_DIR is empty")
	}
	return nil
}

func loadLocation(name string) (*time.Location, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, errors.Wrapf(err, "time zone %q", name)
	}
	return loc, nil
}
