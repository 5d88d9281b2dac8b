package main

import (
	"bufio"
	"os"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/Durun/ytsnap/internal/impl/file"
	"github.com/Durun/ytsnap/internal/impl/sqlite"
	"github.com/Durun/ytsnap/internal/util/either"
)

var dumpSnapshotCommand = &cli.Command{
	Name:  "dump-snapshot",
	Usage: "print the records of an archived run as JSON lines",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "db",
			Usage: "SQLite3 archive file path (default: ARCHIVE_DB)",
		},
		&cli.StringFlag{
			Name:  "date",
			Usage: "snapshot date YYYY-MM-DD (default: latest run)",
		},
	},
	Action: dumpSnapshotAction,
}

func dumpSnapshotAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	dbFilePath := c.String("db")
	if dbFilePath == "" {
		dbFilePath = cfg.ArchiveDB
	}
	if dbFilePath == "" {
		return errors.New("required flag: db (or ARCHIVE_DB)")
	}

	db, err := sqlite.NewSQLiteDB(dbFilePath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer db.Close()
	store := sqlite.NewSnapshotStore(db)

	ctx := c.Context
	run, err := store.FindRun(ctx, c.String("date"))
	if err != nil {
		return err
	}

	writer := bufio.NewWriter(os.Stdout)
	defer writer.Flush()
	encoder := json.NewEncoder(writer)
	encoder.SetEscapeHTML(false)

	for records := range either.Chunked(store.DumpRun(ctx, run.ID), 1000) {
		if records.Err != nil {
			return records.Err
		}

		if err := file.WriteJSONs(encoder, records.Value); err != nil {
			return err
		}
	}

	return nil
}
