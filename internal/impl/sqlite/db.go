package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

func NewSQLiteDB(file string) (*sql.DB, error) {
	db, err := sql.Open("sqlite",
		fmt.Sprintf(`file:%s?_pragma=busy_timeout(5000)`, file),
	)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return db, nil
}
