package util

import (
	"context"

	"github.com/pkg/errors"
	"github.com/wroge/superbasic"
)

// DoExpr compiles expr and hands the query to f, typically ExecContext or
// QueryContext of a *sql.DB or *sql.Tx.
func DoExpr[R any](
	ctx context.Context,
	f func(ctx context.Context, query string, args ...any) (R, error),
	expr superbasic.Expression,
) (R, error) {
	var zero R
	query, args, err := expr.ToSQL()
	if err != nil {
		return zero, errors.WithStack(err)
	}

	result, err := f(ctx, query, args...)
	return result, errors.WithStack(err)
}

// ExecAll runs plain statements in order and stops at the first failure.
func ExecAll[R any](
	ctx context.Context,
	f func(ctx context.Context, query string, args ...any) (R, error),
	queries ...string,
) error {
	for _, query := range queries {
		if _, err := f(ctx, query); err != nil {
			return errors.Wrapf(err, "exec %.40q", query)
		}
	}
	return nil
}
