package file

import (
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// WriteJSONs writes every entity as one JSON line.
func WriteJSONs[T any](enc *json.Encoder, entities []T) error {
	for _, entity := range entities {
		if err := enc.Encode(entity); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}
