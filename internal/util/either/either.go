package either

// Either carries a value or the error that stopped its producer.
type Either[T any] struct {
	Value T
	Err   error
}

func Of[T any](value T) Either[T] {
	return Either[T]{Value: value}
}

func ErrorOf[T any](err error) Either[T] {
	if err == nil {
		panic("err is nil")
	}
	return Either[T]{Err: err}
}

// Chunked groups values from ch into slices of size. The first error is
// forwarded and ends the output.
func Chunked[T any](ch <-chan Either[T], size int) <-chan Either[[]T] {
	out := make(chan Either[[]T])
	go func() {
		defer close(out)

		chunk := make([]T, 0, size)
		for e := range ch {
			if e.Err != nil {
				out <- ErrorOf[[]T](e.Err)
				drain(ch)
				return
			}

			chunk = append(chunk, e.Value)
			if size <= len(chunk) {
				out <- Of(chunk)
				chunk = make([]T, 0, size)
			}
		}

		if 0 < len(chunk) {
			out <- Of(chunk)
		}
	}()
	return out
}

// Collect drains ch into a slice and returns the first error, if any.
func Collect[T any](ch <-chan Either[T]) ([]T, error) {
	values := make([]T, 0)
	for e := range ch {
		if e.Err != nil {
			drain(ch)
			return nil, e.Err
		}
		values = append(values, e.Value)
	}
	return values, nil
}

// drain lets the producer run to completion so its goroutine can exit.
func drain[T any](ch <-chan Either[T]) {
	for range ch {
	}
}
