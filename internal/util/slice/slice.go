package slice

// Chunked splits s into consecutive chunks of at most size elements.
// The chunks share the backing array of s and are capped so that appending to
// one never overwrites the next.
func Chunked[T any](s []T, size int) [][]T {
	if size <= 0 {
		return nil
	}

	chunks := make([][]T, 0, (len(s)+size-1)/size)
	for start := 0; start < len(s); start += size {
		end := min(start+size, len(s))
		chunks = append(chunks, s[start:end:end])
	}
	return chunks
}
