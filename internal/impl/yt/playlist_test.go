package yt

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pagedPlaylist serves pages keyed by pageToken; the first page has no token.
func pagedPlaylist(t *testing.T, pages [][]string) func(r *http.Request) (int, any) {
	return func(r *http.Request) (int, any) {
		assertQuery(t, r, "part", "contentDetails")
		assertQuery(t, r, "playlistId", "UU123")

		index := 0
		if token := r.URL.Query().Get("pageToken"); token != "" {
			_, err := fmt.Sscanf(token, "page-%d", &index)
			assert.NoError(t, err)
		}

		items := make([]any, 0, len(pages[index]))
		for _, id := range pages[index] {
			items = append(items, map[string]any{
				"id":             "item-" + id,
				"contentDetails": map[string]any{"videoId": id},
			})
		}
		body := map[string]any{"items": items}
		if index+1 < len(pages) {
			body["nextPageToken"] = fmt.Sprintf("page-%d", index+1)
		}
		return http.StatusOK, body
	}
}

func TestListVideoIDs(t *testing.T) {
	t.Parallel()

	api, client := newFakeAPI(t)
	api.handle("playlistItems", pagedPlaylist(t, [][]string{
		{"a", "b"},
		{"c", "a"},
		{"d"},
	}))

	ids, err := ListVideoIDs(context.Background(), client, "UU123", ListOptions{PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "a", "d"}, ids, "playlist order, duplicates kept")
	assert.Equal(t, 3, api.requestCount("playlistItems"))
	for _, r := range api.requests {
		assert.Equal(t, "2", r.URL.Query().Get("maxResults"))
	}
}

func TestListVideoIDs_Empty(t *testing.T) {
	t.Parallel()

	api, client := newFakeAPI(t)
	api.handle("playlistItems", pagedPlaylist(t, [][]string{{}}))

	ids, err := ListVideoIDs(context.Background(), client, "UU123", ListOptions{})
	require.NoError(t, err)
	assert.NotNil(t, ids)
	assert.Empty(t, ids)
	assert.Equal(t, 1, api.requestCount("playlistItems"))
	assert.Equal(t, "50", api.requests[0].URL.Query().Get("maxResults"))
	assert.False(t, api.requests[0].URL.Query().Has("pageToken"))
}

func TestListVideoIDs_MaxPages(t *testing.T) {
	t.Parallel()

	api, client := newFakeAPI(t)
	api.handle("playlistItems", pagedPlaylist(t, [][]string{{"a"}, {"b"}, {"c"}}))

	_, err := ListVideoIDs(context.Background(), client, "UU123", ListOptions{MaxPages: 2})
	assert.True(t, errors.Is(err, ErrTooManyPages), "got %v", err)
	assert.Equal(t, 2, api.requestCount("playlistItems"))

	ids, err := ListVideoIDs(context.Background(), client, "UU123", ListOptions{MaxPages: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestListVideoIDs_ErrorDiscardsPartialResult(t *testing.T) {
	t.Parallel()

	api, client := newFakeAPI(t)
	api.handle("playlistItems", func(r *http.Request) (int, any) {
		if r.URL.Query().Get("pageToken") == "" {
			return http.StatusOK, map[string]any{
				"items":         []any{map[string]any{"contentDetails": map[string]any{"videoId": "a"}}},
				"nextPageToken": "next",
			}
		}
		return http.StatusInternalServerError, apiError(http.StatusInternalServerError, "backend error")
	})

	ids, err := ListVideoIDs(context.Background(), client, "UU123", ListOptions{})
	assert.Error(t, err)
	assert.Nil(t, ids)
	assert.Equal(t, 2, api.requestCount("playlistItems"))
}
