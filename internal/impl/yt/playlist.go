package yt

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
	"google.golang.org/api/youtube/v3"
)

const MaxPageSize = 50

var ErrTooManyPages = errors.New("playlist exceeds page limit")

type ListOptions struct {
	// PageSize is sent as maxResults. Zero means MaxPageSize.
	PageSize int
	// MaxPages stops the listing with ErrTooManyPages once exceeded.
	// Zero means no limit.
	MaxPages int
}

// ListVideoIDs follows nextPageToken through the playlist and returns every
// video ID in playlist order, duplicates included.
func ListVideoIDs(ctx context.Context, client *Client, playlistID string, opt ListOptions) ([]string, error) {
	pageSize := opt.PageSize
	if pageSize <= 0 {
		pageSize = MaxPageSize
	}

	params := url.Values{}
	params.Set("part", "contentDetails")
	params.Set("maxResults", strconv.Itoa(pageSize))
	params.Set("playlistId", playlistID)

	videoIDs := make([]string, 0)
	pageToken := ""
	for page := 1; ; page++ {
		if 0 < opt.MaxPages && opt.MaxPages < page {
			return nil, errors.Wrapf(ErrTooManyPages, "playlist %s: more than %d pages", playlistID, opt.MaxPages)
		}

		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var response youtube.PlaylistItemListResponse
		err := client.list(ctx, "playlistItems", params, &response)
		logCall("PlaylistItems:list", slog.Int("page", page))
		if err != nil {
			return nil, err
		}

		for _, item := range response.Items {
			if item.ContentDetails == nil {
				return nil, errors.Wrapf(ErrUnexpectedResponse, "playlist item %s has no contentDetails", item.Id)
			}
			videoIDs = append(videoIDs, item.ContentDetails.VideoId)
		}

		if response.NextPageToken == "" {
			break
		}
		pageToken = response.NextPageToken
	}

	return videoIDs, nil
}
