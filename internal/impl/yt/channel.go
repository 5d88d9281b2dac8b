package yt

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/pkg/errors"
	"google.golang.org/api/youtube/v3"
)

var (
	ErrEmptyHandle     = errors.New("channel handle is empty")
	ErrChannelNotFound = errors.New("channel not found")
)

// ResolveUploadsPlaylist looks up the channel by handle and returns the ID of
// its uploads playlist.
func ResolveUploadsPlaylist(ctx context.Context, client *Client, handle string) (string, error) {
	if handle == "" {
		return "", errors.WithStack(ErrEmptyHandle)
	}

	params := url.Values{}
	params.Set("part", "contentDetails")
	params.Set("forHandle", handle)

	var response youtube.ChannelListResponse
	err := client.list(ctx, "channels", params, &response)
	logCall("Channels:list", slog.String("handle", handle))
	if err != nil {
		return "", err
	}

	if len(response.Items) == 0 {
		return "", errors.Wrapf(ErrChannelNotFound, "handle %q", handle)
	}

	channel := response.Items[0]
	if channel.ContentDetails == nil || channel.ContentDetails.RelatedPlaylists == nil ||
		channel.ContentDetails.RelatedPlaylists.Uploads == "" {
		return "", errors.Wrapf(ErrUnexpectedResponse, "channel %s has no uploads playlist", channel.Id)
	}

	return channel.ContentDetails.RelatedPlaylists.Uploads, nil
}
