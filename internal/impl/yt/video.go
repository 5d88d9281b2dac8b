package yt

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/Durun/ytsnap/internal/entity"
	"github.com/Durun/ytsnap/internal/util/slice"
)

const MaxBatchSize = 50

type ExtractMode int

const (
	// ExtractAll emits one record per returned video.
	ExtractAll ExtractMode = iota
	// ExtractLastPerBatch emits only the last video of every batch response.
	// Snapshots written before the batching fix look like this.
	ExtractLastPerBatch
)

func ParseExtractMode(s string) (ExtractMode, error) {
	switch s {
	case "", "all":
		return ExtractAll, nil
	case "last-per-batch":
		return ExtractLastPerBatch, nil
	}
	return 0, errors.Errorf("unknown extract mode %q: want all or last-per-batch", s)
}

func (m ExtractMode) String() string {
	switch m {
	case ExtractAll:
		return "all"
	case ExtractLastPerBatch:
		return "last-per-batch"
	}
	return "unknown"
}

type ExtractOptions struct {
	// BatchSize is the number of IDs per videos:list call. Zero means MaxBatchSize.
	BatchSize int
	Mode      ExtractMode
}

type videoListResponse struct {
	Items []*entity.RawVideo `json:"items"`
}

var videoParts = []string{"contentDetails", "snippet", "statistics"}

// ExtractVideos fetches metadata for videoIDs in batches and maps every item
// to a VideoRecord. Any failed batch aborts the whole extraction.
func ExtractVideos(ctx context.Context, client *Client, videoIDs []string, opt ExtractOptions) ([]entity.VideoRecord, error) {
	batchSize := opt.BatchSize
	if batchSize <= 0 {
		batchSize = MaxBatchSize
	}

	records := make([]entity.VideoRecord, 0, len(videoIDs))
	for _, batch := range slice.Chunked(videoIDs, batchSize) {
		params := url.Values{}
		params["part"] = append([]string(nil), videoParts...)
		params.Set("id", strings.Join(batch, ","))

		var response videoListResponse
		err := client.list(ctx, "videos", params, &response)
		logCall("Videos:list", slog.Int("ids", len(batch)), slog.Int("items", len(response.Items)))
		if err != nil {
			return nil, err
		}

		items := response.Items
		if opt.Mode == ExtractLastPerBatch && 0 < len(items) {
			items = items[len(items)-1:]
		}
		for _, item := range items {
			if item == nil {
				return nil, errors.Wrap(ErrUnexpectedResponse, "null item in videos response")
			}
			records = append(records, entity.NewVideoRecord(item))
		}
	}

	return records, nil
}
