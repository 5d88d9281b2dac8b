package entity

import (
	"time"

	"github.com/pkg/errors"
	"google.golang.org/api/youtube/v3"
)

// VideoRecord is one element of a snapshot. Field order and JSON keys are the
// snapshot file format; nil fields are written as null.
type VideoRecord struct {
	VideoID      string  `json:"video_id"`
	Title        *string `json:"title"`
	PublishedAt  *string `json:"publishedAt"`
	Duration     *string `json:"duration"`
	ViewCount    *string `json:"viewCount"`
	LikeCount    *string `json:"likeCount"`
	CommentCount *string `json:"commentCount"`
}

// RawVideo is an item of a videos:list response.
// Statistics are decoded separately from youtube.VideoStatistics because the
// generated type turns an omitted counter into 0.
type RawVideo struct {
	Id             string                       `json:"id"`
	Snippet        *youtube.VideoSnippet        `json:"snippet"`
	ContentDetails *youtube.VideoContentDetails `json:"contentDetails"`
	Statistics     *RawVideoStatistics          `json:"statistics"`
}

type RawVideoStatistics struct {
	ViewCount    *string `json:"viewCount"`
	LikeCount    *string `json:"likeCount"`
	CommentCount *string `json:"commentCount"`
}

func NewVideoRecord(raw *RawVideo) VideoRecord {
	record := VideoRecord{
		VideoID: raw.Id,
	}

	if raw.Snippet != nil {
		record.Title = optional(raw.Snippet.Title)
		record.PublishedAt = optional(raw.Snippet.PublishedAt)
	}
	if raw.ContentDetails != nil {
		record.Duration = optional(raw.ContentDetails.Duration)
	}
	if raw.Statistics != nil {
		record.ViewCount = raw.Statistics.ViewCount
		record.LikeCount = raw.Statistics.LikeCount
		record.CommentCount = raw.Statistics.CommentCount
	}

	return record
}

func (r VideoRecord) PublishedTime() (time.Time, error) {
	if r.PublishedAt == nil {
		return time.Time{}, errors.Errorf("video %s: publishedAt is null", r.VideoID)
	}
	t, err := time.Parse(time.RFC3339, *r.PublishedAt)
	return t, errors.WithStack(err)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
