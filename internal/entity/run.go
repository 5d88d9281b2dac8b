package entity

import "time"

// Run describes one pipeline execution as stored in the archive.
type Run struct {
	ID            string    `json:"id"`
	Date          string    `json:"date"`
	ChannelHandle string    `json:"channelHandle"`
	PlaylistID    string    `json:"playlistId"`
	SnapshotPath  string    `json:"snapshotPath"`
	VideoCount    int       `json:"videoCount"`
	CreatedAt     time.Time `json:"createdAt"`
}
