package vibe

import (
	"time"

	"vibestream/internal/model"
)

// SeedVideos returns the built-in starter feed installed when a snapshot has
// no videos. The authors are not roster accounts; their counters are display
// values only and are excluded from the symmetry invariants that apply to
// registered accounts.
func SeedVideos() []*model.Video {
	base := time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)
	return []*model.Video{
		{
			ID:             "seed-1",
			URL:            "https://assets.mixkit.co/videos/preview/mixkit-city-lights-at-night-from-above-26615-large.mp4",
			AuthorUsername: "vibe_official",
			Description:    "Welcome to the future of connections. Feel the rhythm of the city! #citylife #vibes",
			Music:          "Original Sound - Vibe Stream",
			Timestamp:      base,
			Likes:          12400,
			Shares:         850,
			Reposts:        120,
			Comments: []*model.Comment{
				{
					ID:             "seed-1-c1",
					AuthorUsername: "tech_lover",
					Text:           "The interface looks amazing! Finally something fluid.",
					Timestamp:      base.Add(-2 * time.Hour),
					Likes:          45,
					Replies:        []*model.Comment{},
				},
			},
		},
		{
			ID:             "seed-2",
			URL:            "https://assets.mixkit.co/videos/preview/mixkit-spooky-forest-with-low-sunlight-4537-large.mp4",
			AuthorUsername: "nature_explorer",
			Description:    "Find peace in the silence of the forest. Breathe. #nature #peace #vibe",
			Music:          "Forest Ambience - Lo-fi Mix",
			Timestamp:      base.Add(-24 * time.Hour),
			Likes:          8900,
			Shares:         430,
			Reposts:        67,
			Comments:       []*model.Comment{},
		},
	}
}
