package model

// FrameHit is a single addressable keyframe returned by the backend.
type FrameHit struct {
	Path  string  `json:"path"`
	Score float64 `json:"score,omitempty"`
}

// GroupResult aggregates the matching frames of one video.
type GroupResult struct {
	VideoID    string     `json:"video_id"`
	VideoScore float64    `json:"video_score"`
	BestRank   int        `json:"best_rank,omitempty"`
	// Frames is the top-ranked representative subset, in relevance order.
	Frames []FrameHit `json:"frames"`
	// AllFrames is the full ordered keyframe sequence of the video.
	AllFrames []string `json:"all_frames"`
}

// SearchResult is the backend response to one query. Each query produces a
// fresh result set; results are never merged across queries.
type SearchResult struct {
	FrameResults []FrameHit    `json:"frame_results"`
	VideoResults []GroupResult `json:"video_results"`
}

// VideoMeta is one static catalog entry, keyed by video id. Read-only for
// the lifetime of the process.
type VideoMeta struct {
	WatchURL string  `json:"watch_url"`
	FPS      float64 `json:"fps"`
}
