package gallery

import (
	"fmt"

	"github.com/mvhq/frameview/internal/index"
	"github.com/mvhq/frameview/internal/model"
	"github.com/mvhq/frameview/internal/resolver"
)

// Mode selects between the flat frame gallery and the grouped-by-video view.
type Mode string

const (
	ModeByFrame Mode = "frame"
	ModeByGroup Mode = "group"
)

// Toggle flips the display mode.
func (m Mode) Toggle() Mode {
	if m == ModeByFrame {
		return ModeByGroup
	}
	return ModeByFrame
}

// FrameItem is one entry of the flat gallery. Path is the raw backend path;
// GroupID is set when the result index can resolve the path to a video.
type FrameItem struct {
	Path    string  `json:"path"`
	URL     string  `json:"url"`
	GroupID string  `json:"group_id,omitempty"`
	Score   float64 `json:"score"`
}

// Thumb is one neighbor-strip entry.
type Thumb struct {
	Index  int    `json:"index"`
	URL    string `json:"url"`
	Active bool   `json:"active,omitempty"`
}

// GroupView is one grouped-gallery block: a titled video with a single
// navigable representative image and its inline neighbor strip.
type GroupView struct {
	GroupID   string  `json:"group_id"`
	Title     string  `json:"title"`
	Score     float64 `json:"score"`
	RepIndex  int     `json:"rep_index"`
	RepPath   string  `json:"rep_path,omitempty"`
	RepURL    string  `json:"rep_url,omitempty"`
	Total     int     `json:"total"`
	Neighbors []Thumb `json:"neighbors,omitempty"`
}

// FrameView renders the flat frame_results list in result order.
func FrameView(res *model.SearchResult, idx *index.Index, r resolver.Resolver) []FrameItem {
	if res == nil {
		return nil
	}
	items := make([]FrameItem, 0, len(res.FrameResults))
	for _, f := range res.FrameResults {
		it := FrameItem{Path: f.Path, URL: r.Absolute(f.Path), Score: f.Score}
		if id, ok := idx.Group(f.Path); ok {
			it.GroupID = id
		}
		items = append(items, it)
	}
	return items
}

// InitialRepIndex places the representative image at the position of the
// first top-ranked frame within the full sequence, falling back to the
// start of the sequence.
func InitialRepIndex(g model.GroupResult) int {
	if len(g.Frames) == 0 || len(g.AllFrames) == 0 {
		return 0
	}
	best := g.Frames[0].Path
	for i, p := range g.AllFrames {
		if p == best {
			return i
		}
	}
	return 0
}

// StepForward moves the representative index one step with wraparound.
func StepForward(i, n int) int {
	if n <= 0 {
		return 0
	}
	return (i + 1) % n
}

// StepBackward moves the representative index one step back with wraparound.
func StepBackward(i, n int) int {
	if n <= 0 {
		return 0
	}
	return (i - 1 + n) % n
}

// InlineWindow is the grouped-view neighbor window: radius 2 around the
// current index, widened toward the interior so at least 5 entries stay
// visible near either boundary.
func InlineWindow(current, total int) (start, end int) {
	if total <= 0 {
		return 0, -1
	}
	start = max(0, current-2)
	end = min(total-1, current+2)
	if end-start < 4 {
		start = max(0, end-4)
		end = min(total-1, start+4)
	}
	return start, end
}

// GroupViewAt builds one grouped block with the representative image at the
// given index of the full sequence. The index is clamped into range.
func GroupViewAt(g model.GroupResult, repIndex int, r resolver.Resolver) GroupView {
	v := GroupView{
		GroupID: g.VideoID,
		Title:   fmt.Sprintf("Video: %s (Score: %.3f)", g.VideoID, g.VideoScore),
		Score:   g.VideoScore,
		Total:   len(g.AllFrames),
	}
	n := len(g.AllFrames)
	if n == 0 {
		return v
	}
	repIndex = min(max(repIndex, 0), n-1)
	v.RepIndex = repIndex
	v.RepPath = g.AllFrames[repIndex]
	v.RepURL = r.Absolute(v.RepPath)

	start, end := InlineWindow(repIndex, n)
	for i := start; i <= end; i++ {
		v.Neighbors = append(v.Neighbors, Thumb{
			Index:  i,
			URL:    r.Absolute(g.AllFrames[i]),
			Active: i == repIndex,
		})
	}
	return v
}

// GroupViews renders every group block in result order with initial
// representative positions.
func GroupViews(res *model.SearchResult, r resolver.Resolver) []GroupView {
	if res == nil {
		return nil
	}
	out := make([]GroupView, 0, len(res.VideoResults))
	for _, g := range res.VideoResults {
		out = append(out, GroupViewAt(g, InitialRepIndex(g), r))
	}
	return out
}
