package viewer

import (
	"strings"

	"github.com/mvhq/frameview/internal/index"
	"github.com/mvhq/frameview/internal/resolver"
)

// ModalRadius is the filmstrip window radius of the fullscreen overlay.
const ModalRadius = 20

// State is the lightbox state machine. The zero value is Closed. While
// Visible, Sequence is never empty and Current stays within its bounds.
type State struct {
	Visible  bool
	Sequence []string // absolute URLs
	Current  int
}

// Open resolves the clicked item to its full group sequence via the result
// index, falling back to the images currently rendered in the active
// gallery. An empty resolved sequence leaves the viewer closed; the overlay
// never displays with zero items.
func Open(clickedPath, groupID string, idx *index.Index, rendered []string, r resolver.Resolver) State {
	var seq []string
	cur := 0

	if groupID != "" {
		if list := idx.AllPaths(groupID); len(list) > 0 {
			seq = make([]string, len(list))
			for i, p := range list {
				seq[i] = r.Absolute(p)
			}
			cur = locate(list, seq, clickedPath, r)
		}
	}
	if seq == nil {
		seq = append([]string(nil), rendered...)
		clickedAbs := r.Absolute(clickedPath)
		for i, u := range rendered {
			if u == clickedAbs {
				cur = i
				break
			}
		}
	}
	if len(seq) == 0 {
		return State{}
	}
	return State{Visible: true, Sequence: seq, Current: clamp(cur, len(seq))}
}

// locate finds the clicked item inside the group sequence: first by raw
// path, then by the absolute URL that was actually rendered, defaulting to
// the first frame.
func locate(list, abs []string, clicked string, r resolver.Resolver) int {
	for i, p := range list {
		if p == clicked {
			return i
		}
	}
	clickedAbs := r.Absolute(clicked)
	for i, p := range list {
		if abs[i] == clickedAbs || (p != "" && strings.HasSuffix(clickedAbs, p)) {
			return i
		}
	}
	return 0
}

// Show moves the current index, clamped into the sequence bounds.
func (s State) Show(i int) State {
	if !s.Visible || len(s.Sequence) == 0 {
		return s
	}
	s.Current = clamp(i, len(s.Sequence))
	return s
}

// Next steps forward one frame; no wraparound at the boundary.
func (s State) Next() State { return s.Show(s.Current + 1) }

// Prev steps back one frame; no wraparound at the boundary.
func (s State) Prev() State { return s.Show(s.Current - 1) }

// Close transitions to Closed unconditionally.
func (s State) Close() State { return State{} }

// URL returns the currently displayed image, or "" when closed.
func (s State) URL() string {
	if !s.Visible {
		return ""
	}
	return s.Sequence[s.Current]
}

// Window lists the filmstrip indices within radius of the current image,
// clamped to the sequence bounds and excluding the current index itself.
func (s State) Window(radius int) []int {
	if !s.Visible || len(s.Sequence) == 0 {
		return nil
	}
	start := max(0, s.Current-radius)
	end := min(len(s.Sequence)-1, s.Current+radius)
	out := make([]int, 0, end-start)
	for i := start; i <= end; i++ {
		if i == s.Current {
			continue
		}
		out = append(out, i)
	}
	return out
}

// Identity splits a frame path into its owning video id (second-to-last
// slash-delimited segment) and frame id (filename up to the first dot).
// Absent or malformed parts yield the "-" sentinel.
func Identity(path string) (videoID, frameID string) {
	videoID, frameID = "-", "-"
	if path == "" {
		return
	}
	normalized := strings.ReplaceAll(path, "\\", "/")
	parts := strings.Split(normalized, "/")
	if len(parts) >= 2 && parts[len(parts)-2] != "" {
		videoID = parts[len(parts)-2]
	}
	name := parts[len(parts)-1]
	if f := strings.SplitN(name, ".", 2)[0]; f != "" {
		frameID = f
	}
	return
}

func clamp(i, n int) int {
	return min(max(i, 0), n-1)
}
