package session

import (
	"sync"

	"github.com/mvhq/frameview/internal/catalog"
	"github.com/mvhq/frameview/internal/embed"
	"github.com/mvhq/frameview/internal/gallery"
	"github.com/mvhq/frameview/internal/index"
	"github.com/mvhq/frameview/internal/model"
	"github.com/mvhq/frameview/internal/resolver"
	"github.com/mvhq/frameview/internal/viewer"
)

// Session owns the mutable application state: the latest result set and its
// index, the display mode, the grouped-view representative positions, the
// lightbox, and the open embed session. All access goes through its lock;
// the index for a result set is always fully built before it is published.
type Session struct {
	mu sync.Mutex
	r  resolver.Resolver

	seq       uint64 // handed to each search; stale responses are dropped
	installed uint64

	results *model.SearchResult
	idx     *index.Index
	mode    gallery.Mode
	reps    map[string]int // video id -> representative index

	viewer viewer.State
	embed  *embed.Session
}

// New creates an empty session in the default byFrame display mode.
func New(r resolver.Resolver) *Session {
	return &Session{r: r, mode: gallery.ModeByFrame, idx: index.Build(nil)}
}

// View is the render state of the active gallery.
type View struct {
	Mode   gallery.Mode        `json:"mode"`
	Empty  bool                `json:"empty"`
	Frames []gallery.FrameItem `json:"frames,omitempty"`
	Groups []gallery.GroupView `json:"groups,omitempty"`
}

// Begin reserves a sequence number for a new search. Requests themselves
// are never cancelled; the number only decides which response wins.
func (s *Session) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

// Install publishes a completed search. The previous result set is replaced
// wholesale. Returns false when a newer search has begun since seq was
// reserved; the stale response is discarded without touching state.
func (s *Session) Install(seq uint64, res *model.SearchResult) bool {
	x := index.Build(res)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq || seq <= s.installed {
		return false
	}
	s.installed = seq
	s.results = res
	s.idx = x
	s.reps = make(map[string]int, len(res.VideoResults))
	for _, g := range res.VideoResults {
		s.reps[g.VideoID] = gallery.InitialRepIndex(g)
	}
	return true
}

// View renders the active gallery. ok is false while no results are loaded.
func (s *Session) View() (View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() (View, bool) {
	if s.results == nil {
		return View{Mode: s.mode}, false
	}
	v := View{Mode: s.mode}
	if s.mode == gallery.ModeByFrame {
		v.Frames = gallery.FrameView(s.results, s.idx, s.r)
		v.Empty = len(v.Frames) == 0
	} else {
		for _, g := range s.results.VideoResults {
			v.Groups = append(v.Groups, gallery.GroupViewAt(g, s.reps[g.VideoID], s.r))
		}
		v.Empty = len(v.Groups) == 0
	}
	return v, true
}

// Toggle flips the display mode and re-renders from the held results. With
// no results loaded it is a no-op and reports ok=false.
func (s *Session) Toggle() (View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.results == nil {
		return View{Mode: s.mode}, false
	}
	s.mode = s.mode.Toggle()
	return s.viewLocked()
}

// Mode returns the current display mode.
func (s *Session) Mode() gallery.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// StepGroup moves a grouped block's representative index one step in the
// given direction (negative = backward) with wraparound, and returns the
// refreshed block. ok is false for unknown videos or before any search.
func (s *Session) StepGroup(videoID string, delta int) (gallery.GroupView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.results == nil {
		return gallery.GroupView{}, false
	}
	for _, g := range s.results.VideoResults {
		if g.VideoID != videoID {
			continue
		}
		n := len(g.AllFrames)
		if n > 0 {
			i := s.reps[videoID]
			if delta < 0 {
				i = gallery.StepBackward(i, n)
			} else {
				i = gallery.StepForward(i, n)
			}
			s.reps[videoID] = i
		}
		return gallery.GroupViewAt(g, s.reps[videoID], s.r), true
	}
	return gallery.GroupView{}, false
}

// ShowGroup moves a grouped block's representative to an absolute index of
// the full sequence, clamped into bounds, and returns the refreshed block.
// ok is false for unknown videos or before any search.
func (s *Session) ShowGroup(videoID string, index int) (gallery.GroupView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.results == nil {
		return gallery.GroupView{}, false
	}
	for _, g := range s.results.VideoResults {
		if g.VideoID != videoID {
			continue
		}
		if n := len(g.AllFrames); n > 0 {
			s.reps[videoID] = min(max(index, 0), n-1)
		}
		return gallery.GroupViewAt(g, s.reps[videoID], s.r), true
	}
	return gallery.GroupView{}, false
}

// ViewerFrame is what the overlay displays for its current position.
type ViewerFrame struct {
	Visible bool            `json:"visible"`
	Index   int             `json:"index"`
	Total   int             `json:"total"`
	URL     string          `json:"url,omitempty"`
	VideoID string          `json:"video_id,omitempty"`
	FrameID string          `json:"frame_id,omitempty"`
	Thumbs  []gallery.Thumb `json:"thumbs,omitempty"`
}

func (s *Session) viewerFrameLocked() ViewerFrame {
	st := s.viewer
	if !st.Visible {
		return ViewerFrame{}
	}
	u := st.Sequence[st.Current]
	vid, fid := viewer.Identity(s.r.Relative(u))
	f := ViewerFrame{
		Visible: true,
		Index:   st.Current,
		Total:   len(st.Sequence),
		URL:     u,
		VideoID: vid,
		FrameID: fid,
	}
	for _, i := range st.Window(viewer.ModalRadius) {
		f.Thumbs = append(f.Thumbs, gallery.Thumb{Index: i, URL: st.Sequence[i]})
	}
	return f
}

// renderedLocked lists the absolute URLs currently visible in the active
// gallery, used as the lightbox fallback sequence. In grouped mode these
// are the representative images in block order.
func (s *Session) renderedLocked() []string {
	if s.results == nil {
		return nil
	}
	if s.mode == gallery.ModeByFrame {
		out := make([]string, 0, len(s.results.FrameResults))
		for _, f := range s.results.FrameResults {
			out = append(out, s.r.Absolute(f.Path))
		}
		return out
	}
	var out []string
	for _, g := range s.results.VideoResults {
		if len(g.AllFrames) == 0 {
			continue
		}
		i := min(max(s.reps[g.VideoID], 0), len(g.AllFrames)-1)
		out = append(out, s.r.Absolute(g.AllFrames[i]))
	}
	return out
}

// OpenViewer opens the lightbox on a clicked item. When the caller did not
// carry a video id, the result index is consulted before falling back to
// the rendered gallery.
func (s *Session) OpenViewer(path, videoID string) ViewerFrame {
	s.mu.Lock()
	defer s.mu.Unlock()
	if videoID == "" {
		if id, ok := s.idx.Group(path); ok {
			videoID = id
		}
	}
	s.viewer = viewer.Open(path, videoID, s.idx, s.renderedLocked(), s.r)
	return s.viewerFrameLocked()
}

// ShowViewer moves the lightbox to index i, clamped.
func (s *Session) ShowViewer(i int) ViewerFrame {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewer = s.viewer.Show(i)
	return s.viewerFrameLocked()
}

// NextViewer steps the lightbox forward one frame.
func (s *Session) NextViewer() ViewerFrame {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewer = s.viewer.Next()
	return s.viewerFrameLocked()
}

// PrevViewer steps the lightbox back one frame.
func (s *Session) PrevViewer() ViewerFrame {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewer = s.viewer.Prev()
	return s.viewerFrameLocked()
}

// CloseViewer closes the lightbox unconditionally.
func (s *Session) CloseViewer() ViewerFrame {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewer = s.viewer.Close()
	return ViewerFrame{}
}

// OpenEmbed resolves a video through the catalog and prepares the external
// player session: provider id extracted from the watch URL, seek offset
// derived from the frame index. Replaces any previously open session.
func (s *Session) OpenEmbed(videoID string, frameIndex int, cat catalog.Catalog) (embed.Session, error) {
	meta, err := cat.Lookup(videoID)
	if err != nil {
		return embed.Session{}, err
	}
	fps := meta.FPS
	if fps <= 0 {
		fps = embed.DefaultFPS
	}
	id, err := embed.WatchID(meta.WatchURL)
	if err != nil {
		return embed.Session{}, err
	}
	es := embed.Session{
		GroupID: videoID,
		VideoID: id,
		FPS:     fps,
		Start:   embed.StartSeconds(frameIndex, fps),
	}
	s.mu.Lock()
	s.embed = &es
	s.mu.Unlock()
	return es, nil
}

// ReportPosition folds a polled playback position into the open embed
// session. ok is false when no session is open.
func (s *Session) ReportPosition(seconds float64) (frame int, clock string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.embed == nil {
		return 0, "", false
	}
	frame, clock = s.embed.Report(seconds)
	return frame, clock, true
}

// LastFrame returns the most recently derived frame number, if any.
func (s *Session) LastFrame() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.embed == nil || !s.embed.HasFrame {
		return 0, false
	}
	return s.embed.LastFrame, true
}

// CloseEmbed drops the embed session. Safe to call repeatedly.
func (s *Session) CloseEmbed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.embed = nil
}
