package index

import "github.com/mvhq/frameview/internal/model"

// Index holds the per-query lookup tables derived from a search response:
// path to owning video id, and video id to the full ordered frame sequence.
// It is rebuilt from scratch for every query and never mutated afterwards.
type Index struct {
	pathToGroup map[string]string
	groupPaths  map[string][]string
}

// Build derives the lookup tables from a result set. Groups are processed
// in response order; within each group the full sequence is written before
// the representative subset, so a representative frame's assignment wins a
// collision for the same path. Missing frame lists are treated as empty.
func Build(res *model.SearchResult) *Index {
	x := &Index{
		pathToGroup: make(map[string]string),
		groupPaths:  make(map[string][]string),
	}
	if res == nil {
		return x
	}
	for _, g := range res.VideoResults {
		x.groupPaths[g.VideoID] = g.AllFrames
		for _, p := range g.AllFrames {
			x.pathToGroup[p] = g.VideoID
		}
		for _, f := range g.Frames {
			if f.Path != "" {
				x.pathToGroup[f.Path] = g.VideoID
			}
		}
	}
	return x
}

// Group resolves a raw path to its owning video id.
func (x *Index) Group(path string) (string, bool) {
	id, ok := x.pathToGroup[path]
	return id, ok
}

// AllPaths returns the full ordered frame sequence recorded for a video,
// or nil when the video is unknown.
func (x *Index) AllPaths(group string) []string {
	return x.groupPaths[group]
}
