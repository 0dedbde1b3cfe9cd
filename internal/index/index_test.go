package index

import (
	"testing"

	"github.com/mvhq/frameview/internal/model"
)

func TestBuild_RoundTrip(t *testing.T) {
	res := &model.SearchResult{
		VideoResults: []model.GroupResult{
			{
				VideoID:   "L21_V001",
				Frames:    []model.FrameHit{{Path: "/a/2.jpg"}},
				AllFrames: []string{"/a/1.jpg", "/a/2.jpg", "/a/3.jpg"},
			},
			{
				VideoID:   "L21_V002",
				AllFrames: []string{"/b/1.jpg"},
			},
		},
	}
	x := Build(res)

	for _, p := range []string{"/a/1.jpg", "/a/2.jpg", "/a/3.jpg"} {
		id, ok := x.Group(p)
		if !ok || id != "L21_V001" {
			t.Fatalf("Group(%q) = %q, %v", p, id, ok)
		}
	}
	if id, ok := x.Group("/b/1.jpg"); !ok || id != "L21_V002" {
		t.Fatalf("Group(/b/1.jpg) = %q, %v", id, ok)
	}

	all := x.AllPaths("L21_V001")
	if len(all) != 3 || all[0] != "/a/1.jpg" || all[2] != "/a/3.jpg" {
		t.Fatalf("unexpected sequence: %v", all)
	}
}

func TestBuild_RepresentativeWinsCollision(t *testing.T) {
	// The same path appears in one group's full sequence and in another
	// group's representative subset; the representative write is applied
	// last within its group, and later groups win across groups.
	res := &model.SearchResult{
		VideoResults: []model.GroupResult{
			{VideoID: "g1", AllFrames: []string{"/shared.jpg"}},
			{VideoID: "g2", Frames: []model.FrameHit{{Path: "/shared.jpg"}}},
		},
	}
	x := Build(res)
	if id, _ := x.Group("/shared.jpg"); id != "g2" {
		t.Fatalf("expected g2, got %q", id)
	}
}

func TestBuild_ToleratesMissingLists(t *testing.T) {
	res := &model.SearchResult{
		VideoResults: []model.GroupResult{{VideoID: "g1"}},
	}
	x := Build(res)
	if got := x.AllPaths("g1"); len(got) != 0 {
		t.Fatalf("expected empty sequence, got %v", got)
	}
	if _, ok := x.Group("/nowhere.jpg"); ok {
		t.Fatal("unexpected hit")
	}
}

func TestBuild_Nil(t *testing.T) {
	x := Build(nil)
	if _, ok := x.Group("/a.jpg"); ok {
		t.Fatal("unexpected hit on empty index")
	}
	if got := x.AllPaths("g"); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestBuild_SkipsEmptyRepresentativePaths(t *testing.T) {
	res := &model.SearchResult{
		VideoResults: []model.GroupResult{
			{VideoID: "g1", Frames: []model.FrameHit{{Path: ""}}},
		},
	}
	x := Build(res)
	if _, ok := x.Group(""); ok {
		t.Fatal("empty path must not be indexed")
	}
}
