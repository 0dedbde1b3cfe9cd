package resolver

import "testing"

func TestAbsolute_PrefixesOrigin(t *testing.T) {
	r := New("http://127.0.0.1:5000")
	got := r.Absolute("/images/Keyframes/L21/L21_V001/000123.jpg")
	want := "http://127.0.0.1:5000/images/Keyframes/L21/L21_V001/000123.jpg"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestAbsolute_Empty(t *testing.T) {
	r := New("http://127.0.0.1:5000")
	if got := r.Absolute(""); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestAbsolute_PassesThroughAbsolute(t *testing.T) {
	r := New("http://127.0.0.1:5000")
	in := "https://example.com/x.jpg"
	if got := r.Absolute(in); got != in {
		t.Fatalf("got %q, want unchanged %q", got, in)
	}
}

func TestAbsolute_TrimsTrailingSlashOnOrigin(t *testing.T) {
	r := New("http://127.0.0.1:5000/")
	got := r.Absolute("/a/1.jpg")
	if want := "http://127.0.0.1:5000/a/1.jpg"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRelative_RoundTrip(t *testing.T) {
	r := New("http://127.0.0.1:5000")
	paths := []string{
		"/images/Keyframes/L21/L21_V001/000123.jpg",
		"/a/1.jpg",
		"/x y/1.jpg",
	}
	for _, p := range paths {
		if got := r.Relative(r.Absolute(p)); got != p {
			t.Fatalf("round trip of %q gave %q", p, got)
		}
	}
}

func TestRelative_UnparsableUnchanged(t *testing.T) {
	r := New("http://127.0.0.1:5000")
	in := "http://127.0.0.1:5000/%zz"
	if got := r.Relative(in); got != in {
		t.Fatalf("expected input back, got %q", got)
	}
}

func TestRelative_AlreadyRelative(t *testing.T) {
	r := New("http://127.0.0.1:5000")
	if got := r.Relative("/a/1.jpg"); got != "/a/1.jpg" {
		t.Fatalf("got %q", got)
	}
}

func TestRelative_ResolvesAgainstOrigin(t *testing.T) {
	r := New("http://127.0.0.1:5000")
	if got := r.Relative("foo"); got != "/foo" {
		t.Fatalf("got %q, want %q", got, "/foo")
	}
	if got := r.Relative("a/1.jpg"); got != "/a/1.jpg" {
		t.Fatalf("got %q, want %q", got, "/a/1.jpg")
	}
}
