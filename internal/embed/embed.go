package embed

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"
)

// DefaultFPS is assumed for catalog entries without a frame rate.
const DefaultFPS = 30

// PollInterval is how often the page polls the player position, in
// milliseconds. At most one poll loop runs at a time.
const PollInterval = 100

// ErrInvalidSource marks a watch URL the provider item id cannot be
// extracted from. Surfaced to the user as a blocking alert.
var ErrInvalidSource = errors.New("cannot extract video id from watch url")

// StartSeconds converts a frame index into the whole-second seek offset for
// the external player.
func StartSeconds(frameIndex int, fps float64) int {
	if fps <= 0 {
		fps = DefaultFPS
	}
	if frameIndex < 0 {
		frameIndex = 0
	}
	return int(math.Floor(float64(frameIndex) / fps))
}

// FrameNumber derives the discrete frame under a continuous playback
// position.
func FrameNumber(positionSeconds, fps float64) int {
	if fps <= 0 {
		fps = DefaultFPS
	}
	if positionSeconds < 0 {
		positionSeconds = 0
	}
	return int(math.Floor(positionSeconds * fps))
}

// Clock renders a playback position as HH:MM:SS.mmm, truncated rather than
// rounded.
func Clock(positionSeconds float64) string {
	if positionSeconds < 0 {
		positionSeconds = 0
	}
	ms := int(math.Floor(positionSeconds * 1000))
	return fmt.Sprintf("%02d:%02d:%02d.%03d",
		ms/3600000, ms/60000%60, ms/1000%60, ms%1000)
}

// WatchID extracts the provider item id from a stored watch URL. Accepted
// shapes are the v= query parameter, the short youtu.be path, and an
// /embed/ path.
func WatchID(watchURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(watchURL))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidSource, watchURL)
	}
	if id := u.Query().Get("v"); id != "" {
		return id, nil
	}
	if strings.HasSuffix(u.Host, "youtu.be") {
		if id := strings.Trim(u.Path, "/"); id != "" && !strings.Contains(id, "/") {
			return id, nil
		}
	}
	if i := strings.Index(u.Path, "/embed/"); i >= 0 {
		if id := strings.Trim(u.Path[i+len("/embed/"):], "/"); id != "" && !strings.Contains(id, "/") {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSource, watchURL)
}

// Session is one open widget: the provider video being played and the last
// playback position reported by the page's poll loop.
type Session struct {
	GroupID   string  `json:"group_id"`
	VideoID   string  `json:"video_id"`
	FPS       float64 `json:"fps"`
	Start     int     `json:"start"`
	LastFrame int     `json:"last_frame"`
	HasFrame  bool    `json:"has_frame"`
}

// Report folds a polled playback position into the session and returns the
// derived frame number and elapsed-time string.
func (s *Session) Report(positionSeconds float64) (frame int, clock string) {
	s.LastFrame = FrameNumber(positionSeconds, s.FPS)
	s.HasFrame = true
	return s.LastFrame, Clock(positionSeconds)
}
