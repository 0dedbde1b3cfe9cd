package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Answer kinds accepted by the grading service.
const (
	KindKIS   = "video_kis"
	KindQA    = "qa"
	KindTrake = "trake"
)

// ErrNoEvaluation reports that no evaluation matched the configured
// selection.
var ErrNoEvaluation = errors.New("no evaluation matched selection")

// Evaluation is one entry of the grading service's evaluation list.
type Evaluation struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Answer is a single answer inside a submission payload. The wire shape is
// dictated by the external grading service.
type Answer struct {
	Text          string `json:"text,omitempty"`
	MediaItemName string `json:"mediaItemName,omitempty"`
	Start         int64  `json:"start,omitempty"`
	End           int64  `json:"end,omitempty"`
}

type answerGroup struct {
	Answers []Answer `json:"answers"`
}

// AnswerSet is the payload posted against an evaluation.
type AnswerSet struct {
	AnswerSets []answerGroup `json:"answerSets"`
}

func wrap(a Answer) AnswerSet {
	return AnswerSet{AnswerSets: []answerGroup{{Answers: []Answer{a}}}}
}

// KISAnswer builds a known-item-search payload: a single moment expressed as
// a millisecond range derived from the frame index and frame rate.
func KISAnswer(video string, frameIndex int, fps float64) AnswerSet {
	if fps <= 0 {
		fps = 30
	}
	ms := int64(math.Floor(float64(frameIndex) / fps * 1000))
	return wrap(Answer{MediaItemName: video, Start: ms, End: ms})
}

// QAAnswer builds a question-answering payload: free text tagged with the
// query that produced it.
func QAAnswer(query, text string) AnswerSet {
	t := strings.TrimSpace(text)
	if q := strings.TrimSpace(query); q != "" {
		t = t + " [query: " + q + "]"
	}
	return wrap(Answer{Text: t})
}

// TrakeAnswer builds a temporal-tracking payload: the collected frame
// indices as a comma-joined list.
func TrakeAnswer(video string, frames []int) AnswerSet {
	parts := make([]string, len(frames))
	for i, f := range frames {
		parts[i] = strconv.Itoa(f)
	}
	return wrap(Answer{MediaItemName: video, Text: strings.Join(parts, ",")})
}

// PickEvaluation applies the selection policy: first evaluation whose name
// contains the configured substring, otherwise the configured list index.
func PickEvaluation(list []Evaluation, name string, idx int) (Evaluation, error) {
	if name != "" {
		for _, e := range list {
			if strings.Contains(strings.ToLower(e.Name), strings.ToLower(name)) {
				return e, nil
			}
		}
	}
	if idx >= 0 && idx < len(list) {
		return list[idx], nil
	}
	return Evaluation{}, fmt.Errorf("%w (name=%q index=%d of %d)", ErrNoEvaluation, name, idx, len(list))
}

// Config selects the grading relay endpoint, the credentials, and the
// active evaluation. EvaluationName is matched as a substring first;
// EvaluationIndex is the fallback position in the returned list.
type Config struct {
	BaseURL         string
	Username        string
	Password        string
	EvaluationName  string
	EvaluationIndex int
}

// TokenStore persists the session token and evaluation selection across
// restarts. Implemented by the state store; optional.
type TokenStore interface {
	SessionID() (string, error)
	SetSessionID(string) error
	SetEvaluationID(string) error
}

// Client drives the chained submission flow against the grading relay:
// acquire a session, list evaluations, submit an answer set. The session
// token is cached across submissions and, with a store attached, across
// restarts.
type Client struct {
	cfg   Config
	httpc *http.Client
	log   *slog.Logger
	ts    TokenStore

	mu      sync.Mutex
	session string
}

// NewClient creates a submission client. A zero BaseURL disables it.
func NewClient(cfg Config, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 15 * time.Second},
		log:   log,
	}
}

// UseStore attaches a token store. A previously persisted session token is
// reused until the relay rejects it.
func (c *Client) UseStore(ts TokenStore) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ts = ts
	if c.session == "" && ts != nil {
		if id, err := ts.SessionID(); err == nil {
			c.session = id
		}
	}
}

func (c *Client) postJSON(ctx context.Context, url string, body, out any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("relay returned status %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Login acquires a session token from the relay.
func (c *Client) Login(ctx context.Context) (string, error) {
	var out struct {
		SessionID string `json:"sessionId"`
	}
	body := map[string]string{"username": c.cfg.Username, "password": c.cfg.Password}
	if err := c.postJSON(ctx, c.cfg.BaseURL+"/api/v2/login", body, &out); err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	if out.SessionID == "" {
		return "", errors.New("login: empty session id")
	}
	c.mu.Lock()
	c.session = out.SessionID
	ts := c.ts
	c.mu.Unlock()
	if ts != nil {
		if err := ts.SetSessionID(out.SessionID); err != nil {
			c.log.Warn("persisting session token failed", "err", err)
		}
	}
	return out.SessionID, nil
}

// Evaluations lists the evaluations available to a session.
func (c *Client) Evaluations(ctx context.Context, session string) ([]Evaluation, error) {
	u := c.cfg.BaseURL + "/api/v2/client/evaluation/list?session=" + url.QueryEscape(session)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("list evaluations: relay returned status %d", resp.StatusCode)
	}
	var out []Evaluation
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	return out, nil
}

// Submit posts one answer set against an evaluation.
func (c *Client) Submit(ctx context.Context, session, evaluationID string, a AnswerSet) error {
	u := c.cfg.BaseURL + "/api/v2/submit/" + url.PathEscape(evaluationID) +
		"?session=" + url.QueryEscape(session)
	if err := c.postJSON(ctx, u, a, nil); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	return nil
}

// Run performs the full chain: ensure a session, list evaluations, pick the
// configured one, submit. A session rejected mid-chain is not retried; the
// user triggers the next attempt.
func (c *Client) Run(ctx context.Context, a AnswerSet) error {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()

	if session == "" {
		var err error
		if session, err = c.Login(ctx); err != nil {
			return err
		}
	}
	list, err := c.Evaluations(ctx, session)
	if err != nil {
		return err
	}
	eval, err := PickEvaluation(list, c.cfg.EvaluationName, c.cfg.EvaluationIndex)
	if err != nil {
		return err
	}
	c.mu.Lock()
	ts := c.ts
	c.mu.Unlock()
	if ts != nil {
		if err := ts.SetEvaluationID(eval.ID); err != nil {
			c.log.Warn("persisting evaluation selection failed", "err", err)
		}
	}
	c.log.Info("submitting answer", "evaluation", eval.ID, "name", eval.Name)
	return c.Submit(ctx, session, eval.ID, a)
}
