package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/medinvest/medinvest/internal/common"
	"github.com/medinvest/medinvest/internal/logging"
)

var (
	ErrNotConfigured = errors.New("assistant is not configured")
	ErrUpstream      = errors.New("assistant request failed")
)

const (
	chatPrompt = "You are MedInvest's assistant for healthcare investors and clinicians. " +
		"Answer concisely. Do not give personalised financial advice."
	moderationPrompt = `Classify the user's text for a professional medical investment community. ` +
		`Reply with JSON only: {"flagged": bool, "categories": [string], "reason": string}.`
	summaryPrompt = `Summarise the user's text. ` +
		`Reply with JSON only: {"summary": string, "key_points": [string]}.`
	dealPrompt = `Assess the investment deal given as JSON. ` +
		`Reply with JSON only: {"score": 0-10, "strengths": [string], "risks": [string], "recommendation": string}.`

	maxBody = 1 << 20
)

// Client calls the chat completions endpoint at url.
type Client struct {
	url    string
	apiKey string
	model  string
	http   *http.Client
	logger logging.Logger
}

func NewClient(url, apiKey, model string, timeout time.Duration, logger logging.Logger) *Client {
	return &Client{
		url:    url,
		apiKey: apiKey,
		model:  model,
		http:   &http.Client{Timeout: timeout},
		logger: logger.With("module", "assistant"),
	}
}

// Chat sends the conversation, prefixed with the system prompt and the
// optional userContext, and returns the assistant's reply.
func (c *Client) Chat(ctx context.Context, turns []Turn, userContext string) (string, error) {
	msgs := make([]Turn, 0, len(turns)+2)
	msgs = append(msgs, Turn{Role: RoleSystem, Content: chatPrompt})
	if userContext != "" {
		msgs = append(msgs, Turn{Role: RoleSystem, Content: "User context: " + userContext})
	}
	msgs = append(msgs, turns...)

	return c.complete(ctx, msgs, false)
}

func (c *Client) Moderate(ctx context.Context, text string) (Moderation, error) {
	content, err := c.ask(ctx, moderationPrompt, text)
	if err != nil {
		return Moderation{}, err
	}
	res := gjson.Parse(content)
	return Moderation{
		Flagged:    res.Get("flagged").Bool(),
		Categories: stringList(res.Get("categories")),
		Reason:     res.Get("reason").String(),
	}, nil
}

func (c *Client) Summarize(ctx context.Context, text string) (Summary, error) {
	content, err := c.ask(ctx, summaryPrompt, text)
	if err != nil {
		return Summary{}, err
	}
	res := gjson.Parse(content)
	return Summary{
		Summary:   res.Get("summary").String(),
		KeyPoints: stringList(res.Get("key_points")),
	}, nil
}

func (c *Client) AnalyzeDeal(ctx context.Context, deal Deal) (DealAnalysis, error) {
	payload, err := json.Marshal(deal)
	if err != nil {
		return DealAnalysis{}, err
	}
	content, err := c.ask(ctx, dealPrompt, string(payload))
	if err != nil {
		return DealAnalysis{}, err
	}
	res := gjson.Parse(content)
	score := int(res.Get("score").Int())
	score = max(0, min(10, score))
	return DealAnalysis{
		Score:          score,
		Strengths:      stringList(res.Get("strengths")),
		Risks:          stringList(res.Get("risks")),
		Recommendation: res.Get("recommendation").String(),
	}, nil
}

// ask runs a single prompt that expects a JSON object back. A reply that is
// not a JSON object yields "{}" so callers decode zero values.
func (c *Client) ask(ctx context.Context, system, user string) (string, error) {
	content, err := c.complete(ctx, []Turn{
		{Role: RoleSystem, Content: system},
		{Role: RoleUser, Content: user},
	}, true)
	if err != nil {
		return "", err
	}

	content = stripFence(content)
	if !gjson.Valid(content) || !gjson.Parse(content).IsObject() {
		c.logger.Warn(ctx, "assistant reply is not a JSON object")
		return "{}", nil
	}
	return content, nil
}

func (c *Client) complete(ctx context.Context, msgs []Turn, jsonMode bool) (string, error) {
	if c.url == "" || c.apiKey == "" {
		return "", ErrNotConfigured
	}

	reqBody := map[string]any{
		"model":    c.model,
		"messages": msgs,
	}
	if jsonMode {
		reqBody["response_format"] = map[string]string{"type": "json_object"}
	}
	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(raw, "error.message").String()
		return "", fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, msg)
	}

	if !gjson.ValidBytes(raw) {
		c.logger.Warn(ctx, "assistant response is not JSON")
		return "", nil
	}
	return gjson.GetBytes(raw, "choices.0.message.content").String(), nil
}

// stripFence removes a surrounding ```json fence some models add.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func stringList(r gjson.Result) []string {
	if !r.IsArray() {
		return nil
	}
	var out []string
	for _, v := range r.Array() {
		if s := strings.TrimSpace(v.String()); s != "" {
			out = append(out, s)
		}
	}
	return out
}
