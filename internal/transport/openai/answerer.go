package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/caselens/internal/domain"
	"github.com/kailas-cloud/caselens/internal/domain/answer"
	"github.com/kailas-cloud/caselens/internal/domain/search/result"
	"github.com/kailas-cloud/caselens/internal/metrics"
)

const (
	providerName     = "openai"
	endpointChat     = "chat/completions"
	maxContextResult = 20
	maxFollowUps     = 3
)

const systemPrompt = `You answer legal research questions using only the numbered search results provided.
Cite results as [n]. If the results do not answer the question, say so.
Reply with a JSON object: {"answer": string, "follow_up_questions": [string, ...]} with at most 3 follow-up questions.`

// Answerer generates answers with an OpenAI-compatible chat completion model.
type Answerer struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// Config holds the answer provider settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewAnswerer creates an OpenAI-compatible answer generator.
func NewAnswerer(cfg *Config) *Answerer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Answerer{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

type completion struct {
	Answer            string   `json:"answer"`
	FollowUpQuestions []string `json:"follow_up_questions"`
}

// Answer implements the search usecase answer generator.
func (a *Answerer) Answer(ctx context.Context, req answer.Request) (answer.Answer, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	results := result.NormalizeAll(req.Results)
	if len(results) > maxContextResult {
		results = results[:maxContextResult]
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(req.Query, results)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
		Temperature:    0.1,
	})
	if err != nil {
		metrics.AnswerRequestsTotal.WithLabelValues(providerName, "error").Inc()
		return answer.Answer{}, parseAPIError(err)
	}
	if len(resp.Choices) == 0 {
		metrics.AnswerRequestsTotal.WithLabelValues(providerName, "error").Inc()
		return answer.Answer{}, fmt.Errorf("empty completion response: %w", domain.ErrBackend)
	}

	var out completion
	content := resp.Choices[0].Message.Content
	if err := json.Unmarshal([]byte(content), &out); err != nil || strings.TrimSpace(out.Answer) == "" {
		// Models occasionally ignore the response format; keep the text.
		a.logger.Debug("answer completion is not the expected JSON", zap.Error(err))
		out = completion{Answer: content}
	}
	if len(out.FollowUpQuestions) > maxFollowUps {
		out.FollowUpQuestions = out.FollowUpQuestions[:maxFollowUps]
	}

	metrics.AnswerRequestsTotal.WithLabelValues(providerName, "success").Inc()
	return answer.New(out.Answer, out.FollowUpQuestions, sources(results)), nil
}

// HealthCheck verifies API availability via ListModels.
func (a *Answerer) HealthCheck(ctx context.Context) error {
	if _, err := a.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

func buildPrompt(query string, results []result.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n\nSearch results:\n", query)
	for i, r := range results {
		fmt.Fprintf(&b, "[%d] %s", i+1, r.DisplayTitle())
		if r.DocketNumber() != "" {
			fmt.Fprintf(&b, " (Docket %s)", r.DocketNumber())
		}
		if r.DocumentType() != "" {
			fmt.Fprintf(&b, " [%s]", r.DocumentType())
		}
		b.WriteString("\n")
		if r.Snippet() != "" {
			b.WriteString(r.Snippet())
			b.WriteString("\n")
		}
	}
	return b.String()
}

func sources(results []result.Result) []answer.Source {
	out := make([]answer.Source, 0, len(results))
	for _, r := range results {
		out = append(out, answer.Source{Text: r.Snippet(), Source: r.DisplayTitle(), URL: r.DocumentURL()})
	}
	return out
}

// parseAPIError converts client errors into domain.APIError so callers see
// the same taxonomy as for the search backend.
func parseAPIError(err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		msg := extractDetail(reqErr.Body)
		if msg == "" {
			msg = fmt.Sprintf("Request failed with status %d", reqErr.HTTPStatusCode)
		}
		return domain.NewAPIError(reqErr.HTTPStatusCode, endpointChat, msg)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return domain.NewAPIError(apiErr.HTTPStatusCode, endpointChat, apiErr.Message)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewAPIError(http.StatusRequestTimeout, endpointChat, "Request timeout")
	}
	return domain.NewAPIError(domain.StatusNetwork, endpointChat, err.Error())
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
