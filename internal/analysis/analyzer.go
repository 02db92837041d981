// Package analysis sends a stored scan file to a remote vision model and turns the reply
// into a typed result.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"scanapi/internal/config"
	"scanapi/internal/logging"
	"scanapi/internal/model"
	"scanapi/internal/storage"
)

const (
	defaultModel     = "gpt-4.1-2025-04-14"
	defaultMaxTokens = 2000
	// rawContentLogLimit caps how much of an unparseable reply is logged.
	rawContentLogLimit = 2048
)

// Request identifies the file to analyze and the context given to the model.
type Request struct {
	FilePath    string `json:"filePath"`
	ContentType string `json:"contentType"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Result is a successful analysis. Fields holds the validated top-level keys of the model's
// reply exactly as they will be returned to callers; Analysis is the typed view of the same data.
type Result struct {
	FilePath string
	Analysis model.AnalysisResult
	Fields   map[string]any
}

// Analyzer runs one analysis per call: one storage read, one remote call, no retries.
type Analyzer interface {
	Analyze(ctx context.Context, req Request) (*Result, error)
}

// Option customizes an analyzer.
type Option func(*analyzer)

// WithHTTPClient replaces the instrumented default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(a *analyzer) { a.httpClient = c }
}

// WithMetrics records outcomes on m.
func WithMetrics(m *Metrics) Option {
	return func(a *analyzer) { a.metrics = m }
}

// WithLogger sets the logger; the slog default is used otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(a *analyzer) { a.log = l }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(a *analyzer) { a.now = now }
}

type analyzer struct {
	store      storage.Storage
	cfg        config.OpenAIConfig
	client     *openai.Client
	httpClient *http.Client
	metrics    *Metrics
	log        *slog.Logger
	now        func() time.Time
	tracer     trace.Tracer
}

// NewAnalyzer builds an Analyzer reading files from store and calling the endpoint in cfg.
// A missing API key is not an error here; every Analyze call reports ErrAPIKeyMissing instead.
func NewAnalyzer(store storage.Storage, cfg config.OpenAIConfig, opts ...Option) Analyzer {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}

	a := &analyzer{
		store:  store,
		cfg:    cfg,
		log:    slog.Default(),
		now:    time.Now,
		tracer: otel.Tracer("scanapi/internal/analysis"),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.httpClient == nil {
		// No client timeout: the caller's context bounds the call.
		a.httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}

	if cfg.APIKey != "" {
		oc := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
		}
		oc.HTTPClient = withErrorBodyCapture(a.httpClient)
		a.client = openai.NewClientWithConfig(oc)
	}
	return a
}

func (a *analyzer) Analyze(ctx context.Context, req Request) (*Result, error) {
	ctx, span := a.tracer.Start(ctx, "analysis.Analyze", trace.WithAttributes(
		attribute.String("scan.file_path", req.FilePath),
		attribute.String("scan.content_type", req.ContentType),
	))
	defer span.End()

	start := time.Now()
	res, err := a.analyze(ctx, req)
	a.metrics.observe(err, time.Since(start))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		a.log.Error("scan_analysis_failed",
			"file_path", req.FilePath,
			"outcome", Outcome(err),
			logging.Err(err),
		)
		return nil, err
	}

	a.log.Info("scan_analysis_completed",
		"file_path", req.FilePath,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

func (a *analyzer) analyze(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.FilePath) == "" {
		return nil, ErrFilePathRequired
	}

	a.log.Info("scan_analysis_started",
		"file_path", req.FilePath,
		"content_type", req.ContentType,
		"title", req.Title,
	)

	data, _, err := storage.Download(ctx, a.store, req.FilePath)
	if err != nil {
		return nil, &StorageError{Path: req.FilePath, Err: err}
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	payload := EncodeBase64Chunked(data, ChunkSize)

	if a.client == nil {
		return nil, ErrAPIKeyMissing
	}

	callCtx, errBody := withErrorBody(ctx)
	resp, err := a.client.CreateChatCompletion(callCtx, a.buildRequest(req, ImageMIME(data), payload))
	if err != nil {
		return nil, translateAPIError(err, errBody.String())
	}
	if len(resp.Choices) == 0 {
		return nil, ErrInvalidResponseFormat
	}

	content := resp.Choices[0].Message.Content
	parsed, fields, err := ParseAnalysis(content)
	if err != nil {
		a.log.Warn("scan_analysis_unparseable",
			"file_path", req.FilePath,
			logging.Err(err),
			"raw_content", truncate(content, rawContentLogLimit),
		)
		return nil, ErrParseAnalysis
	}

	return &Result{
		FilePath: req.FilePath,
		Analysis: parsed,
		Fields:   fields,
	}, nil
}

func (a *analyzer) buildRequest(req Request, mime, payload string) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model:               a.cfg.Model,
		MaxCompletionTokens: a.cfg.MaxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: SystemPrompt(a.now()),
			},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: UserPrompt(req),
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    DataURI(mime, payload),
							Detail: openai.ImageURLDetailHigh,
						},
					},
				},
			},
		},
	}
}

// translateAPIError maps client errors onto the package's error types. raw is the reply body
// as received; it is preferred over the client's decoded message.
func translateAPIError(err error, raw string) error {
	var (
		apiErr    *openai.APIError
		reqErr    *openai.RequestError
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &apiErr):
		body := raw
		if body == "" {
			body = apiErr.Message
		}
		return &APIError{StatusCode: apiErr.HTTPStatusCode, Body: body}
	case errors.As(err, &reqErr):
		body := raw
		if body == "" {
			body = strings.TrimSpace(string(reqErr.Body))
		}
		if body == "" && reqErr.Err != nil {
			body = reqErr.Err.Error()
		}
		return &APIError{StatusCode: reqErr.HTTPStatusCode, Body: body}
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		return fmt.Errorf("%w: %v", ErrInvalidResponseFormat, err)
	default:
		return fmt.Errorf("remote API request failed: %w", err)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
