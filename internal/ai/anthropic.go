package ai

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"sync"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/taskflow-ai/taskflow/internal/telemetry"
	"github.com/taskflow-ai/taskflow/internal/types"
)

const (
	maxRetries     = 3
	initialBackoff = 1 * time.Second
	maxTokens      = 1024
)

// errAPIKeyRequired is returned when no Anthropic API key is available.
var errAPIKeyRequired = errors.New("API key required")

// AnthropicProvider is the hosted-API Provider backed by the Anthropic
// Messages API.
type AnthropicProvider struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewAnthropicProvider creates the hosted provider. The API key comes
// from configuration (which already honors ANTHROPIC_API_KEY).
func NewAnthropicProvider(apiKey, model string) (*AnthropicProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: set ANTHROPIC_API_KEY or provider.api_key in config", errAPIKeyRequired)
	}

	aiMetricsOnce.Do(initAIMetrics)

	return &AnthropicProvider{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  anthropic.Model(model),
	}, nil
}

// Name implements Provider.
func (p *AnthropicProvider) Name() string { return "anthropic" }

// Generate implements Provider with bounded exponential retry on
// transient failures.
func (p *AnthropicProvider) Generate(ctx context.Context, prompt string, extra any) (string, error) {
	full, err := withContext(prompt, extra)
	if err != nil {
		return "", &types.ProviderError{Provider: p.Name(), Err: err}
	}

	params := anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(full)),
		},
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := initialBackoff * time.Duration(math.Pow(2, float64(attempt-1)))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", &types.ProviderError{Provider: p.Name(), Err: ctx.Err()}
			}
		}

		t0 := time.Now()
		message, err := p.client.Messages.New(ctx, params)
		ms := float64(time.Since(t0).Milliseconds())

		if err == nil {
			recordUsage(ctx, string(p.model), message.Usage.InputTokens, message.Usage.OutputTokens, ms)
			return textContent(message)
		}

		lastErr = err
		if ctx.Err() != nil {
			return "", &types.ProviderError{Provider: p.Name(), Err: ctx.Err()}
		}
		if !isRetryable(err) {
			return "", &types.ProviderError{Provider: p.Name(), Err: err}
		}
	}

	return "", &types.ProviderError{
		Provider:  p.Name(),
		Err:       fmt.Errorf("failed after %d attempts: %w", maxRetries+1, lastErr),
		Transient: true,
	}
}

// textContent extracts the text block from a message response. A non-text
// first block is a provider-side contract violation, not malformed model
// prose, so it is reported as a ProviderError.
func textContent(message *anthropic.Message) (string, error) {
	if len(message.Content) == 0 {
		return "", &types.ProviderError{Provider: "anthropic", Err: errors.New("response has no content blocks")}
	}
	block := message.Content[0]
	if block.Type != "text" {
		return "", &types.ProviderError{Provider: "anthropic", Err: fmt.Errorf("unexpected content block type %q", block.Type)}
	}
	return block.Text, nil
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.StatusCode >= 500
	}

	return false
}

// aiMetrics holds lazily-initialized instruments for Anthropic API calls.
var aiMetrics struct {
	inputTokens  metric.Int64Counter
	outputTokens metric.Int64Counter
	duration     metric.Float64Histogram
}

var aiMetricsOnce sync.Once

func initAIMetrics() {
	m := telemetry.Meter("github.com/taskflow-ai/taskflow/ai")
	aiMetrics.inputTokens, _ = m.Int64Counter("taskflow.ai.input_tokens",
		metric.WithDescription("Anthropic API input tokens consumed"),
		metric.WithUnit("{token}"),
	)
	aiMetrics.outputTokens, _ = m.Int64Counter("taskflow.ai.output_tokens",
		metric.WithDescription("Anthropic API output tokens generated"),
		metric.WithUnit("{token}"),
	)
	aiMetrics.duration, _ = m.Float64Histogram("taskflow.ai.request.duration",
		metric.WithDescription("Anthropic API request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
}

func recordUsage(ctx context.Context, model string, in, out int64, ms float64) {
	if aiMetrics.inputTokens == nil {
		return
	}
	attr := metric.WithAttributes(attribute.String("taskflow.ai.model", model))
	aiMetrics.inputTokens.Add(ctx, in, attr)
	aiMetrics.outputTokens.Add(ctx, out, attr)
	aiMetrics.duration.Record(ctx, ms, attr)
}
