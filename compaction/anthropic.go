package compaction

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	sdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/ctxkit/ctxkit"
	"github.com/ctxkit/ctxkit/internal/anthropic"
)

// Summarizer produces a structured summary of a conversation transcript.
// Implementations must honor context cancellation.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
}

// AnthropicSummarizer summarizes transcripts using Claude's streaming API.
type AnthropicSummarizer struct {
	client    *sdk.Client
	model     string
	maxTokens int
}

// NewAnthropicSummarizer creates a summarizer for the given model. An
// empty model falls back to DefaultCompressionModel.
func NewAnthropicSummarizer(client *sdk.Client, model string, maxTokens int) *AnthropicSummarizer {
	if model == "" {
		model = DefaultCompressionModel
	}
	if maxTokens <= 0 {
		maxTokens = DefaultSummarizerMaxTokens
	}
	return &AnthropicSummarizer{
		client:    client,
		model:     model,
		maxTokens: maxTokens,
	}
}

// Summarize sends the transcript to the model and accumulates the streamed
// response into a single summary string.
func (s *AnthropicSummarizer) Summarize(ctx context.Context, transcript string) (string, error) {
	userPrompt := BuildSummarizationUserPrompt(transcript)

	stream := s.client.Messages.NewStreaming(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(s.model),
		MaxTokens: int64(s.maxTokens),
		System: []sdk.TextBlockParam{
			{Text: SummarizationSystemPrompt},
		},
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(userPrompt)),
		},
	})

	message := sdk.Message{}
	for stream.Next() {
		event := stream.Current()
		if err := message.Accumulate(event); err != nil {
			return "", fmt.Errorf("%w: failed to accumulate stream: %v", ErrSummarizationFailed, err)
		}
	}
	if err := stream.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSummarizationFailed, err)
	}

	var summary strings.Builder
	for _, block := range message.Content {
		if text, ok := block.AsAny().(sdk.TextBlock); ok {
			summary.WriteString(text.Text)
		}
	}
	if summary.Len() == 0 {
		return "", fmt.Errorf("%w: empty response from summarizer", ErrSummarizationFailed)
	}
	return summary.String(), nil
}

// AnthropicTokenCounter is a TokenEstimator that uses the Claude token
// counting API, falling back to character-based approximation once the API
// fails. The fallback latches so a flaky endpoint is not retried on every
// estimate.
type AnthropicTokenCounter struct {
	client   *sdk.Client
	model    string
	useAPI   bool
	fallback atomic.Bool
}

// NewAnthropicTokenCounter creates a token counter. If useAPI is false,
// only the approximation is used.
func NewAnthropicTokenCounter(client *sdk.Client, model string, useAPI bool) *AnthropicTokenCounter {
	if model == "" {
		model = DefaultCompressionModel
	}
	return &AnthropicTokenCounter{
		client: client,
		model:  model,
		useAPI: useAPI,
	}
}

// EstimateMessages counts tokens for the given messages.
func (tc *AnthropicTokenCounter) EstimateMessages(ctx context.Context, messages []ctxkit.ModelMessage) (int, error) {
	if tc.useAPI && tc.client != nil && !tc.fallback.Load() {
		total, err := tc.countWithAPI(ctx, messages)
		if err == nil {
			return total, nil
		}
		tc.fallback.Store(true)
	}
	return EstimateMessages(messages), nil
}

func (tc *AnthropicTokenCounter) countWithAPI(ctx context.Context, messages []ctxkit.ModelMessage) (int, error) {
	if len(messages) == 0 {
		return 0, nil
	}

	system, params, err := anthropic.ToMessageParams(messages)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTokenCountingFailed, err)
	}
	if len(params) == 0 {
		return 0, nil
	}

	countParams := sdk.MessageCountTokensParams{
		Model:    sdk.Model(tc.model),
		Messages: params,
	}
	if len(system) > 0 {
		countParams.System = sdk.MessageCountTokensParamsSystemUnion{
			OfTextBlockArray: system,
		}
	}

	result, err := tc.client.Messages.CountTokens(ctx, countParams)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTokenCountingFailed, err)
	}
	return int(result.InputTokens), nil
}
