package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/veristream/veristream/internal/model"
)

const openAIName = "OpenAI Verdict"

// OpenAIVerdict asks a chat model for a one-word verdict on the claim and
// maps it through the rating predicate. It is an optional third corroborator
// behind the same Provider interface; disabled unless configured.
type OpenAIVerdict struct {
	client    *openai.Client
	model     string
	apiKey    string
	timeout   time.Duration
	predicate RatingPredicate
}

// NewOpenAIVerdict creates the LLM verdict adapter
func NewOpenAIVerdict(cfg model.OpenAIConfig, timeout time.Duration, predicate RatingPredicate) *OpenAIVerdict {
	if predicate == nil {
		predicate = DefaultRatingPredicate
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	chatModel := cfg.Model
	if chatModel == "" {
		chatModel = openai.GPT4oMini
	}

	return &OpenAIVerdict{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     chatModel,
		apiKey:    cfg.APIKey,
		timeout:   timeout,
		predicate: predicate,
	}
}

// Name returns the provider name as recorded on fact-check entries
func (p *OpenAIVerdict) Name() string { return openAIName }

// Kind identifies the provider as a qualitative corroborator
func (p *OpenAIVerdict) Kind() Kind { return KindQualitative }

// Check asks the model for a verdict on the claim text
func (p *OpenAIVerdict) Check(ctx context.Context, text string) Result {
	if p.apiKey == "" {
		return failure(openAIName, KindQualitative, "api key not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a fact-checking assistant. Answer with a single word: True, False, or Unverifiable.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Is the following claim accurate?\n\n%s", text),
			},
		},
		MaxTokens:   8,
		Temperature: 0,
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return failure(openAIName, KindQualitative, fmt.Sprintf("chat completion: %v", err))
	}
	if len(resp.Choices) == 0 {
		return failure(openAIName, KindQualitative, "empty completion response")
	}

	verdict := strings.TrimSpace(resp.Choices[0].Message.Content)
	if verdict == "" {
		return failure(openAIName, KindQualitative, "empty verdict")
	}

	corroborated := p.predicate(verdict)
	score := notCorroboratedScore
	if corroborated {
		score = corroboratedScore
	}
	return Result{
		Source:       openAIName,
		Kind:         KindQualitative,
		Score:        score,
		Explanation:  fmt.Sprintf("%s verdict: %s", p.model, verdict),
		Corroborated: corroborated,
		Succeeded:    true,
	}
}
