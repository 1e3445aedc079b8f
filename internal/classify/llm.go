package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/shopspring/decimal"

	"github.com/ledgerly-dev/ledgerly/internal/taxonomy"
)

// LLMClassifier classifies transaction descriptions through an
// OpenAI-compatible chat endpoint (works with a local Ollama server too).
// On any failure it falls back to the rule-based Classify.
type LLMClassifier struct {
	client *openai.Client
	model  string
}

// NewLLMClassifier builds a classifier against an OpenAI-compatible
// endpoint. baseURL may point at a local server.
func NewLLMClassifier(apiKey, baseURL, model string) *LLMClassifier {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &LLMClassifier{client: openai.NewClientWithConfig(cfg), model: model}
}

const systemPrompt = `You classify personal-finance transactions.
Given a bank statement description and signed amount, reply with JSON only:
{"type": "...", "nature": "...", "confidence": 0.0, "reasoning": "..."}

type is one of: income, expense, transfer.
nature must match the type:
  income: salary, business_income, investment_income, gift_received, refund, other_income
  expense: purchase, subscription, bill_payment, reimbursement_paid, gift_given, other_expense
  transfer: internal_transfer, cc_bill_payment, reimbursement_received, loan_given, loan_received, loan_repaid, adjustment

Classification priority: intent (will this money come back?), then
counterparty, then amount sign. confidence is 0 to 1.`

type llmReply struct {
	Type       string  `json:"type"`
	Nature     string  `json:"nature"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// Classify asks the model for a (type, nature) pair. Replies that fail to
// parse, or that name a nature invalid for the type, fall back to the
// rule-based classifier.
func (c *LLMClassifier) Classify(ctx context.Context, description string, amount decimal.Decimal) ClassificationResult {
	user := fmt.Sprintf("description: %s\namount: %s", description, amount.StringFixed(2))

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0,
	})
	if err != nil || len(resp.Choices) == 0 {
		return Classify(description, amount, "", "")
	}

	result, err := parseLLMReply(resp.Choices[0].Message.Content)
	if err != nil {
		return Classify(description, amount, "", "")
	}
	return result
}

func parseLLMReply(content string) (ClassificationResult, error) {
	// Models sometimes wrap JSON in a code fence.
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var reply llmReply
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &reply); err != nil {
		return ClassificationResult{}, fmt.Errorf("parsing model reply: %w", err)
	}

	txnType := taxonomy.TransactionType(reply.Type)
	nature := taxonomy.TransactionNature(reply.Nature)
	if !taxonomy.IsValidNature(txnType, nature) {
		return ClassificationResult{}, fmt.Errorf("model returned nature %q for type %q", reply.Nature, reply.Type)
	}

	conf := decimal.NewFromFloat(reply.Confidence)
	if conf.Sign() < 0 {
		conf = decimal.Zero
	}
	if conf.GreaterThan(decimal.NewFromInt(1)) {
		conf = decimal.NewFromInt(1)
	}

	return ClassificationResult{
		Type:       txnType,
		Nature:     nature,
		Confidence: conf,
		Reasoning:  reply.Reasoning,
	}, nil
}
