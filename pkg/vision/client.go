// Package vision asks a multimodal chat model about travel destinations.
package vision

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"visualcaption/pkg/metrics"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultBaseURL is Gemini's OpenAI-compatible endpoint.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DefaultModel   = "gemini-1.5-flash-001"

	// DestinationPrompt asks, in Vietnamese, which Vietnamese place is pictured
	// and for travel information about it.
	DestinationPrompt = "Đây là địa điểm nào ở Việt Nam, hãy cho tôi thông tin du lịch về địa điểm này bằng tiếng Việt."
)

// Client wraps an OpenAI-compatible chat completion API.
type Client struct {
	api   *openai.Client
	model string
}

// NewClient creates a Client. Empty baseURL and model fall back to the defaults.
func NewClient(apiKey, baseURL, model string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL
	return &Client{
		api:   openai.NewClientWithConfig(config),
		model: model,
	}
}

// DescribeDestination sends the fixed prompt with the image inlined as a JPEG data URL.
func (c *Client) DescribeDestination(ctx context.Context, image []byte) (text string, err error) {
	start := time.Now()
	defer func() { metrics.ObserveUpstream("vision", start, err) }()

	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image)
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: DestinationPrompt},
					{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: dataURL}},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("vision completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("vision completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
