package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// ErrNotConfigured is returned when no API key was provided
var ErrNotConfigured = errors.New("AI is not configured")

// ErrEmptyResponse is returned when the API answers without any choice
var ErrEmptyResponse = errors.New("AI returned an empty response")

const requestTimeout = 60 * time.Second

// Role of a message in a conversation
type Role string

const (
	RoleSystem    Role = openai.ChatMessageRoleSystem
	RoleUser      Role = openai.ChatMessageRoleUser
	RoleAssistant Role = openai.ChatMessageRoleAssistant
)

// Message is one turn of a conversation
type Message struct {
	Role    Role
	Content string
}

// CompletionRequest describes a chat completion call
type CompletionRequest struct {
	Model       string // Empty selects the default model
	Fast        bool   // Use the fast model when Model is empty
	System      string
	Messages    []Message
	MaxTokens   int
	Temperature float32
	Kind        string // Label used for logs and metrics
}

// ChatAPI is the subset of the OpenAI client used by the bot
type ChatAPI interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
	CreateImage(ctx context.Context, request openai.ImageRequest) (openai.ImageResponse, error)
}

// RequestObserver is notified after every API call
type RequestObserver func(kind string, err error)

// Client wraps the OpenAI API with request throttling and model defaults
type Client struct {
	api          ChatAPI
	limiter      *rate.Limiter
	defaultModel string
	fastModel    string
	observer     RequestObserver
}

// NewClient creates a client for the given API key. An empty key yields a
// client whose calls all fail with ErrNotConfigured.
func NewClient(apiKey, defaultModel, fastModel string, requestsPerMinute int) *Client {
	var api ChatAPI
	if apiKey != "" {
		api = openai.NewClient(apiKey)
	}
	return NewClientWithAPI(api, defaultModel, fastModel, requestsPerMinute)
}

// NewClientWithAPI creates a client around an existing API implementation
func NewClientWithAPI(api ChatAPI, defaultModel, fastModel string, requestsPerMinute int) *Client {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	burst := requestsPerMinute / 6
	if burst < 1 {
		burst = 1
	}
	return &Client{
		api:          api,
		limiter:      rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), burst),
		defaultModel: defaultModel,
		fastModel:    fastModel,
	}
}

// SetObserver registers a callback invoked after every request
func (c *Client) SetObserver(observer RequestObserver) {
	c.observer = observer
}

// Enabled reports whether requests can be made
func (c *Client) Enabled() bool {
	return c != nil && c.api != nil
}

// Complete returns the text of a single chat completion
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	resp, err := c.createCompletion(ctx, req, nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp), nil
}

// CompleteJSON requests a JSON object response and decodes it into out
func (c *Client) CompleteJSON(ctx context.Context, req CompletionRequest, out any) error {
	format := &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	raw, err := c.createCompletion(ctx, req, format)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(ExtractJSON(raw)), out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", req.Kind, err)
	}
	return nil
}

// GenerateImage returns the URL of a generated image
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if !c.Enabled() {
		return "", ErrNotConfigured
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter wait failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := c.api.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          openai.CreateImageModelDallE3,
		N:              1,
		Size:           openai.CreateImageSize1024x1024,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	c.observe("image", err)
	if err != nil {
		return "", fmt.Errorf("image generation failed: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", ErrEmptyResponse
	}
	return resp.Data[0].URL, nil
}

func (c *Client) createCompletion(ctx context.Context, req CompletionRequest, format *openai.ChatCompletionResponseFormat) (string, error) {
	if !c.Enabled() {
		return "", ErrNotConfigured
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter wait failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	request := openai.ChatCompletionRequest{
		Model:          c.modelFor(req),
		Messages:       buildMessages(req),
		MaxTokens:      req.MaxTokens,
		Temperature:    req.Temperature,
		ResponseFormat: format,
	}

	started := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, request)
	c.observe(req.Kind, err)

	fields := log.Fields{
		"kind":     req.Kind,
		"model":    request.Model,
		"duration": time.Since(started).String(),
	}
	if err != nil {
		log.WithFields(fields).WithError(err).Warn("Chat completion failed")
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	fields["total_tokens"] = resp.Usage.TotalTokens
	log.WithFields(fields).Debug("Chat completion succeeded")

	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) modelFor(req CompletionRequest) string {
	if req.Model != "" {
		return req.Model
	}
	if req.Fast && c.fastModel != "" {
		return c.fastModel
	}
	return c.defaultModel
}

func (c *Client) observe(kind string, err error) {
	if c.observer != nil {
		c.observer(kind, err)
	}
}

func buildMessages(req CompletionRequest) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}
	return messages
}

// ExtractJSON trims markdown fences and any prose around the outermost JSON object
func ExtractJSON(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end < start {
		return strings.TrimSpace(raw)
	}
	return raw[start : end+1]
}
