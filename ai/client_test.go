package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/whoami669/my-bot/models"
)

type mockChatAPI struct {
	mock.Mock
}

func (m *mockChatAPI) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	args := m.Called(ctx, request)
	return args.Get(0).(openai.ChatCompletionResponse), args.Error(1)
}

func (m *mockChatAPI) CreateImage(ctx context.Context, request openai.ImageRequest) (openai.ImageResponse, error) {
	args := m.Called(ctx, request)
	return args.Get(0).(openai.ImageResponse), args.Error(1)
}

func completion(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
		},
	}
}

func TestClient_NotConfigured(t *testing.T) {
	client := NewClient("", "gpt-4o", "gpt-4o-mini", 60)

	assert.False(t, client.Enabled())

	_, err := client.Complete(context.Background(), CompletionRequest{})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = client.GenerateImage(context.Background(), "a cat")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestClient_CompleteBuildsRequest(t *testing.T) {
	api := new(mockChatAPI)
	client := NewClientWithAPI(api, "gpt-4o", "gpt-4o-mini", 600)

	api.On("CreateChatCompletion", mock.Anything, mock.MatchedBy(func(req openai.ChatCompletionRequest) bool {
		return req.Model == "gpt-4o-mini" &&
			req.MaxTokens == 100 &&
			req.Temperature == 0.9 &&
			len(req.Messages) == 2 &&
			req.Messages[0].Role == openai.ChatMessageRoleSystem &&
			req.Messages[1].Content == "hello" &&
			req.ResponseFormat == nil
	})).Return(completion("  hi there \n"), nil)

	var observed []string
	client.SetObserver(func(kind string, err error) {
		observed = append(observed, kind)
	})

	reply, err := client.Complete(context.Background(), CompletionRequest{
		Fast:        true,
		System:      SassySystem,
		Messages:    []Message{{Role: RoleUser, Content: "hello"}},
		MaxTokens:   100,
		Temperature: 0.9,
		Kind:        "sassy",
	})

	require.NoError(t, err)
	assert.Equal(t, "hi there", reply)
	assert.Equal(t, []string{"sassy"}, observed)
	api.AssertExpectations(t)
}

func TestClient_CompleteJSON(t *testing.T) {
	api := new(mockChatAPI)
	client := NewClientWithAPI(api, "gpt-4o", "", 600)

	api.On("CreateChatCompletion", mock.Anything, mock.MatchedBy(func(req openai.ChatCompletionRequest) bool {
		return req.ResponseFormat != nil &&
			req.ResponseFormat.Type == openai.ChatCompletionResponseFormatTypeJSONObject
	})).Return(completion("```json\n{\"caption\": \"Join us\"}\n```"), nil)

	var out struct {
		Caption string `json:"caption"`
	}
	err := client.CompleteJSON(context.Background(), CompletionRequest{Kind: "promotion"}, &out)

	require.NoError(t, err)
	assert.Equal(t, "Join us", out.Caption)
}

func TestClient_CompleteErrors(t *testing.T) {
	api := new(mockChatAPI)
	client := NewClientWithAPI(api, "gpt-4o", "", 600)

	api.On("CreateChatCompletion", mock.Anything, mock.Anything).
		Return(openai.ChatCompletionResponse{}, errors.New("boom")).Once()
	_, err := client.Complete(context.Background(), CompletionRequest{})
	assert.ErrorContains(t, err, "boom")

	api.On("CreateChatCompletion", mock.Anything, mock.Anything).
		Return(openai.ChatCompletionResponse{}, nil).Once()
	_, err = client.Complete(context.Background(), CompletionRequest{})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestClient_GenerateImage(t *testing.T) {
	api := new(mockChatAPI)
	client := NewClientWithAPI(api, "gpt-4o", "", 600)

	api.On("CreateImage", mock.Anything, mock.MatchedBy(func(req openai.ImageRequest) bool {
		return req.Prompt == "a banner" && req.N == 1
	})).Return(openai.ImageResponse{
		Data: []openai.ImageResponseDataInner{{URL: "https://example.com/banner.png"}},
	}, nil)

	url, err := client.GenerateImage(context.Background(), "a banner")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/banner.png", url)
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"prose", "Sure! {\"a\":{\"b\":2}} hope it helps", `{"a":{"b":2}}`},
		{"no object", "  nothing here ", "nothing here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSON(tt.raw))
		})
	}
}

func TestPromotionPrompt(t *testing.T) {
	prompt := PromotionPrompt(models.PromotionServer{Name: "Cozy Corner", MemberCount: 42}, "Reddit", "milestone")

	assert.Contains(t, prompt, "Server Name: Cozy Corner")
	assert.Contains(t, prompt, "Member Count: 42")
	assert.Contains(t, prompt, "Milestone Celebration")
	assert.Contains(t, prompt, "avoid overly promotional language")
}
