package coach

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/2beens/vibefit/internal/config"
	"github.com/2beens/vibefit/internal/workout"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/genai"
)

const defaultGeminiTimeout = 60 * time.Second

type GeminiParams struct {
	APIKey string
	// Model is used for conversations that do not name one
	Model string
	// BaseURL overrides the Gemini API endpoint, used in tests
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// GeminiModel talks to the Gemini API. Every Reply rebuilds the chat from the
// given history, so no state is kept between calls.
type GeminiModel struct {
	client *genai.Client
	model  string
}

func NewGeminiModel(ctx context.Context, params GeminiParams) (*GeminiModel, error) {
	if strings.TrimSpace(params.APIKey) == "" {
		return nil, &config.ConfigurationError{
			Setting: config.EnvGeminiAPIKey,
			Reason:  "gemini api key not set",
		}
	}

	httpClient := params.HTTPClient
	if httpClient == nil {
		timeout := params.Timeout
		if timeout <= 0 {
			timeout = defaultGeminiTimeout
		}
		httpClient = &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   timeout,
		}
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     params.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if params.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: params.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiModel{
		client: client,
		model:  params.Model,
	}, nil
}

func (g *GeminiModel) Reply(ctx context.Context, conv *Conversation, history []workout.ChatMessage, message string) (string, error) {
	model := conv.Model
	if model == "" {
		model = g.model
	}

	var genConfig *genai.GenerateContentConfig
	if conv.SystemInstruction != "" {
		genConfig = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(conv.SystemInstruction, genai.RoleUser),
		}
	}

	chat, err := g.client.Chats.Create(ctx, model, genConfig, toGeminiHistory(history))
	if err != nil {
		return "", fmt.Errorf("create chat: %w", err)
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: message})
	if err != nil {
		return "", fmt.Errorf("send message: %w", err)
	}

	reply := strings.TrimSpace(resp.Text())
	if reply == "" {
		return "", errors.New("empty reply from model")
	}
	return reply, nil
}

func toGeminiHistory(history []workout.ChatMessage) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		var role genai.Role = genai.RoleUser
		if msg.Role == workout.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(msg.Content, role))
	}
	return contents
}
