package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	completionsURL     = "https://api.openai.com/v1/completions"
	chatCompletionsURL = "https://api.openai.com/v1/chat/completions"
)

// ErrRateLimited is returned on HTTP 429, caller is expected to back off and retry
var ErrRateLimited = errors.New("rate limit exceeded")

// ErrUnauthorized is returned when the API rejects the key
var ErrUnauthorized = errors.New("invalid API key")

// ErrEmptyResponse is returned when the API responds without any choices
var ErrEmptyResponse = errors.New("no completion choices in response")

// Client implements integration with the OpenAI completion APIs
// docs: https://platform.openai.com/docs/api-reference
type Client struct {
	apiKey  string
	model   string
	client  *http.Client
	context context.Context
}

// Complete sends a prompt to the legacy completions endpoint and
// returns the trimmed text of the first choice
func (c Client) Complete(prompt string, maxTokens int) (string, error) {
	body, err := c.post(completionsURL, completionRequest{
		Model:     c.model,
		Prompt:    prompt,
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", err
	}
	var result completionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if result.Error != nil {
		return "", fmt.Errorf("API error: %v", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return strings.TrimSpace(result.Choices[0].Text), nil
}

// ChatComplete sends system+user messages to the chat completions
// endpoint and returns the trimmed content of the first choice
func (c Client) ChatComplete(system, user string, maxTokens int, temperature float64) (string, error) {
	messages := make([]Message, 0, 2)
	if system != "" {
		messages = append(messages, Message{Role: "system", Content: system})
	}
	messages = append(messages, Message{Role: "user", Content: user})
	body, err := c.post(chatCompletionsURL, chatRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", err
	}
	var result chatResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if result.Error != nil {
		return "", fmt.Errorf("API error: %v", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}

func (c Client) post(url string, payload interface{}) ([]byte, error) {
	jdata, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request body: %w", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(jdata))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.context != nil {
		req = req.WithContext(c.context)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	response, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer response.Body.Close()

	body, err := ioutil.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	switch response.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	default:
		log.Error().
			Str("status", response.Status).
			Str("body", string(body)).
			Msg("unsuccessfull response from OpenAI API")
		return nil, fmt.Errorf("unsuccessfull API response %v", response.StatusCode)
	}
}

// NewClient creates Client with default HTTP client
func NewClient(ctx context.Context, apiKey string, model string) Client {
	return Client{
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: 30 * time.Second},
		context: ctx,
	}
}
