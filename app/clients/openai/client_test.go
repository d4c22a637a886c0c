package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type RoundTripFunc func(req *http.Request) (*http.Response, error)

func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func testClient(transport RoundTripFunc) Client {
	return Client{
		apiKey:  "test-key",
		model:   "gpt-3.5-turbo-instruct",
		client:  &http.Client{Transport: transport},
		context: context.TODO(),
	}
}

func TestComplete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client := testClient(func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, completionsURL, req.URL.String())
			assert.Equal(t, "Bearer test-key", req.Header.Get("Authorization"))
			var body completionRequest
			require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
			assert.Equal(t, "gpt-3.5-turbo-instruct", body.Model)
			assert.Equal(t, "Translate the Spanish word 'perro' to English.", body.Prompt)
			assert.Equal(t, 10, body.MaxTokens)
			return &http.Response{
				StatusCode: 200,
				Body:       ioutil.NopCloser(bytes.NewBufferString(`{"choices": [{"text": "\n\nDog "}]}`)),
				Header:     make(http.Header),
			}, nil
		})
		text, err := client.Complete("Translate the Spanish word 'perro' to English.", 10)
		assert.NoError(t, err)
		assert.Equal(t, "Dog", text)
	})
	t.Run("rate limited", func(t *testing.T) {
		client := testClient(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: 429,
				Body:       ioutil.NopCloser(bytes.NewBufferString(`{"error": {"message": "Rate limit reached"}}`)),
				Header:     make(http.Header),
			}, nil
		})
		_, err := client.Complete("prompt", 10)
		assert.ErrorIs(t, err, ErrRateLimited)
	})
	t.Run("unauthorized", func(t *testing.T) {
		client := testClient(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: 401,
				Body:       ioutil.NopCloser(bytes.NewBufferString(`{"error": {"message": "Incorrect API key"}}`)),
				Header:     make(http.Header),
			}, nil
		})
		_, err := client.Complete("prompt", 10)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
	t.Run("transport error", func(t *testing.T) {
		client := testClient(func(req *http.Request) (*http.Response, error) {
			return &http.Response{}, http.ErrServerClosed
		})
		_, err := client.Complete("prompt", 10)
		assert.ErrorIs(t, err, http.ErrServerClosed)
	})
	t.Run("no choices", func(t *testing.T) {
		client := testClient(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: 200,
				Body:       ioutil.NopCloser(bytes.NewBufferString(`{"choices": []}`)),
				Header:     make(http.Header),
			}, nil
		})
		_, err := client.Complete("prompt", 10)
		assert.ErrorIs(t, err, ErrEmptyResponse)
	})
	t.Run("invalid response", func(t *testing.T) {
		client := testClient(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: 200,
				Body:       ioutil.NopCloser(bytes.NewBufferString("Invalid JSON")),
				Header:     make(http.Header),
			}, nil
		})
		_, err := client.Complete("prompt", 10)
		assert.Error(t, err)
	})
}

func TestChatComplete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client := testClient(func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, chatCompletionsURL, req.URL.String())
			var body chatRequest
			require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
			require.Len(t, body.Messages, 2)
			assert.Equal(t, "system", body.Messages[0].Role)
			assert.Equal(t, "user", body.Messages[1].Role)
			assert.Equal(t, 0.0, body.Temperature)
			return &http.Response{
				StatusCode: 200,
				Body: ioutil.NopCloser(bytes.NewBufferString(
					`{"choices": [{"message": {"role": "assistant", "content": "El perro corre. (The dog runs.) (El perro)"}}]}`,
				)),
				Header: make(http.Header),
			}, nil
		})
		text, err := client.ChatComplete("You are a translator.", "perro", 60, 0.0)
		assert.NoError(t, err)
		assert.Equal(t, "El perro corre. (The dog runs.) (El perro)", text)
	})
	t.Run("no system message", func(t *testing.T) {
		client := testClient(func(req *http.Request) (*http.Response, error) {
			var body chatRequest
			require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
			require.Len(t, body.Messages, 1)
			assert.Equal(t, "user", body.Messages[0].Role)
			return &http.Response{
				StatusCode: 200,
				Body:       ioutil.NopCloser(bytes.NewBufferString(`{"choices": [{"message": {"content": "ok"}}]}`)),
				Header:     make(http.Header),
			}, nil
		})
		text, err := client.ChatComplete("", "perro", 60, 0.0)
		assert.NoError(t, err)
		assert.Equal(t, "ok", text)
	})
	t.Run("API error body", func(t *testing.T) {
		client := testClient(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: 200,
				Body:       ioutil.NopCloser(bytes.NewBufferString(`{"error": {"message": "model overloaded"}}`)),
				Header:     make(http.Header),
			}, nil
		})
		_, err := client.ChatComplete("", "perro", 60, 0.0)
		assert.Error(t, err)
	})
}
