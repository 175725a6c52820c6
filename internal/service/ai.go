package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"longevityhub/internal/apperr"
)

// llmTimeout is the fixed deadline for the external call; past it the chat
// request reports upstream_failure and the client may retry.
const llmTimeout = 15 * time.Second

// LLMClient speaks an OpenAI-compatible chat completions API.
type LLMClient struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewLLMClient(baseURL, apiKey, model string) *LLMClient {
	return &LLMClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: llmTimeout},
	}
}

func (s *LLMClient) Chat(ctx context.Context, system, user string) (string, error) {
	body := map[string]interface{}{
		"model": s.model,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
	}
	payload, _ := json.Marshal(body)

	ctx, cancel := context.WithTimeout(ctx, llmTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", apperr.Wrap(apperr.Upstream, err, "build llm request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", apperr.Wrap(apperr.Upstream, err, "llm call")
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		data, _ := io.ReadAll(resp.Body)
		return "", apperr.Wrap(apperr.Upstream, fmt.Errorf("llm status %d: %.200s", resp.StatusCode, data), "llm call")
	}

	data, _ := io.ReadAll(resp.Body)
	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", apperr.Wrap(apperr.Upstream, err, "decode llm response")
	}
	if len(result.Choices) == 0 {
		return "", apperr.E(apperr.Upstream, "empty llm choices")
	}
	return result.Choices[0].Message.Content, nil
}
