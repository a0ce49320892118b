package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"recipe-assistant/internal/core/ai/provider"
	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// 錯誤日誌中回應內容的最大長度
const maxLoggedBody = 512

// ErrMissingAPIKey 尚未設定 GEMINI_API_KEY
var ErrMissingAPIKey = errors.New("gemini api key is not configured")

// Client Gemini generateContent API 客戶端
type Client struct {
	client      *resty.Client
	model       string
	timeout     time.Duration
	maxTokens   int
	temperature float64
	hasKey      bool
}

// Part 內容片段
type Part struct {
	Text string `json:"text"`
}

// Content 對話內容
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// GenerationConfig 生成參數
type GenerationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

// Request generateContent 請求
type Request struct {
	Contents         []Content         `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

// Candidate 候選回應
type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

// PromptFeedback 提示詞審查結果
type PromptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

// UsageMetadata 用量
type UsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

// Response generateContent 響應
type Response struct {
	Candidates     []Candidate     `json:"candidates"`
	PromptFeedback *PromptFeedback `json:"promptFeedback,omitempty"`
	UsageMetadata  UsageMetadata   `json:"usageMetadata"`
}

// Error API 錯誤格式
type Error struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// NewClient 創建新的 Gemini 客戶端
func NewClient(cfg *config.GeminiConfig) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-goog-api-key", cfg.APIKey)

	return &Client{
		client:      client,
		model:       cfg.Model,
		timeout:     cfg.Timeout,
		maxTokens:   cfg.MaxOutputTokens,
		temperature: cfg.Temperature,
		hasKey:      cfg.APIKey != "",
	}
}

// GetModel 獲取模型名稱
func (c *Client) GetModel() string {
	return c.model
}

// GetTimeout 獲取請求超時
func (c *Client) GetTimeout() time.Duration {
	return c.timeout
}

// Generate 呼叫 generateContent，所有失敗都包裝成 GenerationFailed
func (c *Client) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	if !c.hasKey {
		return nil, common.NewGenerationFailed(ErrMissingAPIKey)
	}

	body := &Request{
		Contents: []Content{
			{
				Role:  "user",
				Parts: []Part{{Text: req.Prompt}},
			},
		},
		GenerationConfig: &GenerationConfig{
			Temperature:     pickFloat(req.Temperature, c.temperature),
			MaxOutputTokens: pickInt(req.MaxTokens, c.maxTokens),
		},
	}

	common.LogDebug("Sending request to Gemini",
		zap.String("model", c.model),
		zap.Int("prompt_length", len(req.Prompt)),
	)

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/models/" + c.model + ":generateContent")
	if err != nil {
		common.LogError("Failed to send request to Gemini",
			zap.Error(err),
			zap.String("model", c.model),
		)
		return nil, common.NewGenerationFailed(fmt.Errorf("failed to send request to Gemini: %w", err))
	}

	if resp.StatusCode() != http.StatusOK {
		detail := errorDetail(resp.Body())
		common.LogError("Gemini returned error status",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("model", c.model),
			zap.String("response", detail),
		)
		return nil, common.NewGenerationFailed(fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode(), detail))
	}

	var result Response
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, common.NewGenerationFailed(fmt.Errorf("failed to parse Gemini response: %w", err))
	}

	if result.PromptFeedback != nil && result.PromptFeedback.BlockReason != "" {
		common.LogWarn("Gemini blocked the prompt",
			zap.String("model", c.model),
			zap.String("block_reason", result.PromptFeedback.BlockReason),
		)
		return nil, common.NewGenerationFailed(fmt.Errorf("prompt blocked: %s", result.PromptFeedback.BlockReason))
	}

	if len(result.Candidates) == 0 {
		return nil, common.NewGenerationFailed(errors.New("no candidates in Gemini response"))
	}

	candidate := result.Candidates[0]
	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		sb.WriteString(part.Text)
	}
	content := sb.String()
	if strings.TrimSpace(content) == "" {
		return nil, common.NewGenerationFailed(fmt.Errorf("empty content in Gemini response (finish reason %q)", candidate.FinishReason))
	}

	common.LogDebug("Gemini response received",
		zap.String("model", c.model),
		zap.Int("content_length", len(content)),
		zap.Int("total_tokens", result.UsageMetadata.TotalTokenCount),
	)

	return &provider.Response{
		Content:      content,
		FinishReason: candidate.FinishReason,
		Usage: provider.Usage{
			PromptTokens:     result.UsageMetadata.PromptTokenCount,
			CompletionTokens: result.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      result.UsageMetadata.TotalTokenCount,
		},
	}, nil
}

// Close 關閉客戶端
func (c *Client) Close() error {
	c.client.GetClient().CloseIdleConnections()
	return nil
}

// errorDetail 取出錯誤訊息，非 JSON 內容截斷後回傳
func errorDetail(body []byte) string {
	var apiErr Error
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		if apiErr.Error.Status != "" {
			return apiErr.Error.Status + ": " + apiErr.Error.Message
		}
		return apiErr.Error.Message
	}
	s := string(body)
	if len(s) > maxLoggedBody {
		s = s[:maxLoggedBody] + "..."
	}
	return s
}

func pickInt(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}

func pickFloat(v, fallback float64) float64 {
	if v > 0 {
		return v
	}
	return fallback
}
