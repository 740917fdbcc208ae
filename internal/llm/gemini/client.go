package gemini

import (
	"context"
	"encoding/json"
	"strings"

	"google.golang.org/genai"

	"peerprep/interview/internal/llm"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/prompts"
	"peerprep/interview/internal/questions"
)

const providerName = "gemini"

type generateFunc func(ctx context.Context, prompt string) (string, error)

// Client scores answers and writes summaries with a Gemini model. The question
// set stays the fixed embedded bank.
type Client struct {
	config   *Config
	prompts  prompts.PromptProvider
	generate generateFunc
}

func NewClient(config *Config) (*Client, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &llm.ProviderError{
			Provider: providerName,
			Code:     llm.ErrCodeAPIKey,
			Message:  "Failed to create Gemini client",
			Err:      err,
		}
	}

	pm, err := prompts.NewPromptManager()
	if err != nil {
		return nil, err
	}

	c := &Client{config: config, prompts: pm}
	c.generate = func(ctx context.Context, prompt string) (string, error) {
		result, err := client.Models.GenerateContent(ctx, config.Model, genai.Text(prompt), nil)
		if err != nil {
			return "", err
		}
		if result == nil {
			return "", nil
		}
		return result.Text()
	}
	return c, nil
}

func (c *Client) GenerateQuestions(context.Context) ([]models.Question, error) {
	return questions.Default()
}

func (c *Client) ScoreAnswer(ctx context.Context, question models.Question, answer string, difficulty models.Difficulty) (*llm.Score, error) {
	if strings.TrimSpace(answer) == "" {
		return &llm.Score{Score: 0, Feedback: "No answer was given."}, nil
	}

	prompt, err := c.prompts.BuildPrompt(prompts.ScoreAnswer, map[string]interface{}{
		"Question":       question.Prompt,
		"Difficulty":     difficulty,
		"TimeLimit":      question.TimeLimit,
		"ExpectedAnswer": question.ExpectedAnswer,
		"Answer":         answer,
	})
	if err != nil {
		return nil, &llm.ProviderError{Provider: providerName, Code: llm.ErrCodeInvalidInput, Message: "Failed to build prompt", Err: err}
	}

	text, err := c.call(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var score llm.Score
	if err := json.Unmarshal([]byte(StripFences(text)), &score); err != nil {
		return nil, &llm.ProviderError{Provider: providerName, Code: llm.ErrCodeInvalidInput, Message: "Failed to parse score", Err: err}
	}
	score.Score = llm.ClampScore(score.Score)
	if score.Feedback == "" {
		return nil, &llm.ProviderError{Provider: providerName, Code: llm.ErrCodeInvalidInput, Message: "Score is missing feedback"}
	}
	return &score, nil
}

func (c *Client) GenerateSummary(ctx context.Context, answers []models.Answer, scores []int) (*llm.Summary, error) {
	total, avg := llm.Totals(scores)
	tier := models.PerformanceTier(avg)

	prompt, err := c.prompts.BuildPrompt(prompts.Summary, map[string]interface{}{
		"TotalScore":      total,
		"MaxScore":        models.MaxAnswerScore * len(scores),
		"AverageScore":    avg,
		"PerformanceTier": tier,
		"Answers":         answers,
	})
	if err != nil {
		return nil, &llm.ProviderError{Provider: providerName, Code: llm.ErrCodeInvalidInput, Message: "Failed to build prompt", Err: err}
	}

	text, err := c.call(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return &llm.Summary{
		TotalScore:      total,
		AverageScore:    avg,
		PerformanceTier: tier,
		SummaryText:     strings.TrimSpace(text),
	}, nil
}

func (c *Client) GetProviderName() string {
	return providerName
}

func (c *Client) call(ctx context.Context, prompt string) (string, error) {
	text, err := c.generate(ctx, prompt)
	if err != nil {
		code := llm.ErrCodeServiceDown
		if ctx.Err() != nil {
			code = llm.ErrCodeTimeout
		}
		return "", &llm.ProviderError{Provider: providerName, Code: code, Message: "Failed to generate content", Err: err}
	}
	if strings.TrimSpace(text) == "" {
		return "", &llm.ProviderError{Provider: providerName, Code: llm.ErrCodeInvalidInput, Message: "Empty response generated"}
	}
	return text, nil
}

// StripFences removes a surrounding markdown code fence, if present.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

var _ llm.Provider = (*Client)(nil)
