package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/yukikurage/progress-api/internal/constants"
)

type AIService struct {
	client *openai.Client
	model  string
}

type SuggestedSubtask struct {
	Title string `json:"title"`
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
		model:  openai.GPT4o,
	}
}

// SuggestSubtasks asks the model to split a task into small, checkable steps
func (s *AIService) SuggestSubtasks(ctx context.Context, taskTitle, hint string) ([]SuggestedSubtask, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	prompt := fmt.Sprintf(`You help people break work into small steps.
Split the following task into at most %d concrete subtasks that can each be checked off.

Task: %s
%s
Return a JSON array in this format:
[
  {"title": "short subtask title"}
]

Rules:
- Return an empty array [] if the task cannot be split
- Keep titles under 80 characters
- Return JSON only, with no explanation`, constants.MaxAISuggestedSubtasks, taskTitle, hintLine(hint))

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)

	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	return parseSuggestions(resp.Choices[0].Message.Content)
}

func hintLine(hint string) string {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return ""
	}
	return "Context: " + hint + "\n"
}

// parseSuggestions accepts the bare JSON array the prompt asks for, tolerating
// a surrounding markdown code fence.
func parseSuggestions(content string) ([]SuggestedSubtask, error) {
	trimmed := strings.TrimSpace(content)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")

	var suggestions []SuggestedSubtask
	if err := json.Unmarshal([]byte(strings.TrimSpace(trimmed)), &suggestions); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	return suggestions, nil
}
