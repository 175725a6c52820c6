package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"longevityhub/internal/apperr"
	"longevityhub/internal/model"
)

const chatSystemPrompt = `You are a health assistant inside a personal
longevity tracker. Answer the user's question using the daily metrics
provided. Be concrete, cite the numbers you rely on, and never invent data
that is not in the context. You are not a doctor; suggest professional help
for anything clinical.`

type chatLLM interface {
	Chat(ctx context.Context, system, user string) (string, error)
}

type chatTrends interface {
	Trends(ctx context.Context, userID, days int, today time.Time) (int, []model.TrendRow, error)
}

// ChatService forwards a user question plus their last week of metrics to
// the LLM.
type ChatService struct {
	llm       chatLLM
	analytics chatTrends
}

func NewChatService(llm chatLLM, analytics chatTrends) *ChatService {
	return &ChatService{llm: llm, analytics: analytics}
}

func (s *ChatService) Ask(ctx context.Context, userID int, question string, today time.Time) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", apperr.E(apperr.Validation, "question required")
	}

	_, rows, err := s.analytics.Trends(ctx, userID, 7, today)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("Last 7 days of metrics (day, steps, sleep h, workout min, protein g, carb g, score):\n")
	for _, r := range rows {
		score := "n/a"
		if r.Score != nil {
			score = fmt.Sprintf("%.1f", *r.Score)
		}
		sb.WriteString(fmt.Sprintf("%s: %d steps, %.1fh sleep, %dmin workout, %.0fg protein, %.0fg carbs, score %s\n",
			r.Day, r.Steps, r.SleepHours, r.WorkoutMin, r.ProteinG, r.CarbG, score))
	}
	sb.WriteString("\nQuestion: ")
	sb.WriteString(question)

	reply, err := s.llm.Chat(ctx, chatSystemPrompt, sb.String())
	if err != nil {
		return "", err
	}
	return reply, nil
}
