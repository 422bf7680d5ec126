// Package coach provides the AI trading coach built on the OpenAI API.
package coach

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"equilibrium-coach/internal/analytics"
	apperrors "equilibrium-coach/internal/errors"
	"equilibrium-coach/internal/journal"
	"equilibrium-coach/internal/models"
	"equilibrium-coach/pkg/utils"
)

const systemPrompt = `You are a calm, direct trading coach for a discretionary trader.
You review journaled trades and conversations about them. Ground every
observation in the data you are given. Focus on process over outcome:
risk taken, plan quality, psychology and repeated behavior. Keep answers
short and concrete. Never give financial advice or price predictions.`

// Coach wraps the OpenAI chat API for trade feedback and conversation.
type Coach struct {
	client *openai.Client
	model  string
}

// New creates a coach. An empty API key yields a coach whose methods
// return ErrCoachUnavailable, so callers can wire it unconditionally.
func New(apiKey, model string) *Coach {
	if apiKey == "" {
		return &Coach{}
	}
	return &Coach{client: openai.NewClient(apiKey), model: model}
}

// Available reports whether the coach can reach the API.
func (c *Coach) Available() bool {
	return c.client != nil
}

// TradeNotes asks the coach for feedback on a single journaled trade.
func (c *Coach) TradeNotes(ctx context.Context, t *models.Trade, profile *models.UserProfile) (string, error) {
	if c.client == nil {
		return "", apperrors.ErrCoachUnavailable
	}
	prompt := buildTradePrompt(t, profile)
	return c.complete(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	})
}

// Chat continues the coaching conversation. The recent journal summary
// is injected so the coach can reference actual results.
func (c *Coach) Chat(ctx context.Context, history []models.ChatMessage, message string, profile *models.UserProfile, trades []models.Trade) (string, error) {
	if c.client == nil {
		return "", apperrors.ErrCoachUnavailable
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: openai.ChatMessageRoleSystem, Content: buildContextPrompt(profile, trades)},
	}
	for _, m := range history {
		role := openai.ChatMessageRoleUser
		if m.Role == models.RoleCoach {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: m.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})

	return c.complete(ctx, messages)
}

func (c *Coach) complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	resp, err := utils.RetryWithResult(ctx, utils.DefaultRetryConfig(),
		func() (openai.ChatCompletionResponse, error) {
			return c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
				Model:    c.model,
				Messages: messages,
			})
		})
	if err != nil {
		return "", apperrors.NewCoachError("chat completion", err)
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.NewCoachError("chat completion", fmt.Errorf("empty response"))
	}
	return resp.Choices[0].Message.Content, nil
}

func buildTradePrompt(t *models.Trade, profile *models.UserProfile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Review this journaled trade.\n\n")
	if profile != nil {
		fmt.Fprintf(&b, "Trader style: %s\n", profile.TraderStyle)
	}
	fmt.Fprintf(&b, "Asset: %s (%s %s, %s)\n", t.Asset, t.Market, t.Direction, t.Timeframe)
	fmt.Fprintf(&b, "Setup: %s\n", t.Setup)
	fmt.Fprintf(&b, "Entry %.5f, stop %.5f, risked %.2f%% of capital, planned RR %.2f\n",
		t.Entry, t.StopLoss, t.RiskR, t.RewardRisk)
	fmt.Fprintf(&b, "Motive: %s. Mental state: %s.\n", t.Motive, t.MentalState)
	fmt.Fprintf(&b, "Quality score %.1f (%s)\n", t.QualityScore, t.ExecutionQuality)
	if len(t.AlertsTriggered) > 0 {
		fmt.Fprintf(&b, "Alerts at entry:\n")
		for _, a := range t.AlertsTriggered {
			fmt.Fprintf(&b, "- %s\n", a)
		}
	}
	if t.Thesis != "" {
		fmt.Fprintf(&b, "Thesis: %s\n", t.Thesis)
	}
	for _, p := range t.PartialExits {
		fmt.Fprintf(&b, "Partial exit: %.1f%% at %.5f (%+.2fR)\n", p.Percentage, p.Price, p.PnLR)
	}
	if t.Status == models.StatusClosed && t.PnL != nil {
		fmt.Fprintf(&b, "Closed at %.5f for %+.2f$ (%+.2fR). Closing note: %s\n",
			t.ExitPrice, t.PnL.Dollars, t.PnL.RMultiple, t.ClosingNote)
	}
	b.WriteString("\nGive 3 short observations about process quality and one concrete improvement.")
	return b.String()
}

func buildContextPrompt(profile *models.UserProfile, trades []models.Trade) string {
	var b strings.Builder
	b.WriteString("Journal context for this conversation.\n")
	if profile != nil {
		fmt.Fprintf(&b, "Trader: %s, style %s.\n", profile.Name, profile.TraderStyle)
		if len(profile.Weaknesses) > 0 {
			fmt.Fprintf(&b, "Self-declared weaknesses: %s.\n", strings.Join(profile.Weaknesses, ", "))
		}
	}
	summary := analytics.Summarize(trades)
	fmt.Fprintf(&b, "Trades: %d total, %d closed, win rate %.1f%%, total %+.2f$ (%+.2fR), avg score %.1f.\n",
		summary.TotalTrades, summary.ClosedTrades, summary.WinRate,
		summary.TotalDollars, summary.TotalR, summary.AvgScore)

	recent := trades
	if len(recent) > 5 {
		recent = recent[:5]
	}
	for i := range recent {
		t := &recent[i]
		fmt.Fprintf(&b, "- %s %s %s: score %.1f, realized %+.2f$ (%+.2fR), status %s\n",
			t.TradeDateTime.Format("2006-01-02"), t.Asset, t.Direction,
			t.QualityScore, journal.RealizedDollars(t), journal.RealizedR(t), t.Status)
	}
	return b.String()
}
