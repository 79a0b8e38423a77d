package notification

import (
	"context"
	"fadebot/model"
	"fadebot/reference"
	"fadebot/types"
	"fadebot/utils"
	"fmt"
	"github.com/samber/lo"
	tb "gopkg.in/tucnak/telebot.v2"
	"strings"
	"time"
)

// StatusProvider answers the bot commands.
type StatusProvider interface {
	SystemStats(ctx context.Context) (types.SystemStats, error)
	ListActiveOpportunities(ctx context.Context) ([]types.OpportunityView, error)
}

type TelegramSettings struct {
	Token string
	Users []int64
}

type telegram struct {
	settings    TelegramSettings
	provider    StatusProvider
	defaultMenu *tb.ReplyMarkup
	client      *tb.Bot
}

func NewTelegram(provider StatusProvider, settings TelegramSettings) (reference.Telegram, error) {
	menu := &tb.ReplyMarkup{ResizeReplyKeyboard: true}
	poller := &tb.LongPoller{Timeout: 10 * time.Second}

	userMiddleware := tb.NewMiddlewarePoller(poller, func(u *tb.Update) bool {
		return allowedUpdate(settings.Users, u)
	})

	client, err := tb.NewBot(tb.Settings{
		ParseMode: tb.ModeMarkdown,
		Token:     settings.Token,
		Poller:    userMiddleware,
	})
	if err != nil {
		return nil, err
	}

	var (
		statusBtn        = menu.Text("/status")
		opportunitiesBtn = menu.Text("/opportunities")
	)
	menu.Reply(menu.Row(statusBtn, opportunitiesBtn))

	bot := &telegram{
		settings:    settings,
		provider:    provider,
		defaultMenu: menu,
		client:      client,
	}
	client.Handle("/help", bot.HelpHandle)
	client.Handle("/start", bot.HelpHandle)
	client.Handle("/status", bot.StatusHandle)
	client.Handle("/opportunities", bot.OpportunitiesHandle)
	return bot, nil
}

// allowedUpdate accepts messages sent by one of the configured users.
func allowedUpdate(users []int64, u *tb.Update) bool {
	if u.Message == nil || u.Message.Sender == nil {
		return false
	}
	if lo.Contains(users, u.Message.Sender.ID) {
		return true
	}
	utils.Log.Warnf("[Telegram] ignored message from %d", u.Message.Sender.ID)
	return false
}

func (t telegram) Start() {
	go t.client.Start()
	for _, id := range t.settings.Users {
		if _, err := t.client.Send(&tb.User{ID: id}, "Bot initialized.", t.defaultMenu); err != nil {
			utils.Log.Errorf("[Telegram] %v", err)
		}
	}
}

func (t telegram) Stop() {
	t.client.Stop()
}

func (t telegram) Notify(text string) {
	for _, user := range t.settings.Users {
		if _, err := t.client.Send(&tb.User{ID: user}, text); err != nil {
			utils.Log.Errorf("[Telegram] %v", err)
		}
	}
}

func (t telegram) OnOpportunity(opportunity model.Opportunity) {
	t.Notify(FormatOpportunity(opportunity))
}

func (t telegram) OnError(err error) {
	t.Notify(fmt.Sprintf("🛑 ERROR\n%s", err))
}

func (t telegram) HelpHandle(m *tb.Message) {
	commands := []string{
		"/status - collection and analysis counters",
		"/opportunities - active counter-trade suggestions",
	}
	t.reply(m, strings.Join(commands, "\n"))
}

func (t telegram) StatusHandle(m *tb.Message) {
	stats, err := t.provider.SystemStats(context.Background())
	if err != nil {
		t.OnError(err)
		return
	}
	t.reply(m, FormatStats(stats))
}

func (t telegram) OpportunitiesHandle(m *tb.Message) {
	views, err := t.provider.ListActiveOpportunities(context.Background())
	if err != nil {
		t.OnError(err)
		return
	}
	t.reply(m, FormatOpportunityViews(views))
}

func (t telegram) reply(m *tb.Message, text string) {
	if _, err := t.client.Send(m.Sender, text, t.defaultMenu); err != nil {
		utils.Log.Errorf("[Telegram] %v", err)
	}
}

func FormatOpportunity(opportunity model.Opportunity) string {
	return fmt.Sprintf("🎯 NEW OPPORTUNITY\n`%s` %s (loser is %s)\nLoser entry: %s\nSuggested entry: %s\nConfidence: %.1f",
		opportunity.Coin,
		opportunity.SuggestedSide,
		opportunity.LoserSide,
		opportunity.LoserEntryPrice.String(),
		opportunity.SuggestedEntryPrice.String(),
		opportunity.Confidence,
	)
}

func FormatStats(stats types.SystemStats) string {
	lastUpdated := "never"
	if stats.LastUpdated != nil {
		lastUpdated = stats.LastUpdated.UTC().Format(time.RFC3339)
	}
	return fmt.Sprintf("Traders: %d active / %d total\nOpen positions: %d\nOpportunities: %d active / %d total\nLast update: %s",
		stats.ActiveTraders, stats.TotalTraders,
		stats.OpenPositions,
		stats.ActiveOpportunities, stats.TotalOpportunities,
		lastUpdated,
	)
}

func FormatOpportunityViews(views []types.OpportunityView) string {
	if len(views) == 0 {
		return "No active opportunities"
	}
	lines := make([]string, 0, len(views))
	for _, view := range views {
		lines = append(lines, fmt.Sprintf("`%s` %s @ %s | conf %.1f | %s",
			view.Coin, view.SuggestedSide, view.SuggestedEntryPrice.String(), view.Confidence, view.TimeAgo))
	}
	return strings.Join(lines, "\n")
}
