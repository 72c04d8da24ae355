// Package notify posts ledger changes to a Discord channel.
//
// The notifier is a plain change-bus subscriber: it re-fetches nothing
// itself, the caller hands it a freshly computed summary on every
// publish. Delivery failures are logged and dropped; the ledger never
// depends on Discord being up.
package notify

import (
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/speedsyndicate/ledger/internal/ledger"
)

// DiscordNotifier sends balance updates to one channel.
type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

// NewDiscord creates a notifier for the given bot token and channel.
func NewDiscord(botToken, channelID string) (*DiscordNotifier, error) {
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	return &DiscordNotifier{session: session, channelID: channelID}, nil
}

// BalanceChanged posts the new summary to the channel.
func (n *DiscordNotifier) BalanceChanged(summary ledger.Summary) {
	msg := fmt.Sprintf(
		"Ledger updated\nExpenses: %s\nInvestor income: %s\nRacer trading: %s\n**Balance: %s**",
		ledger.Format(summary.TotalExpenses),
		ledger.Format(summary.TotalInvestorIncome),
		ledger.Format(summary.RacerTradeBalance),
		ledger.Format(summary.CurrentBalance),
	)
	if _, err := n.session.ChannelMessageSend(n.channelID, msg); err != nil {
		slog.Warn("failed to post balance update to Discord", "error", err)
	}
}

// Close releases the Discord session.
func (n *DiscordNotifier) Close() error {
	return n.session.Close()
}
