// Package notifier posts trip events to a Discord channel.
package notifier

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/gdg-garage/itinerary-api/internal/config"
	"github.com/gdg-garage/itinerary-api/internal/models"
)

type Notifier interface {
	NotifyTripCopied(user models.User, copied models.Trip) error
	NotifyTripPublished(user models.User, trip models.Trip) error
}

// messageSender is the part of *discordgo.Session the notifier uses.
type messageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type DiscordNotifier struct {
	session   messageSender
	channelID string
}

func NewDiscordNotifier(session *discordgo.Session, channelID string) *DiscordNotifier {
	n := &DiscordNotifier{channelID: channelID}
	if session != nil {
		n.session = session
	}
	return n
}

// New returns a Discord notifier when a bot token and channel are
// configured, and nil otherwise.
func New(cfg *config.Config) (Notifier, error) {
	if cfg.DiscordBotToken == "" || cfg.DiscordNotificationsChannelID == "" {
		return nil, nil
	}
	session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
	if err != nil {
		return nil, fmt.Errorf("creating discord session: %w", err)
	}
	return NewDiscordNotifier(session, cfg.DiscordNotificationsChannelID), nil
}

func (n *DiscordNotifier) send(message string) error {
	if n.session == nil {
		return errors.New("discord session is nil")
	}
	if n.channelID == "" {
		return errors.New("discord channel ID is empty")
	}

	if _, err := n.session.ChannelMessageSend(n.channelID, message); err != nil {
		slog.Error("failed to send discord message", slog.String("channel_id", n.channelID), slog.String("error", err.Error()))
		return err
	}
	return nil
}

func displayName(u models.User) string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

func (n *DiscordNotifier) NotifyTripCopied(user models.User, copied models.Trip) error {
	message := fmt.Sprintf("🧳 **Trip copied**\n**User:** %s\n**New trip:** %s\n**Dates:** %s - %s\n**Stops:** %d",
		displayName(user),
		copied.Name,
		models.FormatDate(copied.StartDate),
		models.FormatDate(copied.EndDate),
		len(copied.Stops),
	)
	return n.send(message)
}

func (n *DiscordNotifier) NotifyTripPublished(user models.User, trip models.Trip) error {
	message := fmt.Sprintf("🌍 **New public trip**\n**User:** %s\n**Trip:** %s\n**Dates:** %s - %s",
		displayName(user),
		trip.Name,
		models.FormatDate(trip.StartDate),
		models.FormatDate(trip.EndDate),
	)
	return n.send(message)
}
