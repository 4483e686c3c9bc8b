package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/robfig/cron/v3"

	"opsdesk/src-server/model"
	"opsdesk/src-server/utils"
)

// DailyDigest posts the day's calendar events to the configured Discord
// channel on the DIGEST_CRON schedule. Does nothing unless both the Discord
// session and channel are configured.
func DailyDigest(as *utils.AppState) {
	if as.DgSession == nil || as.Config.GetDiscordChannelID() == "" {
		slog.Warn("daily digest disabled, Discord is not configured")
		return
	}

	c := cron.New(cron.WithLocation(as.Config.GetLocation()))
	if _, err := c.AddFunc(as.Config.GetDigestCron(), func() {
		if err := sendDigest(as); err != nil {
			slog.Error("can't send daily digest", "error", err)
		}
	}); err != nil {
		slog.Error("invalid DIGEST_CRON expression", "cron", as.Config.GetDigestCron(), "error", err)
		return
	}
	c.Start()
	slog.Info("daily digest scheduled", "cron", as.Config.GetDigestCron())

	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		<-*gracefulShutdownCh
		c.Stop()
	}()
}

func sendDigest(as *utils.AppState) error {
	// today in the configured timezone, carried as a UTC calendar date
	now := time.Now().In(as.Config.GetLocation())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	eventModels := make([]model.Event, 0)
	if err := as.BunDB.
		NewSelect().
		Model(&eventModels).
		Scan(context.Background()); err != nil {
		return fmt.Errorf("sendDigest: %w", err)
	}

	fields := make([]*discordgo.MessageEmbedField, 0)
	for _, eventModel := range eventModels {
		if !eventModel.OccursOn(today) {
			continue
		}
		timeSpec := eventModel.TimeSpec
		if timeSpec == "" {
			timeSpec = "All day"
		}
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   eventModel.Title,
			Value:  timeSpec,
			Inline: true,
		})
	}
	if len(fields) == 0 {
		slog.Debug("no events today, skipping digest")
		return nil
	}

	if _, err := as.DgSession.ChannelMessageSendEmbed(
		as.Config.GetDiscordChannelID(),
		&discordgo.MessageEmbed{
			Title:  "Today: " + today.Format("Mon, Jan 2"),
			Fields: fields,
		},
	); err != nil {
		return fmt.Errorf("sendDigest: can't send message: %w", err)
	}

	return nil
}
