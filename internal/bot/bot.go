// Package bot is the Telegram front-end: it receives URLs, presents variant
// menus, and routes selections into the delivery pipeline.
package bot

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/jalilimmd/video-downloader-bot/internal/config"
	"github.com/jalilimmd/video-downloader-bot/internal/delivery"
	"github.com/jalilimmd/video-downloader-bot/internal/extractor"
	"github.com/jalilimmd/video-downloader-bot/internal/menu"
	"github.com/jalilimmd/video-downloader-bot/internal/session"
)

// Bot wires the Telegram update stream to the session correlator and the
// delivery pipeline. One goroutine per incoming event; unrelated chats run
// concurrently with no ordering between them.
type Bot struct {
	logger     *slog.Logger
	api        *tgbotapi.BotAPI
	cfg        config.Config
	extractor  extractor.Extractor
	correlator *session.Correlator
	pipeline   *delivery.Pipeline
}

func New(log *slog.Logger, api *tgbotapi.BotAPI, cfg config.Config, ex extractor.Extractor, correlator *session.Correlator, pipeline *delivery.Pipeline) *Bot {
	if log == nil {
		log = slog.Default()
	}
	return &Bot{
		logger:     log.With(slog.String("component", "bot")),
		api:        api,
		cfg:        cfg,
		extractor:  ex,
		correlator: correlator,
		pipeline:   pipeline,
	}
}

// Run long-polls Telegram until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30
	updates := b.api.GetUpdatesChan(updateConfig)
	b.logger.Info("long-poll started", slog.String("username", b.api.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			// Drain so the library's polling goroutine can exit; an
			// in-flight long poll would otherwise keep the getUpdates
			// session alive into the next start.
			for range updates {
			}
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				b.logger.Info("updates channel closed")
				return nil
			}
			switch {
			case update.CallbackQuery != nil:
				go b.handleCallback(ctx, update.CallbackQuery)
			case update.Message != nil && update.Message.Text != "":
				go b.handleMessage(ctx, update.Message)
			}
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		if msg.Command() == "start" {
			b.reply(msg.Chat.ID, greetingText)
		}
		return
	}
	b.handleURL(ctx, msg)
}

// handleURL probes the submitted URL and presents the variant menu.
func (b *Bot) handleURL(ctx context.Context, msg *tgbotapi.Message) {
	url := msg.Text
	chatID := msg.Chat.ID
	log := b.logger.With(slog.Int64("chat_id", chatID))

	placeholder, err := b.api.Send(tgbotapi.NewMessage(chatID, probingText))
	if err != nil {
		log.Error("send placeholder failed", slog.Any("error", err))
		return
	}

	info, err := b.extractor.Probe(ctx, url)
	if err != nil {
		log.Warn("discovery failed", slog.String("url", url), slog.Any("error", err))
		b.editText(chatID, placeholder.MessageID, failureText(err))
		return
	}

	entries := b.buildMenu(url, info.Variants)
	if len(entries) == 0 {
		// Nothing deliverable is a user-visible condition, not a fault.
		b.editText(chatID, placeholder.MessageID, noVariantText(b.cfg.Download.Container))
		return
	}

	sent, err := b.sendMenu(chatID, info, entries)
	if err != nil {
		log.Error("send menu failed", slog.Any("error", err))
		b.editText(chatID, placeholder.MessageID, downloadFailedText)
		return
	}

	// The menu message ID is the correlation anchor; the store entry must
	// exist before the first button press can race in.
	b.correlator.Open(int64(sent.MessageID), url)
	log.Info("menu presented",
		slog.String("title", info.Title),
		slog.Int("entries", len(entries)),
		slog.Int("anchor", sent.MessageID),
	)

	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, placeholder.MessageID)); err != nil {
		log.Warn("delete placeholder failed", slog.Any("error", err))
	}
}

// handleCallback resolves a button press and runs the delivery pipeline.
func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		b.logger.Warn("answer callback failed", slog.Any("error", err))
	}
	if query.Message == nil {
		return
	}
	anchor := int64(query.Message.MessageID)
	surface := &menuSurface{
		api:       b.api,
		chatID:    query.Message.Chat.ID,
		messageID: query.Message.MessageID,
		hasMedia:  len(query.Message.Photo) > 0,
	}
	log := b.logger.With(slog.Int64("chat_id", surface.chatID), slog.Int64("anchor", anchor))

	selection, err := b.correlator.Resolve(anchor, query.Data)
	if err != nil {
		log.Warn("resolve failed", slog.Any("error", err))
		if err := surface.edit(failureText(err), ""); err != nil {
			log.Warn("edit failed", slog.Any("error", err))
		}
		return
	}
	log.Info("selection resolved", slog.String("format_id", selection.FormatID))

	result := b.pipeline.Execute(ctx, selection.URL, selection.FormatID, anchor, surface)
	b.renderResult(log, surface, result)
}

// renderResult turns the pipeline verdict into the final chat state.
func (b *Bot) renderResult(log *slog.Logger, surface *menuSurface, result delivery.Result) {
	var err error
	switch result.Outcome {
	case delivery.OutcomeDelivered, delivery.OutcomeDeliveredWithFallback:
		// The artifact message already landed; replace the menu with the
		// confirmation.
		if err := surface.delete(); err != nil {
			log.Warn("delete menu failed", slog.Any("error", err))
		}
		message := tgbotapi.NewMessage(surface.chatID, uploadCompleteText(result.DirectURL))
		message.ParseMode = tgbotapi.ModeMarkdown
		_, err = b.api.Send(message)
	case delivery.OutcomeFallbackOnly:
		err = surface.edit(tooLargeText(result.DirectURL), tgbotapi.ModeMarkdown)
	default:
		log.Error("delivery failed", slog.Any("error", result.Err))
		err = surface.edit(failureText(result.Err), "")
	}
	if err != nil {
		log.Warn("render result failed", slog.String("outcome", string(result.Outcome)), slog.Any("error", err))
	}
	log.Info("delivery finished", slog.String("outcome", string(result.Outcome)))
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Warn("send failed", slog.Int64("chat_id", chatID), slog.Any("error", err))
	}
}

func (b *Bot) editText(chatID int64, messageID int, text string) {
	if _, err := b.api.Send(tgbotapi.NewEditMessageText(chatID, messageID, text)); err != nil {
		b.logger.Warn("edit failed", slog.Int64("chat_id", chatID), slog.Any("error", err))
	}
}

// sendMenu delivers the bounded menu, as a photo when a thumbnail exists.
func (b *Bot) sendMenu(chatID int64, info extractor.MediaInfo, entries []menu.Entry) (tgbotapi.Message, error) {
	markup := keyboard(entries)
	caption := menuCaption(info.Title)
	if info.Thumbnail != "" {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(info.Thumbnail))
		photo.Caption = caption
		photo.ParseMode = tgbotapi.ModeMarkdown
		photo.ReplyMarkup = markup
		return b.api.Send(photo)
	}
	message := tgbotapi.NewMessage(chatID, caption)
	message.ParseMode = tgbotapi.ModeMarkdown
	message.ReplyMarkup = markup
	return b.api.Send(message)
}
