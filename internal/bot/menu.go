package bot

import (
	"errors"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/jalilimmd/video-downloader-bot/internal/extractor"
	"github.com/jalilimmd/video-downloader-bot/internal/menu"
	"github.com/jalilimmd/video-downloader-bot/internal/session"
)

// buildMenu projects discovered variants into menu entries whose tokens come
// from the active correlation strategy. Variants whose token would exceed the
// platform bound are dropped rather than truncated.
func (b *Bot) buildMenu(url string, variants []extractor.MediaVariant) []menu.Entry {
	return menu.Build(variants, b.cfg.Download.Container, b.cfg.Download.MaxButtons, func(v extractor.MediaVariant) (string, bool) {
		token, err := b.correlator.Encode(url, v.ID, v.Ext)
		if err != nil {
			if errors.Is(err, session.ErrTokenTooLong) {
				b.logger.Debug("menu entry dropped",
					slog.String("format_id", v.ID),
					slog.Any("error", err),
				)
			}
			return "", false
		}
		return token, true
	})
}

// keyboard lays the menu out as one button per row.
func keyboard(entries []menu.Entry) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(e.Label, e.Token),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
