package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/jalilimmd/video-downloader-bot/internal/delivery"
)

// menuSurface binds the delivery pipeline to one menu message: progress text
// edits in place, and the artifact uploads into the same chat.
type menuSurface struct {
	api       *tgbotapi.BotAPI
	chatID    int64
	messageID int
	// hasMedia: the menu was sent as a photo, so progress edits target the
	// caption rather than the message text.
	hasMedia bool
}

func (s *menuSurface) Status(_ context.Context, stage delivery.Stage) error {
	return s.edit(statusText(stage), "")
}

func (s *menuSurface) Transmit(_ context.Context, path string) error {
	video := tgbotapi.NewVideo(s.chatID, tgbotapi.FilePath(path))
	video.Caption = videoCaption
	video.SupportsStreaming = true
	_, err := s.api.Send(video)
	return err
}

// edit rewrites the menu message, clearing its inline keyboard as a side
// effect so a consumed menu offers no further buttons.
func (s *menuSurface) edit(text, parseMode string) error {
	if s.hasMedia {
		edit := tgbotapi.NewEditMessageCaption(s.chatID, s.messageID, text)
		edit.ParseMode = parseMode
		_, err := s.api.Send(edit)
		return err
	}
	edit := tgbotapi.NewEditMessageText(s.chatID, s.messageID, text)
	edit.ParseMode = parseMode
	_, err := s.api.Send(edit)
	return err
}

func (s *menuSurface) delete() error {
	_, err := s.api.Request(tgbotapi.NewDeleteMessage(s.chatID, s.messageID))
	return err
}
