package helpers

import (
	tele "gopkg.in/telebot.v4"
)

// SendText sends plain text (no parse mode) with an optional reply keyboard.
// Replies go out synchronously so one chat never sees them reordered.
func SendText(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	if markup == nil {
		return c.Send(text)
	}
	return c.Send(text, &tele.SendOptions{ReplyMarkup: markup})
}
