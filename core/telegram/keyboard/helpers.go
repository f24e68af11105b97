// Package keyboard builds Telegram reply keyboards.
package keyboard

import tele "gopkg.in/telebot.v4"

// ReplyButtons builds a resized reply keyboard from rows of labels.
// Empty labels are skipped and rows left empty are dropped.
func ReplyButtons(rows ...[]string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true}
	keyboard := make([]tele.Row, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tele.Btn, 0, len(row))
		for _, label := range row {
			if label != "" {
				buttons = append(buttons, markup.Text(label))
			}
		}
		if len(buttons) > 0 {
			keyboard = append(keyboard, markup.Row(buttons...))
		}
	}
	markup.Reply(keyboard...)
	return markup
}

// Column places each label on its own row.
func Column(labels ...string) *tele.ReplyMarkup {
	rows := make([][]string, len(labels))
	for i, l := range labels {
		rows[i] = []string{l}
	}
	return ReplyButtons(rows...)
}

// Labels returns the button texts of a reply keyboard row by row.
func Labels(markup *tele.ReplyMarkup) [][]string {
	if markup == nil {
		return nil
	}
	out := make([][]string, 0, len(markup.ReplyKeyboard))
	for _, row := range markup.ReplyKeyboard {
		labels := make([]string, len(row))
		for i, b := range row {
			labels[i] = b.Text
		}
		out = append(out, labels)
	}
	return out
}
