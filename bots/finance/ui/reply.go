package ui

import (
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/finbot/core/telegram/keyboard"
)

// Keyboard selects one of the fixed reply keyboards.
type Keyboard int

const (
	KeyboardNone Keyboard = iota
	KeyboardMain
	KeyboardBack
)

func (k Keyboard) String() string {
	switch k {
	case KeyboardMain:
		return "main"
	case KeyboardBack:
		return "back"
	}
	return "none"
}

// Reply is one outgoing message.
type Reply struct {
	Text     string
	Keyboard Keyboard
}

// Markup builds the telebot keyboard for k: the four menu buttons one per
// row, or the single back button.
func (c Catalog) Markup(k Keyboard) *tele.ReplyMarkup {
	switch k {
	case KeyboardMain:
		return keyboard.Column(c.Menu.Register, c.Menu.Rates, c.Menu.Tip, c.Menu.Expenses)
	case KeyboardBack:
		return keyboard.Column(c.Back)
	}
	return nil
}
