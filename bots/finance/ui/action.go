package ui

// Action is what a text message asks the bot to do, independent of labels.
type Action int

const (
	ActionNone Action = iota
	ActionRegister
	ActionRates
	ActionTip
	ActionExpenses
	ActionBack
)

func (a Action) String() string {
	switch a {
	case ActionRegister:
		return "register"
	case ActionRates:
		return "rates"
	case ActionTip:
		return "tip"
	case ActionExpenses:
		return "expenses"
	case ActionBack:
		return "back"
	}
	return "none"
}

// Resolve maps text to an action by exact label match.
func (c Catalog) Resolve(text string) Action {
	switch text {
	case "":
		return ActionNone
	case c.Menu.Register:
		return ActionRegister
	case c.Menu.Rates:
		return ActionRates
	case c.Menu.Tip:
		return ActionTip
	case c.Menu.Expenses:
		return ActionExpenses
	case c.Back:
		return ActionBack
	}
	return ActionNone
}
