package wizard

import (
	"fmt"
	"strings"

	"github.com/m3rciful/finbot/bots/finance/storage"
	"github.com/m3rciful/finbot/bots/finance/ui"
	"github.com/m3rciful/finbot/core/telegram/format"
)

// DefaultCategories is the number of categories asked per entry.
const DefaultCategories = 3

// Draft is the part of an entry captured so far.
type Draft struct {
	Items []storage.ExpenseItem
}

func (d Draft) lastCategory() string {
	if len(d.Items) == 0 {
		return ""
	}
	return d.Items[len(d.Items)-1].Category
}

// Step is one prompt of the wizard. Accept validates text and records it in
// the draft; it must leave the draft untouched when it returns false.
type Step struct {
	Name   string
	Prompt func(d Draft) string
	Accept func(d *Draft, text string) bool
	// Retry is sent when Accept rejects the input.
	Retry func(d Draft) string
}

// DefaultSteps returns a category step and an amount step for each of n
// categories.
func DefaultSteps(texts ui.Catalog, n int) []Step {
	if n <= 0 {
		n = DefaultCategories
	}
	steps := make([]Step, 0, 2*n)
	for i := range n {
		category := Step{
			Name:   fmt.Sprintf("category_%d", i+1),
			Prompt: func(Draft) string { return texts.CategoryPrompt(i) },
			Accept: func(d *Draft, text string) bool {
				text = strings.TrimSpace(text)
				if text == "" {
					return false
				}
				d.Items = append(d.Items, storage.ExpenseItem{Category: text})
				return true
			},
		}
		category.Retry = category.Prompt

		amount := Step{
			Name: fmt.Sprintf("amount_%d", i+1),
			Prompt: func(d Draft) string {
				return fmt.Sprintf(texts.Wizard.AmountPrompt, d.lastCategory())
			},
			Accept: func(d *Draft, text string) bool {
				v, ok := format.ParseAmount(text)
				if !ok || len(d.Items) == 0 {
					return false
				}
				d.Items[len(d.Items)-1].Amount = v
				return true
			},
			Retry: func(Draft) string { return texts.Wizard.InvalidAmount },
		}
		steps = append(steps, category, amount)
	}
	return steps
}
