// Package ui holds every user-facing text of the finance bot and maps
// button labels to actions.
package ui

import (
	"fmt"
	"strings"
)

// Menu holds the labels of the four main menu buttons.
type Menu struct {
	Register string `yaml:"register"`
	Rates    string `yaml:"rates"`
	Tip      string `yaml:"tip"`
	Expenses string `yaml:"expenses"`
}

// Wizard holds expense wizard texts. Ordinals name categories in prompts
// ("первой", "второй", ...); CategoryPrompt takes the ordinal and
// AmountPrompt takes the category.
type Wizard struct {
	Ordinals       []string `yaml:"ordinals"`
	FirstPrompt    string   `yaml:"first_prompt"`
	CategoryPrompt string   `yaml:"category_prompt"`
	AmountPrompt   string   `yaml:"amount_prompt"`
	InvalidAmount  string   `yaml:"invalid_amount"`
	Cancelled      string   `yaml:"cancelled"`
	SavedHeader    string   `yaml:"saved_header"`
	SavedLine      string   `yaml:"saved_line"`
	SavedTotal     string   `yaml:"saved_total"`
	SaveFailed     string   `yaml:"save_failed"`
}

// Catalog is the full set of texts. Zero fields are filled from Default.
type Catalog struct {
	Menu Menu   `yaml:"menu"`
	Back string `yaml:"back"`

	Greeting string `yaml:"greeting"`
	UseMenu  string `yaml:"use_menu"`

	Registered        string `yaml:"registered"`
	AlreadyRegistered string `yaml:"already_registered"`
	RegisterFailed    string `yaml:"register_failed"`

	Rates            string `yaml:"rates"`
	RatesUnavailable string `yaml:"rates_unavailable"`

	Tips []string `yaml:"tips"`

	Wizard Wizard `yaml:"wizard"`

	LastExpense     string `yaml:"last_expense"`
	NoExpenses      string `yaml:"no_expenses"`
	LoadFailed      string `yaml:"load_failed"`
	ConvertUsage    string `yaml:"convert_usage"`
	ConvertResult   string `yaml:"convert_result"`
	InvalidCurrency string `yaml:"invalid_currency"`
	RateLimited     string `yaml:"rate_limited"`
	Version         string `yaml:"version"`
}

// Default returns the built-in Russian catalog.
func Default() Catalog {
	return Catalog{
		Menu: Menu{
			Register: "📋 Регистрация в боте",
			Rates:    "💱 Курс валют",
			Tip:      "💡 Советы по экономии",
			Expenses: "💰 Личные финансы",
		},
		Back: "🔙 Назад",

		Greeting: "🎉 Привет, %s! 👋\n\n" +
			"Я - ваш персональный финансовый ассистент 🤖\n\n" +
			"📊 С моей помощью вы сможете:\n" +
			"• Узнавать актуальные курсы валют\n" +
			"• Получать полезные советы по экономии\n" +
			"• Вести учет своих расходов\n\n" +
			"Нажмите на кнопки внизу, чтобы начать работу!",
		UseMenu: "Нажмите на кнопки внизу для работы с ботом",

		Registered:        "🎉 Успешная регистрация! Добро пожаловать в финансовый помощник!",
		AlreadyRegistered: "✅ Вы уже зарегистрированы в боте!",
		RegisterFailed:    "❌ Произошла ошибка при регистрации.",

		Rates: "💱 Актуальные курсы валют:\n\n" +
			"🇺🇸 1 USD = %s RUB\n" +
			"🇪🇺 1 EUR = %s RUB\n" +
			"🇺🇸 1 USD = %s EUR\n\n" +
			"Дата обновления: %s",
		RatesUnavailable: "❌ Не удалось получить курсы валют. Попробуйте позже.",

		Tips: []string{
			"💡 Ведите бюджет и следите за своими расходами.",
			"💡 Откладывайте часть доходов на сбережения.",
			"💡 Покупайте товары по скидке или на распродажах.",
		},

		Wizard: Wizard{
			Ordinals:       []string{"первой", "второй", "третьей", "четвёртой", "пятой"},
			FirstPrompt:    "Введите название первой категории расходов (например: транспорт, питание и т.д.):",
			CategoryPrompt: "Введите название %s категории расходов:",
			AmountPrompt:   "Введите расходы для категории '%s':",
			InvalidAmount:  "Пожалуйста, введите числовое значение расхода.",
			Cancelled:      "Вы вышли из режима учета расходов.",
			SavedHeader:    "✅ Ваши расходы сохранены:",
			SavedLine:      "%d. %s: %s руб.",
			SavedTotal:     "Общий расход: %s руб.",
			SaveFailed:     "❌ Произошла ошибка при сохранении расходов.",
		},

		LastExpense:     "🧾 Последняя запись от %s:",
		NoExpenses:      "У вас пока нет сохранённых расходов.",
		LoadFailed:      "❌ Не удалось загрузить данные. Попробуйте позже.",
		ConvertUsage:    "Использование: /convert <сумма> <ИЗ> <В>, например /convert 100 USD RUB",
		ConvertResult:   "💱 %s %s = %s %s\nКурс: %s\nДата обновления: %s",
		InvalidCurrency: "❌ Неизвестный код валюты. Используйте трёхбуквенный код, например USD.",
		RateLimited:     "⏳ Слишком часто. Подождите немного.",
		Version:         "finbot %s (%s) %s",
	}
}

// WithDefaults returns a copy where every empty text is taken from Default.
func (c Catalog) WithDefaults() Catalog {
	d := Default()
	fill := func(dst *string, def string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = def
		}
	}
	fill(&c.Menu.Register, d.Menu.Register)
	fill(&c.Menu.Rates, d.Menu.Rates)
	fill(&c.Menu.Tip, d.Menu.Tip)
	fill(&c.Menu.Expenses, d.Menu.Expenses)
	fill(&c.Back, d.Back)
	fill(&c.Greeting, d.Greeting)
	fill(&c.UseMenu, d.UseMenu)
	fill(&c.Registered, d.Registered)
	fill(&c.AlreadyRegistered, d.AlreadyRegistered)
	fill(&c.RegisterFailed, d.RegisterFailed)
	fill(&c.Rates, d.Rates)
	fill(&c.RatesUnavailable, d.RatesUnavailable)
	if len(c.Tips) == 0 {
		c.Tips = d.Tips
	}
	if len(c.Wizard.Ordinals) == 0 {
		c.Wizard.Ordinals = d.Wizard.Ordinals
	}
	fill(&c.Wizard.FirstPrompt, d.Wizard.FirstPrompt)
	fill(&c.Wizard.CategoryPrompt, d.Wizard.CategoryPrompt)
	fill(&c.Wizard.AmountPrompt, d.Wizard.AmountPrompt)
	fill(&c.Wizard.InvalidAmount, d.Wizard.InvalidAmount)
	fill(&c.Wizard.Cancelled, d.Wizard.Cancelled)
	fill(&c.Wizard.SavedHeader, d.Wizard.SavedHeader)
	fill(&c.Wizard.SavedLine, d.Wizard.SavedLine)
	fill(&c.Wizard.SavedTotal, d.Wizard.SavedTotal)
	fill(&c.Wizard.SaveFailed, d.Wizard.SaveFailed)
	fill(&c.LastExpense, d.LastExpense)
	fill(&c.NoExpenses, d.NoExpenses)
	fill(&c.LoadFailed, d.LoadFailed)
	fill(&c.ConvertUsage, d.ConvertUsage)
	fill(&c.ConvertResult, d.ConvertResult)
	fill(&c.InvalidCurrency, d.InvalidCurrency)
	fill(&c.RateLimited, d.RateLimited)
	fill(&c.Version, d.Version)
	return c
}

// Validate rejects catalogs whose menu labels would make routing ambiguous.
func (c Catalog) Validate() error {
	seen := make(map[string]string, 5)
	for name, label := range map[string]string{
		"menu.register": c.Menu.Register,
		"menu.rates":    c.Menu.Rates,
		"menu.tip":      c.Menu.Tip,
		"menu.expenses": c.Menu.Expenses,
		"back":          c.Back,
	} {
		if other, dup := seen[label]; dup {
			return fmt.Errorf("ui: labels %s and %s are both %q", other, name, label)
		}
		seen[label] = name
	}
	return nil
}

// CategoryPrompt returns the prompt for category i (0-based).
func (c Catalog) CategoryPrompt(i int) string {
	if i == 0 {
		return c.Wizard.FirstPrompt
	}
	ordinal := fmt.Sprintf("%d-й", i+1)
	if i < len(c.Wizard.Ordinals) {
		ordinal = c.Wizard.Ordinals[i]
	}
	return fmt.Sprintf(c.Wizard.CategoryPrompt, ordinal)
}
