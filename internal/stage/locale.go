// ABOUTME: Prompt text, terminal sentinel and affirmative markers per language
// ABOUTME: Keeps the language a reply is requested in aligned with the marker it is scanned for
package stage

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultLocale is used when no locale is configured
const DefaultLocale = "en"

// Locale bundles everything language-dependent about a stage evaluation.
// QuestionTemplate receives the current stage and the dialogue, in that order.
type Locale struct {
	Code             string
	SystemPrompt     string
	QuestionTemplate string
	Terminal         string
	Markers          []string
}

var locales = map[string]Locale{
	"en": {
		Code:             "en",
		SystemPrompt:     "You are a sales specialist.",
		QuestionTemplate: "Current sales stage: %s.\nCurrent dialogue:\n%s\nCan we move on to the next sales stage? Please answer 'yes' or 'no' and give a short explanation.",
		Terminal:         "The current sales stage is the last one in the list.",
		Markers:          []string{"yes"},
	},
	"ru": {
		Code:             "ru",
		SystemPrompt:     "Ты специалист по продажам.",
		QuestionTemplate: "Текущий этап продаж: %s.\nТекущий диалог:\n%s\nМожем ли мы двигаться к следующему этапу продаж? Пожалуйста ответьте 'да' или 'нет' и дайте небольшое пояснение.",
		Terminal:         "Текущий этап продаж является последним в списке.",
		// models answering a Russian prompt still reply in English now and then
		Markers: []string{"да", "yes"},
	},
}

// LookupLocale returns the built-in locale for code (case-insensitive)
func LookupLocale(code string) (Locale, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		code = DefaultLocale
	}
	loc, ok := locales[code]
	if !ok {
		return Locale{}, fmt.Errorf("unknown locale %q (available: %s)", code, strings.Join(LocaleCodes(), ", "))
	}
	return loc, nil
}

// LocaleCodes lists the built-in locale codes in sorted order
func LocaleCodes() []string {
	codes := make([]string, 0, len(locales))
	for code := range locales {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Question renders the user prompt sent to the judge
func (l Locale) Question(current, dialogue string) string {
	return fmt.Sprintf(l.QuestionTemplate, current, dialogue)
}
