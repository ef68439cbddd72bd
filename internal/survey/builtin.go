// ABOUTME: Built-in questionnaires
// ABOUTME: The snowboard advisor in English and Russian
package survey

import (
	"fmt"
	"sort"
	"strings"
)

var builtins = map[string]map[string]Questionnaire{
	"snowboard": {
		"en": {
			Name:         "snowboard",
			Locale:       "en",
			SystemPrompt: "You are Alyosha the robot. Help the person choose a snowboard.",
			Instruction:  "Advise which snowboard is the best choice.",
			MaxTokens:    150,
			Questions: []Question{
				{Key: "name", Label: "Name", Prompt: "What is your name?"},
				{Key: "experience", Label: "Experience", Prompt: "What is your snowboarding experience? (Beginner, Intermediate, Advanced)"},
				{Key: "goal", Label: "Purpose of purchase", Prompt: "What are you buying the snowboard for? (For example: park riding, downhill, freeride, etc.)"},
				{Key: "additional_info", Label: "Additional information", Prompt: "Is there anything else useful you would like to tell us?"},
			},
		},
		"ru": {
			Name:         "snowboard",
			Locale:       "ru",
			SystemPrompt: "Ты - робот Алёша. Помоги человеку выбрать доску для сноуборда.",
			Instruction:  "Посоветуй, какой сноуборд лучше выбрать.",
			MaxTokens:    150,
			Questions: []Question{
				{Key: "name", Label: "Имя", Prompt: "Как вас зовут?"},
				{Key: "experience", Label: "Опыт", Prompt: "Каков ваш опыт в сноубординге? (Начинающий, Средний, Опытный)"},
				{Key: "goal", Label: "Цель покупки", Prompt: "Для чего вы покупаете сноуборд? (Например: катание в парке, спуск с гор, фрирайд и т.д.)"},
				{Key: "additional_info", Label: "Дополнительная информация", Prompt: "Есть ли другая полезная информация, которую вы хотите сообщить?"},
			},
		},
	},
}

// Builtin returns a copy of the named questionnaire in the given locale,
// falling back to English when the locale has no translation.
func Builtin(name, locale string) (*Questionnaire, error) {
	byLocale, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("no questionnaire named %q (available: %s)", name, strings.Join(BuiltinNames(), ", "))
	}
	q, ok := byLocale[strings.ToLower(locale)]
	if !ok {
		q = byLocale["en"]
	}
	q.Questions = append([]Question(nil), q.Questions...)
	return &q, nil
}

// BuiltinNames lists built-in questionnaire names
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
