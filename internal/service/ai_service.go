package service

import (
	"fmt"
	"strings"
)

// breakdownRule - шаблон шагов для класса задач, выбирается по ключевым
// словам в названии.
type breakdownRule struct {
	keywords []string
	steps    func(title string) []string
}

// Правила проверяются по порядку, первое совпадение выигрывает.
var breakdownRules = []breakdownRule{
	{
		keywords: []string{"buy", "shop"},
		steps: func(t string) []string {
			return []string{
				fmt.Sprintf("Make a list of items needed for %q", t),
				"Check budget and prices",
				"Go to the store or order online",
				"Verify all items were purchased",
			}
		},
	},
	{
		keywords: []string{"meeting", "call"},
		steps: func(t string) []string {
			return []string{
				fmt.Sprintf("Prepare agenda for %q", t),
				"Send calendar invites to participants",
				"Gather necessary documents/reports",
				"Write down key takeaways after the meeting",
			}
		},
	},
	{
		keywords: []string{"clean", "wash"},
		steps: func(t string) []string {
			return []string{
				"Gather cleaning supplies",
				fmt.Sprintf("Clear the area for %q", t),
				"Perform the cleaning task",
				"Dispose of trash and put supplies away",
			}
		},
	},
	{
		keywords: []string{"study", "learn"},
		steps: func(t string) []string {
			return []string{
				fmt.Sprintf("Gather study materials for %q", t),
				"Set a timer for focused study session",
				"Review key concepts and take notes",
				"Test yourself on the material",
			}
		},
	},
}

// GenerateBreakdown разбивает задачу на конкретные шаги по названию.
// Работает полностью офлайн: подбор идёт по ключевым словам, для
// нераспознанных задач возвращается универсальный план.
func GenerateBreakdown(title string) []string {
	lower := strings.ToLower(title)

	for _, rule := range breakdownRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.steps(title)
			}
		}
	}

	return []string{
		fmt.Sprintf("Research and plan for %q", title),
		"Break down into smaller actions",
		"Execute the first step",
		"Review progress and complete",
	}
}
