// Package notification holds checks spanning the subscription table and the
// template registry, run once at startup.
package notification

import (
	"errors"
	"fmt"
	"slices"

	"bizsuite/internal/notification/models"
	"bizsuite/internal/notification/subscription"
	"bizsuite/internal/notification/template"
)

// Problem is one mismatch between a handler and a template.
type Problem struct {
	Channel models.Channel
	Key     models.Key

	// Missing is set when no template exists; otherwise Unknown lists
	// placeholders the handler never fills (they render empty).
	Missing bool
	Unknown []string
}

func (p Problem) Error() string {
	if p.Missing {
		return fmt.Sprintf("%s/%s: no template", p.Channel, p.Key)
	}
	return fmt.Sprintf("%s/%s: placeholders %v are not provided by the handler", p.Channel, p.Key, p.Unknown)
}

// CheckContracts compares every registered handler with its template on each
// channel. The result is nil when everything lines up.
func CheckContracts(table *subscription.Table, templates *template.Registry, channels []models.Channel) []Problem {
	var problems []Problem
	for _, sub := range table.Subscriptions() {
		for _, h := range table.HandlersFor(sub.EventType) {
			provided := h.Variables()
			for _, ch := range channels {
				tpl, ok := templates.Lookup(ch, h.Key())
				if !ok {
					problems = append(problems, Problem{Channel: ch, Key: h.Key(), Missing: true})
					continue
				}
				var unknown []string
				for _, name := range template.Placeholders(tpl) {
					if !slices.Contains(provided, name) {
						unknown = append(unknown, name)
					}
				}
				if len(unknown) > 0 {
					problems = append(problems, Problem{Channel: ch, Key: h.Key(), Unknown: unknown})
				}
			}
		}
	}
	return problems
}

// Err joins problems into one error, or nil.
func Err(problems []Problem) error {
	errs := make([]error, 0, len(problems))
	for _, p := range problems {
		errs = append(errs, p)
	}
	return errors.Join(errs...)
}
