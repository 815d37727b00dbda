package handlers

// Defaults returns every built-in handler in registration order. A nil lookup
// makes every handler with a required join report incomplete data.
func Defaults(lookup Lookup) []Handler {
	var all []Handler
	all = append(all, hrHandlers(lookup)...)
	all = append(all, crmHandlers(lookup)...)
	all = append(all, projectHandlers(lookup)...)
	all = append(all, accountingHandlers(lookup)...)
	all = append(all, posHandlers(lookup)...)
	all = append(all, recruitmentHandlers(lookup)...)
	all = append(all, operationsHandlers(lookup)...)
	return all
}
