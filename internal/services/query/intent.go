package query

import "strings"

// Intent identifies which report a question asks for.
type Intent string

const (
	IntentRevenueVsBudget Intent = "revenue_vs_budget"
	IntentGrossMargin     Intent = "gross_margin"
	IntentOpexBreakdown   Intent = "opex_breakdown"
	IntentEBITDA          Intent = "ebitda"
	IntentCashRunway      Intent = "cash_runway"
	IntentRevenue         Intent = "revenue"
	IntentHelp            Intent = "help"
)

// intentRules is the routing table. Definition order is the routing
// priority: the first rule with a keyword present in the question wins, so a
// question mentioning both "budget" and "margin" is a budget question.
var intentRules = []struct {
	keywords []string
	intent   Intent
}{
	{[]string{"budget"}, IntentRevenueVsBudget},
	{[]string{"margin"}, IntentGrossMargin},
	{[]string{"opex"}, IntentOpexBreakdown},
	{[]string{"ebitda"}, IntentEBITDA},
	{[]string{"runway", "cash"}, IntentCashRunway},
	{[]string{"revenue"}, IntentRevenue},
}

// ClassifyIntent maps a question to an intent by case-insensitive substring
// match over the routing table. Questions matching no rule get IntentHelp.
func ClassifyIntent(question string) Intent {
	q := strings.ToLower(question)
	for _, rule := range intentRules {
		for _, kw := range rule.keywords {
			if strings.Contains(q, kw) {
				return rule.intent
			}
		}
	}
	return IntentHelp
}
