package analytics

import (
	"strings"

	"github.com/Dan9191/bank-insights/internal/models"
)

// Category is one label of the fixed transaction taxonomy.
type Category string

const (
	Groceries      Category = "Groceries"
	Restaurants    Category = "Restaurants"
	Utilities      Category = "Utilities"
	Transportation Category = "Transportation"
	Shopping       Category = "Shopping"
	Entertainment  Category = "Entertainment"
	Healthcare     Category = "Healthcare"
	Salary         Category = "Salary"
	Transfer       Category = "Transfer"
	Insurance      Category = "Insurance"
	Subscription   Category = "Subscription"
	Other          Category = "Other"
)

type categoryRule struct {
	category Category
	keywords []string
}

// categoryRules is evaluated in order; the first rule with a matching keyword wins.
var categoryRules = []categoryRule{
	{Groceries, []string{"grocery", "supermarket", "whole foods", "trader joe", "safeway", "kroger", "walmart", "costco", "market"}},
	{Restaurants, []string{"restaurant", "cafe", "coffee", "pizza", "burger", "dining", "food delivery", "doordash", "ubereats", "grubhub"}},
	{Utilities, []string{"electric", "water", "gas", "internet", "phone", "utility", "verizon", "at&t", "comcast"}},
	{Transportation, []string{"uber", "lyft", "taxi", "gas station", "parking", "transit", "airline", "hotel", "airbnb"}},
	{Shopping, []string{"amazon", "target", "mall", "store", "shop", "retail", "clothing", "apparel", "ebay", "etsy"}},
	{Entertainment, []string{"movie", "cinema", "netflix", "spotify", "gaming", "concert", "theater", "hulu", "disney", "youtube"}},
	{Healthcare, []string{"pharmacy", "doctor", "hospital", "clinic", "dental", "medical", "cvs", "walgreens", "health"}},
	{Salary, []string{"payroll", "salary", "wage", "employer", "direct deposit"}},
	{Transfer, []string{"transfer", "payment", "wire", "atm", "cash withdrawal"}},
	{Insurance, []string{"insurance", "premium", "geico", "state farm", "allstate"}},
	{Subscription, []string{"subscription", "membership", "recurring", "annual", "monthly"}},
}

// Categories returns every label of the taxonomy in match order, Other last.
func Categories() []Category {
	out := make([]Category, 0, len(categoryRules)+1)
	for _, rule := range categoryRules {
		out = append(out, rule.category)
	}
	return append(out, Other)
}

// Keywords returns a copy of the keywords that map a label to category.
func Keywords(category Category) []string {
	for _, rule := range categoryRules {
		if rule.category == category {
			return append([]string(nil), rule.keywords...)
		}
	}
	return nil
}

// Categorize maps a merchant or channel label to a category by keyword substring match.
// amount and txnType are accepted for future refinements and do not affect the result.
func Categorize(label string, amount *float64, txnType string) Category {
	if label == "" {
		return Other
	}
	lower := strings.ToLower(label)
	for _, rule := range categoryRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				return rule.category
			}
		}
	}
	return Other
}

// CategorizeBatch categorizes each transaction by merchant name, falling back to channel.
// The result preserves input order.
func CategorizeBatch(txns []models.Transaction) []Category {
	categories := make([]Category, 0, len(txns))
	for _, t := range txns {
		amount := t.Amount
		categories = append(categories, Categorize(t.MerchantLabel(), &amount, t.TransactionType))
	}
	return categories
}
