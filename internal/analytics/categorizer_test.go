package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dan9191/bank-insights/internal/models"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  Category
	}{
		{name: "empty label", label: "", want: Other},
		{name: "no keyword", label: "Zzyzx Holdings", want: Other},
		{name: "case insensitive", label: "WHOLE FOODS #102", want: Groceries},
		{name: "restaurant", label: "Blue Bottle Coffee", want: Restaurants},
		{name: "utilities", label: "Comcast Cable", want: Utilities},
		{name: "gas matches utilities before gas station", label: "Shell Gas Station", want: Utilities},
		{name: "ubereats matches restaurants before uber", label: "UberEats order", want: Restaurants},
		{name: "transportation", label: "Lyft ride", want: Transportation},
		{name: "shopping", label: "Etsy order", want: Shopping},
		{name: "marketplace resolves to groceries", label: "Amazon Marketplace", want: Groceries},
		{name: "entertainment", label: "Netflix.com", want: Entertainment},
		{name: "healthcare", label: "Walgreens #77", want: Healthcare},
		{name: "salary", label: "ACME Payroll", want: Salary},
		{name: "transfer", label: "ATM withdrawal", want: Transfer},
		{name: "insurance", label: "GEICO auto", want: Insurance},
		{name: "subscription", label: "Gym Membership", want: Subscription},
		{name: "earlier category wins", label: "netflix at the market", want: Groceries},
		{name: "symbols in keyword", label: "AT&T Wireless", want: Utilities},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.label, nil, ""))
		})
	}
}

func TestCategorize_IgnoresAmountAndType(t *testing.T) {
	amount := -42.5
	assert.Equal(t, Restaurants, Categorize("pizza place", &amount, "debit"))
	assert.Equal(t, Restaurants, Categorize("pizza place", nil, ""))
}

func TestCategorize_Deterministic(t *testing.T) {
	for _, label := range []string{"Trader Joe's", "hotel stay", "unknown vendor"} {
		first := Categorize(label, nil, "")
		for i := 0; i < 5; i++ {
			require.Equal(t, first, Categorize(label, nil, ""))
		}
	}
}

func TestCategorize_EveryKeywordMapsToItsCategory(t *testing.T) {
	for _, category := range Categories() {
		for _, keyword := range Keywords(category) {
			got := Categorize(keyword, nil, "")
			// A keyword may contain an earlier category's keyword ("gas station" holds "gas").
			if got != category {
				assert.Less(t, indexOf(got), indexOf(category), "keyword %q", keyword)
			}
		}
	}
}

func TestCategories(t *testing.T) {
	cats := Categories()
	require.Len(t, cats, 12)
	assert.Equal(t, Groceries, cats[0])
	assert.Equal(t, Subscription, cats[10])
	assert.Equal(t, Other, cats[11])

	cats[0] = "mutated"
	assert.Equal(t, Groceries, Categories()[0])
}

func TestKeywords_ReturnsCopy(t *testing.T) {
	kws := Keywords(Salary)
	require.Equal(t, []string{"payroll", "salary", "wage", "employer", "direct deposit"}, kws)
	kws[0] = "changed"
	assert.Equal(t, "payroll", Keywords(Salary)[0])
	assert.Nil(t, Keywords(Other))
}

func TestCategorizeBatch(t *testing.T) {
	txns := []models.Transaction{
		{MerchantName: "Kroger", Channel: "netflix"},
		{Channel: "Spotify"},
		{},
	}
	got := CategorizeBatch(txns)
	assert.Equal(t, []Category{Groceries, Entertainment, Other}, got)
}

func indexOf(c Category) int {
	for i, cat := range Categories() {
		if cat == c {
			return i
		}
	}
	return -1
}
