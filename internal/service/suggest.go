package service

import (
	"sort"
	"strings"

	"github.com/saadjs/kcal-balance/internal/model"
)

const (
	SuggestionBuiltin = "builtin"
	SuggestionHistory = "history"
)

type Suggestion struct {
	Label    string         `json:"label"`
	Calories int            `json:"calories"`
	Category model.Category `json:"category"`
	Source   string         `json:"source"`
}

var builtinSuggestions = []Suggestion{
	{Label: "3 Eggs", Calories: 210, Category: model.CategoryFood},
	{Label: "Avocado Toast", Calories: 350, Category: model.CategoryFood},
	{Label: "Banana", Calories: 105, Category: model.CategoryFood},
	{Label: "Burrito", Calories: 900, Category: model.CategoryFood},
	{Label: "Chicken Breast", Calories: 280, Category: model.CategoryFood},
	{Label: "Greek Yogurt", Calories: 150, Category: model.CategoryFood},
	{Label: "Oatmeal", Calories: 300, Category: model.CategoryFood},
	{Label: "Protein Shake", Calories: 160, Category: model.CategoryFood},
	{Label: "Salad", Calories: 250, Category: model.CategoryFood},
	{Label: "Slice of Pizza", Calories: 285, Category: model.CategoryFood},
	{Label: "Beer (IPA)", Calories: 200, Category: model.CategoryAlcohol},
	{Label: "Light Beer", Calories: 100, Category: model.CategoryAlcohol},
	{Label: "Glass of Wine", Calories: 125, Category: model.CategoryAlcohol},
	{Label: "Cocktail", Calories: 220, Category: model.CategoryAlcohol},
	{Label: "Shot", Calories: 100, Category: model.CategoryAlcohol},
}

// SuggestionIndex maps intake descriptions to calorie values for quick-add.
type SuggestionIndex struct {
	items []Suggestion
}

// BuildSuggestionIndex merges the built-in table with intake history. A
// history description replaces a built-in of the same name, compared without
// case, and the last appended record for a description wins.
func BuildSuggestionIndex(records []model.Record) *SuggestionIndex {
	byName := make(map[string]Suggestion, len(builtinSuggestions))
	for _, s := range builtinSuggestions {
		s.Source = SuggestionBuiltin
		byName[suggestionKey(s.Label)] = s
	}
	for _, rec := range records {
		if !rec.Category.IsIntake() {
			continue
		}
		key := suggestionKey(rec.Description)
		if key == "" {
			continue
		}
		byName[key] = Suggestion{
			Label:    strings.TrimSpace(rec.Description),
			Calories: rec.Calories,
			Category: rec.Category,
			Source:   SuggestionHistory,
		}
	}

	items := make([]Suggestion, 0, len(byName))
	for _, s := range byName {
		items = append(items, s)
	}
	sort.Slice(items, func(i, j int) bool {
		a, b := suggestionKey(items[i].Label), suggestionKey(items[j].Label)
		if a != b {
			return a < b
		}
		return items[i].Label < items[j].Label
	})
	return &SuggestionIndex{items: items}
}

// Suggest returns entries whose label starts with prefix, ignoring case, in
// alphabetical order. An empty prefix returns everything.
func (idx *SuggestionIndex) Suggest(prefix string) []Suggestion {
	prefix = suggestionKey(prefix)
	out := make([]Suggestion, 0)
	for _, s := range idx.items {
		if strings.HasPrefix(suggestionKey(s.Label), prefix) {
			out = append(out, s)
		}
	}
	return out
}

// Lookup returns the exact-name entry, ignoring case.
func (idx *SuggestionIndex) Lookup(name string) (Suggestion, bool) {
	key := suggestionKey(name)
	for _, s := range idx.items {
		if suggestionKey(s.Label) == key {
			return s, true
		}
	}
	return Suggestion{}, false
}

func suggestionKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
