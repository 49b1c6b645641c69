package chef

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validRecipeJSON = `{
	"chef_message": "",
	"recipe_name": "שקשוקה",
	"tagline": "קלאסיקה ישראלית",
	"used_fridge_items": [{"item_name": "ביצים", "quantity_used": 2}],
	"excluded_items": [],
	"pantry_staples_needed": ["מלח", "שמן זית"],
	"instructions": ["שלב 1", "שלב 2"]
}`

func TestParseDraftValidJSON(t *testing.T) {
	draft := ParseDraft(validRecipeJSON)
	require.False(t, draft.IsFallback())

	assert.Equal(t, "שקשוקה", draft.Parsed.RecipeName)
	require.Len(t, draft.Parsed.UsedItems, 1)
	assert.Equal(t, "ביצים", draft.Parsed.UsedItems[0].Name)
	assert.Equal(t, 2.0, draft.Parsed.UsedItems[0].QuantityUsed)
}

func TestParseDraftFencedJSON(t *testing.T) {
	draft := ParseDraft("```json\n" + validRecipeJSON + "\n```")
	require.False(t, draft.IsFallback())
	assert.Equal(t, "שקשוקה", draft.Parsed.RecipeName)
}

func TestParseDraftProseWrappedJSON(t *testing.T) {
	draft := ParseDraft("הנה המתכון שלך:\n" + validRecipeJSON + "\nבתיאבון!")
	require.False(t, draft.IsFallback())
	assert.Equal(t, "שקשוקה", draft.Parsed.RecipeName)
}

func TestParseDraftFallbackOnProse(t *testing.T) {
	raw := "מצטער, לא הצלחתי להכין מתכון הפעם."
	draft := ParseDraft(raw)

	require.True(t, draft.IsFallback())
	assert.Nil(t, draft.Parsed)
	assert.Equal(t, raw, draft.Raw)
}

func TestParseDraftFallbackOnBrokenJSON(t *testing.T) {
	draft := ParseDraft(`{"recipe_name": "חצי`)
	assert.True(t, draft.IsFallback())
}
