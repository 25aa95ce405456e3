package classify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyPoliticsKeyword(t *testing.T) {
	t.Parallel()

	c := New(DefaultRules())
	tags := c.Classify(
		"https://echo24.cz/a/x/vlada-jedna",
		"Vláda projedná rozpočet",
		"Premiér dnes oznámil nové kroky.",
	)
	assert.Contains(t, tags, "Politika")
}

func TestClassifyEconomyKeyword(t *testing.T) {
	t.Parallel()

	c := New(DefaultRules())
	tags := c.Classify(
		"https://echo24.cz/a/x/inflace",
		"Inflace zpomalila",
		"ČNB drží úrokové sazby.",
	)
	assert.Contains(t, tags, "Ekonomika")
}

func TestClassifyKeywordsWithAccentedEdges(t *testing.T) {
	t.Parallel()

	c := New(DefaultRules())

	tags := c.Classify("https://echo24.cz/a/x/cnb", "Bez titulku", "Rada čnb dnes zasedala.")
	assert.Contains(t, tags, "Ekonomika")

	tags = c.Classify("https://echo24.cz/a/x/sazby", "Bez titulku", "Banka zvedla úrokové sazby o procento.")
	assert.Contains(t, tags, "Ekonomika")

	// Keyword at the very end of the text still matches.
	tags = c.Classify("https://echo24.cz/a/x/cnb", "Bez titulku", "Zasedala čnb")
	assert.Contains(t, tags, "Ekonomika")
}

func TestClassifyKeywordInsideWordDoesNotMatch(t *testing.T) {
	t.Parallel()

	c := New(DefaultRules())
	tags := c.Classify("https://echo24.cz/a/x/slova", "Bez titulku", "Slovo nepolitika ani značnba nic neznamená.")
	assert.NotContains(t, tags, "Politika")
	assert.NotContains(t, tags, "Ekonomika")
}

func TestClassifyCapturesEachEmailAddress(t *testing.T) {
	t.Parallel()

	c := New(DefaultRules())
	tags := c.Classify(
		"https://echo24.cz/a/x/kontakty",
		"Kontakty",
		"Pište na Redakce@Echo24.cz nebo na inzerce@echo24.cz.",
	)
	assert.Contains(t, tags, "redakce@echo24.cz")
	assert.Contains(t, tags, "inzerce@echo24.cz")
}

func TestClassifyMatchesAreCaseInsensitive(t *testing.T) {
	t.Parallel()

	c := New(DefaultRules())
	tags := c.Classify("https://echo24.cz/a/x", "NATO summit", "")
	assert.Contains(t, tags, "Politika")
}

func TestClassifyIgnoresBodyBeyondWindow(t *testing.T) {
	t.Parallel()

	// The keyword sits past the scanned window, so no tag is derived.
	body := strings.Repeat("x", haystackRunes) + " premiér"
	c := New(DefaultRules())
	tags := c.Classify("https://echo24.cz/a/x", "Bez klíčových slov", body)
	assert.NotContains(t, tags, "Politika")
}

func TestClassifyNoRulesNoTags(t *testing.T) {
	t.Parallel()

	c := New(nil)
	assert.Empty(t, c.Classify("https://echo24.cz/a/x", "Premiér", "vláda"))
}

func TestDedupeCaseInsensitiveKeepsFirstCasingAndOrder(t *testing.T) {
	t.Parallel()

	got := Dedupe([]string{"Politika", "politika", "Ekonomika"})
	assert.Equal(t, []string{"Politika", "Ekonomika"}, got)
}

func TestDedupeEmptyInput(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Dedupe(nil))
}
