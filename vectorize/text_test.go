package vectorize

import (
	"strings"
	"testing"
	"unicode"

	"github.com/poiesic/cinevec/core"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "lowercases", input: "Dark Matter", want: "dark matter"},
		{name: "deletes punctuation without replacement", input: "Sci-Fi!", want: "scifi"},
		{name: "keeps accented letters", input: "Série Longa", want: "série longa"},
		{name: "lowercases accented capitals", input: "ÉCOLE ÇA", want: "école ça"},
		{name: "keeps digits", input: "Blade Runner 2049", want: "blade runner 2049"},
		{name: "keeps whitespace around deleted symbols", input: "Ação & Drama", want: "ação  drama"},
		{name: "drops symbols and emoji", input: "(< 90 min) 🎬", want: " 90 min "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeText(tt.input))
		})
	}
}

func TestNormalizeText_FixedPoint(t *testing.T) {
	inputs := []string{
		"Médio (90-120 min)",
		"Children & Family Movies",
		"Ñandú — Ü-Bahn",
		"İstanbul ǅemal ß",
		"TV-MA, PG-13",
		"\tTabs\nand newlines",
	}

	for _, in := range inputs {
		once := NormalizeText(in)
		assert.Equal(t, once, NormalizeText(once), "normalizing %q twice should not change it", in)

		for _, r := range once {
			ok := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || unicode.IsSpace(r) || strings.ContainsRune(accented, r)
			assert.True(t, ok, "unexpected rune %q in %q", r, once)
		}
	}
}

func TestQueryText(t *testing.T) {
	c := core.Criteria{
		Type:     "Movie",
		Genre:    "Sci-Fi",
		Tone:     "",
		Duration: "Longo (> 120 min)",
		Country:  "Brazil",
	}
	assert.Equal(t, "Movie Sci-Fi Longo (> 120 min) Brazil", QueryText(c))
	assert.Equal(t, "", QueryText(core.Criteria{}))
}

func TestRecordText(t *testing.T) {
	year := 2021
	r := &core.SourceRecord{
		ShowID:      "s10",
		Type:        "Movie",
		Title:       "Intrusion",
		Director:    "Adam Salky",
		Country:     "United States",
		ReleaseYear: &year,
		Rating:      "TV-14",
		Duration:    "92 min",
		ListedIn:    "Thrillers",
		Description: "A couple moves to a remote home.",
	}

	text := RecordText(r)
	assert.True(t, strings.HasPrefix(text, "Movie Intrusion Adam Salky"))
	assert.Contains(t, text, "2021 TV-14 92 min Thrillers")
	assert.NotContains(t, text, "s10", "the key is not part of the embedded text")

	empty := RecordText(&core.SourceRecord{ShowID: "s0"})
	assert.Equal(t, "", strings.TrimSpace(empty))
}
