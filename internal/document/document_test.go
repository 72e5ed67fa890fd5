package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "Untitled"},
		{"Rectangle 2", "Rectangle 2"},
		{"a<b>c!", "abc"},
		{"under_score-dash", "under_score-dash"},
		{"0123456789012345678901234567890123456789extra", "0123456789012345678901234567890123456789"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeName(tt.in), "input %q", tt.in)
	}
}

func TestSanitizeColor(t *testing.T) {
	assert.Equal(t, "#FFAA00", SanitizeColor(" #ffaa00 "))
	assert.Equal(t, "#FFAA0080", SanitizeColor("#ffaa0080"))
	assert.Equal(t, "", SanitizeColor("#fff"))
	assert.Equal(t, "", SanitizeColor("null"))
	assert.Equal(t, "", SanitizeColor("red"))
}

func TestParseNumberList(t *testing.T) {
	assert.Equal(t, []float64{1, 2, 30}, ParseNumberList(" 1, 2 ,30 "))
	assert.Nil(t, ParseNumberList(""))
	assert.Nil(t, ParseNumberList("1,,2"))
	assert.Nil(t, ParseNumberList("1.5"))
	assert.Equal(t, "8,4", FormatNumberList([]float64{8, 4}, ","))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "1.5", FormatNumber(1.5, 3))
	assert.Equal(t, "0.333", FormatNumber(1.0/3, 3))
	assert.Equal(t, "10", FormatNumber(10.0000001, 3))
	assert.Equal(t, "0", FormatNumber(-0.0001, 3))
}

func TestPrintableASCII(t *testing.T) {
	assert.Equal(t, "ab c", PrintableASCII("a\tb cé"))
}

func TestQuoteJS(t *testing.T) {
	assert.Equal(t, `"say \"hi\" \u003c/script\u003e"`, QuoteJS(`say "hi" </script>`))
}

func TestParseRoundTrip(t *testing.T) {
	doc := NewSampleDocument("Sample")

	data, err := Marshal(doc)
	require.NoError(t, err)

	parsed, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, doc, parsed)
	assert.Equal(t, 6, parsed.Count())
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte(`{"name":"x"}`))
	assert.Error(t, err)

	_, err = Parse([]byte(`not json`))
	assert.Error(t, err)
}
