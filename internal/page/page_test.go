package page

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Default().WriteText(&buf))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "A QUIET MEASURE OF DAYS\n=======================\n"))
	assert.Contains(t, out, "A character study in stillness, movement, and light")
	assert.Contains(t, out, "It is presence.")
	assert.True(t, strings.HasSuffix(out, "~ vin the pooh ~ by Mii\n"))

	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, utf8.RuneCountInString(line), DefaultWidth, line)
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{"empty", "   ", 40, nil},
		{"fits", "a quiet bowl", 40, []string{"a quiet bowl"}},
		{"breaks on space", "stones remember rain roots remember footsteps", 20,
			[]string{"stones remember rain", "roots remember", "footsteps"}},
		{"long word alone", "x supercalifragilisticexpialidocious y", 20,
			[]string{"x", "supercalifragilisticexpialidocious", "y"}},
		{"narrow disables", "one  two\nthree", 5, []string{"one two three"}},
		{"counts runes", "mist — valley haze — blue teeth", 20, []string{"mist — valley haze —", "blue teeth"}},
		{"wide runes take two columns", "山の霧 深い谷 青い歯 静かな朝", 20, []string{"山の霧 深い谷 青い歯", "静かな朝"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Wrap(tt.text, tt.width))
		})
	}
}

func TestDisplayWidth(t *testing.T) {
	assert.Equal(t, 5, DisplayWidth("quiet"))
	assert.Equal(t, 6, DisplayWidth("山の霧"))
	assert.Equal(t, 4, DisplayWidth("ＡＢ"), "fullwidth latin")
	assert.Equal(t, 1, DisplayWidth("—"), "ambiguous is narrow")
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestWriteTextReportsWriteError(t *testing.T) {
	assert.Error(t, Default().WriteText(failWriter{}))
}
