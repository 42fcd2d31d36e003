package summarizer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_Validate(t *testing.T) {
	assert.NoError(t, DefaultOptions().Validate())

	for _, typ := range []Type{TypeKeyPoints, TypeTLDR, TypeTeaser, TypeHeadline} {
		for _, format := range []Format{FormatMarkdown, FormatPlainText} {
			for _, length := range []Length{LengthShort, LengthMedium, LengthLong} {
				opts := Options{Type: typ, Format: format, Length: length}
				assert.NoError(t, opts.Validate(), "%+v", opts)
			}
		}
	}
}

func TestOptions_Validate_Rejects(t *testing.T) {
	err := Options{Type: "essay", Format: "html", Length: LengthShort}.Validate()
	require.Error(t, err)

	var se *SummarizeError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, ErrCauseInvalidOptions, se.Cause)
	assert.False(t, se.IsRetryable())
	assert.Contains(t, se.Message, `type "essay"`)
	assert.Contains(t, se.Message, `format "html"`)
	assert.NotContains(t, se.Message, "length")
}

func TestSystemPrompt(t *testing.T) {
	prompt := systemPrompt(Request{
		Type:          TypeHeadline,
		Format:        FormatPlainText,
		Length:        LengthLong,
		SharedContext: "  Please provide the summary in German.  ",
	})

	assert.Contains(t, prompt, "single headline")
	assert.Contains(t, prompt, "Use at most 22 words.")
	assert.Contains(t, prompt, "plain text")
	assert.Contains(t, prompt, "Please provide the summary in German. Reply")
}

func TestSystemPrompt_UnknownValuesAreSkipped(t *testing.T) {
	assert.Equal(t, "You summarize documents. Reply with the summary only.", systemPrompt(Request{}))
}
