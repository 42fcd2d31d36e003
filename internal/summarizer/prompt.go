package summarizer

import "strings"

var typeInstructions = map[Type]string{
	TypeKeyPoints: "Extract the most important points of the text as a bulleted list.",
	TypeTLDR:      "Write a short, to-the-point overview of the text for a busy reader.",
	TypeTeaser:    "Write a teaser that highlights the most intriguing parts of the text and makes the reader want to read more.",
	TypeHeadline:  "Write a single headline that captures the main point of the text.",
}

var lengthInstructions = map[Type]map[Length]string{
	TypeKeyPoints: {LengthShort: "Use 3 bullet points.", LengthMedium: "Use 5 bullet points.", LengthLong: "Use 7 bullet points."},
	TypeTLDR:      {LengthShort: "Use 1 sentence.", LengthMedium: "Use 3 sentences.", LengthLong: "Use 5 sentences."},
	TypeTeaser:    {LengthShort: "Use 1 sentence.", LengthMedium: "Use 3 sentences.", LengthLong: "Use 5 sentences."},
	TypeHeadline:  {LengthShort: "Use at most 12 words.", LengthMedium: "Use at most 17 words.", LengthLong: "Use at most 22 words."},
}

var formatInstructions = map[Format]string{
	FormatMarkdown:  "Format the answer as Markdown.",
	FormatPlainText: "Answer in plain text without any Markdown syntax.",
}

// systemPrompt builds the instruction message sent ahead of the text.
func systemPrompt(req Request) string {
	parts := []string{"You summarize documents."}
	if s, ok := typeInstructions[req.Type]; ok {
		parts = append(parts, s)
	}
	if s, ok := lengthInstructions[req.Type][req.Length]; ok {
		parts = append(parts, s)
	}
	if s, ok := formatInstructions[req.Format]; ok {
		parts = append(parts, s)
	}
	if ctx := strings.TrimSpace(req.SharedContext); ctx != "" {
		parts = append(parts, ctx)
	}
	parts = append(parts, "Reply with the summary only.")
	return strings.Join(parts, " ")
}

const detectPrompt = `Identify the language of the user's text. ` +
	`Reply with JSON only, in the form {"language": "<BCP 47 code>", "confidence": <number between 0 and 1>}.`
