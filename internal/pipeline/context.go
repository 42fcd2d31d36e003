package pipeline

import "fmt"

var languageInstructions = map[string]string{
	"Spanish":    "Responde en español, manteniendo un lenguaje claro y natural.",
	"French":     "Répondez en français, en maintenant un langage clair et naturel.",
	"German":     "Antworten Sie auf Deutsch und verwenden Sie eine klare und natürliche Sprache.",
	"Italian":    "Rispondi in italiano, mantenendo un linguaggio chiaro e naturale.",
	"Portuguese": "Responda em português, mantendo uma linguagem clara e natural.",
}

const defaultInstruction = "Respond in English, maintaining clear and natural language."

// SharedContext builds the instruction that travels with every summary
// request: the target language, a sentence in that language for the five
// languages that have one, and the user context last.
func SharedContext(language string, userContext string) string {
	instruction, ok := languageInstructions[language]
	if !ok {
		instruction = defaultInstruction
	}
	shared := fmt.Sprintf("Please provide the summary in %s. %s", language, instruction)
	if userContext != "" {
		shared += " " + userContext
	}
	return shared
}
