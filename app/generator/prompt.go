package generator

import "fmt"

const combinedSystemPrompt = "You are a language tutor generating study material for flashcards. " +
	"Answer with a single line in exactly the requested format and nothing else."

// translationPrompt asks for a plain word translation (split mode)
func translationPrompt(item, sourceLanguage, targetLanguage string) string {
	return fmt.Sprintf("Translate the %s word '%s' to %s.", sourceLanguage, item, targetLanguage)
}

// examplePrompt asks for an example sentence with the translation in
// parentheses (split mode)
func examplePrompt(item, sourceLanguage, targetLanguage string) string {
	return fmt.Sprintf(
		"Generate a simple example sentence for the word '%s' in %s. "+
			"The sentence should be appropriate for learners studying %s. "+
			"The format must be: '%s sentence. (%s sentence)'.",
		item, sourceLanguage, sourceLanguage, sourceLanguage, targetLanguage,
	)
}

// combinedPrompt asks for sentence, translated sentence and translated
// word in a single response (combined mode)
func combinedPrompt(item, sourceLanguage, targetLanguage, proficiency string) string {
	return fmt.Sprintf(
		"Generate one example sentence in %s using the word or phrase '%s', "+
			"appropriate for a %s level learner. "+
			"The format must be: '%s sentence (%s sentence) (%s translation of the word or phrase)'. "+
			"Omit articles for uncountable and proper nouns and include articles only when "+
			"grammatically required. Keep multi-word phrases together as a single unit.",
		sourceLanguage, item, proficiency, sourceLanguage, targetLanguage, targetLanguage,
	)
}
