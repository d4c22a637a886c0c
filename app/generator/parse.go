package generator

import "strings"

// Sentinel strings substituted for unrecoverable per-item failures.
// They end up as visible card text so a bad item never aborts the batch.
const (
	sentinelParse         = "Parsing error"
	sentinelNoTranslation = "No translation available"
	sentinelTranslation   = "Translation not available."
	sentinelExample       = "Example sentence not available."
)

// disclaimerPrefixes match scripted commentary the model sometimes
// appends after the sentence; matching trailing lines are dropped
var disclaimerPrefixes = []string{
	"note:",
	"please note",
	"i hope this helps",
	"as an ai",
	"let me know",
}

// articleTokens lists the recognized definite-article tokens per target
// language. Only Dutch is covered, the heuristic does not generalize to
// other languages and they pass through untouched.
var articleTokens = map[string][]string{
	"dutch": {"de", "het"},
}

// defaultArticles is the token prepended when none of articleTokens is present
var defaultArticles = map[string]string{
	"dutch": "De",
}

// ExtractGroup returns the trimmed contents of the first parenthesized
// group, or false when the response has none
func ExtractGroup(response string) (string, bool) {
	match := parenGroup.FindStringSubmatch(response)
	if match == nil {
		return "", false
	}
	return strings.TrimSpace(match[1]), true
}

// SourcePart returns the text before the first parenthesized group,
// trimmed and with trailing disclaimer lines stripped
func SourcePart(response string) string {
	return stripDisclaimers(strings.TrimSpace(strings.SplitN(response, "(", 2)[0]))
}

// ParseDual extracts source sentence, target sentence and target word
// from a response validated by ValidDual. An unexpected extraction
// failure degrades to the parsing-error triple instead of propagating.
func ParseDual(response string) (sourceSentence, targetSentence, targetWord string) {
	groups := parenGroup.FindAllStringSubmatch(response, -1)
	if len(groups) < 2 {
		return sentinelParse, sentinelParse, sentinelParse
	}
	return SourcePart(response), strings.TrimSpace(groups[0][1]), strings.TrimSpace(groups[1][1])
}

// NormalizeArticle prepends the target language's default definite
// article unless the word already starts with a recognized article token
func NormalizeArticle(word, targetLanguage string) string {
	language := strings.ToLower(targetLanguage)
	tokens, ok := articleTokens[language]
	if !ok || word == "" {
		return word
	}
	first := strings.ToLower(strings.SplitN(word, " ", 2)[0])
	for _, token := range tokens {
		if first == token {
			return word
		}
	}
	return defaultArticles[language] + " " + word
}

func stripDisclaimers(text string) string {
	lines := strings.Split(text, "\n")
	for len(lines) > 1 {
		last := strings.ToLower(strings.TrimSpace(lines[len(lines)-1]))
		if !hasDisclaimerPrefix(last) {
			break
		}
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func hasDisclaimerPrefix(line string) bool {
	for _, prefix := range disclaimerPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
