package deck

import "fmt"

const cardCSS = `
.card {
    font-family: arial;
    font-size: 20px;
    text-align: center;
    color: black;
    background-color: white;
}
`

// template is one review direction of the note model
type template struct {
	Name string
	Qfmt string
	Afmt string
}

// noteTemplates builds the forward and reverse card templates for a
// language pair. Field names embed the languages so decks for different
// pairs never collide in Anki.
func noteTemplates(sourceLanguage, targetLanguage string) []template {
	front := func(lang string) string {
		return fmt.Sprintf("{{%s}}<br><br><i>\"{{ExampleSentence%s}}\"</i>", lang, lang)
	}
	back := func(lang string) string {
		return fmt.Sprintf(
			"{{FrontSide}}<br><br><hr id=answer><br><br>{{%s}}<br><br><i>\"{{ExampleSentence%s}}\"</i>",
			lang, lang,
		)
	}
	return []template{
		{Name: "Card 1", Qfmt: front(sourceLanguage), Afmt: back(targetLanguage)},
		{Name: "Card 2", Qfmt: front(targetLanguage), Afmt: back(sourceLanguage)},
	}
}

// fieldNames returns the note field names in order
func fieldNames(sourceLanguage, targetLanguage string) []string {
	return []string{
		sourceLanguage,
		targetLanguage,
		"ExampleSentence" + sourceLanguage,
		"ExampleSentence" + targetLanguage,
	}
}
