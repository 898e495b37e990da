package llmservice

import (
	"golang.org/x/text/language"
)

// Templates maps a language to its prompt. Each template takes the context
// and the question, in that order.
var Templates = map[language.Tag]string{
	language.English: "Answer the question in the third person in one sentence with an emoji. Context: %s. Question: %s",
	language.Spanish: "Responde la pregunta en tercera persona en una sola frase con un emoji. Contexto: %s. Pregunta: %s",
	language.French:  "Réponds à la question à la troisième personne en une seule phrase avec un emoji. Contexte : %s. Question : %s",
	language.German:  "Beantworte die Frage in der dritten Person in einem Satz mit einem Emoji. Kontext: %s. Frage: %s",
}

// DefaultLanguage is used when no template matches.
var DefaultLanguage = language.English

var (
	supported = []language.Tag{DefaultLanguage, language.Spanish, language.French, language.German}
	matcher   = language.NewMatcher(supported)
)

// SelectTemplate picks the template for lang, which may be a BCP 47 tag or
// an Accept-Language style list. Unknown or empty input falls back to
// DefaultLanguage.
func SelectTemplate(lang string) (language.Tag, string) {
	if lang == "" {
		return DefaultLanguage, Templates[DefaultLanguage]
	}
	tags, _, err := language.ParseAcceptLanguage(lang)
	if err != nil || len(tags) == 0 {
		return DefaultLanguage, Templates[DefaultLanguage]
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return DefaultLanguage, Templates[DefaultLanguage]
	}
	tag := supported[idx]
	return tag, Templates[tag]
}
