package locale

// Catalog 以中文文案为键保存英文译文。
type Catalog map[string]string

// Translate returns the text for language, falling back to the Chinese source.
func (c Catalog) Translate(language, chinese string) string {
	if NormalizeLanguage(language) != LanguageEnglish {
		return chinese
	}
	if english, ok := c[chinese]; ok && english != "" {
		return english
	}
	return chinese
}
