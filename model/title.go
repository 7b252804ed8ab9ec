package model

// LocalizedTitle is one localized title value, in document order.
type LocalizedTitle struct {
	Locale string
	Text   string
}

// TitleSet is an ordered collection of localized titles: a map would
// lose the document order the canonicalizer and builder must
// reproduce, so titles are kept as a slice with a lookup helper.
type TitleSet []LocalizedTitle

// Get returns the title for locale, or the first title if locale is
// empty or absent — the "default" title DDEX consumers expect.
func (t TitleSet) Get(locale string) string {
	if locale != "" {
		for _, lt := range t {
			if lt.Locale == locale {
				return lt.Text
			}
		}
	}
	if len(t) > 0 {
		return t[0].Text
	}
	return ""
}

// Add appends a localized title, matching document order.
func (t *TitleSet) Add(locale, text string) {
	*t = append(*t, LocalizedTitle{Locale: locale, Text: text})
}
