package langdetect

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// nameOverrides holds names that differ from the CLDR English display name.
var nameOverrides = map[string]string{
	"tl":  "Filipino",
	"fil": "Filipino",
	"no":  "Norwegian",
	"nb":  "Norwegian",
}

var englishNames = display.English.Languages()

// LanguageName returns the English name of the base language of code.
// Unknown or undetermined codes map to DefaultLanguage.
func LanguageName(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return DefaultLanguage
	}
	tag, err := language.Parse(code)
	if err != nil || tag == language.Und {
		return DefaultLanguage
	}
	base, conf := tag.Base()
	if conf == language.No {
		return DefaultLanguage
	}
	if name, ok := nameOverrides[base.String()]; ok {
		return name
	}
	name := englishNames.Name(base)
	if name == "" {
		return DefaultLanguage
	}
	return name
}
