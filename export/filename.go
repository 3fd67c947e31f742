package export

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FreeDrawName is the base file name of free-draw exports.
const FreeDrawName = "my_drawing"

// FileName returns the download name for an export: the template's
// display name lower-cased with whitespace runs replaced by underscores
// and "_colored" appended, or FreeDrawName when templateName is empty.
// Accents are stripped and characters unsafe in file names are dropped.
//
//	FileName("Pretty Flower", "png") // "pretty_flower_colored.png"
//	FileName("", "jpg")              // "my_drawing.jpg"
func FileName(templateName, ext string) string {
	base := slug(templateName)
	if base == "" {
		base = FreeDrawName
	} else {
		base += "_colored"
	}
	if ext = strings.TrimPrefix(ext, "."); ext != "" {
		return base + "." + ext
	}
	return base
}

func slug(name string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
		cases.Lower(language.Und),
	)
	folded, _, err := transform.String(t, strings.TrimSpace(name))
	if err != nil {
		folded = strings.ToLower(strings.TrimSpace(name))
	}

	var b strings.Builder
	space := false
	for _, r := range folded {
		switch {
		case unicode.IsSpace(r):
			space = true
			continue
		case r == '/' || r == '\\' || r == ':' || r == '*' || r == '?' ||
			r == '"' || r == '<' || r == '>' || r == '|' || unicode.IsControl(r):
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte('_')
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}
