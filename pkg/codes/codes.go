// Package codes normaliza los códigos visibles (productos, bodegas, categorías)
// para que "bod-01", " BOD-01 " y "Bód-01" se consideren el mismo código.
package codes

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize quita espacios externos y tildes, colapsa espacios internos y pasa a mayúsculas.
func Normalize(code string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, code)
	if err != nil {
		out = code
	}
	return strings.ToUpper(strings.Join(strings.Fields(out), " "))
}
