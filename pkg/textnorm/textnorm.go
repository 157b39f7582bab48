// Package textnorm normaliza texto para búsquedas sin distinguir acentos ni mayúsculas.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold devuelve s en minúsculas, sin marcas diacríticas y con espacios colapsados.
// "Café  Orgánico" -> "cafe organico".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

// SearchKey concatena los campos normalizados, separados por espacio, para indexar búsquedas.
func SearchKey(fields ...string) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = Fold(f); f != "" {
			parts = append(parts, f)
		}
	}
	return strings.Join(parts, " ")
}

// Contains indica si needle aparece en haystack ignorando acentos y mayúsculas.
func Contains(haystack, needle string) bool {
	return strings.Contains(Fold(haystack), Fold(needle))
}
