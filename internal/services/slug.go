package services

import "strings"

var accentFolder = strings.NewReplacer("á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u")

// Slugify derives a category slug: lowercase, spaces to hyphens, accented vowels folded.
func Slugify(name string) string {
	return accentFolder.Replace(strings.ReplaceAll(strings.ToLower(name), " ", "-"))
}
