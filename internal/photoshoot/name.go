package photoshoot

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// displayName derives a campaign name from the uploaded file name, so
// "retro-espresso_maker.jpg" becomes "Retro Espresso Maker".
func displayName(fileName string) string {
	base := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	base = strings.Join(strings.Fields(base), " ")
	if base == "" {
		return "Untitled Photoshoot"
	}
	return titleCaser.String(base)
}
