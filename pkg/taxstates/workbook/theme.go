package workbook

import (
	"fmt"
	"strings"
	"sync"
)

// palette maps the legacy default theme colors to the replacement palette.
// Tokens are substituted wherever they appear as a val attribute.
var palette = map[string]string{
	"1F497D": "44546A",
	"EEECE1": "E7E6E6",
	"4F81BD": "5B9BD5",
	"C0504D": "ED7D31",
	"9BBB59": "A5A5A5",
	"8064A2": "FFC000",
	"4BACC6": "4472C4",
	"F79646": "70AD47",
	"0000FF": "0563C1",
	"800080": "954F72",
}

var (
	themeOnce     sync.Once
	themeReplacer *strings.Replacer
)

// patchTheme rewrites the theme entry with the replacement palette. The
// replacer is built once per process; applying it again is a no-op because
// the replacement values are not themselves keys.
func patchTheme(xml []byte) []byte {
	themeOnce.Do(func() {
		pairs := make([]string, 0, len(palette)*2)
		for original, replacement := range palette {
			pairs = append(pairs, fmt.Sprintf("val=%q", original), fmt.Sprintf("val=%q", replacement))
		}
		themeReplacer = strings.NewReplacer(pairs...)
	})
	return []byte(themeReplacer.Replace(string(xml)))
}
