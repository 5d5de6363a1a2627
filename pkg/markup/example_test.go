package markup_test

import (
	"fmt"

	"github.com/matzehuels/glyphdust/pkg/markup"
)

func ExampleExtract() {
	icon := `<svg viewBox="0 0 24 24">
  <rect x="2" y="2" width="20" height="20"/>
  <polyline points="6 12 10 16 18 8"/>
</svg>`
	for _, d := range markup.Extract(icon) {
		fmt.Println(d)
	}
	// Output:
	// M 2 2 L 22 2 L 22 22 L 2 22 Z
	// M 6 12 L 10 16 L 18 8
}
