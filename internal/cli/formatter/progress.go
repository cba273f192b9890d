package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderCapUsage renders how much of the weekly legal cap is used, like
// [████░░░░] 20h / 40h. The bar turns yellow past 80% and red once the cap
// is reached, when further hours are paid as cash.
func RenderCapUsage(used, limit float64, width int) string {
	if width < 2 {
		width = 2
	}
	pct := 1.0
	if limit > 0 {
		pct = used / limit
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}

	filled := int(pct * float64(width))
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleLegal
	switch {
	case pct >= 1:
		style = StyleOver
	case pct >= 0.8:
		style = StyleCash
	}
	return fmt.Sprintf("[%s] %s / %s", style.Render(bar), FormatHours(used), FormatHours(limit))
}
