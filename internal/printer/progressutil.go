package printer

import (
	"strings"

	"github.com/slok/opsq/internal/model"
)

// ProgressBar returns a fixed width text progress bar.
// Examples: "[#####-----]" for 50 with width 10.
func ProgressBar(progress, width int) string {
	if width <= 0 {
		return ""
	}

	progress = model.ClampProgress(progress)
	filled := progress * width / model.MaxProgress

	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}
