package cli

import (
	"github.com/schollz/progressbar/v3"
)

// extractProgress returns a per-file progress callback for the extractor,
// or nil when quiet output is requested.
func extractProgress(quiet bool) func(done, total int) {
	if quiet {
		return nil
	}

	var bar *progressbar.ProgressBar
	return func(done, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription("Extracting symbols"),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		}
		bar.Set(done)
	}
}
