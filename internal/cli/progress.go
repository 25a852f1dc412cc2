package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/Veraticus/nota/internal/extraction"
	"github.com/schollz/progressbar/v3"
)

// UploadProgress returns an extraction.ProgressFunc that draws a byte
// progress bar on w for each upload.
func UploadProgress(w io.Writer) extraction.ProgressFunc {
	return func(size int64, description string) io.Writer {
		if w == nil {
			return nil
		}
		return newUploadBar(w, size, description)
	}
}

func newUploadBar(w io.Writer, size int64, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(size,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(fmt.Sprintf("[cyan][bold]Uploading %s...[reset]", description)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(w); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}
