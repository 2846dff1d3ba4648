package ui

import (
	"fmt"
	"io"
	"path"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/terassyi/drushgen/internal/installer/download"
)

// DownloadProgress renders one progress bar per archive download. On a
// non-terminal writer it prints a single line per finished download instead.
type DownloadProgress struct {
	w        io.Writer
	isTTY    bool
	progress *mpb.Progress
}

// NewDownloadProgress creates a DownloadProgress writing to w.
func NewDownloadProgress(w io.Writer, isTTY bool) *DownloadProgress {
	p := &DownloadProgress{
		w:     w,
		isTTY: isTTY,
	}
	if isTTY {
		p.progress = mpb.New(mpb.WithOutput(w), mpb.WithWidth(40))
	}
	return p
}

// Track starts tracking the download of url. The returned callback reports
// bytes received; done must be called once with the outcome.
func (p *DownloadProgress) Track(url string) (download.ProgressCallback, func(ok bool)) {
	style := NewStyle()
	name := path.Base(url)

	if !p.isTTY {
		var received int64
		cb := func(downloaded, _ int64) { received = downloaded }
		done := func(ok bool) {
			mark := style.SuccessMark
			if !ok {
				mark = style.FailMark
			}
			fmt.Fprintf(p.w, "  %s %s %s\n", mark, style.Path.Sprint(name), formatBytes(received))
		}
		return cb, done
	}

	bar := p.progress.AddBar(0,
		mpb.BarFillerClearOnComplete(),
		mpb.PrependDecorators(
			decor.Name(fmt.Sprintf("  %s ", style.Path.Sprint(name)), decor.WC{W: 36, C: decor.DindentRight}),
		),
		mpb.AppendDecorators(
			decor.CountersKibiByte("% .1f / % .1f"),
			decor.OnComplete(decor.Name(""), " done"),
		),
	)

	cb := func(downloaded, total int64) {
		if total > 0 {
			bar.SetTotal(total, false)
		}
		bar.SetCurrent(downloaded)
	}
	done := func(ok bool) {
		if ok {
			bar.SetTotal(bar.Current(), true)
			return
		}
		bar.Abort(true)
	}
	return cb, done
}

// Wait blocks until every bar has finished rendering.
func (p *DownloadProgress) Wait() {
	if p.progress != nil {
		p.progress.Wait()
	}
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
