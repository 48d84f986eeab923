package ziparchiver

import "io"

// progressTracker turns written bytes into a non-decreasing percentage.
type progressTracker struct {
	total    int64
	written  int64
	last     float64
	finished bool
	report   func(percent float64)
}

func newProgressTracker(total int64, report func(percent float64)) *progressTracker {
	return &progressTracker{total: total, report: report}
}

func (p *progressTracker) add(n int64) {
	if p.report == nil || p.finished || n <= 0 {
		return
	}
	p.written += n
	if p.total <= 0 {
		return
	}

	percent := float64(p.written) / float64(p.total) * 100
	// 100 is only reported once the archive is complete.
	percent = min(percent, 99.9)
	if percent <= p.last {
		return
	}
	p.last = percent
	p.report(percent)
}

func (p *progressTracker) finish() {
	if p.report == nil || p.finished {
		return
	}
	p.finished = true
	p.last = 100
	p.report(100)
}

func (p *progressTracker) writer(w io.Writer) io.Writer {
	if p.report == nil {
		return w
	}
	return &progressWriter{w: w, progress: p}
}

type progressWriter struct {
	w        io.Writer
	progress *progressTracker
}

func (pw *progressWriter) Write(b []byte) (int, error) {
	n, err := pw.w.Write(b)
	pw.progress.add(int64(n))
	return n, err
}
