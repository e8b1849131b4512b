// internal/adapters/scanner/line_detector.go
package scanner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/ammerola/stockscan/internal/core/ports"
)

// LineDetector reads codes from a keyboard-wedge style device: each scan
// arrives as one line of text.
type LineDetector struct {
	lines     chan lineResult
	done      chan struct{}
	closeOnce sync.Once
	logger    *slog.Logger
}

type lineResult struct {
	text string
	err  error
}

var _ ports.CodeDetector = (*LineDetector)(nil)

// NewLineDetector starts reading lines from r in the background
func NewLineDetector(r io.Reader, logger *slog.Logger) *LineDetector {
	d := &LineDetector{
		lines:  make(chan lineResult),
		done:   make(chan struct{}),
		logger: logger.With(slog.String("component", "line_detector")),
	}
	go d.read(r)
	return d
}

func (d *LineDetector) read(r io.Reader) {
	defer close(d.lines)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if !d.send(lineResult{text: sc.Text()}) {
			return
		}
	}
	if err := sc.Err(); err != nil {
		d.send(lineResult{err: err})
	}
}

func (d *LineDetector) send(res lineResult) bool {
	select {
	case d.lines <- res:
		return true
	case <-d.done:
		return false
	}
}

// Close stops delivering scans. A read already blocked on the device ends
// when the device does.
func (d *LineDetector) Close() error {
	d.closeOnce.Do(func() { close(d.done) })
	return nil
}

// Detect blocks until the next scan. A blank line yields ErrNoCodeFound; a
// closed or failed device yields ErrDeviceUnavailable.
func (d *LineDetector) Detect(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-d.lines:
		if !ok {
			return "", ports.ErrDeviceUnavailable
		}
		if res.err != nil {
			d.logger.WarnContext(ctx, "capture device read failed", slog.String("error", res.err.Error()))
			return "", fmt.Errorf("%w: %v", ports.ErrDeviceUnavailable, res.err)
		}
		code := strings.TrimSpace(strings.Trim(res.text, "\x00"))
		if code == "" {
			return "", ports.ErrNoCodeFound
		}
		return code, nil
	}
}
