// internal/core/ports/code_detector.go
package ports

import (
	"context"
	"errors"
)

var (
	// ErrNoCodeFound is returned when the input held nothing decodable
	ErrNoCodeFound = errors.New("no code found")
	// ErrDeviceUnavailable is returned when the capture device cannot be read
	ErrDeviceUnavailable = errors.New("capture device unavailable")
)

// CodeDetector yields decoded barcode text from a capture device
type CodeDetector interface {
	Detect(ctx context.Context) (string, error)
}
