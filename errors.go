package postfx

import "errors"

var (
	// ErrInvalidParams is returned when stage parameters fail validation.
	// The returned error names the offending field.
	ErrInvalidParams = errors.New("postfx: invalid parameters")

	// ErrUnknownGammaMode is returned for a GammaMode outside the defined set.
	ErrUnknownGammaMode = errors.New("postfx: unknown gamma mode")

	// ErrSizeMismatch is returned when a per-pixel stage is given source and
	// destination pixmaps of different sizes.
	ErrSizeMismatch = errors.New("postfx: pixmap size mismatch")

	// ErrEmptyPixmap is returned for nil or zero-area pixmaps.
	ErrEmptyPixmap = errors.New("postfx: empty pixmap")
)
