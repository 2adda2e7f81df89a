package parallel

import "context"

// Band is the half-open row range [Y0, Y1).
type Band struct {
	Y0, Y1 int
}

// Rows returns the number of rows in the band.
func (b Band) Rows() int { return b.Y1 - b.Y0 }

// Split cuts height rows into bands of bandHeight rows; the last band may
// be shorter. A non-positive height yields no bands.
func Split(height, bandHeight int) []Band {
	if height <= 0 {
		return nil
	}
	if bandHeight <= 0 {
		bandHeight = height
	}
	bands := make([]Band, 0, (height+bandHeight-1)/bandHeight)
	for y := 0; y < height; y += bandHeight {
		bands = append(bands, Band{Y0: y, Y1: min(y+bandHeight, height)})
	}
	return bands
}

// BandHeight picks a band height giving each worker about four bands.
func (p *Pool) BandHeight(height int) int {
	per := p.workers * 4
	return max(1, (height+per-1)/per)
}

// ForEachBand calls fn once per band of a height-row grid and waits for all
// calls to return. A non-positive bandHeight selects BandHeight(height).
//
// Bands that have not started when ctx is canceled are skipped, and the
// context error is returned. fn must only write rows inside its band.
func (p *Pool) ForEachBand(ctx context.Context, height, bandHeight int, fn func(b Band)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if bandHeight <= 0 {
		bandHeight = p.BandHeight(height)
	}
	bands := Split(height, bandHeight)

	work := make([]func(), len(bands))
	for i, b := range bands {
		work[i] = func() {
			if ctx.Err() != nil {
				return
			}
			fn(b)
		}
	}
	p.Run(work)
	return ctx.Err()
}
