package event

// リモートストアの行で欠けている項目に適用する既定値
const (
	DefaultType     = TypeTour
	DefaultCapacity = 10
	DefaultRating   = 5.0
)
