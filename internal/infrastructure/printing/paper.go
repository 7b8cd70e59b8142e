package printing

// PaperSize names a supported sheet size
type PaperSize string

const (
	PaperSizeLetter PaperSize = "LETTER"
	PaperSizeLegal  PaperSize = "LEGAL"
	PaperSizeA4     PaperSize = "A4"
)

// IsValid reports whether the size is supported
func (p PaperSize) IsValid() bool {
	switch p {
	case PaperSizeLetter, PaperSizeLegal, PaperSizeA4:
		return true
	}
	return false
}

// Dimensions returns width and height in millimeters, portrait
func (p PaperSize) Dimensions() (width, height float64) {
	switch p {
	case PaperSizeLegal:
		return 215.9, 355.6
	case PaperSizeA4:
		return 210, 297
	default:
		return 215.9, 279.4
	}
}

// Orientation is portrait or landscape
type Orientation string

const (
	OrientationPortrait  Orientation = "PORTRAIT"
	OrientationLandscape Orientation = "LANDSCAPE"
)

// Margins in millimeters
type Margins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// DefaultMargins are 12.7mm (half an inch) on every side
func DefaultMargins() Margins {
	return Margins{Top: 12.7, Right: 12.7, Bottom: 12.7, Left: 12.7}
}
