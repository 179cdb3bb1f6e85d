// Enums live in their own package so that both configuration and rendering
// code can share them without importing each other.
package common

// Specification of requested export encoding.
// ENUM(png, jpg)
type OutputFmt int

func (o OutputFmt) Ext() string {
	switch o {
	case OutputFmtJpg:
		return ".jpg"
	default:
		return ".png"
	}
}

func (o OutputFmt) MimeType() string {
	switch o {
	case OutputFmtJpg:
		return "image/jpeg"
	default:
		return "image/png"
	}
}

// Specification of image placement inside a slot.
// ENUM(cover, contain, stretch)
type ImageFit int

// Specification of horizontal text alignment.
// ENUM(left, center, right)
type Align int
