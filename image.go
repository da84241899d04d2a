package repost

// ImageFormat identifies the encoding of a normalized image.
type ImageFormat string

// Supported output formats.
const (
	FormatJPEG ImageFormat = "jpeg"
)

// Ext returns the file extension for the format, including the dot.
func (f ImageFormat) Ext() string {
	switch f {
	case FormatJPEG:
		return ".jpg"
	default:
		return ""
	}
}

// NormalizedImage is an opaque, three-channel encoded image ready to persist.
type NormalizedImage struct {
	Data    []byte
	Format  ImageFormat
	Quality int
	Width   int
	Height  int
}

// ImageNormalizer re-encodes raw image bytes into a NormalizedImage.
type ImageNormalizer interface {
	// Normalize decodes raw and returns the normalized image.
	// Returns EDECODE if raw is not a decodable image.
	Normalize(raw []byte) (*NormalizedImage, error)
}
