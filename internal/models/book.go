package models

// TransformState tracks a single image through the sketch pipeline.
type TransformState string

const (
	TransformPending      TransformState = "pending"
	TransformTransforming TransformState = "transforming"
	TransformDone         TransformState = "done"
	TransformFailed       TransformState = "failed"
)

// BookSize is the page size of the printed book.
type BookSize string

const (
	SizeA5 BookSize = "A5"
	SizeA4 BookSize = "A4"
)

// BookFormat is the storefront-facing format name. At the pricing layer
// "standard" maps to A5 and "large"/"square" to the A4 price band.
type BookFormat string

const (
	FormatStandard BookFormat = "standard"
	FormatLarge    BookFormat = "large"
	FormatSquare   BookFormat = "square"
)

// Binding is the binding type of the printed book.
type Binding string

const (
	BindingSpiral    Binding = "spiral"
	BindingPerfect   Binding = "perfect"
	BindingHardcover Binding = "hardcover"
)

// UploadedImage is a photo inside the current book-building session.
// It is owned by the session; nothing else holds a reference to it.
type UploadedImage struct {
	ID              string         `json:"id"`
	Filename        string         `json:"filename"`
	OriginalData    []byte         `json:"-"`
	TransformedData []byte         `json:"-"`
	OriginalURL     string         `json:"original_url,omitempty"`
	TransformedURL  string         `json:"transformed_url,omitempty"`
	MimeType        string         `json:"mime_type"`
	State           TransformState `json:"state"`
	Error           string         `json:"error,omitempty"`
}

// BookConfiguration is the user-chosen customization plus the ordered image set.
// It must round-trip losslessly through JSON.
type BookConfiguration struct {
	Images   []string   `json:"images"`
	Size     BookSize   `json:"size"`
	Format   BookFormat `json:"format,omitempty"`
	Binding  Binding    `json:"binding"`
	Cover    string     `json:"cover"`
	Quantity int        `json:"quantity"`
}

// ValidFormat reports whether f belongs to the closed format enumeration.
func ValidFormat(f BookFormat) bool {
	switch f {
	case FormatStandard, FormatLarge, FormatSquare:
		return true
	}
	return false
}

// ValidBinding reports whether b belongs to the closed binding enumeration.
func ValidBinding(b Binding) bool {
	switch b {
	case BindingSpiral, BindingPerfect, BindingHardcover:
		return true
	}
	return false
}

// SizeForFormat maps a storefront format to the page-size price band.
func SizeForFormat(f BookFormat) BookSize {
	if f == FormatStandard {
		return SizeA5
	}
	return SizeA4
}
