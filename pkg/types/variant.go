package types

// VariantOption is a single chosen product option, e.g. {Color, Red}.
type VariantOption struct {
	VariantName  string `json:"variantName"`
	VariantValue string `json:"variantValue"`
}

// FileRef points at a file already persisted in media storage.
type FileRef struct {
	ID   int64  `json:"id"`
	URL  string `json:"url,omitempty"`
	Mime string `json:"mime,omitempty"`
	Size int64  `json:"size,omitempty"`
}

// UploadAttachment groups the files a customer attached to one upload field.
type UploadAttachment struct {
	FieldLabel string    `json:"fieldLabel"`
	Files      []FileRef `json:"files"`
}
