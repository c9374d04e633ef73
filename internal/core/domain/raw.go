package domain

// RawDocument is a source file's bytes before text extraction.
type RawDocument struct {
	// URI is the original location (file path or upload name).
	URI string

	// MIMEType is the content type (e.g., "application/pdf").
	MIMEType string

	// Content is the raw bytes.
	Content []byte
}
