package gemini

// Image is an inline image payload as returned by the generateContent API.
// Data stays base64-encoded until the image is written to disk.
type Image struct {
	MimeType string
	Data     string
}
