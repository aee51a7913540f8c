package utils

// Allowed upload media types, matching the web client's validation. Each maps
// to the canonical file extension stored on the asset record.
var allowedMediaTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"application/pdf": "pdf",
	"text/plain":      "txt",
	"application/msword": "doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": "docx",
	"application/vnd.ms-powerpoint": "ppt",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": "pptx",
}

// MediaTypeAllowed reports whether the declared content type may be uploaded.
func MediaTypeAllowed(contentType string) bool {
	_, ok := allowedMediaTypes[contentType]
	return ok
}

// ExtensionForMediaType returns the canonical extension for an allowed content
// type, or "" when the type is not allowed.
func ExtensionForMediaType(contentType string) string {
	return allowedMediaTypes[contentType]
}

// IsImageMediaType reports whether the content type is one of the allowed
// image formats.
func IsImageMediaType(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/jpg", "image/png", "image/gif":
		return true
	}
	return false
}

// ResourceClass returns the object-store namespace for a content type:
// "image" for images, "raw" for everything else.
func ResourceClass(contentType string) string {
	if IsImageMediaType(contentType) {
		return "image"
	}
	return "raw"
}
