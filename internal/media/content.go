package media

import (
	"net/http"
	"strings"
)

// ResolveContentType returns the content type to store for data. A declared
// type is kept when it agrees with what the magic bytes say; otherwise the
// detected type wins.
func ResolveContentType(data []byte, declaredType string) string {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	actualType := http.DetectContentType(head)

	if declaredType == "" {
		return actualType
	}
	if isContentTypeMatch(actualType, declaredType) {
		return declaredType
	}
	return actualType
}

// IsImage reports whether contentType names an image.
func IsImage(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}

func isContentTypeMatch(actual, declared string) bool {
	// Exact match
	if actual == declared {
		return true
	}

	// Handle MIME type prefix (e.g., "image/jpeg" matches "image/*")
	actualPrefix := strings.Split(actual, "/")[0]
	declaredPrefix := strings.Split(declared, "/")[0]
	if actualPrefix == declaredPrefix {
		return true
	}

	// SVG sniffs as XML or plain text.
	aliases := map[string][]string{
		"image/svg+xml": {"text/xml; charset=utf-8", "text/plain; charset=utf-8"},
	}

	if compatibles, ok := aliases[declared]; ok {
		for _, compat := range compatibles {
			if actual == compat {
				return true
			}
		}
	}

	return false
}
