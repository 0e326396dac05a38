package constants

import "strings"

// AllowedExtensions holds the upload extensions the table reader understands.
var AllowedExtensions = map[string]struct{}{
	"xlsx": {},
	"csv":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// AllowedExt reports whether a normalized extension is accepted for upload.
func AllowedExt(ext string) bool {
	_, ok := AllowedExtensions[ext]
	return ok
}
