package utils

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

func GetFileExtension(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

func IsAllowedFileType(filename string, allowedTypes []string) bool {
	ext := strings.TrimPrefix(GetFileExtension(filename), ".")

	for _, allowedType := range allowedTypes {
		if ext == allowedType {
			return true
		}
	}

	return false
}

func IsImageFile(filename string) bool {
	return IsAllowedFileType(filename, AllowedImageTypes)
}

// GenerateUniqueFilename keeps the extension of the original name.
func GenerateUniqueFilename(originalFilename string) string {
	ext := GetFileExtension(originalFilename)
	return fmt.Sprintf("%d_%s%s", time.Now().Unix(), uuid.NewString()[:8], ext)
}

// ImageKey is the storage key of an uploaded vehicle image.
func ImageKey(vehicleID, originalFilename string) string {
	return fmt.Sprintf("cars/%s/%s", vehicleID, GenerateUniqueFilename(originalFilename))
}
