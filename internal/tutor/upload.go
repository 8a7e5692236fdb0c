package tutor

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
)

// MaxUploadSize is the largest image accepted for analysis
const MaxUploadSize = 10 << 20

// allowedTypes maps accepted file extensions to their sniffed content types
var allowedTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// Upload is a selected image that passed input rejection
type Upload struct {
	Path        string
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// OpenUpload reads and validates a local image file. It rejects unsupported
// types and files larger than MaxUploadSize without contacting the service.
func OpenUpload(path string) (*Upload, error) {
	if path == "" {
		return nil, NewValidationError(FieldFile, path, "file path is required")
	}

	if err := checkExtension(path); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, NewValidationError(FieldFile, path, fmt.Sprintf("cannot access file: %v", err))
	}
	if info.IsDir() {
		return nil, NewValidationError(FieldFile, path, "path is a directory")
	}
	if info.Size() > MaxUploadSize {
		return nil, tooLarge(path, info.Size())
	}

	f, err := os.Open(path) // #nosec G304 - path is user-selected and validated above
	if err != nil {
		return nil, NewValidationError(FieldFile, path, fmt.Sprintf("cannot open file: %v", err))
	}
	defer func() { _ = f.Close() }()

	// The file may grow between Stat and Read
	data, err := io.ReadAll(io.LimitReader(f, MaxUploadSize+1))
	if err != nil {
		return nil, NewValidationError(FieldFile, path, fmt.Sprintf("cannot read file: %v", err))
	}

	return newUpload(path, filepath.Base(path), data)
}

// NewUpload validates an in-memory image under the given file name
func NewUpload(name string, data []byte) (*Upload, error) {
	if err := checkExtension(name); err != nil {
		return nil, err
	}
	return newUpload("", filepath.Base(name), data)
}

// IsSupportedFile reports whether the extension of path is accepted
func IsSupportedFile(path string) bool {
	_, ok := allowedTypes[strings.ToLower(filepath.Ext(path))]
	return ok
}

// SupportedExtensions returns accepted extensions, sorted
func SupportedExtensions() []string {
	exts := make([]string, 0, len(allowedTypes))
	for ext := range allowedTypes {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func newUpload(path, name string, data []byte) (*Upload, error) {
	size := int64(len(data))
	if size > MaxUploadSize {
		return nil, tooLarge(name, size)
	}
	if size == 0 {
		return nil, NewValidationError(FieldFile, name, "file is empty")
	}

	contentType := http.DetectContentType(data)
	if !isAllowedContentType(contentType) {
		return nil, NewValidationError(FieldType, contentType, fmt.Sprintf("unsupported image content: %s", contentType))
	}

	return &Upload{
		Path:        path,
		Name:        name,
		ContentType: contentType,
		Size:        size,
		Data:        data,
	}, nil
}

func checkExtension(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := allowedTypes[ext]; !ok {
		return NewValidationError(FieldType, ext, fmt.Sprintf("unsupported file type: %q (must be one of: %s)",
			ext, strings.Join(SupportedExtensions(), ", ")))
	}
	return nil
}

func isAllowedContentType(contentType string) bool {
	for _, allowed := range allowedTypes {
		if contentType == allowed {
			return true
		}
	}
	return false
}

func tooLarge(name string, size int64) *ValidationError {
	return NewValidationError(FieldSize, name, fmt.Sprintf("file is %s, limit is %s",
		humanize.IBytes(uint64(size)), humanize.IBytes(MaxUploadSize)))
}
