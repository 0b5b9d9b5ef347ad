package filestorage

import "mime/multipart"

// PhotoStorage defines the interface for photo storage operations
type PhotoStorage interface {
	// SavePhoto stores an uploaded photo for the given owner and returns
	// the public path under which it is served
	SavePhoto(ownerID int64, fileHeader *multipart.FileHeader) (string, error)

	// DeletePhoto removes a stored photo; missing files are not an error
	DeletePhoto(storedPath string) error

	// ResolveDisplayPath returns storedPath, or the default placeholder
	// when no photo has been stored
	ResolveDisplayPath(storedPath string) string
}
