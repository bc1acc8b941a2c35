package storage

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	UploadBasePath = "./uploads"
	PhotosPath     = "./uploads/photos"
)

// ErrNotImage is returned when an uploaded payload does not decode as an
// image. Handlers map it to a validation failure.
var ErrNotImage = errors.New("file is not a decodable image")

const MaxImageSize = 10 * 1024 * 1024

func InitLocalStorage() error {
	for _, dir := range []string{UploadBasePath, PhotosPath} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
	}

	return nil
}

// ValidateImage checks that the payload decodes as png, jpeg or gif.
func ValidateImage(file *multipart.FileHeader) error {
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	if _, _, err := image.DecodeConfig(src); err != nil {
		return ErrNotImage
	}

	return nil
}

// SaveImage validates the payload and stores it under the photos
// directory with a random UUID filename, preserving the original
// extension. Returns the public path of the stored file.
func SaveImage(file *multipart.FileHeader) (string, error) {
	if file.Size > MaxImageSize {
		return "", fmt.Errorf("file too large: %d bytes", file.Size)
	}

	if err := ValidateImage(file); err != nil {
		return "", err
	}

	if !UseLocalStorage {
		return uploadToS3(file)
	}

	return saveToLocal(file)
}

func saveToLocal(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %v", err)
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(file.Filename))
	filename := uuid.New().String() + ext
	fullPath := filepath.Join(PhotosPath, filename)

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %v", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to save file: %v", err)
	}

	relativePath := strings.TrimPrefix(fullPath, "./")
	return "/" + relativePath, nil
}

// DeleteImage removes a previously stored file. Paths outside the uploads
// directory are rejected. S3 objects are left in place.
func DeleteImage(filePath string) error {
	if !UseLocalStorage {
		return nil
	}

	filePath = strings.TrimPrefix(filePath, "/")

	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("invalid file path: %v", err)
	}

	baseAbs, err := filepath.Abs(UploadBasePath)
	if err != nil {
		return fmt.Errorf("invalid base path: %v", err)
	}
	realPath, err := filepath.EvalSymlinks(absPath)
	if err == nil {
		absPath = realPath
	}
	if !strings.HasPrefix(absPath, baseAbs) {
		return fmt.Errorf("file path outside uploads directory")
	}

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", filePath)
	}

	return os.Remove(filePath)
}

func FileExists(filePath string) bool {
	filePath = strings.TrimPrefix(filePath, "/")

	_, err := os.Stat(filePath)
	return !os.IsNotExist(err)
}
