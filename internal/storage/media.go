package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

var mediaRoot string

// InitMediaRoot prepares the upload directory from the MEDIA_ROOT
// environment variable, defaulting to ./media.
func InitMediaRoot() error {
	mediaRoot = os.Getenv("MEDIA_ROOT")
	if mediaRoot == "" {
		mediaRoot = "./media"
	}

	return os.MkdirAll(filepath.Join(mediaRoot, "notes"), 0o755)
}

// SaveNoteFile stores an uploaded note attachment under notes/ with a
// random name prefix so uploads cannot collide or overwrite each other.
// Returns the stored path relative to the media root.
func SaveNoteFile(file *multipart.FileHeader) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s_%s", id, sanitizeFilename(file.Filename))
	relPath := filepath.Join("notes", name)

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(mediaRoot, relPath))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", err
	}

	return relPath, nil
}

// AbsolutePath resolves a stored relative path against the media root.
func AbsolutePath(relPath string) string {
	return filepath.Join(mediaRoot, relPath)
}

// RemoveFile deletes a stored file. A missing file is not an error; the
// database row is the source of truth.
func RemoveFile(relPath string) error {
	err := os.Remove(filepath.Join(mediaRoot, relPath))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "upload"
	}
	return name
}
