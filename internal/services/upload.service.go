package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"ecobayanihan/config"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const (
	PROOF_SUBDIR        = "proofs"
	MAX_PROOF_FILE_SIZE = 10 * 1024 * 1024
)

var (
	ErrProofTooLarge    = errors.New("proof image must be 10 MB or smaller")
	ErrProofNotAnImage  = errors.New("proof must be a JPEG, PNG, GIF or WebP image")
	allowedProofFormats = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
)

// UploadService stores participant proof images on local disk under UPLOAD_DIR.
type UploadService struct {
	root string
	log  logger.Logger
}

func NewUploadService(config config.Config) *UploadService {
	root := config.UploadDir
	if root == "" {
		root = "uploads"
	}

	return &UploadService{
		root: root,
		log:  logger.New("UploadService"),
	}
}

// SaveProof writes the file and returns its path relative to the upload root.
func (s *UploadService) SaveProof(
	ctx context.Context,
	registrationID uuid.UUID,
	file *multipart.FileHeader,
) (string, error) {
	log := s.log.Function("SaveProof").TraceFromContext(ctx)

	if file.Size > MAX_PROOF_FILE_SIZE {
		return "", ErrProofTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return "", log.Err("failed to open uploaded proof", err)
	}
	defer src.Close()

	detected, err := mimetype.DetectReader(src)
	if err != nil {
		return "", log.Err("failed to detect proof content type", err)
	}

	if !mimetype.EqualsAny(detected.String(), allowedProofFormats...) {
		return "", ErrProofNotAnImage
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", log.Err("failed to rewind uploaded proof", err)
	}

	dir := filepath.Join(s.root, PROOF_SUBDIR)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", log.Err("failed to create proof directory", err, "dir", dir)
	}

	name := fmt.Sprintf("%s-%s%s", registrationID, uuid.NewString()[:8], strings.ToLower(detected.Extension()))
	relative := filepath.Join(PROOF_SUBDIR, name)

	dst, err := os.Create(filepath.Join(s.root, relative))
	if err != nil {
		return "", log.Err("failed to create proof file", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", log.Err("failed to write proof file", err)
	}

	log.Info("Proof stored", "registrationID", registrationID, "path", relative)
	return filepath.ToSlash(relative), nil
}

// Remove deletes a previously stored proof; missing files are ignored.
func (s *UploadService) Remove(relative string) error {
	if relative == "" {
		return nil
	}

	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(relative)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return s.log.Function("Remove").Err("failed to remove proof file", err, "path", relative)
	}

	return nil
}
