package services

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"ecobayanihan/config"
	"ecobayanihan/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
)

// PROOF_GRACE_PERIOD keeps freshly written files that a concurrent upload has
// not yet attached to its registration.
const PROOF_GRACE_PERIOD = time.Hour

// FileCleanupService removes proof images that no registration points at any
// more, such as uploads whose registration was deleted with its participant
// or event.
type FileCleanupService struct {
	root             string
	registrationRepo repositories.CleanupRegistrationRepository
	tx               Transactor
	now              func() time.Time
	log              logger.Logger
}

func NewFileCleanupService(
	cfg config.Config,
	registrationRepo repositories.CleanupRegistrationRepository,
	tx Transactor,
) *FileCleanupService {
	root := cfg.UploadDir
	if root == "" {
		root = config.DEFAULT_UPLOAD_DIR
	}

	return &FileCleanupService{
		root:             root,
		registrationRepo: registrationRepo,
		tx:               tx,
		now:              time.Now,
		log:              logger.New("fileCleanupService"),
	}
}

type StoredFile struct {
	Path       string    `json:"path"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
}

// ListStoredProofs returns every file under the proof directory with its
// path relative to the upload root, slash separated.
func (fcs *FileCleanupService) ListStoredProofs(ctx context.Context) ([]StoredFile, error) {
	log := fcs.log.Function("ListStoredProofs")

	dir := filepath.Join(fcs.root, PROOF_SUBDIR)
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		log.Debug("Proof directory does not exist", "directory", dir)
		return []StoredFile{}, nil
	}

	var files []StoredFile
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}

		info, err := entry.Info()
		if err != nil {
			return err
		}

		relative, err := filepath.Rel(fcs.root, path)
		if err != nil {
			return err
		}

		files = append(files, StoredFile{
			Path:       filepath.ToSlash(relative),
			Size:       info.Size(),
			ModifiedAt: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, log.Err("failed to walk proof directory", err, "directory", dir)
	}

	return files, nil
}

// CleanupOrphanedProofs deletes unreferenced proofs older than the grace
// period and reports how many were removed.
func (fcs *FileCleanupService) CleanupOrphanedProofs(ctx context.Context) (int, error) {
	log := fcs.log.Function("CleanupOrphanedProofs").TraceFromContext(ctx)

	files, err := fcs.ListStoredProofs(ctx)
	if err != nil {
		return 0, err
	}
	if len(files) == 0 {
		return 0, nil
	}

	referenced, err := fcs.registrationRepo.ListProofPaths(ctx, fcs.tx.DB(ctx))
	if err != nil {
		return 0, log.Err("failed to load referenced proofs", err)
	}

	keep := make(map[string]struct{}, len(referenced))
	for _, path := range referenced {
		keep[filepath.ToSlash(path)] = struct{}{}
	}

	cutoff := fcs.now().Add(-PROOF_GRACE_PERIOD)
	var failures []error
	removed := 0
	for _, file := range files {
		if _, ok := keep[file.Path]; ok || file.ModifiedAt.After(cutoff) {
			continue
		}

		if err := os.Remove(filepath.Join(fcs.root, filepath.FromSlash(file.Path))); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			failures = append(failures, err)
			log.Er("failed to remove orphaned proof", err, "path", file.Path)
			continue
		}
		removed++
	}

	if len(failures) > 0 {
		return removed, log.Err("failed to remove some proofs", errors.Join(failures...), "errorCount", len(failures))
	}

	log.Info("Orphaned proof cleanup complete", "scanned", len(files), "removed", removed)
	return removed, nil
}
