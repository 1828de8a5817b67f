package services

import (
	"time"

	"sharegate/internal/auth"
	"sharegate/internal/constants"
	"sharegate/internal/database"
	"sharegate/internal/logger"
	"sharegate/internal/sanitize"
)

// FileInfo is the external projection of a registry row.
// LastModifiedStr renders the optional timestamp the way the listing
// endpoint has always shown it ("Unknown" when never reported).
type FileInfo struct {
	FileName        string `json:"file_name"`
	Size            *int64 `json:"size"`
	LastModifiedStr string `json:"last_modified_str"`
}

// DeleteResult reports what a file deletion cascaded into.
type DeleteResult struct {
	GrantsRevoked  int64 `json:"grants_revoked"`
	RequestsDenied int64 `json:"requests_denied"`
}

// FileService owns the file registry: registration, listing, and deletion
// with cascade invalidation of ledger rows.
type FileService struct {
	app    AppState
	logger *logger.Logger
}

// NewFileService creates a new file service instance.
func NewFileService(app AppState, log *logger.Logger) *FileService {
	return &FileService{
		app:    app,
		logger: log,
	}
}

// Register creates or refreshes a file metadata record for an owner.
// Re-registering an existing file updates size/last_modified in place and
// leaves ledger rows untouched.
func (s *FileService) Register(ownerID, fileName string, sizeBytes, lastModified *int64) error {
	if !auth.ValidClientID(ownerID) {
		return ErrInvalidClientID
	}
	if !sanitize.ValidFileName(fileName) {
		return ErrInvalidFileName
	}
	if sizeBytes != nil && *sizeBytes < 0 {
		return NewServiceError(constants.ErrCodeInvalidRequest, "size must be non-negative")
	}

	mu := s.app.GetFileMu(ownerID, fileName)
	mu.Lock()
	defer mu.Unlock()

	now := time.Now().Unix()
	err := database.UpsertFile(s.app.GetLedgerDB(), database.File{
		OwnerID:      ownerID,
		FileName:     fileName,
		SizeBytes:    sizeBytes,
		LastModified: lastModified,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return WrapInternalError(err)
	}

	s.logger.Debug("Registered file %s for owner %s", fileName, ownerID)
	return nil
}

// List returns all files for an owner ordered by name. An owner with no
// files gets an empty list, not an error.
func (s *FileService) List(ownerID string) ([]FileInfo, error) {
	if !auth.ValidClientID(ownerID) {
		return nil, ErrInvalidClientID
	}

	files, err := database.ListFilesByOwner(s.app.GetLedgerDB(), ownerID)
	if err != nil {
		return nil, WrapInternalError(err)
	}

	infos := make([]FileInfo, 0, len(files))
	for _, f := range files {
		infos = append(infos, FileInfo{
			FileName:        f.FileName,
			Size:            f.SizeBytes,
			LastModifiedStr: formatLastModified(f.LastModified),
		})
	}
	return infos, nil
}

// Get returns a single file record, failing with FileNotFound when absent.
func (s *FileService) Get(ownerID, fileName string) (*database.File, error) {
	file, err := database.GetFile(s.app.GetLedgerDB(), ownerID, fileName)
	if err != nil {
		return nil, WrapInternalError(err)
	}
	if file == nil {
		return nil, ErrFileNotFoundWithName(ownerID, fileName)
	}
	return file, nil
}

// Delete removes a file record and cascade-invalidates every ledger row
// referencing it: active grants become revoked, everything else denied.
// The registry delete and the cascade commit atomically so no grant can
// outlive its file.
func (s *FileService) Delete(ownerID, fileName string) (*DeleteResult, error) {
	if !auth.ValidClientID(ownerID) {
		return nil, ErrInvalidClientID
	}
	if !sanitize.ValidFileName(fileName) {
		return nil, ErrInvalidFileName
	}

	mu := s.app.GetFileMu(ownerID, fileName)
	mu.Lock()
	defer mu.Unlock()

	tx, err := s.app.GetLedgerDB().Begin()
	if err != nil {
		return nil, WrapInternalError(err)
	}
	defer tx.Rollback()

	deleted, err := database.DeleteFileTx(tx, ownerID, fileName)
	if err != nil {
		return nil, WrapInternalError(err)
	}
	if !deleted {
		return nil, ErrFileNotFoundWithName(ownerID, fileName)
	}

	now := time.Now().Unix()
	revoked, denied, err := database.CascadeInvalidateTx(tx, ownerID, fileName, now)
	if err != nil {
		return nil, WrapInternalError(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, WrapInternalError(err)
	}

	s.logger.Info("Deleted file %s (owner %s): %d grant(s) revoked, %d request(s) denied",
		fileName, ownerID, revoked, denied)

	return &DeleteResult{GrantsRevoked: revoked, RequestsDenied: denied}, nil
}

// formatLastModified renders an optional unix timestamp for the listing.
func formatLastModified(ts *int64) string {
	if ts == nil {
		return constants.LastModifiedUnknown
	}
	return time.Unix(*ts, 0).UTC().Format(constants.LastModifiedFormat)
}
