package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/teamform/wellboard/internal/database"
	"github.com/teamform/wellboard/internal/models"
	"gorm.io/gorm"
)

// FileService stores uploaded files on disk under opaque names and
// tracks the file/folder tree in the database.
type FileService struct {
	db        *database.DB
	uploadDir string
}

func NewFileService(db *database.DB, uploadDir string) (*FileService, error) {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &FileService{
		db:        db,
		uploadDir: uploadDir,
	}, nil
}

// Upload stores the payload and creates the file record.
func (s *FileService) Upload(ctx context.Context, ownerID uuid.UUID, parentID *uuid.UUID, name, mimeType string, src io.Reader) (*models.File, error) {
	if parentID != nil {
		if err := s.ensureFolder(ctx, *parentID, ownerID); err != nil {
			return nil, err
		}
	}

	storedName := uuid.New().String() + filepath.Ext(name)
	path := filepath.Join(s.uploadDir, storedName)

	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	size, err := io.Copy(dst, src)
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	file := models.File{
		OwnerID:      ownerID,
		ParentID:     parentID,
		Name:         name,
		OriginalName: name,
		StoredName:   storedName,
		MimeType:     mimeType,
		Size:         size,
	}

	if err := s.db.WithContext(ctx).Create(&file).Error; err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to create file record: %w", err)
	}

	slog.Info("File uploaded", "owner_id", ownerID, "file_id", file.ID, "size", size)
	return &file, nil
}

// CreateFolder creates a folder node.
func (s *FileService) CreateFolder(ctx context.Context, ownerID uuid.UUID, req models.CreateFolderRequest) (*models.File, error) {
	if req.ParentID != nil {
		if err := s.ensureFolder(ctx, *req.ParentID, ownerID); err != nil {
			return nil, err
		}
	}

	folder := models.File{
		OwnerID:  ownerID,
		ParentID: req.ParentID,
		IsFolder: true,
		Name:     req.Name,
	}

	if err := s.db.WithContext(ctx).Create(&folder).Error; err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}
	return &folder, nil
}

// List returns the direct children of a folder (or the root when
// parentID is nil) for one owner.
func (s *FileService) List(ctx context.Context, ownerID uuid.UUID, parentID *uuid.UUID) ([]models.File, error) {
	query := s.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if parentID != nil {
		query = query.Where("parent_id = ?", *parentID)
	} else {
		query = query.Where("parent_id IS NULL")
	}

	var files []models.File
	if err := query.Order("is_folder DESC, name ASC").Find(&files).Error; err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	return files, nil
}

// Open returns the file record and a reader over its payload. Folders
// cannot be downloaded.
func (s *FileService) Open(ctx context.Context, fileID, requesterID uuid.UUID, isStaff bool) (*models.File, io.ReadCloser, error) {
	file, err := s.getAuthorized(ctx, fileID, requesterID, isStaff)
	if err != nil {
		return nil, nil, err
	}
	if file.IsFolder {
		return nil, nil, fmt.Errorf("cannot download a folder")
	}

	f, err := os.Open(filepath.Join(s.uploadDir, file.StoredName))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file payload: %w", err)
	}
	return file, f, nil
}

// Delete removes a node. Deleting a folder cascades depth-first over
// every descendant, removing both rows and on-disk payloads.
func (s *FileService) Delete(ctx context.Context, fileID, requesterID uuid.UUID, isStaff bool) error {
	file, err := s.getAuthorized(ctx, fileID, requesterID, isStaff)
	if err != nil {
		return err
	}
	return s.deleteNode(ctx, file)
}

func (s *FileService) deleteNode(ctx context.Context, file *models.File) error {
	if file.IsFolder {
		var children []models.File
		if err := s.db.WithContext(ctx).Where("parent_id = ?", file.ID).Find(&children).Error; err != nil {
			return fmt.Errorf("failed to list folder children: %w", err)
		}
		for i := range children {
			if err := s.deleteNode(ctx, &children[i]); err != nil {
				return err
			}
		}
	} else if file.StoredName != "" {
		if err := os.Remove(filepath.Join(s.uploadDir, file.StoredName)); err != nil && !os.IsNotExist(err) {
			slog.Warn("Failed to remove file payload", "error", err, "file_id", file.ID)
		}
	}

	if err := s.db.WithContext(ctx).Delete(file).Error; err != nil {
		return fmt.Errorf("failed to delete file record: %w", err)
	}
	return nil
}

func (s *FileService) getAuthorized(ctx context.Context, fileID, requesterID uuid.UUID, isStaff bool) (*models.File, error) {
	var file models.File
	if err := s.db.WithContext(ctx).First(&file, "id = ?", fileID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to load file: %w", err)
	}
	if file.OwnerID != requesterID && !isStaff {
		return nil, ErrForbidden
	}
	return &file, nil
}

func (s *FileService) ensureFolder(ctx context.Context, folderID, ownerID uuid.UUID) error {
	var folder models.File
	if err := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ? AND is_folder = true", folderID, ownerID).
		First(&folder).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("parent folder not found")
		}
		return fmt.Errorf("failed to load parent folder: %w", err)
	}
	return nil
}
