package services

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/teamform/wellboard/internal/database"
	"github.com/teamform/wellboard/internal/models"
	"gorm.io/gorm"
)

// WellbeingService owns the mood, test and balance-wheel records.
type WellbeingService struct {
	db *database.DB
}

func NewWellbeingService(db *database.DB) *WellbeingService {
	return &WellbeingService{db: db}
}

func (s *WellbeingService) CreateMoodEntry(userID uuid.UUID, req models.CreateMoodEntryRequest) (*models.MoodEntry, error) {
	entry := models.MoodEntry{
		UserID:    userID,
		Mood:      req.Mood,
		Energy:    req.Energy,
		TimeOfDay: req.TimeOfDay,
		Notes:     req.Notes,
		EntryDate: orNow(req.EntryDate),
	}

	if err := s.db.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("failed to create mood entry: %w", err)
	}

	slog.Info("Mood entry created", "user_id", userID, "entry_id", entry.ID)
	return &entry, nil
}

func (s *WellbeingService) ListMoodEntries(userID uuid.UUID) ([]models.MoodEntry, error) {
	var entries []models.MoodEntry
	if err := s.db.Where("user_id = ?", userID).Order("entry_date DESC, created_at DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list mood entries: %w", err)
	}
	return entries, nil
}

func (s *WellbeingService) ListAllMoodEntries(limit, offset int) ([]models.MoodEntry, error) {
	var entries []models.MoodEntry
	if err := s.db.Preload("User").Order("entry_date DESC, created_at DESC").
		Limit(limit).Offset(offset).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list mood entries: %w", err)
	}
	return entries, nil
}

func (s *WellbeingService) DeleteMoodEntry(entryID, requesterID uuid.UUID, isStaff bool) error {
	return s.deleteOwned(&models.MoodEntry{}, entryID, requesterID, isStaff)
}

func (s *WellbeingService) CreateTestEntry(userID uuid.UUID, req models.CreateTestEntryRequest) (*models.TestEntry, error) {
	entry := models.TestEntry{
		UserID:      userID,
		TestName:    req.TestName,
		Focus:       req.Focus,
		Stress:      req.Stress,
		TimeOfDay:   req.TimeOfDay,
		Notes:       req.Notes,
		CompletedAt: orNow(req.CompletedAt),
	}

	if err := s.db.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("failed to create test entry: %w", err)
	}

	slog.Info("Test entry created", "user_id", userID, "entry_id", entry.ID)
	return &entry, nil
}

func (s *WellbeingService) ListTestEntries(userID uuid.UUID) ([]models.TestEntry, error) {
	var entries []models.TestEntry
	if err := s.db.Where("user_id = ?", userID).Order("completed_at DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list test entries: %w", err)
	}
	return entries, nil
}

func (s *WellbeingService) ListAllTestEntries(limit, offset int) ([]models.TestEntry, error) {
	var entries []models.TestEntry
	if err := s.db.Preload("User").Order("completed_at DESC").
		Limit(limit).Offset(offset).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list test entries: %w", err)
	}
	return entries, nil
}

func (s *WellbeingService) DeleteTestEntry(entryID, requesterID uuid.UUID, isStaff bool) error {
	return s.deleteOwned(&models.TestEntry{}, entryID, requesterID, isStaff)
}

func (s *WellbeingService) CreateBalanceWheel(userID uuid.UUID, req models.CreateBalanceWheelRequest) (*models.BalanceWheel, error) {
	entry := models.BalanceWheel{
		UserID:        userID,
		Physical:      req.Physical,
		Emotional:     req.Emotional,
		Intellectual:  req.Intellectual,
		Spiritual:     req.Spiritual,
		Occupational:  req.Occupational,
		Social:        req.Social,
		Environmental: req.Environmental,
		Financial:     req.Financial,
		Notes:         req.Notes,
		EntryDate:     orNow(req.EntryDate),
	}

	if err := s.db.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("failed to create balance wheel: %w", err)
	}

	slog.Info("Balance wheel created", "user_id", userID, "entry_id", entry.ID)
	return &entry, nil
}

func (s *WellbeingService) ListBalanceWheels(userID uuid.UUID) ([]models.BalanceWheel, error) {
	var entries []models.BalanceWheel
	if err := s.db.Where("user_id = ?", userID).Order("entry_date DESC, created_at DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list balance wheels: %w", err)
	}
	return entries, nil
}

func (s *WellbeingService) ListAllBalanceWheels(limit, offset int) ([]models.BalanceWheel, error) {
	var entries []models.BalanceWheel
	if err := s.db.Preload("User").Order("entry_date DESC, created_at DESC").
		Limit(limit).Offset(offset).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list balance wheels: %w", err)
	}
	return entries, nil
}

func (s *WellbeingService) DeleteBalanceWheel(entryID, requesterID uuid.UUID, isStaff bool) error {
	return s.deleteOwned(&models.BalanceWheel{}, entryID, requesterID, isStaff)
}

// ListMoodEntriesForPlayer is the staff view of one player's entries.
func (s *WellbeingService) ListMoodEntriesForPlayer(playerID uuid.UUID) ([]models.MoodEntry, error) {
	return s.ListMoodEntries(playerID)
}

func (s *WellbeingService) ListTestEntriesForPlayer(playerID uuid.UUID) ([]models.TestEntry, error) {
	return s.ListTestEntries(playerID)
}

func (s *WellbeingService) ListBalanceWheelsForPlayer(playerID uuid.UUID) ([]models.BalanceWheel, error) {
	return s.ListBalanceWheels(playerID)
}

// deleteOwned soft-deletes an entry if the requester owns it or is staff.
func (s *WellbeingService) deleteOwned(model interface{}, entryID, requesterID uuid.UUID, isStaff bool) error {
	query := s.db.Where("id = ?", entryID)
	if !isStaff {
		query = query.Where("user_id = ?", requesterID)
	}

	result := query.Delete(model)
	if result.Error != nil {
		return fmt.Errorf("failed to delete entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func orNow(t *time.Time) time.Time {
	if t != nil {
		return *t
	}
	return time.Now().UTC()
}
