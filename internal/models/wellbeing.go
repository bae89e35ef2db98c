package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TimeOfDay is the slot a wellbeing entry was recorded in
type TimeOfDay string

const (
	TimeOfDayMorning   TimeOfDay = "morning"
	TimeOfDayAfternoon TimeOfDay = "afternoon"
	TimeOfDayEvening   TimeOfDay = "evening"
)

// MoodEntry is a per-user daily mood/energy record. Append-only,
// deletable by the owner or staff.
type MoodEntry struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;index"`
	User      User           `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Mood      int            `json:"mood" gorm:"not null"`
	Energy    int            `json:"energy" gorm:"not null"`
	TimeOfDay TimeOfDay      `json:"time_of_day" gorm:"type:varchar(20);not null"`
	Notes     string         `json:"notes,omitempty" gorm:"size:2000"`
	EntryDate time.Time      `json:"entry_date" gorm:"not null;type:date"`
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TestEntry records a completed wellbeing test or exercise.
type TestEntry struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID      uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;index"`
	User        User           `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	TestName    string         `json:"test_name" gorm:"not null;size:200"`
	Focus       int            `json:"focus" gorm:"not null"`
	Stress      int            `json:"stress" gorm:"not null"`
	TimeOfDay   TimeOfDay      `json:"time_of_day" gorm:"type:varchar(20);not null"`
	Notes       string         `json:"notes,omitempty" gorm:"size:2000"`
	CompletedAt time.Time      `json:"completed_at" gorm:"not null"`
	CreatedAt   time.Time      `json:"created_at" gorm:"autoCreateTime"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// BalanceWheel is the staff-facing self-assessment across eight fixed
// life dimensions, each scored 1-10.
type BalanceWheel struct {
	ID            uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID        uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;index"`
	User          User           `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Physical      int            `json:"physical" gorm:"not null"`
	Emotional     int            `json:"emotional" gorm:"not null"`
	Intellectual  int            `json:"intellectual" gorm:"not null"`
	Spiritual     int            `json:"spiritual" gorm:"not null"`
	Occupational  int            `json:"occupational" gorm:"not null"`
	Social        int            `json:"social" gorm:"not null"`
	Environmental int            `json:"environmental" gorm:"not null"`
	Financial     int            `json:"financial" gorm:"not null"`
	Notes         string         `json:"notes,omitempty" gorm:"size:2000"`
	EntryDate     time.Time      `json:"entry_date" gorm:"not null;type:date"`
	CreatedAt     time.Time      `json:"created_at" gorm:"autoCreateTime"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

// Dimensions returns the wheel as a name->score map, the shape the
// analytics snapshot serves.
func (b *BalanceWheel) Dimensions() map[string]int {
	return map[string]int{
		"physical":      b.Physical,
		"emotional":     b.Emotional,
		"intellectual":  b.Intellectual,
		"spiritual":     b.Spiritual,
		"occupational":  b.Occupational,
		"social":        b.Social,
		"environmental": b.Environmental,
		"financial":     b.Financial,
	}
}

type CreateMoodEntryRequest struct {
	Mood      int       `json:"mood" validate:"required,min=1,max=10"`
	Energy    int       `json:"energy" validate:"required,min=1,max=10"`
	TimeOfDay TimeOfDay `json:"time_of_day" validate:"required,oneof=morning afternoon evening"`
	Notes     string    `json:"notes" validate:"max=2000"`
	EntryDate *time.Time `json:"entry_date,omitempty"`
}

type CreateTestEntryRequest struct {
	TestName    string     `json:"test_name" validate:"required,max=200"`
	Focus       int        `json:"focus" validate:"required,min=1,max=10"`
	Stress      int        `json:"stress" validate:"required,min=1,max=10"`
	TimeOfDay   TimeOfDay  `json:"time_of_day" validate:"required,oneof=morning afternoon evening"`
	Notes       string     `json:"notes" validate:"max=2000"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type CreateBalanceWheelRequest struct {
	Physical      int        `json:"physical" validate:"required,min=1,max=10"`
	Emotional     int        `json:"emotional" validate:"required,min=1,max=10"`
	Intellectual  int        `json:"intellectual" validate:"required,min=1,max=10"`
	Spiritual     int        `json:"spiritual" validate:"required,min=1,max=10"`
	Occupational  int        `json:"occupational" validate:"required,min=1,max=10"`
	Social        int        `json:"social" validate:"required,min=1,max=10"`
	Environmental int        `json:"environmental" validate:"required,min=1,max=10"`
	Financial     int        `json:"financial" validate:"required,min=1,max=10"`
	Notes         string     `json:"notes" validate:"max=2000"`
	EntryDate     *time.Time `json:"entry_date,omitempty"`
}
