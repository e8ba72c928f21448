package models

import "time"

// WaitlistEntry is one company's registration. Rows are written once and never
// updated, so there is no UpdatedAt or soft-delete column.
type WaitlistEntry struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"`
	Email        string    `gorm:"size:255;not null;uniqueIndex:idx_waitlist_email"`
	Phone        *string   `gorm:"size:20"`
	CompanyName  string    `gorm:"size:255;not null"`
	CompanyNiche string    `gorm:"size:255;not null"`
	CompanySize  string    `gorm:"size:50;not null"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime;index:idx_waitlist_created_at"`
}

func (WaitlistEntry) TableName() string {
	return "waitlist"
}
