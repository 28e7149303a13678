package models

import "time"

// Service statuses
const (
	ServiceStatusActive   = "active"
	ServiceStatusInactive = "inactive"
)

// Service is a catalog row. The settlement engine only ever reads it.
type Service struct {
	ID          uint    `gorm:"primarykey"`
	Name        string  `gorm:"not null"`
	Description string
	Price       float64 `gorm:"not null"`
	Status      string  `gorm:"default:'active'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsActive reports whether the service can be ordered.
func (s *Service) IsActive() bool {
	return s.Status == ServiceStatusActive
}
