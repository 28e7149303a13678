package repositories

import (
	"errors"
	"fmt"

	"vendora/internal/models"

	"gorm.io/gorm"
)

var ErrServiceNotFound = errors.New("service not found")

// ServiceRepository reads catalog rows. Catalog editing belongs to the admin
// portal; the settlement engine only needs price and status.
type ServiceRepository interface {
	GetByID(id uint) (*models.Service, error)
}

type serviceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) ServiceRepository {
	return &serviceRepository{db: db}
}

func (r *serviceRepository) GetByID(id uint) (*models.Service, error) {
	var svc models.Service
	if err := r.db.First(&svc, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return &svc, nil
}
