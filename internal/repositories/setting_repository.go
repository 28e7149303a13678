package repositories

import (
	"errors"
	"fmt"

	"vendora/internal/models"

	"gorm.io/gorm"
)

var ErrSettingNotFound = errors.New("payment setting not found")

// SettingRepository reads provider configuration rows.
type SettingRepository interface {
	GetByProvider(provider string) (*models.PaymentSetting, error)
}

type settingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

func (r *settingRepository) GetByProvider(provider string) (*models.PaymentSetting, error) {
	var setting models.PaymentSetting
	if err := r.db.Where("provider = ?", provider).First(&setting).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrSettingNotFound
		}
		return nil, fmt.Errorf("failed to get payment setting: %w", err)
	}
	return &setting, nil
}
