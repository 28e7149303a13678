package repositories

import (
	"errors"
	"fmt"
	"time"

	"vendora/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrPaymentNotFound = errors.New("payment transaction not found")

// PaymentRepository defines payment transaction persistence. Status writes
// go through TransitionStatus, a compare-and-set on the current status, so a
// stale or duplicate external signal can never overwrite a terminal outcome.
type PaymentRepository interface {
	Create(txn *models.PaymentTransaction) error
	GetByID(id string) (*models.PaymentTransaction, error)
	GetByIDForUpdate(id string) (*models.PaymentTransaction, error)
	GetByProviderRef(provider, ref string) (*models.PaymentTransaction, error)
	GetByProviderRefForUpdate(provider, ref string) (*models.PaymentTransaction, error)
	Update(txn *models.PaymentTransaction) error
	// TransitionStatus sets the status (and optional extra columns) only if
	// the row currently holds one of the allowed statuses. Returns false if
	// the guard did not match.
	TransitionStatus(id string, allowed []string, status string, extra map[string]interface{}) (bool, error)
	// TransitionIfNotExpired is TransitionStatus with an additional
	// expires_at > now guard.
	TransitionIfNotExpired(id string, allowed []string, status string, now time.Time, extra map[string]interface{}) (bool, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(txn *models.PaymentTransaction) error {
	if err := r.db.Create(txn).Error; err != nil {
		return fmt.Errorf("failed to create payment transaction: %w", err)
	}
	return nil
}

func (r *paymentRepository) GetByID(id string) (*models.PaymentTransaction, error) {
	var txn models.PaymentTransaction
	if err := r.db.Where("id = ?", id).First(&txn).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment transaction: %w", err)
	}
	return &txn, nil
}

func (r *paymentRepository) GetByIDForUpdate(id string) (*models.PaymentTransaction, error) {
	var txn models.PaymentTransaction
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&txn).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to lock payment transaction: %w", err)
	}
	return &txn, nil
}

func (r *paymentRepository) GetByProviderRef(provider, ref string) (*models.PaymentTransaction, error) {
	var txn models.PaymentTransaction
	err := r.db.Where("provider = ? AND provider_reference_id = ?", provider, ref).
		First(&txn).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment transaction: %w", err)
	}
	return &txn, nil
}

func (r *paymentRepository) GetByProviderRefForUpdate(provider, ref string) (*models.PaymentTransaction, error) {
	var txn models.PaymentTransaction
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("provider = ? AND provider_reference_id = ?", provider, ref).
		First(&txn).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to lock payment transaction: %w", err)
	}
	return &txn, nil
}

func (r *paymentRepository) Update(txn *models.PaymentTransaction) error {
	if err := r.db.Save(txn).Error; err != nil {
		return fmt.Errorf("failed to update payment transaction: %w", err)
	}
	return nil
}

func (r *paymentRepository) TransitionStatus(id string, allowed []string, status string, extra map[string]interface{}) (bool, error) {
	updates := map[string]interface{}{"status": status}
	for k, v := range extra {
		updates[k] = v
	}
	result := r.db.Model(&models.PaymentTransaction{}).
		Where("id = ? AND status IN ?", id, allowed).
		Updates(updates)
	if result.Error != nil {
		return false, fmt.Errorf("failed to transition payment status: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *paymentRepository) TransitionIfNotExpired(id string, allowed []string, status string, now time.Time, extra map[string]interface{}) (bool, error) {
	updates := map[string]interface{}{"status": status}
	for k, v := range extra {
		updates[k] = v
	}
	result := r.db.Model(&models.PaymentTransaction{}).
		Where("id = ? AND status IN ? AND (expires_at IS NULL OR expires_at > ?)", id, allowed, now).
		Updates(updates)
	if result.Error != nil {
		return false, fmt.Errorf("failed to transition payment status: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}
