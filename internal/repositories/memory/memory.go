// Package memory implements the persistence interfaces in process memory.
// It backs the service test suites: Execute serializes transactions under a
// single mutex, which stands in for per-row locks, and restores a snapshot
// of the whole store when the transaction function returns an error.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"vendora/internal/models"
	"vendora/internal/repositories"

	"github.com/google/uuid"
)

type state struct {
	wallets      map[uint]*models.Wallet
	ledger       []models.LedgerEntry
	orders       map[string]*models.Order
	payments     map[string]*models.PaymentTransaction
	services     map[uint]*models.Service
	settings     map[string]*models.PaymentSetting
	nextWalletID uint
	nextLedgerID uint
}

func newState() *state {
	return &state{
		wallets:  make(map[uint]*models.Wallet),
		orders:   make(map[string]*models.Order),
		payments: make(map[string]*models.PaymentTransaction),
		services: make(map[uint]*models.Service),
		settings: make(map[string]*models.PaymentSetting),
	}
}

func (s *state) clone() *state {
	c := newState()
	c.nextWalletID = s.nextWalletID
	c.nextLedgerID = s.nextLedgerID
	for k, v := range s.wallets {
		w := *v
		c.wallets[k] = &w
	}
	c.ledger = append(c.ledger, s.ledger...)
	for k, v := range s.orders {
		o := *v
		c.orders[k] = &o
	}
	for k, v := range s.payments {
		p := *v
		c.payments[k] = &p
	}
	for k, v := range s.services {
		sv := *v
		c.services[k] = &sv
	}
	for k, v := range s.settings {
		st := *v
		c.settings[k] = &st
	}
	return c
}

// Store is the in-memory database.
type Store struct {
	mu   sync.Mutex
	data *state
}

func NewStore() *Store {
	return &Store{data: newState()}
}

// Execute implements repositories.UnitOfWork.
func (s *Store) Execute(ctx context.Context, fn func(tx *repositories.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	tx := &repositories.Tx{
		Wallets:  &walletRepo{store: s, inTx: true},
		Ledger:   &ledgerRepo{store: s, inTx: true},
		Orders:   &orderRepo{store: s, inTx: true},
		Payments: &paymentRepo{store: s, inTx: true},
	}
	if err := fn(tx); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

// Pool-bound repository views, for reads outside a transaction.

func (s *Store) Wallets() repositories.WalletRepository   { return &walletRepo{store: s} }
func (s *Store) Ledger() repositories.LedgerRepository    { return &ledgerRepo{store: s} }
func (s *Store) Orders() repositories.OrderRepository     { return &orderRepo{store: s} }
func (s *Store) Payments() repositories.PaymentRepository { return &paymentRepo{store: s} }
func (s *Store) Services() repositories.ServiceRepository { return &serviceRepo{store: s} }
func (s *Store) Settings() repositories.SettingRepository { return &settingRepo{store: s} }

// Seed helpers bypass creation rules so tests can start from a known state.

func (s *Store) SeedWallet(userID uint, balance float64) *models.Wallet {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.nextWalletID++
	w := &models.Wallet{ID: s.data.nextWalletID, UserID: userID, Balance: balance, Currency: "USD"}
	s.data.wallets[userID] = w
	cp := *w
	return &cp
}

func (s *Store) SeedService(id uint, name string, price float64, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.services[id] = &models.Service{ID: id, Name: name, Price: price, Status: status}
}

func (s *Store) SeedSetting(provider string, active bool, cfg models.JSON) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.settings[provider] = &models.PaymentSetting{
		ID:       uint(len(s.data.settings) + 1),
		Provider: provider,
		IsActive: active,
		Config:   cfg,
	}
}

// Assertion helpers.

func (s *Store) WalletBalance(userID uint) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w, ok := s.data.wallets[userID]; ok {
		return w.Balance
	}
	return 0
}

func (s *Store) LedgerEntries(userID uint) []models.LedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.LedgerEntry
	for _, e := range s.data.ledger {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out
}

func (s *Store) Payment(id string) *models.PaymentTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.data.payments[id]; ok {
		cp := *p
		return &cp
	}
	return nil
}

func (s *Store) Order(id string) *models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.data.orders[id]; ok {
		cp := *o
		return &cp
	}
	return nil
}

func (s *Store) OrderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.orders)
}

// lock acquires the store mutex for pool-bound access. Transaction-bound
// repositories already hold it.
func (s *Store) lock(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

type walletRepo struct {
	store *Store
	inTx  bool
}

func (r *walletRepo) Create(wallet *models.Wallet) error {
	defer r.store.lock(r.inTx)()
	d := r.store.data
	if _, ok := d.wallets[wallet.UserID]; ok {
		return repositories.ErrDuplicateWallet
	}
	d.nextWalletID++
	wallet.ID = d.nextWalletID
	// Mirrors the creation hook: wallets always start empty.
	wallet.Balance = 0
	cp := *wallet
	d.wallets[wallet.UserID] = &cp
	return nil
}

func (r *walletRepo) GetByUserID(userID uint) (*models.Wallet, error) {
	defer r.store.lock(r.inTx)()
	w, ok := r.store.data.wallets[userID]
	if !ok {
		return nil, repositories.ErrWalletNotFound
	}
	cp := *w
	return &cp, nil
}

func (r *walletRepo) GetByUserIDForUpdate(userID uint) (*models.Wallet, error) {
	return r.GetByUserID(userID)
}

func (r *walletRepo) Update(wallet *models.Wallet) error {
	defer r.store.lock(r.inTx)()
	if wallet.Balance < 0 {
		// Mirrors the balance check constraint.
		return fmt.Errorf("check constraint violation: balance >= 0")
	}
	cp := *wallet
	r.store.data.wallets[wallet.UserID] = &cp
	return nil
}

func (r *walletRepo) GetTotalBalance() (float64, error) {
	defer r.store.lock(r.inTx)()
	var total float64
	for _, w := range r.store.data.wallets {
		total += w.Balance
	}
	return total, nil
}

type ledgerRepo struct {
	store *Store
	inTx  bool
}

func (r *ledgerRepo) Append(entry *models.LedgerEntry) error {
	defer r.store.lock(r.inTx)()
	d := r.store.data
	d.nextLedgerID++
	entry.ID = d.nextLedgerID
	entry.CreatedAt = time.Now()
	d.ledger = append(d.ledger, *entry)
	return nil
}

func (r *ledgerRepo) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.LedgerEntry, error) {
	defer r.store.lock(r.inTx)()
	var matched []models.LedgerEntry
	for i := len(r.store.data.ledger) - 1; i >= 0; i-- {
		if r.store.data.ledger[i].UserID == userID {
			matched = append(matched, r.store.data.ledger[i])
		}
	}
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *ledgerRepo) SumByUser(userID uint) (float64, error) {
	defer r.store.lock(r.inTx)()
	var total float64
	for _, e := range r.store.data.ledger {
		if e.UserID == userID {
			total += e.Amount
		}
	}
	return total, nil
}

type orderRepo struct {
	store *Store
	inTx  bool
}

func (r *orderRepo) Create(order *models.Order) error {
	defer r.store.lock(r.inTx)()
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	cp := *order
	r.store.data.orders[order.ID] = &cp
	return nil
}

func (r *orderRepo) GetByID(id string) (*models.Order, error) {
	defer r.store.lock(r.inTx)()
	o, ok := r.store.data.orders[id]
	if !ok {
		return nil, repositories.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *orderRepo) GetByIDForUpdate(id string) (*models.Order, error) {
	return r.GetByID(id)
}

func (r *orderRepo) Update(order *models.Order) error {
	defer r.store.lock(r.inTx)()
	order.UpdatedAt = time.Now()
	cp := *order
	r.store.data.orders[order.ID] = &cp
	return nil
}

func (r *orderRepo) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Order, error) {
	defer r.store.lock(r.inTx)()
	var matched []models.Order
	for _, o := range r.store.data.orders {
		if o.UserID == userID {
			matched = append(matched, *o)
		}
	}
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

type paymentRepo struct {
	store *Store
	inTx  bool
}

func (r *paymentRepo) Create(txn *models.PaymentTransaction) error {
	defer r.store.lock(r.inTx)()
	if txn.ID == "" {
		txn.ID = uuid.NewString()
	}
	for _, p := range r.store.data.payments {
		if p.Provider == txn.Provider && p.ProviderReferenceID == txn.ProviderReferenceID {
			return fmt.Errorf("unique constraint violation: idx_provider_ref")
		}
	}
	txn.CreatedAt = time.Now()
	txn.UpdatedAt = txn.CreatedAt
	cp := *txn
	r.store.data.payments[txn.ID] = &cp
	return nil
}

func (r *paymentRepo) GetByID(id string) (*models.PaymentTransaction, error) {
	defer r.store.lock(r.inTx)()
	p, ok := r.store.data.payments[id]
	if !ok {
		return nil, repositories.ErrPaymentNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *paymentRepo) GetByIDForUpdate(id string) (*models.PaymentTransaction, error) {
	return r.GetByID(id)
}

func (r *paymentRepo) GetByProviderRef(provider, ref string) (*models.PaymentTransaction, error) {
	defer r.store.lock(r.inTx)()
	for _, p := range r.store.data.payments {
		if p.Provider == provider && p.ProviderReferenceID == ref {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repositories.ErrPaymentNotFound
}

func (r *paymentRepo) GetByProviderRefForUpdate(provider, ref string) (*models.PaymentTransaction, error) {
	return r.GetByProviderRef(provider, ref)
}

func (r *paymentRepo) Update(txn *models.PaymentTransaction) error {
	defer r.store.lock(r.inTx)()
	txn.UpdatedAt = time.Now()
	cp := *txn
	r.store.data.payments[txn.ID] = &cp
	return nil
}

func (r *paymentRepo) TransitionStatus(id string, allowed []string, status string, extra map[string]interface{}) (bool, error) {
	defer r.store.lock(r.inTx)()
	return r.transition(id, allowed, status, nil, extra)
}

func (r *paymentRepo) TransitionIfNotExpired(id string, allowed []string, status string, now time.Time, extra map[string]interface{}) (bool, error) {
	defer r.store.lock(r.inTx)()
	return r.transition(id, allowed, status, &now, extra)
}

// transition applies the same guarded update the SQL implementation issues
// as a single statement. The caller holds the store mutex.
func (r *paymentRepo) transition(id string, allowed []string, status string, now *time.Time, extra map[string]interface{}) (bool, error) {
	p, ok := r.store.data.payments[id]
	if !ok {
		return false, nil
	}
	match := false
	for _, a := range allowed {
		if p.Status == a {
			match = true
			break
		}
	}
	if !match {
		return false, nil
	}
	if now != nil && p.ExpiresAt != nil && !p.ExpiresAt.After(*now) {
		return false, nil
	}

	p.Status = status
	for k, v := range extra {
		switch k {
		case "processed_at":
			if t, ok := v.(time.Time); ok {
				p.ProcessedAt = &t
			}
		case "metadata":
			if m, ok := v.(models.JSON); ok {
				p.Metadata = m
			}
		}
	}
	p.UpdatedAt = time.Now()
	return true, nil
}

type serviceRepo struct {
	store *Store
}

func (r *serviceRepo) GetByID(id uint) (*models.Service, error) {
	defer r.store.lock(false)()
	svc, ok := r.store.data.services[id]
	if !ok {
		return nil, repositories.ErrServiceNotFound
	}
	cp := *svc
	return &cp, nil
}

type settingRepo struct {
	store *Store
}

func (r *settingRepo) GetByProvider(provider string) (*models.PaymentSetting, error) {
	defer r.store.lock(false)()
	setting, ok := r.store.data.settings[provider]
	if !ok {
		return nil, repositories.ErrSettingNotFound
	}
	cp := *setting
	return &cp, nil
}
