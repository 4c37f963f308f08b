package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/erpledger/internal/domain"
	"github.com/iho/erpledger/internal/usecase"
)

// MockAccountRepository is an in-memory AccountRepository keyed by account ID.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	GetByCodeFunc   func(ctx context.Context, companyID, code string) (*domain.Account, error)
	GetByIDFunc     func(ctx context.Context, companyID, id string) (*domain.Account, error)
	HasChildrenFunc func(ctx context.Context, companyID, accountID string) (bool, error)
	ListFunc        func(ctx context.Context, companyID string, limit, offset int) ([]*domain.Account, error)
}

func NewMockAccountRepository(accounts ...*domain.Account) *MockAccountRepository {
	m := &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
	for _, acc := range accounts {
		m.Add(acc)
	}
	return m
}

// Add stores acc, replacing any account with the same ID.
func (m *MockAccountRepository) Add(acc *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[acc.ID] = acc
}

func (m *MockAccountRepository) GetByCode(ctx context.Context, companyID, code string) (*domain.Account, error) {
	if m.GetByCodeFunc != nil {
		return m.GetByCodeFunc(ctx, companyID, code)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, acc := range m.accounts {
		if acc.CompanyID == companyID && acc.Code == code {
			return acc, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByID(ctx context.Context, companyID, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, companyID, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok && acc.CompanyID == companyID {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) HasChildren(ctx context.Context, companyID, accountID string) (bool, error) {
	if m.HasChildrenFunc != nil {
		return m.HasChildrenFunc(ctx, companyID, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, acc := range m.accounts {
		if acc.CompanyID == companyID && acc.ParentID != nil && *acc.ParentID == accountID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockAccountRepository) List(ctx context.Context, companyID string, limit, offset int) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, companyID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, acc := range m.accounts {
		if acc.CompanyID == companyID {
			accounts = append(accounts, acc)
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })
	if offset >= len(accounts) {
		return nil, nil
	}
	accounts = accounts[offset:]
	if limit > 0 && limit < len(accounts) {
		accounts = accounts[:limit]
	}
	return accounts, nil
}

// MockCompanyRepository is an in-memory CompanyRepository.
type MockCompanyRepository struct {
	mu        sync.RWMutex
	companies map[string]*domain.Company

	GetByIDFunc func(ctx context.Context, id string) (*domain.Company, error)
}

func NewMockCompanyRepository(companies ...*domain.Company) *MockCompanyRepository {
	m := &MockCompanyRepository{
		companies: make(map[string]*domain.Company),
	}
	for _, c := range companies {
		m.companies[c.ID] = c
	}
	return m
}

func (m *MockCompanyRepository) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.companies[id]; ok {
		return c, nil
	}
	return nil, domain.ErrCompanyNotFound
}

// MockVoucherRepository is an in-memory VoucherRepository. Stored vouchers
// are copies, so callers mutating a returned voucher do not affect the store.
type MockVoucherRepository struct {
	mu       sync.RWMutex
	vouchers map[string]*domain.Voucher
	counters map[string]int

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, voucher *domain.Voucher) error
	UpdateFunc           func(ctx context.Context, tx usecase.Transaction, voucher *domain.Voucher, expectedVersion int64) error
	GetByIDFunc          func(ctx context.Context, companyID, id string) (*domain.Voucher, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, companyID, id string) (*domain.Voucher, error)
	ListFunc             func(ctx context.Context, filter domain.VoucherFilter) ([]*domain.Voucher, error)
	NextNumberFunc       func(ctx context.Context, tx usecase.Transaction, companyID string, voucherType domain.VoucherType) (string, error)
	LiveReversalIDFunc   func(ctx context.Context, tx usecase.Transaction, companyID, voucherID string) (string, error)
}

func NewMockVoucherRepository() *MockVoucherRepository {
	return &MockVoucherRepository{
		vouchers: make(map[string]*domain.Voucher),
		counters: make(map[string]int),
	}
}

func (m *MockVoucherRepository) Create(ctx context.Context, tx usecase.Transaction, voucher *domain.Voucher) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, voucher)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.vouchers[voucher.ID]; ok {
		return fmt.Errorf("voucher %s already exists", voucher.ID)
	}
	if voucher.ReversalOf != nil && m.liveReversal(voucher.CompanyID, *voucher.ReversalOf) != "" {
		return domain.ErrAlreadyReversed
	}
	m.vouchers[voucher.ID] = copyVoucher(voucher)
	return nil
}

func (m *MockVoucherRepository) Update(ctx context.Context, tx usecase.Transaction, voucher *domain.Voucher, expectedVersion int64) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, voucher, expectedVersion)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.vouchers[voucher.ID]
	if !ok {
		return domain.ErrVoucherNotFound
	}
	if stored.Version != expectedVersion {
		return domain.ErrConcurrentModification
	}
	m.vouchers[voucher.ID] = copyVoucher(voucher)
	return nil
}

func (m *MockVoucherRepository) GetByID(ctx context.Context, companyID, id string) (*domain.Voucher, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, companyID, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.vouchers[id]; ok && v.CompanyID == companyID {
		return copyVoucher(v), nil
	}
	return nil, domain.ErrVoucherNotFound
}

func (m *MockVoucherRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, companyID, id string) (*domain.Voucher, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, companyID, id)
	}
	return m.GetByID(ctx, companyID, id)
}

func (m *MockVoucherRepository) List(ctx context.Context, filter domain.VoucherFilter) ([]*domain.Voucher, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var vouchers []*domain.Voucher
	for _, v := range m.vouchers {
		if v.CompanyID != filter.CompanyID {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, v.Status) {
			continue
		}
		if len(filter.Types) > 0 && !containsType(filter.Types, v.Type) {
			continue
		}
		vouchers = append(vouchers, copyVoucher(v))
	}
	sort.Slice(vouchers, func(i, j int) bool { return vouchers[i].ID < vouchers[j].ID })
	if filter.Offset >= len(vouchers) {
		return nil, nil
	}
	vouchers = vouchers[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(vouchers) {
		vouchers = vouchers[:filter.Limit]
	}
	return vouchers, nil
}

func (m *MockVoucherRepository) NextNumber(ctx context.Context, tx usecase.Transaction, companyID string, voucherType domain.VoucherType) (string, error) {
	if m.NextNumberFunc != nil {
		return m.NextNumberFunc(ctx, tx, companyID, voucherType)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := companyID + ":" + string(voucherType)
	m.counters[key]++
	return domain.FormatVoucherNumber(voucherType, int64(m.counters[key])), nil
}

func (m *MockVoucherRepository) LiveReversalID(ctx context.Context, tx usecase.Transaction, companyID, voucherID string) (string, error) {
	if m.LiveReversalIDFunc != nil {
		return m.LiveReversalIDFunc(ctx, tx, companyID, voucherID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.liveReversal(companyID, voucherID), nil
}

// liveReversal must be called with mu held.
func (m *MockVoucherRepository) liveReversal(companyID, voucherID string) string {
	for _, v := range m.vouchers {
		if v.CompanyID == companyID && v.ReversalOf != nil && *v.ReversalOf == voucherID &&
			v.Status != domain.VoucherStatusCancelled {
			return v.ID
		}
	}
	return ""
}

// Stored returns the stored copy of a voucher, bypassing the Func hooks.
func (m *MockVoucherRepository) Stored(id string) (*domain.Voucher, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.vouchers[id]
	if !ok {
		return nil, false
	}
	return copyVoucher(v), true
}

// Count returns the number of stored vouchers.
func (m *MockVoucherRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.vouchers)
}

func copyVoucher(v *domain.Voucher) *domain.Voucher {
	c := *v
	c.Lines = append([]domain.LedgerLine(nil), v.Lines...)
	return &c
}

func containsStatus(statuses []domain.VoucherStatus, s domain.VoucherStatus) bool {
	for _, st := range statuses {
		if st == s {
			return true
		}
	}
	return false
}

func containsType(types []domain.VoucherType, t domain.VoucherType) bool {
	for _, vt := range types {
		if vt == t {
			return true
		}
	}
	return false
}

// MockLedgerRepository is an in-memory LedgerRepository holding recorded
// lines per voucher.
type MockLedgerRepository struct {
	mu    sync.RWMutex
	lines map[string][]domain.LedgerLine

	RecordForVoucherFunc        func(ctx context.Context, tx usecase.Transaction, voucher *domain.Voucher) error
	DeleteForVoucherFunc        func(ctx context.Context, tx usecase.Transaction, companyID, voucherID string) error
	GetTrialBalanceFunc         func(ctx context.Context, companyID string, asOf time.Time) ([]domain.TrialBalanceRow, error)
	GetGeneralLedgerFunc        func(ctx context.Context, filter domain.LedgerFilter) ([]*domain.LedgerEntry, error)
	GetAccountBalanceBeforeFunc func(ctx context.Context, companyID, accountID string, before time.Time) (decimal.Decimal, decimal.Decimal, error)
	SumGeneralLedgerPrefixFunc  func(ctx context.Context, filter domain.LedgerFilter, rows int) (decimal.Decimal, decimal.Decimal, error)
	CheckConsistencyFunc        func(ctx context.Context, companyID string) (domain.LedgerBalance, error)
	GetVoucherTotalsFunc        func(ctx context.Context, companyID string, voucherIDs []string) (map[string]domain.VoucherLedgerTotals, error)
}

func NewMockLedgerRepository() *MockLedgerRepository {
	return &MockLedgerRepository{
		lines: make(map[string][]domain.LedgerLine),
	}
}

func (m *MockLedgerRepository) RecordForVoucher(ctx context.Context, tx usecase.Transaction, voucher *domain.Voucher) error {
	if m.RecordForVoucherFunc != nil {
		return m.RecordForVoucherFunc(ctx, tx, voucher)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lines[voucher.ID]; ok {
		return fmt.Errorf("ledger lines for voucher %s already recorded", voucher.ID)
	}
	m.lines[voucher.ID] = append([]domain.LedgerLine(nil), voucher.Lines...)
	return nil
}

func (m *MockLedgerRepository) DeleteForVoucher(ctx context.Context, tx usecase.Transaction, companyID, voucherID string) error {
	if m.DeleteForVoucherFunc != nil {
		return m.DeleteForVoucherFunc(ctx, tx, companyID, voucherID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.lines, voucherID)
	return nil
}

func (m *MockLedgerRepository) GetTrialBalance(ctx context.Context, companyID string, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	if m.GetTrialBalanceFunc != nil {
		return m.GetTrialBalanceFunc(ctx, companyID, asOf)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	byAccount := make(map[string]*domain.TrialBalanceRow)
	for _, lines := range m.lines {
		for _, l := range lines {
			row, ok := byAccount[l.AccountID()]
			if !ok {
				row = &domain.TrialBalanceRow{AccountID: l.AccountID(), Debit: decimal.Zero, Credit: decimal.Zero}
				byAccount[l.AccountID()] = row
			}
			if l.Side() == domain.SideDebit {
				row.Debit = row.Debit.Add(l.BaseAmount())
			} else {
				row.Credit = row.Credit.Add(l.BaseAmount())
			}
		}
	}
	rows := make([]domain.TrialBalanceRow, 0, len(byAccount))
	for _, row := range byAccount {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].AccountID < rows[j].AccountID })
	return rows, nil
}

func (m *MockLedgerRepository) GetGeneralLedger(ctx context.Context, filter domain.LedgerFilter) ([]*domain.LedgerEntry, error) {
	if m.GetGeneralLedgerFunc != nil {
		return m.GetGeneralLedgerFunc(ctx, filter)
	}
	return nil, nil
}

func (m *MockLedgerRepository) GetAccountBalanceBefore(ctx context.Context, companyID, accountID string, before time.Time) (decimal.Decimal, decimal.Decimal, error) {
	if m.GetAccountBalanceBeforeFunc != nil {
		return m.GetAccountBalanceBeforeFunc(ctx, companyID, accountID, before)
	}
	return decimal.Zero, decimal.Zero, nil
}

func (m *MockLedgerRepository) SumGeneralLedgerPrefix(ctx context.Context, filter domain.LedgerFilter, rows int) (decimal.Decimal, decimal.Decimal, error) {
	if m.SumGeneralLedgerPrefixFunc != nil {
		return m.SumGeneralLedgerPrefixFunc(ctx, filter, rows)
	}
	return decimal.Zero, decimal.Zero, nil
}

func (m *MockLedgerRepository) CheckConsistency(ctx context.Context, companyID string) (domain.LedgerBalance, error) {
	if m.CheckConsistencyFunc != nil {
		return m.CheckConsistencyFunc(ctx, companyID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	balance := domain.LedgerBalance{TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}
	for _, lines := range m.lines {
		t := domain.Totals(lines)
		balance.TotalDebit = balance.TotalDebit.Add(t.Debit)
		balance.TotalCredit = balance.TotalCredit.Add(t.Credit)
		balance.Vouchers++
		if !domain.WithinTolerance(t.Debit, t.Credit) {
			balance.UnbalancedVouchers++
		}
	}
	return balance, nil
}

func (m *MockLedgerRepository) GetVoucherTotals(ctx context.Context, companyID string, voucherIDs []string) (map[string]domain.VoucherLedgerTotals, error) {
	if m.GetVoucherTotalsFunc != nil {
		return m.GetVoucherTotalsFunc(ctx, companyID, voucherIDs)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	totals := make(map[string]domain.VoucherLedgerTotals, len(voucherIDs))
	for _, id := range voucherIDs {
		lines, ok := m.lines[id]
		if !ok {
			continue
		}
		t := domain.Totals(lines)
		totals[id] = domain.VoucherLedgerTotals{VoucherID: id, Debit: t.Debit, Credit: t.Credit, Lines: len(lines)}
	}
	return totals, nil
}

// Recorded returns the lines recorded for a voucher.
func (m *MockLedgerRepository) Recorded(voucherID string) ([]domain.LedgerLine, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	lines, ok := m.lines[voucherID]
	return lines, ok
}

// MockOutboxRepository collects outbox events in memory.
type MockOutboxRepository struct {
	mu     sync.Mutex
	Events []*domain.OutboxEvent

	CreateFunc func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var events []*domain.OutboxEvent
	for _, e := range m.Events {
		if !e.Published && (limit <= 0 || len(events) < limit) {
			events = append(events, e)
		}
	}
	return events, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
		}
	}
	return nil
}

func (m *MockOutboxRepository) GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var events []*domain.OutboxEvent
	for _, e := range m.Events {
		if e.AggregateType == aggregateType && e.AggregateID == aggregateID {
			events = append(events, e)
		}
	}
	return events, nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	return nil
}

// EventTypes returns the recorded event types in order.
func (m *MockOutboxRepository) EventTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, len(m.Events))
	for i, e := range m.Events {
		types[i] = e.EventType
	}
	return types
}

// MockAuditRepository collects audit logs in memory.
type MockAuditRepository struct {
	mu   sync.Mutex
	Logs []*domain.AuditLog

	CreateFunc   func(ctx context.Context, log *domain.AuditLog) error
	CreateTxFunc func(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, log)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, log)
	return nil
}

func (m *MockAuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, log)
	}
	return m.Create(ctx, log)
}

func (m *MockAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var logs []*domain.AuditLog
	for _, l := range m.Logs {
		if filter.Action != "" && l.Action != filter.Action {
			continue
		}
		logs = append(logs, l)
	}
	return logs, nil
}

func (m *MockAuditRepository) GetByResourceID(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var logs []*domain.AuditLog
	for _, l := range m.Logs {
		if l.ResourceType == resourceType && l.ResourceID == resourceID {
			logs = append(logs, l)
		}
	}
	return logs, nil
}

// MockPermissionChecker allows everything unless AuthorizeFunc says otherwise.
type MockPermissionChecker struct {
	AuthorizeFunc func(ctx context.Context, userID, companyID string, permission domain.Permission) error
}

func NewMockPermissionChecker() *MockPermissionChecker {
	return &MockPermissionChecker{}
}

func (m *MockPermissionChecker) Authorize(ctx context.Context, userID, companyID string, permission domain.Permission) error {
	if m.AuthorizeFunc != nil {
		return m.AuthorizeFunc(ctx, userID, companyID, permission)
	}
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)

	mu  sync.Mutex
	txs []*MockTransaction
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	tx := &MockTransaction{}
	m.mu.Lock()
	m.txs = append(m.txs, tx)
	m.mu.Unlock()
	return tx, nil
}

// Last returns the most recently started transaction.
func (m *MockTransactionManager) Last() *MockTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.txs) == 0 {
		return nil
	}
	return m.txs[len(m.txs)-1]
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	Committed  bool
	RolledBack bool
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.Committed = true
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	if !m.Committed {
		m.RolledBack = true
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string

	mu      sync.Mutex
	counter int
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("id-%d", m.counter)
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	keys map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		keys: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.keys[key]; ok {
		return true, existing, nil
	}
	m.keys[key] = response
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[key] = response
	return nil
}
