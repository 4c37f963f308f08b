package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/erpledger/internal/domain"
	"github.com/iho/erpledger/internal/domain/posting"
	"github.com/iho/erpledger/internal/infrastructure/metrics"
)

// VoucherDeps groups the collaborators of VoucherUseCase. Outbox, audit and
// metrics are optional.
type VoucherDeps struct {
	TxManager   TransactionManager
	CompanyRepo CompanyRepository
	VoucherRepo VoucherRepository
	LedgerRepo  LedgerRepository
	OutboxRepo  OutboxRepository
	AuditRepo   AuditRepository
	Accounts    *AccountUseCase
	Permissions PermissionChecker
	IDGen       IDGenerator
	Logger      zerolog.Logger
	Metrics     *metrics.Metrics
}

// VoucherUseCase runs the voucher lifecycle: posting strategies, account
// rules, balance checks and atomic persistence.
type VoucherUseCase struct {
	txManager   TransactionManager
	companyRepo CompanyRepository
	voucherRepo VoucherRepository
	ledgerRepo  LedgerRepository
	outboxRepo  OutboxRepository
	auditRepo   AuditRepository
	accounts    *AccountUseCase
	permissions PermissionChecker
	idGen       IDGenerator
	logger      zerolog.Logger
	metrics     *metrics.Metrics
}

// NewVoucherUseCase creates a new VoucherUseCase.
func NewVoucherUseCase(deps VoucherDeps) *VoucherUseCase {
	return &VoucherUseCase{
		txManager:   deps.TxManager,
		companyRepo: deps.CompanyRepo,
		voucherRepo: deps.VoucherRepo,
		ledgerRepo:  deps.LedgerRepo,
		outboxRepo:  deps.OutboxRepo,
		auditRepo:   deps.AuditRepo,
		accounts:    deps.Accounts,
		permissions: deps.Permissions,
		idGen:       deps.IDGen,
		logger:      deps.Logger.With().Str("component", "voucher_usecase").Logger(),
		metrics:     deps.Metrics,
	}
}

// CreateVoucherInput represents input for creating a voucher. Type, currency
// and exchange rate come from the payload.
type CreateVoucherInput struct {
	CompanyID   string
	UserID      string
	Date        time.Time
	Reference   string
	Description string
	Payload     posting.Payload
	// Submit moves the new voucher straight to pending.
	Submit bool
}

// UpdateVoucherInput represents input for replacing a draft or pending voucher.
type UpdateVoucherInput struct {
	CompanyID       string
	UserID          string
	VoucherID       string
	ExpectedVersion int64
	Date            time.Time
	Reference       string
	Description     string
	Payload         posting.Payload
}

// TransitionInput identifies a voucher and the caller moving it.
// ExpectedVersion of 0 skips the client-side version check.
type TransitionInput struct {
	CompanyID       string
	UserID          string
	VoucherID       string
	ExpectedVersion int64
	Reason          string
}

// ReverseVoucherInput represents input for reversing a posted voucher.
type ReverseVoucherInput struct {
	CompanyID string
	UserID    string
	VoucherID string
	Date      time.Time
	Reason    string
}

// ListVouchersInput represents input for listing vouchers.
type ListVouchersInput struct {
	CompanyID string
	UserID    string
	Types     []domain.VoucherType
	Statuses  []domain.VoucherStatus
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// CreateVoucher generates, validates and stores a new voucher in draft, or
// pending when input.Submit is set.
func (uc *VoucherUseCase) CreateVoucher(ctx context.Context, input CreateVoucherInput) (*domain.Voucher, error) {
	const op = "create"
	start := time.Now()

	v, err := uc.createVoucher(ctx, input)
	if err != nil {
		return nil, uc.fail(ctx, op, input.CompanyID, "", input.UserID, domain.AuditActionVoucherCreate, err)
	}

	uc.observe(op, start)
	if uc.metrics != nil {
		uc.metrics.VouchersCreated.WithLabelValues(string(v.Type)).Inc()
		uc.metrics.VoucherTransitions.WithLabelValues(string(v.Status)).Inc()
	}

	uc.logger.Info().
		Str("company_id", v.CompanyID).
		Str("voucher_id", v.ID).
		Str("number", v.Number).
		Str("type", string(v.Type)).
		Str("status", string(v.Status)).
		Msg("voucher created")

	return v, nil
}

func (uc *VoucherUseCase) createVoucher(ctx context.Context, input CreateVoucherInput) (*domain.Voucher, error) {
	if err := uc.authorize(ctx, input.UserID, input.CompanyID, domain.PermVoucherCreate); err != nil {
		return nil, err
	}
	if input.Submit {
		if err := uc.authorize(ctx, input.UserID, input.CompanyID, domain.PermVoucherSubmit); err != nil {
			return nil, err
		}
	}
	if err := validateHeaderFields(input.Reference, input.Payload); err != nil {
		return nil, err
	}

	company, lines, err := uc.prepareLines(ctx, input.CompanyID, input.Payload)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	header := input.Payload.PostingHeader()
	v := &domain.Voucher{
		ID:           uc.idGen.Generate(),
		CompanyID:    input.CompanyID,
		Type:         input.Payload.VoucherType(),
		Date:         voucherDate(input.Date, now),
		Status:       domain.VoucherStatusDraft,
		Currency:     domain.NormalizeCurrency(header.Currency),
		ExchangeRate: header.Rate(company.BaseCurrency),
		BaseCurrency: company.BaseCurrency,
		Reference:    input.Reference,
		Description:  input.Description,
		Payload:      posting.EncodePayload(input.Payload),
		Version:      1,
		CreatedBy:    input.UserID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	v.SetLines(lines)

	if input.Submit {
		if err := v.Submit(now); err != nil {
			return nil, err
		}
	}

	err = RunAtomic(ctx, uc.txManager, func(ctx context.Context, tx Transaction) error {
		number, err := uc.voucherRepo.NextNumber(ctx, tx, v.CompanyID, v.Type)
		if err != nil {
			return err
		}
		v.Number = number

		if err := uc.voucherRepo.Create(ctx, tx, v); err != nil {
			return err
		}
		if err := uc.audit(ctx, tx, domain.AuditActionVoucherCreate, input.UserID, nil, v); err != nil {
			return err
		}
		return uc.emit(ctx, tx, domain.EventTypeVoucherCreated, v, input.UserID, now)
	})
	if err != nil {
		return nil, err
	}

	uc.countPennyAdjustments(v.Lines)
	return v, nil
}

// UpdateVoucher regenerates the lines of a draft or pending voucher from a new payload.
func (uc *VoucherUseCase) UpdateVoucher(ctx context.Context, input UpdateVoucherInput) (*domain.Voucher, error) {
	const op = "update"
	start := time.Now()

	v, err := uc.updateVoucher(ctx, input)
	if err != nil {
		return nil, uc.fail(ctx, op, input.CompanyID, input.VoucherID, input.UserID, domain.AuditActionVoucherUpdate, err)
	}

	uc.observe(op, start)
	return v, nil
}

func (uc *VoucherUseCase) updateVoucher(ctx context.Context, input UpdateVoucherInput) (*domain.Voucher, error) {
	if err := uc.authorize(ctx, input.UserID, input.CompanyID, domain.PermVoucherCreate); err != nil {
		return nil, err
	}
	if err := validateHeaderFields(input.Reference, input.Payload); err != nil {
		return nil, err
	}

	company, lines, err := uc.prepareLines(ctx, input.CompanyID, input.Payload)
	if err != nil {
		return nil, err
	}

	var updated *domain.Voucher
	err = RunAtomic(ctx, uc.txManager, func(ctx context.Context, tx Transaction) error {
		v, err := uc.loadForUpdate(ctx, tx, input.CompanyID, input.VoucherID, input.ExpectedVersion)
		if err != nil {
			return err
		}
		if err := v.EnsureEditable(); err != nil {
			return err
		}
		if v.Type != input.Payload.VoucherType() {
			return fmt.Errorf("%w: voucher is %s, payload is %s", domain.ErrPayloadMismatch, v.Type, input.Payload.VoucherType())
		}

		before := domain.VoucherState(v)
		now := time.Now().UTC()
		header := input.Payload.PostingHeader()

		v.Date = voucherDate(input.Date, v.Date)
		v.Currency = domain.NormalizeCurrency(header.Currency)
		v.ExchangeRate = header.Rate(company.BaseCurrency)
		v.Reference = input.Reference
		v.Description = input.Description
		v.Payload = posting.EncodePayload(input.Payload)
		v.SetLines(lines)
		v.UpdatedAt = now

		if err := uc.save(ctx, tx, v); err != nil {
			return err
		}
		if err := uc.auditChange(ctx, tx, domain.AuditActionVoucherUpdate, input.UserID, v, before); err != nil {
			return err
		}
		updated = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.countPennyAdjustments(updated.Lines)
	return updated, nil
}

// SubmitVoucher moves a draft voucher to pending.
func (uc *VoucherUseCase) SubmitVoucher(ctx context.Context, input TransitionInput) (*domain.Voucher, error) {
	return uc.transition(ctx, "submit", domain.PermVoucherSubmit, domain.AuditActionVoucherSubmit, "", input,
		func(_ context.Context, _ Transaction, v *domain.Voucher, now time.Time) error {
			return v.Submit(now)
		})
}

// ApproveVoucher re-validates a pending voucher and records its ledger lines.
// This is the only point at which lines become visible to reporting.
func (uc *VoucherUseCase) ApproveVoucher(ctx context.Context, input TransitionInput) (*domain.Voucher, error) {
	return uc.transition(ctx, "approve", domain.PermVoucherApprove, domain.AuditActionVoucherApprove, domain.EventTypeVoucherApproved, input,
		func(ctx context.Context, tx Transaction, v *domain.Voucher, now time.Time) error {
			if v.Status == domain.VoucherStatusPending {
				if err := uc.accounts.ValidateAccounts(ctx, v.CompanyID, RefsFromLines(v.Lines)); err != nil {
					return err
				}
			}
			if err := v.Approve(input.UserID, now); err != nil {
				return err
			}
			if err := uc.ledgerRepo.RecordForVoucher(ctx, tx, v); err != nil {
				return err
			}
			if uc.metrics != nil {
				uc.metrics.LedgerLinesRecorded.Add(float64(len(v.Lines)))
			}
			return nil
		})
}

// LockVoucher freezes an approved voucher.
func (uc *VoucherUseCase) LockVoucher(ctx context.Context, input TransitionInput) (*domain.Voucher, error) {
	return uc.transition(ctx, "lock", domain.PermVoucherLock, domain.AuditActionVoucherLock, domain.EventTypeVoucherLocked, input,
		func(_ context.Context, _ Transaction, v *domain.Voucher, now time.Time) error {
			return v.Lock(input.UserID, now)
		})
}

// CancelVoucher cancels a voucher that is not locked. The ledger lines of an
// approved voucher are removed; the voucher itself is kept. A voucher with a
// reversal that is not cancelled cannot be cancelled.
func (uc *VoucherUseCase) CancelVoucher(ctx context.Context, input TransitionInput) (*domain.Voucher, error) {
	return uc.transition(ctx, "cancel", domain.PermVoucherCancel, domain.AuditActionVoucherCancel, domain.EventTypeVoucherCancelled, input,
		func(ctx context.Context, tx Transaction, v *domain.Voucher, now time.Time) error {
			if err := uc.checkNotReversed(ctx, tx, v); err != nil {
				return err
			}
			wasPosted, err := v.Cancel(input.UserID, input.Reason, now)
			if err != nil {
				return err
			}
			if wasPosted {
				return uc.ledgerRepo.DeleteForVoucher(ctx, tx, v.CompanyID, v.ID)
			}
			return nil
		})
}

type transitionFunc func(ctx context.Context, tx Transaction, v *domain.Voucher, now time.Time) error

func (uc *VoucherUseCase) transition(
	ctx context.Context,
	op string,
	permission domain.Permission,
	action domain.AuditAction,
	eventType string,
	input TransitionInput,
	apply transitionFunc,
) (*domain.Voucher, error) {
	start := time.Now()

	if err := uc.authorize(ctx, input.UserID, input.CompanyID, permission); err != nil {
		return nil, uc.fail(ctx, op, input.CompanyID, input.VoucherID, input.UserID, action, err)
	}

	var result *domain.Voucher
	err := RunAtomic(ctx, uc.txManager, func(ctx context.Context, tx Transaction) error {
		v, err := uc.loadForUpdate(ctx, tx, input.CompanyID, input.VoucherID, input.ExpectedVersion)
		if err != nil {
			return err
		}

		before := domain.VoucherState(v)
		now := time.Now().UTC()
		if err := apply(ctx, tx, v, now); err != nil {
			return err
		}

		if err := uc.save(ctx, tx, v); err != nil {
			return err
		}
		if err := uc.auditChange(ctx, tx, action, input.UserID, v, before); err != nil {
			return err
		}
		if eventType != "" {
			if err := uc.emit(ctx, tx, eventType, v, input.UserID, now); err != nil {
				return err
			}
		}
		result = v
		return nil
	})
	if err != nil {
		return nil, uc.fail(ctx, op, input.CompanyID, input.VoucherID, input.UserID, action, err)
	}

	uc.observe(op, start)
	if uc.metrics != nil {
		uc.metrics.VoucherTransitions.WithLabelValues(string(result.Status)).Inc()
	}

	uc.logger.Info().
		Str("company_id", result.CompanyID).
		Str("voucher_id", result.ID).
		Str("status", string(result.Status)).
		Str("user_id", input.UserID).
		Msgf("voucher %s", op)

	return result, nil
}

// ReverseVoucher creates a pending journal entry that mirrors every line of
// an approved or locked voucher.
func (uc *VoucherUseCase) ReverseVoucher(ctx context.Context, input ReverseVoucherInput) (*domain.Voucher, error) {
	const op = "reverse"
	start := time.Now()

	v, err := uc.reverseVoucher(ctx, input)
	if err != nil {
		return nil, uc.fail(ctx, op, input.CompanyID, input.VoucherID, input.UserID, domain.AuditActionVoucherReverse, err)
	}

	uc.observe(op, start)
	if uc.metrics != nil {
		uc.metrics.VouchersCreated.WithLabelValues(string(v.Type)).Inc()
	}
	return v, nil
}

func (uc *VoucherUseCase) reverseVoucher(ctx context.Context, input ReverseVoucherInput) (*domain.Voucher, error) {
	if err := uc.authorize(ctx, input.UserID, input.CompanyID, domain.PermVoucherReverse); err != nil {
		return nil, err
	}

	var reversal *domain.Voucher
	err := RunAtomic(ctx, uc.txManager, func(ctx context.Context, tx Transaction) error {
		original, err := uc.voucherRepo.GetByIDForUpdate(ctx, tx, input.CompanyID, input.VoucherID)
		if err != nil {
			return err
		}
		if !original.Status.IsPosted() {
			return fmt.Errorf("%w: only approved or locked vouchers can be reversed, voucher is %s",
				domain.ErrInvalidTransition, original.Status)
		}
		if err := uc.checkNotReversed(ctx, tx, original); err != nil {
			return err
		}

		lines := make([]domain.LedgerLine, len(original.Lines))
		for i, l := range original.Lines {
			lines[i] = l.Reversed()
		}
		if err := uc.accounts.ValidateAccounts(ctx, input.CompanyID, RefsFromLines(lines)); err != nil {
			return err
		}

		now := time.Now().UTC()
		originalID := original.ID
		description := fmt.Sprintf("Reversal of %s", original.Number)
		if input.Reason != "" {
			description += ": " + input.Reason
		}

		reversal = &domain.Voucher{
			ID:           uc.idGen.Generate(),
			CompanyID:    input.CompanyID,
			Type:         domain.VoucherTypeJournalEntry,
			Date:         voucherDate(input.Date, now),
			Status:       domain.VoucherStatusDraft,
			Currency:     original.Currency,
			ExchangeRate: original.ExchangeRate,
			BaseCurrency: original.BaseCurrency,
			Reference:    original.Number,
			Description:  description,
			Payload: map[string]any{
				"reversal_of": original.ID,
				"reason":      input.Reason,
			},
			ReversalOf: &originalID,
			Version:    1,
			CreatedBy:  input.UserID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		reversal.SetLines(lines)
		if err := reversal.CheckBalanced(); err != nil {
			return err
		}
		if err := reversal.Submit(now); err != nil {
			return err
		}

		number, err := uc.voucherRepo.NextNumber(ctx, tx, reversal.CompanyID, reversal.Type)
		if err != nil {
			return err
		}
		reversal.Number = number

		if err := uc.voucherRepo.Create(ctx, tx, reversal); err != nil {
			return err
		}
		if err := uc.auditChange(ctx, tx, domain.AuditActionVoucherReverse, input.UserID, reversal, domain.VoucherState(original)); err != nil {
			return err
		}
		return uc.emit(ctx, tx, domain.EventTypeVoucherReversed, reversal, input.UserID, now)
	})
	if err != nil {
		return nil, err
	}

	return reversal, nil
}

// checkNotReversed must run while v is locked FOR UPDATE.
func (uc *VoucherUseCase) checkNotReversed(ctx context.Context, tx Transaction, v *domain.Voucher) error {
	reversalID, err := uc.voucherRepo.LiveReversalID(ctx, tx, v.CompanyID, v.ID)
	if err != nil {
		return err
	}
	if reversalID != "" {
		return fmt.Errorf("%w: %s is reversed by %s", domain.ErrAlreadyReversed, v.ID, reversalID)
	}
	return nil
}

// GetVoucher returns a voucher with its lines.
func (uc *VoucherUseCase) GetVoucher(ctx context.Context, companyID, userID, voucherID string) (*domain.Voucher, error) {
	if err := uc.authorize(ctx, userID, companyID, domain.PermVoucherView); err != nil {
		return nil, uc.fail(ctx, "get", companyID, voucherID, userID, "", err)
	}

	v, err := uc.voucherRepo.GetByID(ctx, companyID, voucherID)
	if err != nil {
		return nil, uc.fail(ctx, "get", companyID, voucherID, userID, "", err)
	}
	return v, nil
}

// ListVouchers lists vouchers of a company with filters and pagination.
func (uc *VoucherUseCase) ListVouchers(ctx context.Context, input ListVouchersInput) ([]*domain.Voucher, error) {
	if err := uc.authorize(ctx, input.UserID, input.CompanyID, domain.PermVoucherView); err != nil {
		return nil, uc.fail(ctx, "list", input.CompanyID, "", input.UserID, "", err)
	}

	limit, offset, _ := domain.ValidatePagination(input.Limit, input.Offset)
	vouchers, err := uc.voucherRepo.List(ctx, domain.VoucherFilter{
		CompanyID: input.CompanyID,
		Types:     input.Types,
		Statuses:  input.Statuses,
		From:      input.From,
		To:        input.To,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return nil, uc.fail(ctx, "list", input.CompanyID, "", input.UserID, "", err)
	}
	return vouchers, nil
}

// prepareLines runs the posting strategy and the account rule chain.
func (uc *VoucherUseCase) prepareLines(ctx context.Context, companyID string, payload posting.Payload) (*domain.Company, []domain.LedgerLine, error) {
	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, nil, err
	}

	lines, err := posting.Generate(payload, companyID, company.BaseCurrency)
	if err != nil {
		return nil, nil, err
	}
	if len(lines) > domain.MaxVoucherLineCount {
		return nil, nil, fmt.Errorf("%w: %d lines exceeds the limit of %d", domain.ErrInvalidVoucher, len(lines), domain.MaxVoucherLineCount)
	}

	if err := uc.accounts.ValidateAccounts(ctx, companyID, RefsFromLines(lines)); err != nil {
		return nil, nil, err
	}

	if err := domain.CheckBalanced(lines); err != nil {
		return nil, nil, err
	}
	return company, lines, nil
}

func (uc *VoucherUseCase) loadForUpdate(ctx context.Context, tx Transaction, companyID, voucherID string, expectedVersion int64) (*domain.Voucher, error) {
	v, err := uc.voucherRepo.GetByIDForUpdate(ctx, tx, companyID, voucherID)
	if err != nil {
		return nil, err
	}
	if expectedVersion != 0 && v.Version != expectedVersion {
		return nil, fmt.Errorf("%w: expected version %d, found %d", domain.ErrConcurrentModification, expectedVersion, v.Version)
	}
	return v, nil
}

// save bumps the version and writes v guarded by its previous version.
func (uc *VoucherUseCase) save(ctx context.Context, tx Transaction, v *domain.Voucher) error {
	previous := v.Version
	v.Version++
	return uc.voucherRepo.Update(ctx, tx, v, previous)
}

func (uc *VoucherUseCase) authorize(ctx context.Context, userID, companyID string, permission domain.Permission) error {
	if uc.permissions == nil {
		return nil
	}
	return uc.permissions.Authorize(ctx, userID, companyID, permission)
}

func (uc *VoucherUseCase) emit(ctx context.Context, tx Transaction, eventType string, v *domain.Voucher, actorID string, now time.Time) error {
	if uc.outboxRepo == nil {
		return nil
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		CompanyID:     v.CompanyID,
		AggregateID:   v.ID,
		AggregateType: domain.AggregateTypeVoucher,
		EventType:     eventType,
		Payload:       domain.NewVoucherEvent(v, actorID, now).Map(),
		CreatedAt:     now,
	}
	return uc.outboxRepo.Create(ctx, tx, event)
}

func (uc *VoucherUseCase) audit(ctx context.Context, tx Transaction, action domain.AuditAction, userID string, before domain.JSON, v *domain.Voucher) error {
	if uc.auditRepo == nil {
		return nil
	}

	log := &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		CompanyID:    v.CompanyID,
		UserID:       actor(ctx, userID),
		Action:       string(action),
		ResourceType: domain.AggregateTypeVoucher,
		ResourceID:   v.ID,
		RequestID:    domain.RequestIDFromContext(ctx),
		BeforeState:  before,
		AfterState:   domain.VoucherState(v),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    time.Now().UTC(),
	}
	if err := uc.auditRepo.CreateTx(ctx, tx, log); err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.AuditLogsCreated.WithLabelValues(log.Action, log.Status).Inc()
	}
	return nil
}

func (uc *VoucherUseCase) auditChange(ctx context.Context, tx Transaction, action domain.AuditAction, userID string, v *domain.Voucher, before domain.JSON) error {
	return uc.audit(ctx, tx, action, userID, before, v)
}

// fail classifies err at the use-case boundary. Domain errors pass through
// unchanged; anything else is logged and replaced by domain.ErrInternal.
func (uc *VoucherUseCase) fail(ctx context.Context, op, companyID, voucherID, userID string, action domain.AuditAction, err error) error {
	kind := domain.KindOf(err)
	if uc.metrics != nil {
		uc.metrics.PostingFailures.WithLabelValues(op, string(kind)).Inc()
	}

	if action != "" {
		uc.auditFailure(ctx, action, companyID, voucherID, userID, err, kind)
	}

	if kind == domain.KindInternal {
		uc.logger.Error().
			Err(err).
			Str("operation", op).
			Str("company_id", companyID).
			Str("voucher_id", voucherID).
			Str("user_id", userID).
			Str("request_id", domain.RequestIDFromContext(ctx)).
			Msg("voucher operation failed")
		return domain.ErrInternal
	}

	uc.logger.Debug().
		Err(err).
		Str("operation", op).
		Str("kind", string(kind)).
		Str("company_id", companyID).
		Str("voucher_id", voucherID).
		Msg("voucher operation rejected")
	return err
}

// auditFailure records a rejected mutation outside any transaction.
func (uc *VoucherUseCase) auditFailure(ctx context.Context, action domain.AuditAction, companyID, voucherID, userID string, cause error, kind domain.ErrorKind) {
	if uc.auditRepo == nil {
		return
	}

	message := cause.Error()
	if kind == domain.KindInternal {
		message = domain.ErrInternal.Error()
	}

	log := &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		CompanyID:    companyID,
		UserID:       actor(ctx, userID),
		Action:       string(action),
		ResourceType: domain.AggregateTypeVoucher,
		ResourceID:   voucherID,
		RequestID:    domain.RequestIDFromContext(ctx),
		Status:       string(domain.AuditStatusFailure),
		ErrorMessage: message,
		CreatedAt:    time.Now().UTC(),
	}
	if err := uc.auditRepo.Create(ctx, log); err != nil {
		uc.logger.Warn().Err(err).Str("action", log.Action).Msg("failed to write audit log")
		return
	}

	if uc.metrics != nil {
		uc.metrics.AuditLogsCreated.WithLabelValues(log.Action, log.Status).Inc()
	}
}

func (uc *VoucherUseCase) observe(op string, start time.Time) {
	if uc.metrics != nil {
		uc.metrics.PostingDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}
}

func (uc *VoucherUseCase) countPennyAdjustments(lines []domain.LedgerLine) {
	if uc.metrics == nil {
		return
	}
	for _, l := range lines {
		if _, ok := l.Metadata()[domain.PennyAdjustmentKey]; ok {
			uc.metrics.PennyAdjustments.Inc()
		}
	}
}

func validateHeaderFields(reference string, payload posting.Payload) error {
	if payload == nil {
		return fmt.Errorf("%w: payload is required", domain.ErrInvalidVoucher)
	}
	if len(reference) > domain.MaxReferenceLength {
		return fmt.Errorf("%w: reference longer than %d characters", domain.ErrInvalidVoucher, domain.MaxReferenceLength)
	}
	return nil
}

func voucherDate(requested, fallback time.Time) time.Time {
	if requested.IsZero() {
		return fallback
	}
	return requested.UTC()
}

func actor(ctx context.Context, userID string) string {
	if userID != "" {
		return userID
	}
	if user, ok := domain.UserFromContext(ctx); ok {
		return user.ID
	}
	return SystemUserID
}
