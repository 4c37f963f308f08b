package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iho/erpledger/internal/domain"
	"github.com/iho/erpledger/internal/infrastructure/postgres/generated"
	"github.com/iho/erpledger/internal/usecase"
)

// liveReversalIndex allows one non-cancelled reversal per voucher.
const liveReversalIndex = "ux_vouchers_live_reversal"

// VoucherRepository implements usecase.VoucherRepository. Voucher lines are
// stored beside the header for every status; ledger_lines only hold posted ones.
type VoucherRepository struct {
	queries *generated.Queries
}

// NewVoucherRepository creates a new VoucherRepository.
func NewVoucherRepository(db generated.DBTX) *VoucherRepository {
	return &VoucherRepository{queries: generated.New(db)}
}

// Create inserts the voucher header and its lines within a transaction.
func (r *VoucherRepository) Create(ctx context.Context, tx usecase.Transaction, v *domain.Voucher) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	payload, err := marshalJSON(v.Payload)
	if err != nil {
		return fmt.Errorf("failed to encode voucher payload: %w", err)
	}

	err = queries.CreateVoucher(ctx, generated.CreateVoucherParams{
		ID:              v.ID,
		CompanyID:       v.CompanyID,
		Number:          v.Number,
		Type:            string(v.Type),
		VoucherDate:     timeToPgDate(v.Date),
		Status:          string(v.Status),
		Currency:        v.Currency,
		ExchangeRate:    decimalToNumeric(v.ExchangeRate),
		BaseCurrency:    v.BaseCurrency,
		Reference:       v.Reference,
		Description:     v.Description,
		Payload:         payload,
		TotalDebitBase:  decimalToNumeric(v.TotalDebitBase),
		TotalCreditBase: decimalToNumeric(v.TotalCreditBase),
		ReversalOf:      stringPtrToPgText(v.ReversalOf),
		CancelReason:    v.CancelReason,
		Version:         v.Version,
		CreatedBy:       v.CreatedBy,
		ApprovedBy:      v.ApprovedBy,
		LockedBy:        v.LockedBy,
		CancelledBy:     v.CancelledBy,
		CreatedAt:       timeToPgTimestamptz(v.CreatedAt),
		UpdatedAt:       timeToPgTimestamptz(v.UpdatedAt),
		SubmittedAt:     timePtrToPgTimestamptz(v.SubmittedAt),
		ApprovedAt:      timePtrToPgTimestamptz(v.ApprovedAt),
		LockedAt:        timePtrToPgTimestamptz(v.LockedAt),
		CancelledAt:     timePtrToPgTimestamptz(v.CancelledAt),
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation && pgErr.ConstraintName == liveReversalIndex {
			return domain.ErrAlreadyReversed
		}
		return err
	}

	return insertVoucherLines(ctx, queries, v)
}

// Update persists the voucher when the stored version equals expectedVersion.
// Lines are rewritten only while the voucher is still editable.
func (r *VoucherRepository) Update(ctx context.Context, tx usecase.Transaction, v *domain.Voucher, expectedVersion int64) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	payload, err := marshalJSON(v.Payload)
	if err != nil {
		return fmt.Errorf("failed to encode voucher payload: %w", err)
	}

	affected, err := queries.UpdateVoucher(ctx, generated.UpdateVoucherParams{
		CompanyID:       v.CompanyID,
		ID:              v.ID,
		VoucherDate:     timeToPgDate(v.Date),
		Status:          string(v.Status),
		Currency:        v.Currency,
		ExchangeRate:    decimalToNumeric(v.ExchangeRate),
		Reference:       v.Reference,
		Description:     v.Description,
		Payload:         payload,
		TotalDebitBase:  decimalToNumeric(v.TotalDebitBase),
		TotalCreditBase: decimalToNumeric(v.TotalCreditBase),
		CancelReason:    v.CancelReason,
		Version:         v.Version,
		ApprovedBy:      v.ApprovedBy,
		LockedBy:        v.LockedBy,
		CancelledBy:     v.CancelledBy,
		UpdatedAt:       timeToPgTimestamptz(v.UpdatedAt),
		SubmittedAt:     timePtrToPgTimestamptz(v.SubmittedAt),
		ApprovedAt:      timePtrToPgTimestamptz(v.ApprovedAt),
		LockedAt:        timePtrToPgTimestamptz(v.LockedAt),
		CancelledAt:     timePtrToPgTimestamptz(v.CancelledAt),
		ExpectedVersion: expectedVersion,
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: voucher %s expected version %d", domain.ErrConcurrentModification, v.ID, expectedVersion)
	}

	if !v.Status.IsEditable() {
		return nil
	}

	if err := queries.DeleteVoucherLines(ctx, v.ID); err != nil {
		return err
	}
	return insertVoucherLines(ctx, queries, v)
}

// GetByID retrieves a voucher with its lines.
func (r *VoucherRepository) GetByID(ctx context.Context, companyID, id string) (*domain.Voucher, error) {
	row, err := r.queries.GetVoucherByID(ctx, generated.GetVoucherByIDParams{CompanyID: companyID, ID: id})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVoucherNotFound
		}

		return nil, err
	}

	return r.withLines(ctx, r.queries, row)
}

// GetByIDForUpdate retrieves a voucher with a FOR UPDATE lock on its header.
func (r *VoucherRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, companyID, id string) (*domain.Voucher, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return nil, err
	}

	row, err := queries.GetVoucherByIDForUpdate(ctx, generated.GetVoucherByIDForUpdateParams{CompanyID: companyID, ID: id})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVoucherNotFound
		}

		return nil, err
	}

	return r.withLines(ctx, queries, row)
}

// List lists vouchers matching the filter, ordered by date and number.
func (r *VoucherRepository) List(ctx context.Context, filter domain.VoucherFilter) ([]*domain.Voucher, error) {
	types := make([]string, 0, len(filter.Types))
	for _, t := range filter.Types {
		types = append(types, string(t))
	}
	statuses := make([]string, 0, len(filter.Statuses))
	for _, s := range filter.Statuses {
		statuses = append(statuses, string(s))
	}

	rows, err := r.queries.ListVouchers(ctx, generated.ListVouchersParams{
		CompanyID: filter.CompanyID,
		Types:     types,
		Statuses:  statuses,
		FromDate:  timePtrToPgDate(filter.From),
		ToDate:    timePtrToPgDate(filter.To),
		Limit:     int32(filter.Limit),
		Offset:    int32(filter.Offset),
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []*domain.Voucher{}, nil
	}

	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	lineRows, err := r.queries.ListVoucherLines(ctx, ids)
	if err != nil {
		return nil, err
	}
	linesByVoucher := make(map[string][]generated.VoucherLine, len(rows))
	for _, l := range lineRows {
		linesByVoucher[l.VoucherID] = append(linesByVoucher[l.VoucherID], l)
	}

	vouchers := make([]*domain.Voucher, 0, len(rows))
	for _, row := range rows {
		v, err := rowToVoucher(row, linesByVoucher[row.ID])
		if err != nil {
			return nil, err
		}
		vouchers = append(vouchers, v)
	}

	return vouchers, nil
}

// NextNumber allocates the next number of the company's sequence for the type.
func (r *VoucherRepository) NextNumber(ctx context.Context, tx usecase.Transaction, companyID string, voucherType domain.VoucherType) (string, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return "", err
	}

	seq, err := queries.NextVoucherNumber(ctx, generated.NextVoucherNumberParams{
		CompanyID:   companyID,
		VoucherType: string(voucherType),
	})
	if err != nil {
		return "", err
	}

	return domain.FormatVoucherNumber(voucherType, seq), nil
}

// LiveReversalID returns the ID of the voucher's reversal that is not
// cancelled, or "" when there is none.
func (r *VoucherRepository) LiveReversalID(ctx context.Context, tx usecase.Transaction, companyID, voucherID string) (string, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return "", err
	}

	id, err := queries.GetLiveReversalID(ctx, generated.GetLiveReversalIDParams{
		CompanyID:  companyID,
		ReversalOf: stringPtrToPgText(&voucherID),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}

	return id, nil
}

func (r *VoucherRepository) withLines(ctx context.Context, queries *generated.Queries, row generated.Voucher) (*domain.Voucher, error) {
	lines, err := queries.ListVoucherLines(ctx, []string{row.ID})
	if err != nil {
		return nil, err
	}
	return rowToVoucher(row, lines)
}

func insertVoucherLines(ctx context.Context, queries *generated.Queries, v *domain.Voucher) error {
	if len(v.Lines) == 0 {
		return nil
	}

	params := make([]generated.CreateVoucherLinesParams, 0, len(v.Lines))
	for _, l := range v.Lines {
		metadata, err := marshalJSON(l.Metadata())
		if err != nil {
			return fmt.Errorf("failed to encode line %d metadata: %w", l.Index(), err)
		}
		params = append(params, generated.CreateVoucherLinesParams{
			VoucherID:    v.ID,
			LineIndex:    int32(l.Index()),
			AccountID:    l.AccountID(),
			Side:         string(l.Side()),
			Amount:       decimalToNumeric(l.Amount()),
			Currency:     l.Currency(),
			Rate:         decimalToNumeric(l.Rate()),
			BaseAmount:   decimalToNumeric(l.BaseAmount()),
			Notes:        l.Notes(),
			CostCenterID: l.CostCenterID(),
			Metadata:     metadata,
		})
	}

	n, err := queries.CreateVoucherLines(ctx, params)
	if err != nil {
		return err
	}
	if int(n) != len(params) {
		return fmt.Errorf("inserted %d of %d voucher lines", n, len(params))
	}
	return nil
}

func rowToVoucher(row generated.Voucher, lineRows []generated.VoucherLine) (*domain.Voucher, error) {
	var payload map[string]any
	if len(row.Payload) > 0 {
		if err := json.Unmarshal(row.Payload, &payload); err != nil {
			return nil, fmt.Errorf("failed to decode payload of voucher %s: %w", row.ID, err)
		}
	}

	lines := make([]domain.LedgerLine, 0, len(lineRows))
	for _, lr := range lineRows {
		var metadata map[string]string
		if len(lr.Metadata) > 0 {
			if err := json.Unmarshal(lr.Metadata, &metadata); err != nil {
				return nil, fmt.Errorf("failed to decode line %d of voucher %s: %w", lr.LineIndex, row.ID, err)
			}
		}
		lines = append(lines, domain.RestoreLedgerLine(domain.LineSpec{
			Index:        int(lr.LineIndex),
			AccountID:    lr.AccountID,
			Side:         domain.Side(lr.Side),
			Amount:       mustDecimal(lr.Amount),
			Currency:     lr.Currency,
			Rate:         mustDecimal(lr.Rate),
			Notes:        lr.Notes,
			CostCenterID: lr.CostCenterID,
			Metadata:     metadata,
		}, mustDecimal(lr.BaseAmount)))
	}

	return &domain.Voucher{
		ID:              row.ID,
		CompanyID:       row.CompanyID,
		Number:          row.Number,
		Type:            domain.VoucherType(row.Type),
		Date:            row.VoucherDate.Time,
		Status:          domain.VoucherStatus(row.Status),
		Currency:        row.Currency,
		ExchangeRate:    mustDecimal(row.ExchangeRate),
		BaseCurrency:    row.BaseCurrency,
		Reference:       row.Reference,
		Description:     row.Description,
		Lines:           lines,
		TotalDebitBase:  mustDecimal(row.TotalDebitBase),
		TotalCreditBase: mustDecimal(row.TotalCreditBase),
		Payload:         payload,
		ReversalOf:      pgTextToPtr(row.ReversalOf),
		CancelReason:    row.CancelReason,
		Version:         row.Version,
		CreatedBy:       row.CreatedBy,
		ApprovedBy:      row.ApprovedBy,
		LockedBy:        row.LockedBy,
		CancelledBy:     row.CancelledBy,
		CreatedAt:       row.CreatedAt.Time,
		UpdatedAt:       row.UpdatedAt.Time,
		SubmittedAt:     pgTimestamptzToPtr(row.SubmittedAt),
		ApprovedAt:      pgTimestamptzToPtr(row.ApprovedAt),
		LockedAt:        pgTimestamptzToPtr(row.LockedAt),
		CancelledAt:     pgTimestamptzToPtr(row.CancelledAt),
	}, nil
}
