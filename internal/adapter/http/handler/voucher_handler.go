package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/erpledger/internal/adapter/http/dto"
	"github.com/iho/erpledger/internal/domain"
	"github.com/iho/erpledger/internal/usecase"
)

// VoucherService defines the behavior needed by VoucherHandler.
type VoucherService interface {
	CreateVoucher(ctx context.Context, input usecase.CreateVoucherInput) (*domain.Voucher, error)
	UpdateVoucher(ctx context.Context, input usecase.UpdateVoucherInput) (*domain.Voucher, error)
	SubmitVoucher(ctx context.Context, input usecase.TransitionInput) (*domain.Voucher, error)
	ApproveVoucher(ctx context.Context, input usecase.TransitionInput) (*domain.Voucher, error)
	LockVoucher(ctx context.Context, input usecase.TransitionInput) (*domain.Voucher, error)
	CancelVoucher(ctx context.Context, input usecase.TransitionInput) (*domain.Voucher, error)
	ReverseVoucher(ctx context.Context, input usecase.ReverseVoucherInput) (*domain.Voucher, error)
	GetVoucher(ctx context.Context, companyID, userID, voucherID string) (*domain.Voucher, error)
	ListVouchers(ctx context.Context, input usecase.ListVouchersInput) ([]*domain.Voucher, error)
}

// VoucherHandler handles voucher-related HTTP requests.
type VoucherHandler struct {
	voucherUC VoucherService
}

// NewVoucherHandler creates a new VoucherHandler.
func NewVoucherHandler(voucherUC VoucherService) *VoucherHandler {
	return &VoucherHandler{voucherUC: voucherUC}
}

// Create creates a new voucher.
func (h *VoucherHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateVoucherRequest
	if err := decodeBody(w, r, &req, false); err != nil {
		writeDomainError(w, err)
		return
	}

	input, err := req.ToUseCaseInput(companyID(r), actingUserID(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	v, err := h.voucherUC.CreateVoucher(r.Context(), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.VoucherFromDomain(v))
}

// Update replaces a draft or pending voucher.
func (h *VoucherHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateVoucherRequest
	if err := decodeBody(w, r, &req, false); err != nil {
		writeDomainError(w, err)
		return
	}

	input, err := req.ToUseCaseInput(companyID(r), actingUserID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	v, err := h.voucherUC.UpdateVoucher(r.Context(), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.VoucherFromDomain(v))
}

// Get retrieves a voucher by ID.
func (h *VoucherHandler) Get(w http.ResponseWriter, r *http.Request) {
	v, err := h.voucherUC.GetVoucher(r.Context(), companyID(r), actingUserID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.VoucherFromDomain(v))
}

// List lists vouchers, filtered by type, status and date range.
func (h *VoucherHandler) List(w http.ResponseWriter, r *http.Request) {
	input := usecase.ListVouchersInput{
		CompanyID: companyID(r),
		UserID:    actingUserID(r),
		Limit:     parseIntQuery(r, "limit", 20),
		Offset:    parseIntQuery(r, "offset", 0),
	}

	for _, code := range parseListQuery(r, "type") {
		t, err := domain.ParseVoucherType(code)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		input.Types = append(input.Types, t)
	}
	for _, s := range parseListQuery(r, "status") {
		input.Statuses = append(input.Statuses, domain.VoucherStatus(s))
	}

	var err error
	if input.From, err = parseDateQuery(r, "from"); err != nil {
		writeDomainError(w, err)
		return
	}
	if input.To, err = parseDateQuery(r, "to"); err != nil {
		writeDomainError(w, err)
		return
	}

	vouchers, err := h.voucherUC.ListVouchers(r.Context(), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListVouchersResponse{
		Vouchers: dto.VouchersFromDomain(vouchers),
		Total:    int64(len(vouchers)),
	})
}

// Submit moves a draft voucher to pending.
func (h *VoucherHandler) Submit(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.voucherUC.SubmitVoucher)
}

// Approve posts a pending voucher to the ledger.
func (h *VoucherHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.voucherUC.ApproveVoucher)
}

// Lock freezes an approved voucher.
func (h *VoucherHandler) Lock(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.voucherUC.LockVoucher)
}

// Cancel cancels a voucher that is not locked.
func (h *VoucherHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.voucherUC.CancelVoucher)
}

func (h *VoucherHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	fn func(context.Context, usecase.TransitionInput) (*domain.Voucher, error),
) {
	var req dto.TransitionRequest
	if err := decodeBody(w, r, &req, true); err != nil {
		writeDomainError(w, err)
		return
	}

	v, err := fn(r.Context(), req.ToUseCaseInput(companyID(r), actingUserID(r), chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.VoucherFromDomain(v))
}

// Reverse creates a mirrored voucher for a posted one.
func (h *VoucherHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	var req dto.ReverseVoucherRequest
	if err := decodeBody(w, r, &req, true); err != nil {
		writeDomainError(w, err)
		return
	}

	input, err := req.ToUseCaseInput(companyID(r), actingUserID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	v, err := h.voucherUC.ReverseVoucher(r.Context(), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.VoucherFromDomain(v))
}
