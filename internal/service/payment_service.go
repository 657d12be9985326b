package service

import (
	"context"
	"fmt"
	"time"

	"pharmadesk/internal/model"
	"pharmadesk/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type RecordPaymentRequest struct {
	PartyID     string `json:"party_id" binding:"required"`
	Direction   string `json:"direction" binding:"required,oneof=RECEIVED PAID"`
	Mode        string `json:"mode" binding:"required,oneof=CASH UPI CARD CHEQUE BANK"`
	Amount      string `json:"amount" binding:"required"`
	ReferenceNo string `json:"reference_no"`
	Note        string `json:"note"`
	PaymentDate string `json:"payment_date"` // YYYY-MM-DD, defaults to today
}

type PaymentFilter struct {
	PartyID   string
	Direction string
	Mode      string
	StartDate string
	EndDate   string
	Page      int
	Limit     int
}

// OutstandingResponse is the party's open position: what was invoiced against
// what has been settled, in both directions.
type OutstandingResponse struct {
	PartyID     string `json:"party_id"`
	PartyName   string `json:"party_name"`
	Received    string `json:"received"`
	Paid        string `json:"paid"`
	Outstanding string `json:"outstanding"`
}

// --- Interface ---

type PaymentService interface {
	RecordPayment(ctx context.Context, userID string, req RecordPaymentRequest) (*model.Payment, error)
	GetPayment(ctx context.Context, id string) (*model.Payment, error)
	ListPayments(ctx context.Context, filter PaymentFilter) ([]model.Payment, int64, error)
	Outstanding(ctx context.Context, partyID string) (*OutstandingResponse, error)
}

type paymentService struct {
	paymentRepo repository.PaymentRepository
	partyRepo   repository.PartyRepository
	invoiceRepo repository.InvoiceRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
}

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	partyRepo repository.PartyRepository,
	invoiceRepo repository.InvoiceRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		partyRepo:   partyRepo,
		invoiceRepo: invoiceRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
	}
}

// --- Implementation ---

func (s *paymentService) RecordPayment(ctx context.Context, userID string, req RecordPaymentRequest) (*model.Payment, error) {
	partyID, err := uuid.Parse(req.PartyID)
	if err != nil {
		return nil, fmt.Errorf("invalid party id: %w", err)
	}
	party, err := s.partyRepo.FindByID(ctx, partyID)
	if err != nil {
		return nil, fmt.Errorf("party not found: %w", err)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive")
	}

	paymentDate := time.Now()
	if req.PaymentDate != "" {
		paymentDate, err = time.Parse("2006-01-02", req.PaymentDate)
		if err != nil {
			return nil, fmt.Errorf("invalid payment_date: %w", err)
		}
	}

	payment := &model.Payment{
		PartyID:     party.ID,
		Direction:   req.Direction,
		Mode:        req.Mode,
		Amount:      amount,
		ReferenceNo: req.ReferenceNo,
		Note:        req.Note,
		PaymentDate: paymentDate,
	}
	if userID != "" {
		if parsed, parseErr := uuid.Parse(userID); parseErr == nil {
			payment.RecordedBy = &parsed
		}
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.paymentRepo.Create(txCtx, payment); err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}
		writeAuditLog(txCtx, s.auditRepo, userID, model.ActionRecordPayment, payment.ID.String(), party.Name, req)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *paymentService) GetPayment(ctx context.Context, id string) (*model.Payment, error) {
	paymentID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid payment id: %w", err)
	}
	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("payment not found: %w", err)
	}
	return payment, nil
}

func (s *paymentService) ListPayments(ctx context.Context, filter PaymentFilter) ([]model.Payment, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	repoFilter := repository.PaymentListFilter{
		Direction: filter.Direction,
		Mode:      filter.Mode,
		Page:      filter.Page,
		Limit:     filter.Limit,
	}
	if filter.PartyID != "" {
		partyID, err := uuid.Parse(filter.PartyID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid party id: %w", err)
		}
		repoFilter.PartyID = &partyID
	}
	if filter.StartDate != "" {
		start, err := time.Parse("2006-01-02", filter.StartDate)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid start_date: %w", err)
		}
		repoFilter.StartDate = &start
	}
	if filter.EndDate != "" {
		end, err := time.Parse("2006-01-02", filter.EndDate)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid end_date: %w", err)
		}
		repoFilter.EndDate = &end
	}

	return s.paymentRepo.List(ctx, repoFilter)
}

// Outstanding nets the party's finalized invoices against its payments.
// Positive means the party still owes us.
func (s *paymentService) Outstanding(ctx context.Context, partyID string) (*OutstandingResponse, error) {
	parsed, err := uuid.Parse(partyID)
	if err != nil {
		return nil, fmt.Errorf("invalid party id: %w", err)
	}
	party, err := s.partyRepo.FindByID(ctx, parsed)
	if err != nil {
		return nil, fmt.Errorf("party not found: %w", err)
	}

	invoices, err := s.invoiceRepo.ListFinalByParty(ctx, parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invoices: %w", err)
	}

	received, err := s.paymentRepo.SumByParty(ctx, parsed, model.PaymentReceived)
	if err != nil {
		return nil, fmt.Errorf("failed to sum collections: %w", err)
	}
	paid, err := s.paymentRepo.SumByParty(ctx, parsed, model.PaymentPaid)
	if err != nil {
		return nil, fmt.Errorf("failed to sum settlements: %w", err)
	}

	outstanding := party.OpeningBalance
	for _, inv := range invoices {
		if inv.Type == model.InvoiceTypeSale {
			outstanding = outstanding.Add(inv.Final)
		} else {
			outstanding = outstanding.Sub(inv.Final)
		}
	}
	outstanding = outstanding.Sub(received).Add(paid)

	return &OutstandingResponse{
		PartyID:     party.ID.String(),
		PartyName:   party.Name,
		Received:    received.StringFixed(2),
		Paid:        paid.StringFixed(2),
		Outstanding: outstanding.StringFixed(2),
	}, nil
}

