package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"pharmadesk/internal/model"
	"pharmadesk/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreatePartyRequest struct {
	Name           string `json:"name" binding:"required"`
	Type           string `json:"type" binding:"required,oneof=CUSTOMER SUPPLIER BOTH"`
	GSTIN          string `json:"gstin" binding:"omitempty,max=15"`
	Phone          string `json:"phone"`
	Email          string `json:"email" binding:"omitempty,email"`
	Address        string `json:"address"`
	DoctorName     string `json:"doctor_name"`
	OpeningBalance string `json:"opening_balance"`
}

type UpdatePartyRequest struct {
	Name           *string `json:"name"`
	Type           *string `json:"type" binding:"omitempty,oneof=CUSTOMER SUPPLIER BOTH"`
	GSTIN          *string `json:"gstin" binding:"omitempty,max=15"`
	Phone          *string `json:"phone"`
	Email          *string `json:"email" binding:"omitempty,email"`
	Address        *string `json:"address"`
	DoctorName     *string `json:"doctor_name"`
	OpeningBalance *string `json:"opening_balance"`
	IsActive       *bool   `json:"is_active"`
}

// LedgerEntry is one row of the merged party statement: finalized invoices
// and payments interleaved by date with a running balance. Positive balance
// means the party owes us.
type LedgerEntry struct {
	Date      string `json:"date"`
	Kind      string `json:"kind"` // INVOICE or PAYMENT
	Reference string `json:"reference"`
	Debit     string `json:"debit"`
	Credit    string `json:"credit"`
	Balance   string `json:"balance"`
}

type LedgerResponse struct {
	PartyID        string        `json:"party_id"`
	PartyName      string        `json:"party_name"`
	OpeningBalance string        `json:"opening_balance"`
	Entries        []LedgerEntry `json:"entries"`
	ClosingBalance string        `json:"closing_balance"`
}

// --- Interface ---

type PartyService interface {
	CreateParty(ctx context.Context, userID string, req CreatePartyRequest) (*model.Party, error)
	UpdateParty(ctx context.Context, userID string, id string, req UpdatePartyRequest) (*model.Party, error)
	DeleteParty(ctx context.Context, userID string, id string) error
	GetParty(ctx context.Context, id string) (*model.Party, error)
	ListParties(ctx context.Context, partyType, search string, page, limit int) ([]model.Party, int64, error)
	GetLedger(ctx context.Context, id string) (*LedgerResponse, error)
}

type partyService struct {
	partyRepo   repository.PartyRepository
	invoiceRepo repository.InvoiceRepository
	paymentRepo repository.PaymentRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
}

func NewPartyService(
	partyRepo repository.PartyRepository,
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) PartyService {
	return &partyService{
		partyRepo:   partyRepo,
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
	}
}

// --- Implementation ---

func (s *partyService) CreateParty(ctx context.Context, userID string, req CreatePartyRequest) (*model.Party, error) {
	opening := decimal.Zero
	if req.OpeningBalance != "" {
		var err error
		opening, err = decimal.NewFromString(req.OpeningBalance)
		if err != nil {
			return nil, fmt.Errorf("invalid opening_balance: %w", err)
		}
	}

	party := &model.Party{
		Name:           req.Name,
		Type:           req.Type,
		GSTIN:          req.GSTIN,
		Phone:          req.Phone,
		Email:          req.Email,
		Address:        req.Address,
		DoctorName:     req.DoctorName,
		OpeningBalance: opening,
		IsActive:       true,
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.partyRepo.Create(txCtx, party); err != nil {
			return fmt.Errorf("failed to create party: %w", err)
		}
		writeAuditLog(txCtx, s.auditRepo, userID, model.ActionCreateParty, party.ID.String(), party.Name, req)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return party, nil
}

func (s *partyService) UpdateParty(ctx context.Context, userID string, id string, req UpdatePartyRequest) (*model.Party, error) {
	partyID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid party id: %w", err)
	}
	party, err := s.partyRepo.FindByID(ctx, partyID)
	if err != nil {
		return nil, fmt.Errorf("party not found: %w", err)
	}

	if req.Name != nil {
		party.Name = *req.Name
	}
	if req.Type != nil {
		party.Type = *req.Type
	}
	if req.GSTIN != nil {
		party.GSTIN = *req.GSTIN
	}
	if req.Phone != nil {
		party.Phone = *req.Phone
	}
	if req.Email != nil {
		party.Email = *req.Email
	}
	if req.Address != nil {
		party.Address = *req.Address
	}
	if req.DoctorName != nil {
		party.DoctorName = *req.DoctorName
	}
	if err := applyDecimal(&party.OpeningBalance, req.OpeningBalance, "opening_balance"); err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		party.IsActive = *req.IsActive
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.partyRepo.Update(txCtx, party); err != nil {
			return fmt.Errorf("failed to update party: %w", err)
		}
		writeAuditLog(txCtx, s.auditRepo, userID, model.ActionUpdateParty, party.ID.String(), party.Name, req)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return party, nil
}

func (s *partyService) DeleteParty(ctx context.Context, userID string, id string) error {
	partyID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid party id: %w", err)
	}
	party, err := s.partyRepo.FindByID(ctx, partyID)
	if err != nil {
		return fmt.Errorf("party not found: %w", err)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.partyRepo.Delete(txCtx, partyID); err != nil {
			return fmt.Errorf("failed to delete party: %w", err)
		}
		writeAuditLog(txCtx, s.auditRepo, userID, model.ActionDeleteParty, party.ID.String(), party.Name, nil)
		return nil
	})
}

func (s *partyService) GetParty(ctx context.Context, id string) (*model.Party, error) {
	partyID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid party id: %w", err)
	}
	party, err := s.partyRepo.FindByID(ctx, partyID)
	if err != nil {
		return nil, fmt.Errorf("party not found: %w", err)
	}
	return party, nil
}

func (s *partyService) ListParties(ctx context.Context, partyType, search string, page, limit int) ([]model.Party, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.partyRepo.List(ctx, partyType, search, page, limit)
}

// GetLedger merges finalized invoices and payments into one dated statement.
// Sale invoices and supplier settlements debit the party, purchase invoices
// and collections credit it, and the balance runs from the opening balance.
func (s *partyService) GetLedger(ctx context.Context, id string) (*LedgerResponse, error) {
	partyID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid party id: %w", err)
	}
	party, err := s.partyRepo.FindByID(ctx, partyID)
	if err != nil {
		return nil, fmt.Errorf("party not found: %w", err)
	}

	invoices, err := s.invoiceRepo.ListFinalByParty(ctx, partyID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invoices: %w", err)
	}
	payments, err := s.paymentRepo.ListByParty(ctx, partyID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payments: %w", err)
	}

	type row struct {
		when      time.Time
		kind      string
		reference string
		debit     decimal.Decimal
		credit    decimal.Decimal
	}

	rows := make([]row, 0, len(invoices)+len(payments))
	for _, inv := range invoices {
		when := inv.CreatedAt
		if inv.FinalizedAt != nil {
			when = *inv.FinalizedAt
		}
		r := row{when: when, kind: "INVOICE", reference: inv.InvoiceNo}
		if inv.Type == model.InvoiceTypeSale {
			r.debit = inv.Final
		} else {
			r.credit = inv.Final
		}
		rows = append(rows, r)
	}
	for _, p := range payments {
		r := row{when: p.PaymentDate, kind: "PAYMENT", reference: p.ReferenceNo}
		if r.reference == "" {
			r.reference = p.Mode
		}
		if p.Direction == model.PaymentReceived {
			r.credit = p.Amount
		} else {
			r.debit = p.Amount
		}
		rows = append(rows, r)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].when.Before(rows[j].when)
	})

	balance := party.OpeningBalance
	entries := make([]LedgerEntry, 0, len(rows))
	for _, r := range rows {
		balance = balance.Add(r.debit).Sub(r.credit)
		entries = append(entries, LedgerEntry{
			Date:      r.when.Format("2006-01-02"),
			Kind:      r.kind,
			Reference: r.reference,
			Debit:     r.debit.StringFixed(2),
			Credit:    r.credit.StringFixed(2),
			Balance:   balance.StringFixed(2),
		})
	}

	return &LedgerResponse{
		PartyID:        party.ID.String(),
		PartyName:      party.Name,
		OpeningBalance: party.OpeningBalance.StringFixed(2),
		Entries:        entries,
		ClosingBalance: balance.StringFixed(2),
	}, nil
}

