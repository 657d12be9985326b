package service

import (
	"context"
	"fmt"
	"time"

	"pharmadesk/internal/model"
	"pharmadesk/internal/repository"
)

// --- Interface ---

type ReportService interface {
	SalesSummary(ctx context.Context, startDate, endDate string, topLimit int) (*model.SalesSummary, error)
	CollectionsSummary(ctx context.Context, startDate, endDate string) (*model.CollectionsSummary, error)
}

type reportService struct {
	reportRepo repository.ReportRepository
}

func NewReportService(reportRepo repository.ReportRepository) ReportService {
	return &reportService{reportRepo: reportRepo}
}

// --- Implementation ---

// SalesSummary aggregates finalized sale invoices over [startDate, endDate].
// Empty dates default to the current month.
func (s *reportService) SalesSummary(ctx context.Context, startDate, endDate string, topLimit int) (*model.SalesSummary, error) {
	start, end, err := parseRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	if topLimit <= 0 {
		topLimit = 10
	}

	count, gross, discount, tax, net, err := s.reportRepo.SalesTotals(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate sales: %w", err)
	}

	topProducts, err := s.reportRepo.TopProducts(ctx, start, end, topLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank products: %w", err)
	}

	return &model.SalesSummary{
		TotalInvoices:      count,
		GrossSales:         gross,
		TotalDiscount:      discount,
		TotalTax:           tax,
		NetSales:           net,
		TopProducts:        topProducts,
		TimeRangeStartDate: start,
		TimeRangeEndDate:   end,
	}, nil
}

func (s *reportService) CollectionsSummary(ctx context.Context, startDate, endDate string) (*model.CollectionsSummary, error) {
	start, end, err := parseRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	received, paid, byMode, err := s.reportRepo.PaymentTotals(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate payments: %w", err)
	}

	return &model.CollectionsSummary{
		TotalReceived: received,
		TotalPaid:     paid,
		ByMode:        byMode,
		StartDate:     start,
		EndDate:       end,
	}, nil
}

// parseRange turns YYYY-MM-DD bounds into an inclusive [start, end-of-day]
// window, defaulting to the current month when both are empty.
func parseRange(startDate, endDate string) (time.Time, time.Time, error) {
	now := time.Now()

	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := now
	var err error

	if startDate != "" {
		start, err = time.Parse("2006-01-02", startDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date: %w", err)
		}
	}
	if endDate != "" {
		end, err = time.Parse("2006-01-02", endDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date: %w", err)
		}
		end = end.Add(24*time.Hour - time.Nanosecond)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end_date is before start_date")
	}
	return start, end, nil
}
