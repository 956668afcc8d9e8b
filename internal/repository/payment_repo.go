package repository

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/MboaMarket/mboa_api/internal/models"
)

// PaymentRepository handles data access for boost payments.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository creates a new PaymentRepository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create inserts a payment row in pending status.
func (r *PaymentRepository) Create(p *models.Payment) error {
	const q = `
        INSERT INTO payments (
            payment_id, reference, user_id, listing_id, tier, days, amount_xaf,
            phone, operator, provider, status, next_check_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(q,
		p.PaymentID, p.Reference, p.UserID, p.ListingID, p.Tier, p.Days, p.AmountXAF,
		p.Phone, p.Operator, p.Provider, p.Status, p.NextCheckAt,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// Update persists status, provider reference and poller bookkeeping.
func (r *PaymentRepository) Update(p *models.Payment) error {
	const q = `
        UPDATE payments SET
            provider_ref = $2,
            status = $3,
            failed_reason = $4,
            attempts = $5,
            next_check_at = $6,
            compensation_required = $7,
            processed_at = $8,
            updated_at = NOW()
        WHERE id = $1`
	_, err := r.db.Exec(q,
		p.ID, p.ProviderRef, p.Status, p.FailedReason,
		p.Attempts, p.NextCheckAt, p.CompensationRequired, p.ProcessedAt,
	)
	return err
}

// GetByPaymentID returns a payment by its public MBA- identifier.
func (r *PaymentRepository) GetByPaymentID(paymentID string) (*models.Payment, error) {
	const q = `SELECT * FROM payments WHERE payment_id = $1 LIMIT 1`
	stmt, err := r.db.Preparex(q)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()
	var p models.Payment
	if err := stmt.Get(&p, paymentID); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByReference returns a payment by the reference sent to the provider.
func (r *PaymentRepository) GetByReference(reference string) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.Get(&p, `SELECT * FROM payments WHERE reference = $1 LIMIT 1`, reference); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByProviderRef returns a payment by the provider's transaction id.
func (r *PaymentRepository) GetByProviderRef(providerRef string) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.Get(&p, `SELECT * FROM payments WHERE provider_ref = $1 LIMIT 1`, providerRef); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetDuePending claims pending payments whose next check is due.
// Uses SKIP LOCKED to avoid duplicate processing by concurrent workers.
func (r *PaymentRepository) GetDuePending(limit int) ([]models.Payment, error) {
	const q = `
        SELECT * FROM payments
        WHERE status = 'pending'
          AND provider_ref IS NOT NULL
          AND next_check_at IS NOT NULL
          AND next_check_at <= NOW()
        ORDER BY next_check_at ASC
        LIMIT $1
        FOR UPDATE SKIP LOCKED`

	stmt, err := r.db.Preparex(q)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()
	var list []models.Payment
	if err := stmt.Select(&list, limit); err != nil {
		return nil, err
	}
	return list, nil
}

// GetCompensationRequired returns successful payments still missing a boost.
func (r *PaymentRepository) GetCompensationRequired(limit int) ([]models.Payment, error) {
	const q = `
        SELECT * FROM payments
        WHERE compensation_required = true AND status = 'success'
        ORDER BY updated_at ASC
        LIMIT $1
        FOR UPDATE SKIP LOCKED`
	var list []models.Payment
	if err := r.db.Select(&list, q, limit); err != nil {
		return nil, err
	}
	return list, nil
}

// GeneratePaymentID returns an ID like MBA-YYYYMMDD-NNNNNN using the
// Africa/Douala date. Date and sequence come from the DB to avoid host
// timezone mismatches.
func (r *PaymentRepository) GeneratePaymentID() (string, error) {
	const seqQ = `
        SELECT COALESCE(MAX(
            CAST(SUBSTRING(payment_id FROM 14) AS INT)
        ), 0) + 1
        FROM payments
        WHERE payment_id LIKE 'MBA-' || TO_CHAR(NOW() AT TIME ZONE 'Africa/Douala', 'YYYYMMDD') || '-%'`

	stmt, err := r.db.Preparex(seqQ)
	if err != nil {
		return "", err
	}
	defer stmt.Close()
	var next int
	if err := stmt.Get(&next); err != nil {
		return "", err
	}

	const dateQ = `SELECT TO_CHAR(NOW() AT TIME ZONE 'Africa/Douala', 'YYYYMMDD')`
	var ymd string
	if err := r.db.Get(&ymd, dateQ); err != nil {
		return "", err
	}
	return fmt.Sprintf("MBA-%s-%06d", ymd, next), nil
}

// AdminPaymentStats aggregates payment counts and revenue for the admin
// dashboard.
type AdminPaymentStats struct {
	TotalPayments     int   `db:"total_payments" json:"totalPayments"`
	SuccessPayments   int   `db:"success_payments" json:"successPayments"`
	FailedPayments    int   `db:"failed_payments" json:"failedPayments"`
	PendingPayments   int   `db:"pending_payments" json:"pendingPayments"`
	CancelledPayments int   `db:"cancelled_payments" json:"cancelledPayments"`
	TotalRevenueXAF   int64 `db:"total_revenue_xaf" json:"totalRevenueXaf"`
	FeaturedCount     int   `db:"featured_count" json:"featuredCount"`
	PremiumCount      int   `db:"premium_count" json:"premiumCount"`
	TopCount          int   `db:"top_count" json:"topCount"`
}

// DailyRevenue is one day of payment volume.
type DailyRevenue struct {
	Date       string `db:"date" json:"date"`
	Total      int    `db:"total" json:"total"`
	Success    int    `db:"success" json:"success"`
	Failed     int    `db:"failed" json:"failed"`
	RevenueXAF int64  `db:"revenue_xaf" json:"revenueXaf"`
}

// GetAdminStats returns payment statistics for admin.
func (r *PaymentRepository) GetAdminStats(startDate, endDate *string) (*AdminPaymentStats, error) {
	q := `SELECT
            COUNT(*) as total_payments,
            COUNT(*) FILTER (WHERE status = 'success') as success_payments,
            COUNT(*) FILTER (WHERE status = 'failed') as failed_payments,
            COUNT(*) FILTER (WHERE status = 'pending') as pending_payments,
            COUNT(*) FILTER (WHERE status = 'cancelled') as cancelled_payments,
            COALESCE(SUM(amount_xaf) FILTER (WHERE status = 'success'), 0) as total_revenue_xaf,
            COUNT(*) FILTER (WHERE tier = 'featured' AND status = 'success') as featured_count,
            COUNT(*) FILTER (WHERE tier = 'premium' AND status = 'success') as premium_count,
            COUNT(*) FILTER (WHERE tier = 'top' AND status = 'success') as top_count
          FROM payments
          WHERE 1=1`

	args := []interface{}{}
	argIdx := 1

	if startDate != nil && *startDate != "" {
		q += fmt.Sprintf(" AND created_at >= $%d::date", argIdx)
		args = append(args, *startDate)
		argIdx++
	}
	if endDate != nil && *endDate != "" {
		q += fmt.Sprintf(" AND created_at < ($%d::date + interval '1 day')", argIdx)
		args = append(args, *endDate)
		argIdx++
	}

	var stats AdminPaymentStats
	if err := r.db.Get(&stats, q, args...); err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetDailyRevenue returns daily payment statistics for the given period.
func (r *PaymentRepository) GetDailyRevenue(startDate, endDate *string) ([]DailyRevenue, error) {
	q := `SELECT
            TO_CHAR(created_at AT TIME ZONE 'Africa/Douala', 'YYYY-MM-DD') as date,
            COUNT(*) as total,
            COUNT(*) FILTER (WHERE status = 'success') as success,
            COUNT(*) FILTER (WHERE status = 'failed') as failed,
            COALESCE(SUM(amount_xaf) FILTER (WHERE status = 'success'), 0) as revenue_xaf
          FROM payments
          WHERE 1=1`

	args := []interface{}{}
	argIdx := 1

	if startDate != nil && *startDate != "" {
		q += fmt.Sprintf(" AND created_at >= $%d::date", argIdx)
		args = append(args, *startDate)
		argIdx++
	}
	if endDate != nil && *endDate != "" {
		q += fmt.Sprintf(" AND created_at < ($%d::date + interval '1 day')", argIdx)
		args = append(args, *endDate)
		argIdx++
	}

	q += " GROUP BY TO_CHAR(created_at AT TIME ZONE 'Africa/Douala', 'YYYY-MM-DD') ORDER BY date DESC LIMIT 30"

	var trends []DailyRevenue
	if err := r.db.Select(&trends, q, args...); err != nil {
		return nil, err
	}
	return trends, nil
}

// MarkChecked updates poller bookkeeping after a non-terminal status check.
func (r *PaymentRepository) MarkChecked(id, attempts int, nextCheckAt time.Time) error {
	_, err := r.db.Exec(
		`UPDATE payments SET attempts = $2, next_check_at = $3, updated_at = NOW() WHERE id = $1`,
		id, attempts, nextCheckAt)
	return err
}
