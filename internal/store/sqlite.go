package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // register sqlite driver

	"github.com/finsight/backend/internal/model"
)

const dateLayout = "2006-01-02"

// SQLiteStore implements Store backed by a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at the given path and applies
// the schema.
func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateTransaction(ctx context.Context, txn *model.Transaction) error {
	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = now
	}
	txn.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions
		(id, user_id, description, amount, date, category, is_recurring, recurring_frequency,
		 is_anomaly, anomaly_score, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		txn.ID, txn.UserID, txn.Description, txn.Amount, txn.Day().Format(dateLayout),
		txn.Category, boolToInt(txn.IsRecurring), string(txn.RecurringFrequency),
		boolToInt(txn.IsAnomaly), txn.AnomalyScore, txn.Notes,
		txn.CreatedAt.Format(time.RFC3339), txn.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting transaction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetTransaction(ctx context.Context, txnID string) (*model.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, description, amount, date, category, is_recurring,
		       recurring_frequency, is_anomaly, anomaly_score, notes, created_at, updated_at
		FROM transactions WHERE id = ?`, txnID)
	txn, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return txn, err
}

func (s *SQLiteStore) UpdateTransaction(ctx context.Context, txn *model.Transaction) error {
	txn.UpdatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		UPDATE transactions
		SET description = ?, amount = ?, date = ?, category = ?, is_recurring = ?,
		    recurring_frequency = ?, is_anomaly = ?, anomaly_score = ?, notes = ?, updated_at = ?
		WHERE id = ?`,
		txn.Description, txn.Amount, txn.Day().Format(dateLayout), txn.Category,
		boolToInt(txn.IsRecurring), string(txn.RecurringFrequency),
		boolToInt(txn.IsAnomaly), txn.AnomalyScore, txn.Notes,
		txn.UpdatedAt.Format(time.RFC3339), txn.ID)
	if err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) ListTransactions(ctx context.Context, userID string, startDate, endDate *time.Time) ([]*model.Transaction, error) {
	query := `
		SELECT id, user_id, description, amount, date, category, is_recurring,
		       recurring_frequency, is_anomaly, anomaly_score, notes, created_at, updated_at
		FROM transactions WHERE user_id = ?`
	args := []any{userID}
	if startDate != nil {
		query += " AND date >= ?"
		args = append(args, model.Day(*startDate).Format(dateLayout))
	}
	if endDate != nil {
		query += " AND date <= ?"
		args = append(args, model.Day(*endDate).Format(dateLayout))
	}
	query += " ORDER BY date ASC, id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []*model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, txn)
	}
	return result, rows.Err()
}

func (s *SQLiteStore) CreateRecurringPayment(ctx context.Context, rp *model.RecurringPayment) error {
	if rp.ID == "" {
		rp.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if rp.CreatedAt.IsZero() {
		rp.CreatedAt = now
	}
	rp.UpdatedAt = now

	var endDate any
	if rp.EndDate != nil {
		endDate = model.Day(*rp.EndDate).Format(dateLayout)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO recurring_payments
		(id, user_id, name, amount, category, frequency, due_day, start_date, end_date,
		 is_active, auto_detected, confirmed_by_user, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rp.ID, rp.UserID, rp.Name, rp.Amount, rp.Category, string(rp.Frequency), rp.DueDay,
		model.Day(rp.StartDate).Format(dateLayout), endDate,
		boolToInt(rp.IsActive), boolToInt(rp.AutoDetected), boolToInt(rp.ConfirmedByUser),
		rp.CreatedAt.Format(time.RFC3339), rp.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting recurring payment: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetRecurringPayment(ctx context.Context, rpID string) (*model.RecurringPayment, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, amount, category, frequency, due_day, start_date, end_date,
		       is_active, auto_detected, confirmed_by_user, created_at, updated_at
		FROM recurring_payments WHERE id = ?`, rpID)
	rp, err := scanRecurringPayment(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return rp, err
}

func (s *SQLiteStore) UpdateRecurringPayment(ctx context.Context, rp *model.RecurringPayment) error {
	rp.UpdatedAt = time.Now().UTC()
	var endDate any
	if rp.EndDate != nil {
		endDate = model.Day(*rp.EndDate).Format(dateLayout)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE recurring_payments
		SET name = ?, amount = ?, category = ?, frequency = ?, due_day = ?, start_date = ?,
		    end_date = ?, is_active = ?, auto_detected = ?, confirmed_by_user = ?, updated_at = ?
		WHERE id = ?`,
		rp.Name, rp.Amount, rp.Category, string(rp.Frequency), rp.DueDay,
		model.Day(rp.StartDate).Format(dateLayout), endDate,
		boolToInt(rp.IsActive), boolToInt(rp.AutoDetected), boolToInt(rp.ConfirmedByUser),
		rp.UpdatedAt.Format(time.RFC3339), rp.ID)
	if err != nil {
		return fmt.Errorf("updating recurring payment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) ListRecurringPayments(ctx context.Context, userID string, activeOnly bool) ([]*model.RecurringPayment, error) {
	query := `
		SELECT id, user_id, name, amount, category, frequency, due_day, start_date, end_date,
		       is_active, auto_detected, confirmed_by_user, created_at, updated_at
		FROM recurring_payments WHERE user_id = ?`
	args := []any{userID}
	if activeOnly {
		query += " AND is_active = 1"
	}
	query += " ORDER BY due_day ASC, name ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing recurring payments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []*model.RecurringPayment
	for rows.Next() {
		rp, err := scanRecurringPayment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rp)
	}
	return result, rows.Err()
}

func (s *SQLiteStore) UpsertPendingConfirmation(ctx context.Context, pc *model.PendingConfirmation) error {
	if pc.ID == "" {
		pc.ID = uuid.New().String()
	}
	if pc.CreatedAt.IsZero() {
		pc.CreatedAt = time.Now().UTC()
	}
	ids, err := json.Marshal(pc.TransactionIDs)
	if err != nil {
		return fmt.Errorf("encoding transaction ids: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning upsert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM pending_confirmations WHERE user_id = ? AND description = ? COLLATE NOCASE`,
		pc.UserID, pc.Description); err != nil {
		return fmt.Errorf("replacing pending confirmation: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO pending_confirmations
		(id, user_id, description, amount, frequency, confidence, transaction_ids, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		pc.ID, pc.UserID, pc.Description, pc.Amount, string(pc.Frequency), pc.Confidence,
		string(ids), pc.CreatedAt.Format(time.RFC3339)); err != nil {
		return fmt.Errorf("inserting pending confirmation: %w", err)
	}
	return tx.Commit()
}

func (s *SQLiteStore) GetPendingConfirmation(ctx context.Context, pcID string) (*model.PendingConfirmation, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, description, amount, frequency, confidence, transaction_ids, created_at
		FROM pending_confirmations WHERE id = ?`, pcID)
	pc, err := scanPendingConfirmation(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return pc, err
}

func (s *SQLiteStore) ListPendingConfirmations(ctx context.Context, userID string) ([]*model.PendingConfirmation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, description, amount, frequency, confidence, transaction_ids, created_at
		FROM pending_confirmations WHERE user_id = ?
		ORDER BY confidence DESC, description ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing pending confirmations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []*model.PendingConfirmation
	for rows.Next() {
		pc, err := scanPendingConfirmation(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, pc)
	}
	return result, rows.Err()
}

func (s *SQLiteStore) DeletePendingConfirmation(ctx context.Context, pcID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM pending_confirmations WHERE id = ?`, pcID)
	if err != nil {
		return fmt.Errorf("deleting pending confirmation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for the scan helpers.
type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(sc scanner) (*model.Transaction, error) {
	var (
		txn       model.Transaction
		date      string
		category  sql.NullString
		freq      sql.NullString
		recurring int
		anomaly   int
		score     sql.NullFloat64
		notes     sql.NullString
		createdAt string
		updatedAt string
	)
	if err := sc.Scan(&txn.ID, &txn.UserID, &txn.Description, &txn.Amount, &date, &category,
		&recurring, &freq, &anomaly, &score, &notes, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	txn.Date, err = time.ParseInLocation(dateLayout, date, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("parsing transaction date %q: %w", date, err)
	}
	txn.Category = category.String
	txn.RecurringFrequency = model.Frequency(freq.String)
	txn.IsRecurring = recurring != 0
	txn.IsAnomaly = anomaly != 0
	txn.AnomalyScore = score.Float64
	txn.Notes = notes.String
	txn.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	txn.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &txn, nil
}

func scanRecurringPayment(sc scanner) (*model.RecurringPayment, error) {
	var (
		rp        model.RecurringPayment
		category  sql.NullString
		freq      string
		startDate string
		endDate   sql.NullString
		active    int
		auto      int
		confirmed int
		createdAt string
		updatedAt string
	)
	if err := sc.Scan(&rp.ID, &rp.UserID, &rp.Name, &rp.Amount, &category, &freq, &rp.DueDay,
		&startDate, &endDate, &active, &auto, &confirmed, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	rp.StartDate, err = time.ParseInLocation(dateLayout, startDate, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("parsing start date %q: %w", startDate, err)
	}
	if endDate.Valid && endDate.String != "" {
		end, err := time.ParseInLocation(dateLayout, endDate.String, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parsing end date %q: %w", endDate.String, err)
		}
		rp.EndDate = &end
	}
	rp.Category = category.String
	rp.Frequency = model.Frequency(freq)
	rp.IsActive = active != 0
	rp.AutoDetected = auto != 0
	rp.ConfirmedByUser = confirmed != 0
	rp.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	rp.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &rp, nil
}

func scanPendingConfirmation(sc scanner) (*model.PendingConfirmation, error) {
	var (
		pc        model.PendingConfirmation
		freq      string
		ids       string
		createdAt string
	)
	if err := sc.Scan(&pc.ID, &pc.UserID, &pc.Description, &pc.Amount, &freq, &pc.Confidence,
		&ids, &createdAt); err != nil {
		return nil, err
	}
	pc.Frequency = model.Frequency(freq)
	if ids != "" {
		if err := json.Unmarshal([]byte(ids), &pc.TransactionIDs); err != nil {
			return nil, fmt.Errorf("decoding transaction ids: %w", err)
		}
	}
	pc.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &pc, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
