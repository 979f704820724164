// Package storage is the SQLite-backed expense store. It owns the canonical
// Category and Expense rows and answers the range/grouped-sum queries the
// report engine depends on.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"pesa/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound marks a lookup by id that matched no row. Distinct from
// validation errors so callers can render "not found" versus "bad input".
var ErrNotFound = errors.New("record not found")

const createdAtLayout = "2006-01-02 15:04:05"

type Repository struct {
	db *sql.DB
}

// Open creates the database file if needed, runs migrations and returns a
// ready repository. Foreign keys are enforced on every connection, which is
// what restricts deleting a category that still has expenses.
func Open(dbPath string) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ListCategories returns all categories ordered by name.
func (r *Repository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []core.Category
	for rows.Next() {
		var c core.Category
		var created string
		if err := rows.Scan(&c.ID, &c.Name, &created); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.CreatedAt, _ = time.Parse(createdAtLayout, created)
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return cats, nil
}

// GetCategory looks a category up by id, returning ErrNotFound when absent.
func (r *Repository) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	var c core.Category
	var created string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM categories WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, ErrNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category %d: %w", id, err)
	}
	c.CreatedAt, _ = time.Parse(createdAtLayout, created)
	return c, nil
}

// CreateCategory inserts a new category. The unique name constraint rejects
// duplicates at the store level.
func (r *Repository) CreateCategory(ctx context.Context, name string) (core.Category, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (name) VALUES (?)`, name)
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Category{}, fmt.Errorf("category insert id: %w", err)
	}
	slog.InfoContext(ctx, "category created", "id", id, "name", name)
	return r.GetCategory(ctx, id)
}

// ListExpenses returns expenses in [p.Start, p.End), optionally filtered by
// category, joined with category names, newest first with id as tie-break.
func (r *Repository) ListExpenses(ctx context.Context, p core.Period, categoryID *int64) ([]core.ExpenseRow, error) {
	query := `SELECT e.id, e.amount, e.expense_date, e.note, c.id, c.name
		FROM expenses e
		JOIN categories c ON c.id = e.category_id
		WHERE e.expense_date >= ? AND e.expense_date < ?`
	args := []any{p.Start.String(), p.End.String()}
	if categoryID != nil {
		query += ` AND e.category_id = ?`
		args = append(args, *categoryID)
	}
	query += ` ORDER BY e.expense_date DESC, e.id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []core.ExpenseRow
	for rows.Next() {
		var row core.ExpenseRow
		var dateStr string
		var note sql.NullString
		if err := rows.Scan(&row.ID, &row.Amount.Cents, &dateStr, &note, &row.CategoryID, &row.CategoryName); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		row.Date, err = core.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("stored date %q: %w", dateStr, err)
		}
		row.Note = note.String
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return out, nil
}

// GetExpense fetches one expense by id for edit, ErrNotFound when absent.
func (r *Repository) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	var e core.Expense
	var dateStr, created string
	var note sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, amount, category_id, expense_date, note, created_at
		 FROM expenses WHERE id = ?`, id).
		Scan(&e.ID, &e.Amount.Cents, &e.CategoryID, &dateStr, &note, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense %d: %w", id, err)
	}
	e.Date, err = core.ParseDate(dateStr)
	if err != nil {
		return core.Expense{}, fmt.Errorf("stored date %q: %w", dateStr, err)
	}
	e.Note = note.String
	e.CreatedAt, _ = time.Parse(createdAtLayout, created)
	return e, nil
}

// CreateExpense inserts a validated expense and returns its new id.
func (r *Repository) CreateExpense(ctx context.Context, e core.Expense) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (amount, category_id, expense_date, note)
		 VALUES (?, ?, ?, ?)`,
		e.Amount.Cents, e.CategoryID, e.Date.String(), nullableNote(e.Note))
	if err != nil {
		return 0, fmt.Errorf("create expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("expense insert id: %w", err)
	}
	slog.InfoContext(ctx, "expense created",
		"id", id,
		"amount_cents", e.Amount.Cents,
		"category_id", e.CategoryID,
		"date", e.Date.String())
	return id, nil
}

// UpdateExpense rewrites the mutable fields of an existing expense.
func (r *Repository) UpdateExpense(ctx context.Context, e core.Expense) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET amount = ?, category_id = ?, expense_date = ?, note = ?
		 WHERE id = ?`,
		e.Amount.Cents, e.CategoryID, e.Date.String(), nullableNote(e.Note), e.ID)
	if err != nil {
		return fmt.Errorf("update expense %d: %w", e.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update expense %d: %w", e.ID, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteExpense removes one expense by id.
func (r *Repository) DeleteExpense(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	slog.InfoContext(ctx, "expense deleted", "id", id)
	return nil
}

// SumExpenses implements the scalar total of the report.Store contract.
// Numerically identical to summing ListExpenses rows; the database just does
// it in one pass.
func (r *Repository) SumExpenses(ctx context.Context, p core.Period, categoryID *int64) (int64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM expenses
		WHERE expense_date >= ? AND expense_date < ?`
	args := []any{p.Start.String(), p.End.String()}
	if categoryID != nil {
		query += ` AND category_id = ?`
		args = append(args, *categoryID)
	}
	var total int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum expenses: %w", err)
	}
	return total, nil
}

// SumByCategory implements the grouped-sum query: one row per category with
// at least one matching expense, ordered total desc then name asc.
func (r *Repository) SumByCategory(ctx context.Context, p core.Period, categoryID *int64) ([]core.CategoryTotal, error) {
	query := `SELECT c.name, COALESCE(SUM(e.amount), 0) AS total
		FROM expenses e
		JOIN categories c ON c.id = e.category_id
		WHERE e.expense_date >= ? AND e.expense_date < ?`
	args := []any{p.Start.String(), p.End.String()}
	if categoryID != nil {
		query += ` AND e.category_id = ?`
		args = append(args, *categoryID)
	}
	query += ` GROUP BY c.name ORDER BY total DESC, c.name ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sum by category: %w", err)
	}
	defer rows.Close()

	var out []core.CategoryTotal
	for rows.Next() {
		var ct core.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total.Cents); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		out = append(out, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category totals: %w", err)
	}
	return out, nil
}

// SumByDay returns per-day totals keyed by the stored YYYY-MM-DD date, only
// for days with matching expenses. Zero-filling is the report engine's job.
func (r *Repository) SumByDay(ctx context.Context, p core.Period, categoryID *int64) (map[string]int64, error) {
	query := `SELECT expense_date, COALESCE(SUM(amount), 0) FROM expenses
		WHERE expense_date >= ? AND expense_date < ?`
	args := []any{p.Start.String(), p.End.String()}
	if categoryID != nil {
		query += ` AND category_id = ?`
		args = append(args, *categoryID)
	}
	query += ` GROUP BY expense_date`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sum by day: %w", err)
	}
	defer rows.Close()

	sums := make(map[string]int64)
	for rows.Next() {
		var day string
		var total int64
		if err := rows.Scan(&day, &total); err != nil {
			return nil, fmt.Errorf("scan day total: %w", err)
		}
		sums[day] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate day totals: %w", err)
	}
	return sums, nil
}

func nullableNote(note string) any {
	if note == "" {
		return nil
	}
	return note
}
