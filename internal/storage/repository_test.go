package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"pesa/internal/core"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "pesa_test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func categoryID(t *testing.T, repo *Repository, name string) int64 {
	t.Helper()
	cats, err := repo.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	for _, c := range cats {
		if c.Name == name {
			return c.ID
		}
	}
	t.Fatalf("seed category %q missing", name)
	return 0
}

func insertExpense(t *testing.T, repo *Repository, cents int64, category, date string) int64 {
	t.Helper()
	d, err := core.ParseDate(date)
	if err != nil {
		t.Fatalf("parse %q: %v", date, err)
	}
	id, err := repo.CreateExpense(context.Background(), core.Expense{
		Amount:     core.Money{Cents: cents},
		CategoryID: categoryID(t, repo, category),
		Date:       d,
	})
	if err != nil {
		t.Fatalf("create expense: %v", err)
	}
	return id
}

func TestMigrationsSeedCategories(t *testing.T) {
	repo := openTestRepo(t)
	cats, err := repo.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	want := []string{"Bills", "Entertainment", "Food", "Shopping", "Transport"}
	if len(cats) != len(want) {
		t.Fatalf("got %d categories, want %d", len(cats), len(want))
	}
	for i, name := range want {
		if cats[i].Name != name {
			t.Fatalf("category %d = %q, want %q (name ordering)", i, cats[i].Name, name)
		}
	}
}

func TestCreateCategoryRejectsDuplicateName(t *testing.T) {
	repo := openTestRepo(t)
	if _, err := repo.CreateCategory(context.Background(), "Food"); err == nil {
		t.Fatal("duplicate category name must fail the unique constraint")
	}
}

func TestMonthSummaryScenario(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	insertExpense(t, repo, 25000, "Food", "2024-03-05")
	insertExpense(t, repo, 10000, "Transport", "2024-03-20")
	insertExpense(t, repo, 99900, "Bills", "2024-04-01") // outside the half-open range

	march := core.MonthRange(2024, time.March)
	total, err := repo.SumExpenses(ctx, march, nil)
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if total != 35000 {
		t.Fatalf("total = %d, want 35000", total)
	}

	byCat, err := repo.SumByCategory(ctx, march, nil)
	if err != nil {
		t.Fatalf("sum by category: %v", err)
	}
	if len(byCat) != 2 {
		t.Fatalf("rows = %d, want 2 (sparse breakdown)", len(byCat))
	}
	if byCat[0].Category != "Food" || byCat[0].Total.Cents != 25000 {
		t.Fatalf("row 0 = %+v", byCat[0])
	}
	if byCat[1].Category != "Transport" || byCat[1].Total.Cents != 10000 {
		t.Fatalf("row 1 = %+v", byCat[1])
	}
}

func TestSumMatchesListTotal(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	insertExpense(t, repo, 1, "Food", "2024-03-01")
	insertExpense(t, repo, 4999, "Food", "2024-03-15")
	insertExpense(t, repo, 123, "Shopping", "2024-03-31")

	march := core.MonthRange(2024, time.March)
	sum, err := repo.SumExpenses(ctx, march, nil)
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	rows, err := repo.ListExpenses(ctx, march, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var manual int64
	for _, row := range rows {
		manual += row.Amount.Cents
	}
	if manual != sum {
		t.Fatalf("list total %d != sum query %d", manual, sum)
	}
}

func TestListExpensesOrderAndFilter(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	first := insertExpense(t, repo, 100, "Food", "2024-03-10")
	second := insertExpense(t, repo, 200, "Food", "2024-03-10")
	insertExpense(t, repo, 300, "Transport", "2024-03-12")

	march := core.MonthRange(2024, time.March)
	rows, err := repo.ListExpenses(ctx, march, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d", len(rows))
	}
	// Date desc, then id desc on the shared date.
	if rows[0].Date.String() != "2024-03-12" {
		t.Fatalf("row 0 date = %s", rows[0].Date)
	}
	if rows[1].ID != second || rows[2].ID != first {
		t.Fatalf("tie-break wrong: %d, %d", rows[1].ID, rows[2].ID)
	}
	if rows[0].CategoryName != "Transport" {
		t.Fatalf("joined name = %q", rows[0].CategoryName)
	}

	foodID := categoryID(t, repo, "Food")
	filtered, err := repo.ListExpenses(ctx, march, &foodID)
	if err != nil {
		t.Fatalf("filtered list: %v", err)
	}
	if len(filtered) != 2 {
		t.Fatalf("filtered rows = %d", len(filtered))
	}
}

func TestSumByDayGroupsSparsely(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	insertExpense(t, repo, 1200, "Food", "2024-03-04")
	insertExpense(t, repo, 300, "Transport", "2024-03-04")
	insertExpense(t, repo, 800, "Food", "2024-03-08")

	week := core.WeekRange(core.NewDate(2024, time.March, 6))
	sums, err := repo.SumByDay(ctx, week, nil)
	if err != nil {
		t.Fatalf("sum by day: %v", err)
	}
	if len(sums) != 2 {
		t.Fatalf("days with spend = %d, want 2", len(sums))
	}
	if sums["2024-03-04"] != 1500 || sums["2024-03-08"] != 800 {
		t.Fatalf("sums = %v", sums)
	}
}

func TestExpenseCRUDRoundTrip(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	id := insertExpense(t, repo, 2500, "Food", "2024-03-05")

	e, err := repo.GetExpense(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if e.Amount.Cents != 2500 || e.Date.String() != "2024-03-05" || e.Note != "" {
		t.Fatalf("fetched expense = %+v", e)
	}

	e.Amount.Cents = 2600
	e.Note = "dinner"
	if err := repo.UpdateExpense(ctx, e); err != nil {
		t.Fatalf("update: %v", err)
	}
	e2, err := repo.GetExpense(ctx, id)
	if err != nil {
		t.Fatalf("re-get: %v", err)
	}
	if e2.Amount.Cents != 2600 || e2.Note != "dinner" {
		t.Fatalf("update not persisted: %+v", e2)
	}

	if err := repo.DeleteExpense(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetExpense(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestNotFoundSentinel(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	if _, err := repo.GetExpense(ctx, 12345); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get: %v", err)
	}
	if err := repo.DeleteExpense(ctx, 12345); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.UpdateExpense(ctx, core.Expense{
		ID:         12345,
		Amount:     core.Money{Cents: 100},
		CategoryID: 1,
		Date:       core.NewDate(2024, time.March, 5),
	}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update: %v", err)
	}
	if _, err := repo.GetCategory(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get category: %v", err)
	}
}

func TestDanglingCategoryReferenceRejected(t *testing.T) {
	repo := openTestRepo(t)
	_, err := repo.CreateExpense(context.Background(), core.Expense{
		Amount:     core.Money{Cents: 100},
		CategoryID: 999,
		Date:       core.NewDate(2024, time.March, 5),
	})
	if err == nil {
		t.Fatal("foreign key must reject a dangling category reference")
	}
}
