package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"vexpense/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no expense exists for the requested id.
var ErrNotFound = errors.New("expense not found")

// SQLiteRepository is the record store: one append-mostly expenses table.
type SQLiteRepository struct {
	db   *sql.DB
	path string
}

// NewSQLiteRepository opens (creating if needed) the database at dbPath and
// brings the schema up to date. Opening an existing database leaves its
// rows untouched.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
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

	return &SQLiteRepository{db: db, path: dbPath}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const insertExpenseSQL = `
INSERT INTO expenses (
	vehicle_type, category, project_number, type,
	quantity, price_per_unit, additional_cost,
	product_name, vendor, description, price, file_path, file_data
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// Insert appends one expense row and returns its auto-assigned id.
// The row is committed before Insert returns.
func (r *SQLiteRepository) Insert(ctx context.Context, e core.Expense) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertExpenseSQL,
		e.VehicleType, e.Category, e.ProjectNumber, e.Type,
		e.Quantity.InexactFloat64(), e.PricePerUnit.InexactFloat64(), e.AdditionalCost.InexactFloat64(),
		e.ProductName, e.Vendor, e.Description, e.Price.InexactFloat64(), e.FilePath, e.FileData)
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("expense id: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", id,
		"vehicle_type", e.VehicleType,
		"category", e.Category,
		"price", e.Price.StringFixed(3))

	return id, nil
}

const selectExpenseSQL = `
SELECT id, vehicle_type, category, project_number, type,
	quantity, price_per_unit, additional_cost,
	product_name, vendor, description, price, file_path, file_data
FROM expenses`

// ListExpenses returns every expense ordered by id.
func (r *SQLiteRepository) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, selectExpenseSQL+" ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return expenses, nil
}

// GetExpense retrieves a single expense by id, or ErrNotFound.
func (r *SQLiteRepository) GetExpense(ctx context.Context, id int64) (*core.Expense, error) {
	row := r.db.QueryRowContext(ctx, selectExpenseSQL+" WHERE id = ?", id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get expense by id: %w", err)
	}
	return &e, nil
}

// DatabaseBytes reads the raw database file for the download endpoint.
func (r *SQLiteRepository) DatabaseBytes() ([]byte, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read database file: %w", err)
	}
	return data, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanExpense tolerates NULLs in every non-id column so databases written
// by earlier tooling remain readable.
func scanExpense(row rowScanner) (core.Expense, error) {
	var e core.Expense
	var vehicleType, category, projectNumber, typ sql.NullString
	var productName, vendor, description, filePath sql.NullString
	var quantity, pricePerUnit, additional, price sql.NullFloat64

	err := row.Scan(&e.ID, &vehicleType, &category, &projectNumber, &typ,
		&quantity, &pricePerUnit, &additional,
		&productName, &vendor, &description, &price, &filePath, &e.FileData)
	if err != nil {
		return core.Expense{}, err
	}

	e.VehicleType = vehicleType.String
	e.Category = category.String
	e.ProjectNumber = projectNumber.String
	e.Type = typ.String
	e.ProductName = productName.String
	e.Vendor = vendor.String
	e.Description = description.String
	e.FilePath = filePath.String
	e.Quantity = decimalFromReal(quantity)
	e.PricePerUnit = decimalFromReal(pricePerUnit)
	e.AdditionalCost = decimalFromReal(additional)
	e.Price = decimalFromReal(price)
	return e, nil
}

func decimalFromReal(v sql.NullFloat64) decimal.Decimal {
	if !v.Valid {
		return decimal.Zero
	}
	// Stored values were rounded to 3 places before insert.
	return decimal.NewFromFloat(v.Float64).Round(3)
}
