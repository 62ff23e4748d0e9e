// Package services orchestrates expense operations across the record
// store and the file store.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"vexpense/internal/core"
	"vexpense/internal/export"
	"vexpense/internal/files"
	"vexpense/internal/storage"
)

type ExpenseService struct {
	storage *storage.SQLiteRepository
	files   *files.Store
}

func NewExpenseService(storage *storage.SQLiteRepository, files *files.Store) *ExpenseService {
	return &ExpenseService{
		storage: storage,
		files:   files,
	}
}

// SubmitRequest carries one form submission. Extension is the attachment's
// original file extension without the dot.
type SubmitRequest struct {
	VehicleType string
	Category    string
	Fields      core.FieldValues
	Attachment  []byte
	Extension   string
}

// SubmitResult signals a successful save exactly once per call; the
// presentation layer consumes it directly instead of a shared flag.
type SubmitResult struct {
	ID      int64
	Message string
}

// Submit validates the submission, persists the attachment and inserts the
// record. Validation failures return a core.ValidationError with nothing
// persisted. The file write and the row insert are not transactional
// together: a failure between the two leaves an orphaned file, which is an
// accepted inconsistency window.
func (s *ExpenseService) Submit(ctx context.Context, req SubmitRequest) (SubmitResult, error) {
	f := req.Fields
	f.Quantity = f.Quantity.Round(3)
	f.PricePerUnit = f.PricePerUnit.Round(3)
	f.AdditionalCost = f.AdditionalCost.Round(3)
	if core.PriceComputed(req.Category, f.Type) {
		f.Price = core.ComputePrice(f.Quantity, f.PricePerUnit, f.AdditionalCost)
	} else {
		f.Price = f.Price.Round(3)
	}

	if err := core.Validate(req.VehicleType, req.Category, f, req.Attachment); err != nil {
		return SubmitResult{}, err
	}

	name := core.ReceiptFileName(req.VehicleType, req.Category, f.Type, f.Price, req.Extension)
	path, err := s.files.Save(req.Attachment, name)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("save attachment: %w", err)
	}

	id, err := s.storage.Insert(ctx, core.Expense{
		VehicleType:    req.VehicleType,
		Category:       req.Category,
		ProjectNumber:  f.ProjectNumber,
		Type:           f.Type,
		Quantity:       f.Quantity,
		PricePerUnit:   f.PricePerUnit,
		AdditionalCost: f.AdditionalCost,
		ProductName:    f.ProductName,
		Vendor:         f.Vendor,
		Description:    f.Description,
		Price:          f.Price,
		FilePath:       path,
		FileData:       req.Attachment,
	})
	if err != nil {
		return SubmitResult{}, fmt.Errorf("save expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense submitted",
		"id", id,
		"category", req.Category,
		"file_path", path)

	return SubmitResult{
		ID:      id,
		Message: "Data saved successfully to the database!",
	}, nil
}

// List returns all expenses ordered by id.
func (s *ExpenseService) List(ctx context.Context) ([]core.Expense, error) {
	return s.storage.ListExpenses(ctx)
}

// Get returns a single expense or storage.ErrNotFound.
func (s *ExpenseService) Get(ctx context.Context, id int64) (*core.Expense, error) {
	return s.storage.GetExpense(ctx, id)
}

// ExportAll builds the downloadable archive (CSV + content directory) and
// reads the raw database file.
func (s *ExpenseService) ExportAll(ctx context.Context) (archive []byte, database []byte, err error) {
	records, err := s.storage.ListExpenses(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list expenses for export: %w", err)
	}

	archive, err = export.Archive(records, s.files.Dir())
	if err != nil {
		return nil, nil, fmt.Errorf("build archive: %w", err)
	}

	database, err = s.storage.DatabaseBytes()
	if err != nil {
		return nil, nil, fmt.Errorf("read database for export: %w", err)
	}

	slog.InfoContext(ctx, "Export built",
		"records", len(records),
		"archive_bytes", len(archive),
		"database_bytes", len(database))

	return archive, database, nil
}

func (s *ExpenseService) Close() error {
	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			return fmt.Errorf("close storage: %w", err)
		}
	}
	return nil
}
