package services

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"vexpense/internal/core"
	"vexpense/internal/files"
	"vexpense/internal/storage"
)

func testService(t *testing.T) *ExpenseService {
	t.Helper()
	dir := t.TempDir()
	repo, err := storage.NewSQLiteRepository(filepath.Join(dir, "expenses.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	svc := NewExpenseService(repo, files.NewStore(filepath.Join(dir, "uploads")))
	t.Cleanup(func() { svc.Close() })
	return svc
}

func fuelRequest() SubmitRequest {
	return SubmitRequest{
		VehicleType: "Car",
		Category:    core.CategoryFuel,
		Fields: core.FieldValues{
			Type:         "Petrol",
			Quantity:     decimal.RequireFromString("10"),
			PricePerUnit: decimal.RequireFromString("0.5"),
			Vendor:       "Shell",
			Description:  "weekly refuel",
		},
		Attachment: []byte("fake-jpeg"),
		Extension:  "jpg",
	}
}

func TestSubmitComputesPriceAndPersists(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	res, err := svc.Submit(ctx, fuelRequest())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if res.Message != "Data saved successfully to the database!" {
		t.Fatalf("unexpected message %q", res.Message)
	}

	got, err := svc.Get(ctx, res.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Price.StringFixed(3) != "5.000" {
		t.Fatalf("computed price = %s, want 5.000", got.Price.StringFixed(3))
	}
	if filepath.Base(got.FilePath) != "Car_Fuel_Petrol_5.000_OMR.jpg" {
		t.Fatalf("unexpected file path %q", got.FilePath)
	}
	data, err := os.ReadFile(got.FilePath)
	if err != nil {
		t.Fatalf("read attachment: %v", err)
	}
	if !bytes.Equal(data, []byte("fake-jpeg")) {
		t.Fatal("attachment bytes mismatch")
	}
	if !bytes.Equal(got.FileData, []byte("fake-jpeg")) {
		t.Fatal("blob column bytes mismatch")
	}
}

func TestSubmitUserEnteredPriceUnmodified(t *testing.T) {
	svc := testService(t)

	req := SubmitRequest{
		VehicleType: "Truck",
		Category:    core.CategoryMaintenance,
		Fields: core.FieldValues{
			Vendor:      "Garage",
			Description: "oil change",
			Price:       decimal.RequireFromString("12.345"),
		},
		Attachment: []byte("pdf"),
		Extension:  "pdf",
	}
	res, err := svc.Submit(context.Background(), req)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	got, err := svc.Get(context.Background(), res.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Price.StringFixed(3) != "12.345" {
		t.Fatalf("price = %s, want 12.345", got.Price.StringFixed(3))
	}
}

func TestSubmitRejectsInvalidWithoutPersisting(t *testing.T) {
	svc := testService(t)

	req := fuelRequest()
	req.Fields.Vendor = ""
	_, err := svc.Submit(context.Background(), req)
	var verr *core.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	records, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
	if _, err := os.Stat(svc.files.Dir()); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("expected no attachment written for rejected submission")
	}
}

func TestSubmitDuplicateFilenamesGetDistinctPaths(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	first, err := svc.Submit(ctx, fuelRequest())
	if err != nil {
		t.Fatalf("submit first: %v", err)
	}
	second, err := svc.Submit(ctx, fuelRequest())
	if err != nil {
		t.Fatalf("submit second: %v", err)
	}

	a, _ := svc.Get(ctx, first.ID)
	b, _ := svc.Get(ctx, second.ID)
	if a.FilePath == b.FilePath {
		t.Fatalf("expected distinct attachment paths, both %q", a.FilePath)
	}
}

func TestExportAll(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	if _, err := svc.Submit(ctx, fuelRequest()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	archive, database, err := svc.ExportAll(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(database) == 0 {
		t.Fatal("expected raw database bytes")
	}

	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	if len(zr.File) != 2 {
		t.Fatalf("expected csv + 1 attachment, got %d entries", len(zr.File))
	}
}
