package export

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"vexpense/internal/core"
)

func openArchive(t *testing.T, data []byte) *zip.Reader {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	return zr
}

func readEntry(t *testing.T, zr *zip.Reader, name string) []byte {
	t.Helper()
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				t.Fatalf("open entry %s: %v", name, err)
			}
			defer rc.Close()
			data, err := io.ReadAll(rc)
			if err != nil {
				t.Fatalf("read entry %s: %v", name, err)
			}
			return data
		}
	}
	t.Fatalf("entry %s not found", name)
	return nil
}

func TestArchiveEmpty(t *testing.T) {
	data, err := Archive(nil, filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("archive: %v", err)
	}

	zr := openArchive(t, data)
	if len(zr.File) != 1 {
		t.Fatalf("expected only the csv entry, got %d entries", len(zr.File))
	}

	records, err := csv.NewReader(bytes.NewReader(readEntry(t, zr, CSVName))).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected header-only csv, got %d rows", len(records))
	}
}

func TestArchiveContents(t *testing.T) {
	uploads := t.TempDir()
	if err := os.WriteFile(filepath.Join(uploads, "r.jpg"), []byte("jpeg-bytes"), 0644); err != nil {
		t.Fatal(err)
	}

	expenses := []core.Expense{
		{
			ID:          1,
			VehicleType: "Car",
			Category:    core.CategoryFuel,
			Type:        "Petrol",
			Quantity:    decimal.RequireFromString("10"),
			PricePerUnit: decimal.RequireFromString("0.5"),
			Vendor:      "Shell",
			Description: "refuel",
			Price:       decimal.RequireFromString("5"),
			FilePath:    "uploads/r.jpg",
			FileData:    []byte("jpeg-bytes"),
		},
		{
			ID:          2,
			VehicleType: "Bus",
			Category:    core.CategoryOther,
			Vendor:      "Garage",
			Description: "wash",
			Price:       decimal.RequireFromString("1.5"),
		},
	}

	data, err := Archive(expenses, uploads)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	zr := openArchive(t, data)

	rows, err := csv.NewReader(bytes.NewReader(readEntry(t, zr, CSVName))).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	for _, col := range rows[0] {
		if col == "file_data" {
			t.Fatal("csv must not contain the raw attachment column")
		}
	}
	if rows[1][0] != "1" || rows[1][11] != "5.000" {
		t.Fatalf("unexpected first row %v", rows[1])
	}

	if got := readEntry(t, zr, "uploads/r.jpg"); string(got) != "jpeg-bytes" {
		t.Fatalf("attachment bytes mismatch: %q", got)
	}
}

func TestArchiveDeterministicEntryOrder(t *testing.T) {
	uploads := t.TempDir()
	for _, name := range []string{"b.pdf", "a.jpg"} {
		if err := os.WriteFile(filepath.Join(uploads, name), []byte(name), 0644); err != nil {
			t.Fatal(err)
		}
	}

	first, err := Archive(nil, uploads)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Archive(nil, uploads)
	if err != nil {
		t.Fatal(err)
	}

	names := func(data []byte) string {
		zr := openArchive(t, data)
		var out []string
		for _, f := range zr.File {
			out = append(out, f.Name)
		}
		return strings.Join(out, ",")
	}
	want := CSVName + ",uploads/a.jpg,uploads/b.pdf"
	if names(first) != want || names(second) != want {
		t.Fatalf("entry order not deterministic: %q vs %q (want %q)", names(first), names(second), want)
	}
}
