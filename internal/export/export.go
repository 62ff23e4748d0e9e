// Package export serializes all expense records to CSV and bundles them
// with the content directory into a single zip archive.
package export

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"vexpense/internal/core"
)

const (
	// CSVName is the tabular file inside the archive.
	CSVName = "expenses.csv"
	// UploadsFolder is the top-level folder attachments are placed under.
	UploadsFolder = "uploads"
)

// csvHeader lists every table column except file_data: the raw bytes are
// reconstructable from the bundled files and would bloat the text export.
var csvHeader = []string{
	"id", "vehicle_type", "category", "project_number", "type",
	"quantity", "price_per_unit", "additional_cost",
	"product_name", "vendor", "description", "price", "file_path",
}

// Archive builds the downloadable zip: expenses.csv first, then every
// file under uploadsDir with its relative path preserved below the
// uploads/ folder. Entries are written in a fixed order so identical
// inputs produce the same sequence. A missing uploads directory yields an
// archive with the CSV only.
func Archive(records []core.Expense, uploadsDir string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create(CSVName)
	if err != nil {
		return nil, fmt.Errorf("create csv entry: %w", err)
	}
	if err := writeCSV(w, records); err != nil {
		return nil, err
	}

	paths, err := listFiles(uploadsDir)
	if err != nil {
		return nil, err
	}
	for _, rel := range paths {
		if err := addFile(zw, uploadsDir, rel); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}

func writeCSV(w io.Writer, records []core.Expense) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range records {
		row := []string{
			strconv.FormatInt(e.ID, 10),
			e.VehicleType,
			e.Category,
			e.ProjectNumber,
			e.Type,
			core.FormatAmount(e.Quantity),
			core.FormatAmount(e.PricePerUnit),
			core.FormatAmount(e.AdditionalCost),
			e.ProductName,
			e.Vendor,
			e.Description,
			core.FormatAmount(e.Price),
			e.FilePath,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// listFiles returns the relative paths of every regular file under dir,
// sorted. A missing directory is treated as empty.
func listFiles(dir string) ([]string, error) {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk content directory: %w", err)
	}
	sort.Strings(paths)
	return paths, nil
}

func addFile(zw *zip.Writer, dir, rel string) error {
	f, err := os.Open(filepath.Join(dir, rel))
	if err != nil {
		return fmt.Errorf("open attachment: %w", err)
	}
	defer f.Close()

	w, err := zw.Create(filepath.ToSlash(filepath.Join(UploadsFolder, rel)))
	if err != nil {
		return fmt.Errorf("create archive entry: %w", err)
	}
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("copy attachment into archive: %w", err)
	}
	return nil
}
