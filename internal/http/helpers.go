package http

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"vexpense/internal/core"
)

// expenseView is the template-facing shape of a record: file_path and
// file_data are replaced by a human-readable file summary.
type expenseView struct {
	ID             int64
	VehicleType    string
	Category       string
	ProjectNumber  string
	Type           string
	ProductName    string
	Quantity       string
	PricePerUnit   string
	AdditionalCost string
	Price          string
	Vendor         string
	Description    string
	FileInfo       string
}

func newExpenseView(e core.Expense) expenseView {
	return expenseView{
		ID:             e.ID,
		VehicleType:    e.VehicleType,
		Category:       e.Category,
		ProjectNumber:  e.ProjectNumber,
		Type:           e.Type,
		ProductName:    e.ProductName,
		Quantity:       core.FormatAmount(e.Quantity),
		PricePerUnit:   core.FormatAmount(e.PricePerUnit),
		AdditionalCost: core.FormatAmount(e.AdditionalCost),
		Price:          core.FormatAmount(e.Price),
		Vendor:         e.Vendor,
		Description:    e.Description,
		FileInfo:       fileInfo(e.FilePath),
	}
}

// fileInfo returns "name (size)" for the attachment, or "No File" when the
// path is empty or the file is gone from the content directory.
func fileInfo(path string) string {
	if path == "" {
		return "No File"
	}
	info, err := os.Stat(path)
	if err != nil {
		return "No File"
	}
	return fmt.Sprintf("%s (%s)", filepath.Base(path), humanSize(info.Size()))
}

func humanSize(size int64) string {
	if size == 0 {
		return "0B"
	}
	units := []string{"B", "KB", "MB", "GB", "TB"}
	value := float64(size)
	i := 0
	for value >= 1024 && i < len(units)-1 {
		value /= 1024
		i++
	}
	return fmt.Sprintf("%.2f %s", value, units[i])
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
