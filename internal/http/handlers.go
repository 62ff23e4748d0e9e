package http

import (
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"vexpense/internal/core"
	"vexpense/internal/services"
	"vexpense/internal/storage"
)

var allowedExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"pdf":  true,
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	data := struct {
		VehicleTypes []string
		Categories   []string
		FuelTypes    []string
		ExpenseTypes []string
	}{
		VehicleTypes: core.VehicleTypes,
		Categories:   core.Categories,
		FuelTypes:    core.FuelTypes,
		ExpenseTypes: core.CustomerExpenseTypes,
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateExpense(w, r)
	case http.MethodGet:
		s.handleListExpenses(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		slog.ErrorContext(r.Context(), "Parse multipart form error", "error", err, "url", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Invalid request format</div>`))
		return
	}

	attachment, ext, err := readAttachment(r)
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">` + template.HTMLEscapeString(err.Error()) + `</div>`))
		return
	}

	fields, err := parseFields(r)
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">` + template.HTMLEscapeString(err.Error()) + `</div>`))
		return
	}

	req := services.SubmitRequest{
		VehicleType: sanitizeInput(r.Form.Get("vehicle_type")),
		Category:    sanitizeInput(r.Form.Get("category")),
		Fields:      fields,
		Attachment:  attachment,
		Extension:   ext,
	}

	res, err := s.svc.Submit(r.Context(), req)
	if err != nil {
		var verr *core.ValidationError
		if errors.As(err, &verr) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`<div class="warning">` + template.HTMLEscapeString(verr.Message) + `</div>`))
			return
		}
		slog.ErrorContext(r.Context(), "Expense submit error", "error", err, "category", req.Category)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Failed to save expense</div>`))
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">` + template.HTMLEscapeString(res.Message) +
		` (#` + strconv.FormatInt(res.ID, 10) + `)</div>`))
}

// readAttachment extracts the uploaded receipt. A missing file is not an
// error here: the validator folds it into the combined message.
func readAttachment(r *http.Request) (data []byte, ext string, err error) {
	file, header, err := r.FormFile("receipt")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", errors.New("Could not read the uploaded file.")
	}
	defer file.Close()

	ext = strings.ToLower(strings.TrimPrefix(filepath.Ext(header.Filename), "."))
	if !allowedExtensions[ext] {
		return nil, "", errors.New("Unsupported file type: upload a jpg, jpeg, png or pdf.")
	}

	data, err = io.ReadAll(file)
	if err != nil {
		return nil, "", errors.New("Could not read the uploaded file.")
	}
	return data, ext, nil
}

func parseFields(r *http.Request) (core.FieldValues, error) {
	fields := core.FieldValues{
		ProjectNumber: sanitizeInput(r.Form.Get("project_number")),
		Type:          sanitizeInput(r.Form.Get("type")),
		ProductName:   sanitizeInput(r.Form.Get("product_name")),
		Vendor:        sanitizeInput(r.Form.Get("vendor")),
		Description:   sanitizeInput(r.Form.Get("description")),
	}

	var err error
	if fields.Quantity, err = core.ParseAmount(r.Form.Get("quantity")); err != nil {
		return fields, errors.New("Invalid quantity.")
	}
	if fields.PricePerUnit, err = core.ParseAmount(r.Form.Get("price_per_unit")); err != nil {
		return fields, errors.New("Invalid price per unit.")
	}
	if fields.AdditionalCost, err = core.ParseAmount(r.Form.Get("additional_cost")); err != nil {
		return fields, errors.New("Invalid additional cost.")
	}
	if fields.Price, err = core.ParseAmount(r.Form.Get("price")); err != nil {
		return fields, errors.New("Invalid price.")
	}
	return fields, nil
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	data := struct {
		SearchID string
		Message  string
		Single   *expenseView
		Items    []expenseView
	}{SearchID: strings.TrimSpace(r.URL.Query().Get("id"))}

	if data.SearchID != "" {
		id, err := strconv.ParseInt(data.SearchID, 10, 64)
		if err != nil {
			data.Message = "Please enter a valid ID."
		} else {
			exp, err := s.svc.Get(r.Context(), id)
			switch {
			case errors.Is(err, storage.ErrNotFound):
				data.Message = "No record found with this ID."
			case err != nil:
				slog.ErrorContext(r.Context(), "Get expense error", "error", err, "id", id)
				http.Error(w, "failed to load expense", http.StatusInternalServerError)
				return
			default:
				v := newExpenseView(*exp)
				data.Single = &v
			}
		}
	} else {
		expenses, err := s.svc.List(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "List expenses error", "error", err)
			http.Error(w, "failed to load expenses", http.StatusInternalServerError)
			return
		}
		for _, e := range expenses {
			data.Items = append(data.Items, newExpenseView(e))
		}
		if len(data.Items) == 0 {
			data.Message = "No records found in the database."
		}
	}

	if err := s.templates.ExecuteTemplate(w, "expenses.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Expenses template execution failed", "error", err, "template", "expenses.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	archive, _, err := s.svc.ExportAll(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Export error", "error", err)
		http.Error(w, "failed to build export", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="expenses_with_uploads.zip"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(archive)))
	_, _ = w.Write(archive)
}

func (s *Server) handleExportDB(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	_, database, err := s.svc.ExportAll(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Database export error", "error", err)
		http.Error(w, "failed to read database", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="expenses.db"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(database)))
	_, _ = w.Write(database)
}
