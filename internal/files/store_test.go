package files

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveUsesDesiredNameInEmptyDir(t *testing.T) {
	store := NewStore(t.TempDir())

	path, err := store.Save([]byte("payload"), "Car_Fuel_Petrol_5.000_OMR.jpg")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if filepath.Base(path) != "Car_Fuel_Petrol_5.000_OMR.jpg" {
		t.Fatalf("expected desired name unchanged, got %q", path)
	}
}

func TestSaveResolvesCollisionsWithoutOverwriting(t *testing.T) {
	store := NewStore(t.TempDir())

	first, err := store.Save([]byte("first"), "receipt.pdf")
	if err != nil {
		t.Fatalf("save first: %v", err)
	}
	second, err := store.Save([]byte("second"), "receipt.pdf")
	if err != nil {
		t.Fatalf("save second: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct paths, both %q", first)
	}
	if filepath.Base(second) != "receipt_1.pdf" {
		t.Fatalf("unexpected collision name %q", second)
	}

	for path, want := range map[string]string{first: "first", second: "second"} {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		if string(data) != want {
			t.Fatalf("%s: content %q, want %q", path, data, want)
		}
	}
}

func TestSaveCreatesContentDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	store := NewStore(dir)

	if _, err := store.Save([]byte("x"), "a.png"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("content directory missing: %v", err)
	}
}

func TestNumberedName(t *testing.T) {
	cases := []struct {
		name string
		n    int
		want string
	}{
		{"r.jpg", 1, "r_1.jpg"},
		{"a_b.pdf", 3, "a_b_3.pdf"},
		{"noext", 2, "noext_2"},
	}
	for _, tc := range cases {
		if got := numberedName(tc.name, tc.n); got != tc.want {
			t.Errorf("numberedName(%q, %d) = %q, want %q", tc.name, tc.n, got, tc.want)
		}
	}
}
