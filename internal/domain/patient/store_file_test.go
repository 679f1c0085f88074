package patient

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore_MissingFileIsEmptyCollection(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "patients.json"))
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}

	patients, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load missing file: %v", err)
	}
	if patients == nil || len(patients) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", patients)
	}
}

func TestFileStore_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "patients.json")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	ctx := context.Background()

	in := []*Patient{
		{
			ID: "P001", Name: "Alice", Age: 40, Bed: 1,
			Records: []TemperatureRecord{{Date: "2024-01-03", Temp: 37.8}},
			Visits:  []Visit{{Date: "2024-01-03", Notes: "intake"}},
		},
		{ID: "P002", Name: "Bob", Age: 55, Bed: 2, Discharged: true},
	}
	if err := store.Save(ctx, in); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 patients, got %d", len(out))
	}
	if out[0].ID != "P001" || out[0].Records[0].Temp != 37.8 || out[0].Visits[0].Notes != "intake" {
		t.Errorf("first patient mangled: %+v", out[0])
	}
	if !out[1].Discharged {
		t.Error("discharged flag lost")
	}
}

func TestFileStore_SaveReplacesPreviousContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patients.json")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	ctx := context.Background()

	if err := store.Save(ctx, []*Patient{{ID: "P001"}, {ID: "P002"}}); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := store.Save(ctx, []*Patient{{ID: "P009"}}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	out, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 1 || out[0].ID != "P009" {
		t.Errorf("expected collection replaced wholesale, got %v", out)
	}

	// No temp file debris left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the data file, found %d entries", len(entries))
	}
}

func TestFileStore_RejectsEmptyPath(t *testing.T) {
	if _, err := NewFileStore(""); err == nil {
		t.Error("expected error for empty path")
	}
}
