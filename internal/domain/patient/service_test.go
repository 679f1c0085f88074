package patient

import (
	"context"
	"errors"
	"math"
	"testing"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(NewMemoryStore())
}

func admitOne(t *testing.T, svc *Service, name string, bed int) *Patient {
	t.Helper()
	p, err := svc.Admit(context.Background(), name, 40, bed)
	if err != nil {
		t.Fatalf("admit %s: %v", name, err)
	}
	return p
}

func TestServiceAdmit(t *testing.T) {
	svc := newTestService(t)

	p := admitOne(t, svc, "Alice", 1)
	if p.ID != "P001" {
		t.Errorf("expected id P001, got %s", p.ID)
	}

	got, err := svc.Get(context.Background(), "P001")
	if err != nil {
		t.Fatalf("get after admit: %v", err)
	}
	if got.Name != "Alice" || got.Bed != 1 {
		t.Errorf("unexpected patient %+v", got)
	}
}

func TestServiceAdmit_BedConflict(t *testing.T) {
	svc := newTestService(t)
	admitOne(t, svc, "Alice", 1)

	_, err := svc.Admit(context.Background(), "Bob", 50, 1)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "bed" {
		t.Errorf("expected bed error, got field %q", verr.Field)
	}
}

func TestServiceAdmit_BedFreedByDischarge(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	admitOne(t, svc, "Alice", 1)

	for _, d := range []string{"2024-01-01", "2024-01-02", "2024-01-03"} {
		if _, err := svc.RecordTemperature(ctx, "P001", 36.5, d); err != nil {
			t.Fatalf("record temp %s: %v", d, err)
		}
	}
	if _, err := svc.Discharge(ctx, "P001"); err != nil {
		t.Fatalf("discharge: %v", err)
	}

	p, err := svc.Admit(ctx, "Bob", 50, 1)
	if err != nil {
		t.Fatalf("expected bed 1 free after discharge: %v", err)
	}
	if p.ID != "P002" {
		t.Errorf("expected id P002, got %s", p.ID)
	}
}

func TestServiceRecordTemperature(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	admitOne(t, svc, "Alice", 1)

	p, err := svc.RecordTemperature(ctx, "P001", 37.2, day)
	if err != nil {
		t.Fatalf("record temperature: %v", err)
	}
	if len(p.Records) != 1 || p.Records[0].Temp != 37.2 || p.Records[0].Date != day {
		t.Errorf("unexpected records %+v", p.Records)
	}

	if _, err := svc.RecordTemperature(ctx, "P001", 36.8, day); !errors.Is(err, ErrDuplicateForDate) {
		t.Errorf("expected ErrDuplicateForDate on second reading, got %v", err)
	}
	if _, err := svc.RecordTemperature(ctx, "P404", 36.8, day); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestServiceRecordTemperature_RejectsNonPhysical(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	admitOne(t, svc, "Alice", 1)

	for _, temp := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := svc.RecordTemperature(ctx, "P001", temp, day); !errors.Is(err, ErrInvalidTemperature) {
			t.Errorf("temp %v: expected ErrInvalidTemperature, got %v", temp, err)
		}
	}

	p, err := svc.Get(ctx, "P001")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(p.Records) != 0 {
		t.Errorf("rejected readings must not persist, got %+v", p.Records)
	}
}

func TestServiceRecordVisit(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	admitOne(t, svc, "Alice", 1)

	p, err := svc.RecordVisit(ctx, "P001", "", day)
	if err != nil {
		t.Fatalf("record visit with empty notes: %v", err)
	}
	if len(p.Visits) != 1 || p.Visits[0].Date != day {
		t.Errorf("unexpected visits %+v", p.Visits)
	}

	if _, err := svc.RecordVisit(ctx, "P001", "rounds", day); !errors.Is(err, ErrDuplicateForDate) {
		t.Errorf("expected ErrDuplicateForDate on second visit, got %v", err)
	}
}

func TestServiceDischarge(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	admitOne(t, svc, "Alice", 1)

	if _, err := svc.RecordTemperature(ctx, "P001", 36.5, "2024-01-01"); err != nil {
		t.Fatalf("record temp: %v", err)
	}
	if _, err := svc.RecordTemperature(ctx, "P001", 36.5, "2024-01-02"); err != nil {
		t.Fatalf("record temp: %v", err)
	}

	if _, err := svc.Discharge(ctx, "P001"); !errors.Is(err, ErrNotEligible) {
		t.Fatalf("expected ErrNotEligible at streak 2, got %v", err)
	}

	if _, err := svc.RecordTemperature(ctx, "P001", 36.5, "2024-01-03"); err != nil {
		t.Fatalf("record temp: %v", err)
	}
	p, err := svc.Discharge(ctx, "P001")
	if err != nil {
		t.Fatalf("discharge at streak 3: %v", err)
	}
	if !p.Discharged {
		t.Error("expected discharged flag set")
	}

	// Repeating the discharge is a no-op success.
	if _, err := svc.Discharge(ctx, "P001"); err != nil {
		t.Errorf("repeated discharge: %v", err)
	}
}

func TestServiceMarkDeceased(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	admitOne(t, svc, "Alice", 1)

	p, err := svc.MarkDeceased(ctx, "P001")
	if err != nil {
		t.Fatalf("mark deceased: %v", err)
	}
	if !p.Deceased {
		t.Error("expected deceased flag set")
	}
	if _, err := svc.MarkDeceased(ctx, "P404"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestServiceExportImportRoundTrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	admitOne(t, svc, "Alice", 1)
	if _, err := svc.RecordTemperature(ctx, "P001", 37.8, day); err != nil {
		t.Fatalf("record temp: %v", err)
	}
	if _, err := svc.RecordVisit(ctx, "P001", "initial assessment", day); err != nil {
		t.Fatalf("record visit: %v", err)
	}

	raw, err := svc.Export(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	other := newTestService(t)
	if err := other.Import(ctx, raw); err != nil {
		t.Fatalf("import: %v", err)
	}

	p, err := other.Get(ctx, "P001")
	if err != nil {
		t.Fatalf("get after import: %v", err)
	}
	if p.Name != "Alice" || p.Age != 40 || p.Bed != 1 {
		t.Errorf("identity fields lost: %+v", p)
	}
	if len(p.Records) != 1 || p.Records[0].Temp != 37.8 {
		t.Errorf("records lost: %+v", p.Records)
	}
	if len(p.Visits) != 1 || p.Visits[0].Notes != "initial assessment" {
		t.Errorf("visits lost: %+v", p.Visits)
	}
}

func TestServiceImport_RejectsMalformedPayload(t *testing.T) {
	svc := newTestService(t)
	if err := svc.Import(context.Background(), []byte(`{"not":"an array"}`)); err == nil {
		t.Error("expected error for non-array payload")
	}
	if err := svc.Import(context.Background(), []byte(`null`)); err != nil {
		t.Errorf("null payload should become an empty collection: %v", err)
	}
}

func TestServiceList_SortedByBed(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	admitOne(t, svc, "Alice", 5)
	admitOne(t, svc, "Bob", 2)
	admitOne(t, svc, "Carol", 9)

	patients, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	beds := []int{patients[0].Bed, patients[1].Bed, patients[2].Bed}
	if beds[0] != 2 || beds[1] != 5 || beds[2] != 9 {
		t.Errorf("expected bed order 2,5,9, got %v", beds)
	}
}
