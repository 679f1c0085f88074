package patient

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"
)

// Service runs the mutation operations. Every operation is a
// load → validate → mutate → save round trip over the full collection;
// the mutex serializes writers because the store's unit of persistence
// is the whole collection.
type Service struct {
	store Store
	now   func() time.Time
	mu    sync.Mutex
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// SetClock replaces the wall clock, for tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Today returns the current calendar date as a DateLayout string.
func (s *Service) Today() string {
	return s.now().UTC().Format(DateLayout)
}

// Admit validates and creates a new patient with the next free id.
func (s *Service) Admit(ctx context.Context, name string, age, bed int) (*Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	patients, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	patients, p, err := Admit(patients, name, age, bed)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, patients); err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns a single patient by id.
func (s *Service) Get(ctx context.Context, id string) (*Patient, error) {
	patients, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return FindByID(patients, id)
}

// List returns the collection sorted by bed number.
func (s *Service) List(ctx context.Context) ([]*Patient, error) {
	patients, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(patients, func(i, j int) bool { return patients[i].Bed < patients[j].Bed })
	return patients, nil
}

// RecordTemperature appends a temperature reading for today. A second
// reading for the same date is rejected, and a reading of zero or
// below, NaN, or Inf never represents a genuine body temperature.
func (s *Service) RecordTemperature(ctx context.Context, id string, temp float64, today string) (*Patient, error) {
	if math.IsNaN(temp) || math.IsInf(temp, 0) || temp <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemperature, temp)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	patients, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	p, err := FindByID(patients, id)
	if err != nil {
		return nil, err
	}
	if p.HasTempOn(today) {
		return nil, fmt.Errorf("%w: temperature for %s", ErrDuplicateForDate, today)
	}

	p.Records = append(p.Records, TemperatureRecord{Date: today, Temp: temp})
	if err := s.store.Save(ctx, patients); err != nil {
		return nil, err
	}
	return p, nil
}

// RecordVisit appends a doctor visit for today. Notes may be empty.
func (s *Service) RecordVisit(ctx context.Context, id, notes, today string) (*Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	patients, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	p, err := FindByID(patients, id)
	if err != nil {
		return nil, err
	}
	if p.HasVisitOn(today) {
		return nil, fmt.Errorf("%w: visit for %s", ErrDuplicateForDate, today)
	}

	p.Visits = append(p.Visits, Visit{Date: today, Notes: notes})
	if err := s.store.Save(ctx, patients); err != nil {
		return nil, err
	}
	return p, nil
}

// Discharge sets the discharged flag once the patient has the required
// fever-free streak. Re-discharging is a no-op success.
func (s *Service) Discharge(ctx context.Context, id string) (*Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	patients, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	p, err := FindByID(patients, id)
	if err != nil {
		return nil, err
	}
	if FeverFreeDays(p) < EligibleStreak {
		return nil, ErrNotEligible
	}

	p.Discharged = true
	if err := s.store.Save(ctx, patients); err != nil {
		return nil, err
	}
	return p, nil
}

// MarkDeceased sets the deceased flag unconditionally. Obtaining human
// confirmation is the caller's responsibility.
func (s *Service) MarkDeceased(ctx context.Context, id string) (*Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	patients, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	p, err := FindByID(patients, id)
	if err != nil {
		return nil, err
	}

	p.Deceased = true
	if err := s.store.Save(ctx, patients); err != nil {
		return nil, err
	}
	return p, nil
}

// DailyTodo returns today's outstanding-care counts.
func (s *Service) DailyTodo(ctx context.Context, today string) (DailyTodo, error) {
	patients, err := s.store.Load(ctx)
	if err != nil {
		return DailyTodo{}, err
	}
	return ComputeDailyTodo(patients, today), nil
}

// KPIs returns the population compliance metrics for today.
func (s *Service) KPIs(ctx context.Context, today string) (KPIs, error) {
	patients, err := s.store.Load(ctx)
	if err != nil {
		return KPIs{}, err
	}
	return ComputeKPIs(patients, today), nil
}

// Export serializes the whole collection as a JSON array.
func (s *Service) Export(ctx context.Context) ([]byte, error) {
	patients, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return json.Marshal(patients)
}

// Import replaces the collection wholesale. The payload must decode as
// a patient array; no further schema checks happen at this boundary.
func (s *Service) Import(ctx context.Context, raw []byte) error {
	var patients []*Patient
	if err := json.Unmarshal(raw, &patients); err != nil {
		return fmt.Errorf("invalid import payload: %w", err)
	}
	if patients == nil {
		patients = []*Patient{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Save(ctx, patients)
}
