package patient

import (
	"fmt"
	"strconv"
	"strings"
)

// Roster functions operate on the loaded collection passed in by the
// caller. The collection itself lives in a Store; nothing here holds
// state between calls.

// FindByID returns the patient with the given id.
func FindByID(patients []*Patient, id string) (*Patient, error) {
	for _, p := range patients {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

// IsBedAvailable reports whether no active patient currently holds the
// bed. Beds of discharged or deceased patients are free for reuse.
func IsBedAvailable(patients []*Patient, bed int) bool {
	for _, p := range patients {
		if p.Bed == bed && p.Active() {
			return false
		}
	}
	return true
}

// NextID derives the next patient id from the ids already present:
// "P" + zero-padded (max numeric suffix + 1). It is not tied to the
// collection length, so ids of terminal patients are never reused.
func NextID(patients []*Patient) string {
	max := 0
	for _, p := range patients {
		n, err := strconv.Atoi(strings.TrimPrefix(p.ID, "P"))
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("P%03d", max+1)
}

// Admit validates the admission fields and appends a new patient with
// empty histories. On any validation failure the collection is
// returned unchanged.
func Admit(patients []*Patient, name string, age, bed int) ([]*Patient, *Patient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return patients, nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if age <= 0 {
		return patients, nil, &ValidationError{Field: "age", Reason: "must be a positive number"}
	}
	if bed <= 0 {
		return patients, nil, &ValidationError{Field: "bed", Reason: "must be a positive number"}
	}
	if !IsBedAvailable(patients, bed) {
		return patients, nil, &ValidationError{Field: "bed", Reason: "already assigned to an active patient"}
	}

	p := &Patient{
		ID:      NextID(patients),
		Bed:     bed,
		Name:    name,
		Age:     age,
		Records: []TemperatureRecord{},
		Visits:  []Visit{},
	}
	return append(patients, p), p, nil
}
