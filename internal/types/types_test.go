package types

import (
	"testing"
	"time"
)

func TestTicketValidate(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		ticket  *Ticket
		wantErr bool
	}{
		{
			name: "valid ticket",
			ticket: &Ticket{
				Key:         "PROJ-1",
				CreatedDate: now,
				UpdatedDate: now,
			},
			wantErr: false,
		},
		{
			name: "missing key",
			ticket: &Ticket{
				CreatedDate: now,
				UpdatedDate: now,
			},
			wantErr: true,
		},
		{
			name: "missing created date",
			ticket: &Ticket{
				Key:         "PROJ-2",
				UpdatedDate: now,
			},
			wantErr: true,
		},
		{
			name: "missing updated date",
			ticket: &Ticket{
				Key:         "PROJ-3",
				CreatedDate: now,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ticket.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFiltersIsZero(t *testing.T) {
	if !(Filters{}).IsZero() {
		t.Error("empty Filters should be zero")
	}
	if !(Filters{DateRange: &DateRange{}}).IsZero() {
		t.Error("Filters with empty DateRange should be zero")
	}
	if (Filters{Labels: []string{"security"}}).IsZero() {
		t.Error("Filters with labels should not be zero")
	}
	if (Filters{DateRange: &DateRange{Start: "2024-01-01"}}).IsZero() {
		t.Error("Filters with a date bound should not be zero")
	}
}

func TestPresetValidate(t *testing.T) {
	p := &RoadmapPreset{}
	if err := p.Validate(); err == nil {
		t.Error("unnamed preset should fail validation")
	}
	p.Name = "Q3 security work"
	if err := p.Validate(); err != nil {
		t.Errorf("named preset should validate: %v", err)
	}
}
