package entity

import "testing"

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name   string
		aStart string
		aEnd   string
		bStart string
		bEnd   string
		want   bool
	}{
		{"identical", "09:00", "10:00", "09:00", "10:00", true},
		{"partial", "09:00", "10:00", "09:30", "10:30", true},
		{"contained", "09:00", "12:00", "10:00", "11:00", true},
		{"adjacent after", "09:00", "10:00", "10:00", "11:00", false},
		{"adjacent before", "10:00", "11:00", "09:00", "10:00", false},
		{"disjoint", "09:00", "10:00", "13:00", "14:00", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd); got != tt.want {
				t.Errorf("Overlaps(%s-%s, %s-%s) = %v, want %v", tt.aStart, tt.aEnd, tt.bStart, tt.bEnd, got, tt.want)
			}
		})
	}
}

func TestWindowOverlaps(t *testing.T) {
	a := &AvailabilityWindow{StartTime: "09:00", EndTime: "10:00"}
	b := &AvailabilityWindow{StartTime: "09:30", EndTime: "10:30"}
	c := &AvailabilityWindow{StartTime: "10:00", EndTime: "11:00"}

	if !a.Overlaps(b) || !b.Overlaps(a) {
		t.Error("overlapping windows not detected")
	}
	if a.Overlaps(c) {
		t.Error("adjacent windows must not overlap")
	}
}
