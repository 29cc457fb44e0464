package analysis_test

import (
	"testing"
	"time"

	"github.com/obatqu/obatqu-backend/internal/inventory/analysis"
)

var today = time.Date(2026, time.March, 15, 10, 30, 0, 0, time.UTC)

func TestParseExpiry_ISO(t *testing.T) {
	d, ok := analysis.ParseExpiry("2027-10-01")
	if !ok {
		t.Fatal("expected ISO date to parse")
	}
	want := time.Date(2027, time.October, 1, 0, 0, 0, 0, time.UTC)
	if !d.Equal(want) {
		t.Errorf("ParseExpiry(2027-10-01) = %v, want %v", d, want)
	}
}

func TestParseExpiry_MonthToken(t *testing.T) {
	tests := []struct {
		raw       string
		wantYear  int
		wantMonth time.Month
	}{
		{"OKT.27", 2027, time.October},
		{"okt.27", 2027, time.October},
		{"MEI.26", 2026, time.May},
		{"DES.30", 2030, time.December},
		{"AGT.28", 2028, time.August},
		{"OKT-27", 2027, time.October},
		{"OKT27", 2027, time.October},
		// Unrecognized abbreviation defaults to January.
		{"XYZ.27", 2027, time.January},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			d, ok := analysis.ParseExpiry(tt.raw)
			if !ok {
				t.Fatalf("ParseExpiry(%q) failed, want success", tt.raw)
			}
			if d.Year() != tt.wantYear || d.Month() != tt.wantMonth {
				t.Errorf("ParseExpiry(%q) = %v, want %d-%02d", tt.raw, d, tt.wantYear, tt.wantMonth)
			}
			if d.Day() != 28 {
				t.Errorf("ParseExpiry(%q) day = %d, want 28", tt.raw, d.Day())
			}
		})
	}
}

func TestParseExpiry_Invalid(t *testing.T) {
	for _, raw := range []string{"", "   ", "not-a-date", "13.2027", "2027/13/45"} {
		if _, ok := analysis.ParseExpiry(raw); ok {
			t.Errorf("ParseExpiry(%q) succeeded, want failure", raw)
		}
	}
}

func TestEvaluateExpiry_Thresholds(t *testing.T) {
	day := func(offset int) string {
		return today.AddDate(0, 0, offset).Format("2006-01-02")
	}

	tests := []struct {
		name        string
		raw         string
		wantStatus  analysis.ExpiryStatus
		wantUrgency int
		wantDays    int
	}{
		{"expired yesterday", day(-1), analysis.StatusExpired, 3, -1},
		{"expires today", day(0), analysis.StatusNearExpiry, 2, 0},
		{"boundary 30 days", day(30), analysis.StatusNearExpiry, 2, 30},
		{"boundary 31 days", day(31), analysis.StatusCaution, 1, 31},
		{"boundary 90 days", day(90), analysis.StatusCaution, 1, 90},
		{"boundary 91 days", day(91), analysis.StatusSafe, 0, 91},
		{"far future", day(200), analysis.StatusSafe, 0, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analysis.EvaluateExpiry(tt.raw, today)
			if got.Status != tt.wantStatus {
				t.Errorf("status = %s, want %s", got.Status, tt.wantStatus)
			}
			if got.Urgency != tt.wantUrgency {
				t.Errorf("urgency = %d, want %d", got.Urgency, tt.wantUrgency)
			}
			if got.DaysLeft == nil || *got.DaysLeft != tt.wantDays {
				t.Errorf("daysLeft = %v, want %d", got.DaysLeft, tt.wantDays)
			}
		})
	}
}

func TestEvaluateExpiry_IgnoresTimeOfDay(t *testing.T) {
	// Late in the evening the calendar-day difference must not change.
	lateToday := time.Date(2026, time.March, 15, 23, 59, 0, 0, time.UTC)
	got := analysis.EvaluateExpiry("2026-03-20", lateToday)
	if got.DaysLeft == nil || *got.DaysLeft != 5 {
		t.Errorf("daysLeft = %v, want 5", got.DaysLeft)
	}
}

func TestEvaluateExpiry_Unknown(t *testing.T) {
	for _, raw := range []string{"", "garbage", "??"} {
		got := analysis.EvaluateExpiry(raw, today)
		if got.Status != analysis.StatusUnknown {
			t.Errorf("EvaluateExpiry(%q).Status = %s, want unknown", raw, got.Status)
		}
		if got.Urgency != 0 {
			t.Errorf("EvaluateExpiry(%q).Urgency = %d, want 0", raw, got.Urgency)
		}
		if got.DaysLeft != nil {
			t.Errorf("EvaluateExpiry(%q).DaysLeft = %v, want nil", raw, got.DaysLeft)
		}
	}
}
