package navsim

import "testing"

func TestStepUpYears(t *testing.T) {
	start := d("2020-11-15")
	testCases := []struct {
		day              string
		calendar, anniv int
	}{
		{"2020-11-15", 0, 0},
		{"2020-12-31", 0, 0},
		{"2021-01-01", 1, 0},
		{"2021-11-14", 1, 0},
		{"2021-11-15", 1, 1},
		{"2022-11-14", 2, 1},
		{"2022-11-15", 2, 2},
	}
	for _, tc := range testCases {
		calendar := &StepUp{AppliesAnnually: true}
		if got := calendar.years(start, d(tc.day)); got != tc.calendar {
			t.Errorf("calendar years(%v, %s) = %d want %d", start, tc.day, got, tc.calendar)
		}
		anniversary := &StepUp{}
		if got := anniversary.years(start, d(tc.day)); got != tc.anniv {
			t.Errorf("anniversary years(%v, %s) = %d want %d", start, tc.day, got, tc.anniv)
		}
	}
}

// A plan started on a leap day has its anniversary on Feb 28.
func TestStepUpYearsLeapDay(t *testing.T) {
	u := &StepUp{}
	if got := u.years(d("2020-02-29"), d("2021-02-28")); got != 1 {
		t.Errorf("years(2020-02-29, 2021-02-28) = %d want 1", got)
	}
}

func TestInstallment(t *testing.T) {
	plan := InvestmentPlan{
		Amount: INR(1000),
		From:   d("2020-01-01"),
		StepUp: &StepUp{Percent: dec("10"), AppliesAnnually: true},
	}
	testCases := []struct {
		day  string
		want Money
	}{
		{"2020-06-01", INR(1000)},
		{"2021-06-01", INR(1100)},
		{"2022-06-01", INR(1210)},
		{"2023-06-01", INR(1331)},
	}
	for _, tc := range testCases {
		if got := plan.Installment(d(tc.day)); !got.Equal(tc.want) {
			t.Errorf("Installment(%s) = %v want %v", tc.day, got, tc.want)
		}
	}

	plan.StepUp = nil
	if got := plan.Installment(d("2030-01-01")); !got.Equal(INR(1000)) {
		t.Errorf("Installment() without step-up = %v want %v", got, INR(1000))
	}

	swp := WithdrawalPlan{Withdrawal: INR(500), From: d("2020-01-01"), StepUp: &StepUp{Amount: dec("50")}}
	if got := swp.Installment(d("2022-01-01")); !got.Equal(INR(600)) {
		t.Errorf("WithdrawalPlan.Installment() = %v want %v", got, INR(600))
	}
}
