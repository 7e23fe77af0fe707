package date

import "testing"

func TestAppend(t *testing.T) {
	h := new(History[string])
	d1, v1 := New(2025, 07, 01), "25 Jul 1"
	d2, v2 := New(2024, 07, 01), "24 Jul 1"

	// Test is about appending two values in reverse order and checking that everything is
	// as expected at every step of the way.

	if h.Len() != 0 {
		t.Errorf("History.Len() = %v want 0", h.Len())
	}

	h.Append(d1, v1)
	if h.Len() != 1 {
		t.Errorf("Append(d1, v1).Len() = %v want 1", h.Len())
	}

	h.Append(d2, v2)
	if h.Len() != 2 {
		t.Errorf("Append(d2, v2).Len() = %v want 2", h.Len())
	}

	if h.days[1] != d1 {
		t.Errorf("history[1].day = %v want %v", h.days[1], d1)
	}
	if h.days[0] != d2 {
		t.Errorf("history[0].day = %v want %v", h.days[0], d2)
	}

	h.Append(d1, "overwritten")
	if got, _ := h.Get(d1); got != "overwritten" || h.Len() != 2 {
		t.Errorf("Append(d1) twice: Get(d1) = %q, Len() = %d want %q, 2", got, h.Len(), "overwritten")
	}
}

func TestNewHistory(t *testing.T) {
	days := []Date{New(2024, 3, 1), New(2024, 1, 1), New(2024, 2, 1), New(2024, 1, 1)}
	values := []int{3, 1, 2, 10}

	h := NewHistory(days, values)
	if h.Len() != 3 {
		t.Fatalf("NewHistory().Len() = %d want 3", h.Len())
	}
	wantDays := []Date{New(2024, 1, 1), New(2024, 2, 1), New(2024, 3, 1)}
	wantValues := []int{10, 2, 3} // last seen wins for 2024-01-01
	i := 0
	for on, v := range h.Values() {
		if on != wantDays[i] || v != wantValues[i] {
			t.Errorf("Values()[%d] = (%v, %v) want (%v, %v)", i, on, v, wantDays[i], wantValues[i])
		}
		i++
	}
	// inputs are not modified
	if days[0] != New(2024, 3, 1) || values[0] != 3 {
		t.Errorf("NewHistory() modified its inputs")
	}
}

func TestAsOf(t *testing.T) {
	h := NewHistory(
		[]Date{New(2024, 1, 10), New(2024, 1, 20), New(2024, 1, 30)},
		[]string{"a", "b", "c"},
	)
	testCases := []struct {
		name    string
		day     Date
		wantDay Date
		want    string
		wantOK  bool
	}{
		{"before first", New(2024, 1, 9), Date{}, "", false},
		{"on first", New(2024, 1, 10), New(2024, 1, 10), "a", true},
		{"between", New(2024, 1, 25), New(2024, 1, 20), "b", true},
		{"on last", New(2024, 1, 30), New(2024, 1, 30), "c", true},
		{"after last", New(2025, 1, 1), New(2024, 1, 30), "c", true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			on, v, ok := h.AsOf(tc.day)
			if ok != tc.wantOK || on != tc.wantDay || v != tc.want {
				t.Errorf("AsOf(%v) = (%v, %q, %v) want (%v, %q, %v)", tc.day, on, v, ok, tc.wantDay, tc.want, tc.wantOK)
			}
		})
	}
}

func TestAsOfEmpty(t *testing.T) {
	h := new(History[float64])
	if _, _, ok := h.AsOf(New(2024, 1, 1)); ok {
		t.Errorf("AsOf() on empty history returned ok")
	}
	if i := h.IndexAsOf(New(2024, 1, 1)); i != -1 {
		t.Errorf("IndexAsOf() on empty history = %d want -1", i)
	}
}
