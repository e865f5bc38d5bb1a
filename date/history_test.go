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
		t.Errorf("history[1].day = %v want %v", h.days[0], d1)
	}
	if h.days[0] != d2 {
		t.Errorf("history[0].day = %v want %v", h.days[1], d2)
	}
	if h.values[1] != v1 {
		t.Errorf("history[1].value = %v want %v", h.values[0], v1)
	}
	if h.values[0] != v2 {
		t.Errorf("history[0].value = %v want %v", h.values[1], v2)
	}

}

func TestResampleMonthly(t *testing.T) {
	h := new(History[float64])
	h.Append(New(2025, 1, 2), 10)
	h.Append(New(2025, 1, 31), 11)
	h.Append(New(2025, 2, 14), 12)
	h.Append(New(2025, 2, 27), 13)
	// no observation in March
	h.Append(New(2025, 4, 1), 14)

	m := h.Resample(Monthly)
	if m.Len() != 3 {
		t.Fatalf("Resample(Monthly).Len() = %v want 3", m.Len())
	}
	want := []struct {
		on    Date
		value float64
	}{
		{New(2025, 1, 31), 11},
		{New(2025, 2, 28), 13},
		{New(2025, 4, 30), 14},
	}
	i := 0
	for on, v := range m.Values() {
		if on != want[i].on || v != want[i].value {
			t.Errorf("Resample(Monthly)[%d] = (%v, %v) want (%v, %v)", i, on, v, want[i].on, want[i].value)
		}
		i++
	}
}

func TestValueAsOf(t *testing.T) {
	h := new(History[float64])
	h.Append(New(2025, 3, 10), 1)
	h.Append(New(2025, 3, 12), 2)

	testCases := []struct {
		name   string
		on     Date
		want   float64
		wantOk bool
	}{
		{"before first", New(2025, 3, 9), 0, false},
		{"exact", New(2025, 3, 10), 1, true},
		{"gap", New(2025, 3, 11), 1, true},
		{"after last", New(2025, 4, 1), 2, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := h.ValueAsOf(tc.on)
			if got != tc.want || ok != tc.wantOk {
				t.Errorf("ValueAsOf(%v) = %v, %v want %v, %v", tc.on, got, ok, tc.want, tc.wantOk)
			}
		})
	}
}

func TestIterate(t *testing.T) {
	a, b := new(History[float64]), new(History[float64])
	a.Append(New(2025, 1, 1), 1)
	a.Append(New(2025, 1, 3), 1)
	b.Append(New(2025, 1, 2), 1)
	b.Append(New(2025, 1, 3), 1)

	var got []Date
	for on := range Iterate(a, b) {
		got = append(got, on)
	}
	want := []Date{New(2025, 1, 1), New(2025, 1, 2), New(2025, 1, 3)}
	if len(got) != len(want) {
		t.Fatalf("Iterate() = %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Iterate()[%d] = %v want %v", i, got[i], want[i])
		}
	}
}
