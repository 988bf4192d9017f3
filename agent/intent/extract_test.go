package intent

import "testing"

func TestExtractModelNumber(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"I have model XJ200", "XJ200"},
		{"model number is ab-12 please", "ab-12"},
		{"at 3pm my model XJ200 broke", "3pm"},
		{"which model do you mean", ""},
		{"", ""},
		{"   model\tQ7  ", "Q7"},
	}
	for _, tc := range cases {
		if got := ExtractModelNumber(tc.in); got != tc.want {
			t.Fatalf("ExtractModelNumber(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestExtractPartDescription(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"i'm looking for a filter", "filter"},
		{"I need the POWER CORD", "power cord"},
		{"the fan and the filter", "filter"},
		{"control board or display", "control board"},
		{"a fancy display", "fan"},
		{"a gasket", ""},
	}
	for _, tc := range cases {
		if got := ExtractPartDescription(tc.in); got != tc.want {
			t.Fatalf("ExtractPartDescription(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
