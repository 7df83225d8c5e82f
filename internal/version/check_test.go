package version

import "testing"

func TestNewer(t *testing.T) {
	cases := []struct {
		name string
		a, b string
		want bool
	}{
		{"patch bump", "v1.2.1", "v1.2.0", true},
		{"minor bump", "v1.3.0", "v1.2.9", true},
		{"major bump", "v2.0.0", "v1.9.9", true},
		{"equal", "v1.2.0", "v1.2.0", false},
		{"older", "v1.1.0", "v1.2.0", false},
		{"dev suffix ignored", "v1.2.1-dev", "v1.2.0", true},
		{"missing v prefix", "1.2.1", "v1.2.0", true},
		{"short tag", "v2", "v1.9.0", true},
		{"garbage latest", "nightly", "v1.2.0", false},
		{"garbage current", "v1.3.0", "nightly", false},
		{"empty", "", "v1.2.0", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Newer(tc.a, tc.b); got != tc.want {
				t.Errorf("Newer(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}
