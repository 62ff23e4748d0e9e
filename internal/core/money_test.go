package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"12.34", "12.340", false},
		{"12,345", "12.345", false},
		{"12.3456", "12.346", false}, // half-up on third decimal
		{"0", "0.000", false},
		{"", "0.000", false},
		{"  7.5 ", "7.500", false},
		{"-1", "", true},
		{"abc", "", true},
		{"1.2.3", "", true},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseAmount(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAmount(%q): unexpected error %v", tc.in, err)
			continue
		}
		if FormatAmount(got) != tc.want {
			t.Errorf("ParseAmount(%q) = %s, want %s", tc.in, FormatAmount(got), tc.want)
		}
	}
}
