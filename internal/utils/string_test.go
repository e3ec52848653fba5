package utils

import "testing"

func TestIsValidInput(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"hello", true},
		{"He", true},
		{"", false},
		{"1234", false},
		{"he!lo", false},
		{"under_score", false},
		{"aaaa", false},
		{"aa", true},
	}

	for _, tc := range cases {
		if got := IsValidInput(tc.input); got != tc.want {
			t.Errorf("IsValidInput(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestIsRepetitive(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"aaa", true},
		{"wwww", true},
		{"aa", false},
		{"aba", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := IsRepetitive(tc.input); got != tc.want {
			t.Errorf("IsRepetitive(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestFormatWithCommas(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-45000, "-45,000"},
	}

	for _, tc := range cases {
		if got := FormatWithCommas(tc.n); got != tc.want {
			t.Errorf("FormatWithCommas(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}

func TestCreateRankList(t *testing.T) {
	ranks := CreateRankList(3)
	if len(ranks) != 3 {
		t.Fatalf("len = %d, want 3", len(ranks))
	}
	for i, r := range ranks {
		if int(r) != i+1 {
			t.Errorf("rank[%d] = %d, want %d", i, r, i+1)
		}
	}

	if got := CreateRankList(0); len(got) != 0 {
		t.Errorf("CreateRankList(0) = %v, want empty", got)
	}
}
