package token

import (
	"reflect"
	"testing"
)

func TestExtract(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "simple words",
			text: "hello world",
			want: []string{"hello", "world"},
		},
		{
			name: "lowercases everything",
			text: "The THE the",
			want: []string{"the", "the", "the"},
		},
		{
			name: "drops short runs",
			text: "ab cd xyz test",
			want: []string{"xyz", "test"},
		},
		{
			name: "digits split runs",
			text: "foo123bar",
			want: []string{"foo", "bar"},
		},
		{
			name: "underscores are separators",
			text: "snake_case_name",
			want: []string{"snake", "case", "name"},
		},
		{
			name: "punctuation never joins",
			text: "don't stop, believing!",
			want: []string{"don", "stop", "believing"},
		},
		{
			name: "short fragments are not merged",
			text: "a-b-c-def",
			want: []string{"def"},
		},
		{
			name: "newlines separate",
			text: "first\nsecond",
			want: []string{"first", "second"},
		},
		{
			name: "empty input",
			text: "",
			want: nil,
		},
		{
			name: "no letters at all",
			text: "123 456 !!!",
			want: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Extract(tc.text)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Extract(%q) = %v, want %v", tc.text, got, tc.want)
			}
		})
	}
}

func TestExtractPreservesOrder(t *testing.T) {
	got := Extract("one two three two one")
	want := []string{"one", "two", "three", "two", "one"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract order = %v, want %v", got, want)
	}
}

func TestExtractUnicodeLetters(t *testing.T) {
	got := Extract("café naïve")
	want := []string{"café", "naïve"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract = %v, want %v", got, want)
	}
}

func TestExtractMultibyteLengthIsRunes(t *testing.T) {
	// "éé" is two letters but four bytes; the minimum length counts runes,
	// so it must be discarded like any other two-letter run.
	got := Extract("éé hello")
	want := []string{"hello"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract = %v, want %v", got, want)
	}

	// Exactly three multibyte letters is a valid token.
	got = Extract("ééé ab")
	want = []string{"ééé"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract = %v, want %v", got, want)
	}
}
