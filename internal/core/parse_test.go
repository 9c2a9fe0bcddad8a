package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseTitle(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"Clean Code", "Clean Code", true},
		{"  Clean Code  ", "Clean Code", true},
		{"a", "a", true},
		{strings.Repeat("x", 200), strings.Repeat("x", 200), true},
		{strings.Repeat("x", 201), "", false},
		{"", "", false},
		{"   ", "", false},
		{"  " + strings.Repeat("x", 200) + "  ", strings.Repeat("x", 200), true},
	}
	for _, tc := range cases {
		got, err := ParseTitle(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %q, got %q (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"0", 0, true},
		{"3200", 3200, true},
		{"9999999", 9_999_999, true},
		{"3200.0", 3200, true},
		{" 100 ", 100, true},
		{"10000000", 0, false},
		{"-1", 0, false},
		{"3200.5", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParsePrice(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestParsePrice_ErrorKind(t *testing.T) {
	_, err := ParsePrice("not a number")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if verr.Field != "price" {
		t.Fatalf("expected field price, got %q", verr.Field)
	}
}

func TestParsePurchasedAt(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	got, err := ParsePurchasedAt("", now)
	if err != nil || !got.Equal(now) {
		t.Fatalf("empty input should default to now, got %v (err=%v)", got, err)
	}

	got, err = ParsePurchasedAt("2024-05-10", now)
	if err != nil {
		t.Fatalf("date-only parse failed: %v", err)
	}
	want := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	got, err = ParsePurchasedAt("2024-05-10T09:30:00Z", now)
	if err != nil {
		t.Fatalf("RFC3339 parse failed: %v", err)
	}
	want = time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if _, err := ParsePurchasedAt("not-a-date", now); err == nil {
		t.Fatalf("expected error for unparseable date")
	}
}

func TestParseTags(t *testing.T) {
	cases := []struct {
		name string
		in   string
		out  []string
	}{
		{"empty", "", []string{}},
		{"single", "eng", []string{"eng"}},
		{"dedup preserves first occurrence", "a, a, b", []string{"a", "b"}},
		{"fullwidth comma", "小説、技術書", []string{"小説", "技術書"}},
		{"mixed delimiters", "a,b、c", []string{"a", "b", "c"}},
		{"trims and drops empties", " a , , b ,", []string{"a", "b"}},
	}
	for _, tc := range cases {
		got, err := ParseTags(tc.in)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if len(got) != len(tc.out) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.out, got)
		}
		for i := range got {
			if got[i] != tc.out[i] {
				t.Fatalf("%s: expected %v, got %v", tc.name, tc.out, got)
			}
		}
	}
}

func TestParseTags_TruncatesToTwenty(t *testing.T) {
	parts := make([]string, 21)
	for i := range parts {
		parts[i] = "tag" + string(rune('a'+i))
	}
	got, err := ParseTags(strings.Join(parts, ","))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != MaxTags {
		t.Fatalf("expected %d tags, got %d", MaxTags, len(got))
	}
	for i, tag := range got {
		if tag != parts[i] {
			t.Fatalf("expected first %d unique tags kept, got %v", MaxTags, got)
		}
	}
}

func TestParseTags_LongTagRejects(t *testing.T) {
	long := strings.Repeat("x", 51)
	if _, err := ParseTags("ok," + long); err == nil {
		t.Fatalf("expected rejection for 51-character tag")
	}
	// A 50-character tag is fine.
	if _, err := ParseTags(strings.Repeat("y", 50)); err != nil {
		t.Fatalf("50-character tag should pass: %v", err)
	}
}

func TestParseTags_LongTagPastTruncationIgnored(t *testing.T) {
	// The count cap applies before the length check: a long tag in
	// position 21 never gets length-checked.
	parts := make([]string, 0, 21)
	for i := 0; i < 20; i++ {
		parts = append(parts, "t"+string(rune('a'+i)))
	}
	parts = append(parts, strings.Repeat("x", 51))
	got, err := ParseTags(strings.Join(parts, ","))
	if err != nil {
		t.Fatalf("long tag past position 20 must not reject: %v", err)
	}
	if len(got) != MaxTags {
		t.Fatalf("expected %d tags, got %d", MaxTags, len(got))
	}
}

func TestParsePurchaseInput(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	in, err := ParsePurchaseInput(RawPurchase{
		Title:       "  Clean Code ",
		Price:       "3200",
		Tags:        "eng, reading, eng",
		PurchasedAt: "2024-05-10",
	}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Title != "Clean Code" || in.Price != 3200 {
		t.Fatalf("unexpected normalized fields: %+v", in)
	}
	if len(in.Tags) != 2 || in.Tags[0] != "eng" || in.Tags[1] != "reading" {
		t.Fatalf("unexpected tags: %v", in.Tags)
	}
	if !in.PurchasedAt.Equal(time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected purchasedAt: %v", in.PurchasedAt)
	}

	if _, err := ParsePurchaseInput(RawPurchase{Title: "", Price: "10"}, now); err == nil {
		t.Fatalf("expected title rejection")
	}
	if _, err := ParsePurchaseInput(RawPurchase{Title: "x", Price: ""}, now); err == nil {
		t.Fatalf("expected price rejection")
	}
}
