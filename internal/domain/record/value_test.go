package record

import (
	"math"
	"testing"
	"time"
)

func TestValue_Text(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"string", String("Annual Report"), "Annual Report"},
		{"integer number", Number(2516582), "2516582"},
		{"fraction", Number(1.5), "1.5"},
		{"date only", Date(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)), "2024-01-15"},
		{"date time", Date(time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)), "2024-01-15T10:30:00Z"},
		{"tags", Tags("finance", "annual"), "finance, annual"},
		{"absent", Value{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValue_Equals(t *testing.T) {
	tests := []struct {
		name     string
		v        Value
		expected string
		want     bool
	}{
		{"string exact", String("Draft"), "Draft", true},
		{"string case differs", String("Draft"), "draft", false},
		{"number canonical", Number(42), "42", true},
		{"date canonical", Date(time.Date(2023, 12, 10, 0, 0, 0, 0, time.UTC)), "2023-12-10", true},
		{"tags membership", Tags("history", "manuscript"), "manuscript", true},
		{"tags no partial", Tags("history", "manuscript"), "manu", false},
		{"absent never matches", Value{}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Equals(tt.expected); got != tt.want {
				t.Errorf("Equals(%q) = %v, want %v", tt.expected, got, tt.want)
			}
		})
	}
}

func TestValue_ContainsFold(t *testing.T) {
	if !String("Medieval Manuscript").ContainsFold("manuscript") {
		t.Error("string should match case-insensitively")
	}
	if !Tags("Heritage", "maps").ContainsFold("herit") {
		t.Error("any tag containing the term should match")
	}
	if Tags("a", "b").ContainsFold("a, b") {
		t.Error("tags match per tag, not on the joined text")
	}
	if (Value{}).ContainsFold("") {
		t.Error("absent value should not match")
	}
}

func TestCompare(t *testing.T) {
	d1 := Date(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	d2 := Date(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC))
	tests := []struct {
		name string
		a, b Value
		want int
	}{
		{"absent equal", Value{}, Value{}, 0},
		{"absent first", Value{}, Number(-1), -1},
		{"numbers", Number(2), Number(10), -1},
		{"NaN first", Number(math.NaN()), Number(-1e300), -1},
		{"dates", d2, d1, 1},
		{"strings fold", String("apple"), String("Banana"), -1},
		{"strings tie break", String("A"), String("a"), -1},
		{"tags element-wise", Tags("a", "z"), Tags("b"), -1},
		{"tags prefix shorter first", Tags("a"), Tags("a", "b"), -1},
		{"number before date", Number(1e12), d1, -1},
		{"date before string", d2, String(""), -1},
		{"string before tags", String("zzz"), Tags(), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compare(tt.a, tt.b); got != tt.want {
				t.Errorf("Compare() = %d, want %d", got, tt.want)
			}
			if got := Compare(tt.b, tt.a); got != -tt.want {
				t.Errorf("Compare(reversed) = %d, want %d", got, -tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	v, err := ParseDate("2024-01-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Kind() != KindDate || v.Text() != "2024-01-15" {
		t.Errorf("got %s %q", v.Kind(), v.Text())
	}
	if _, err := ParseDate("15/01/2024"); err == nil {
		t.Error("expected error for unsupported layout")
	}
}

func TestTags_Copied(t *testing.T) {
	src := []string{"a", "b"}
	v := Tags(src...)
	src[0] = "changed"
	got, _ := v.TagList()
	if got[0] != "a" {
		t.Errorf("Tags() kept a reference to the input: %v", got)
	}
}
