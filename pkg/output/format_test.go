package output

import "testing"

func TestFormatMicros(t *testing.T) {
	tests := []struct {
		us   int64
		want string
	}{
		{0, "0µs"},
		{999, "999µs"},
		{1000, "1.00ms"},
		{123456, "123.46ms"},
		{1_000_000, "1.00s"},
		{2_500_000, "2.50s"},
	}
	for _, tt := range tests {
		if got := FormatMicros(tt.us); got != tt.want {
			t.Errorf("FormatMicros(%d) = %q, want %q", tt.us, got, tt.want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		b    int64
		want string
	}{
		{256, "256 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{3 * 1024 * 1024, "3.00 MB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.b); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.b, got, tt.want)
		}
	}
}

func TestThousands(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{4096, "4,096"},
		{1234567, "1,234,567"},
		{-1234567, "-1,234,567"},
		{9223372036854775807, "9,223,372,036,854,775,807"},
	}
	for _, tt := range tests {
		if got := Thousands(tt.n); got != tt.want {
			t.Errorf("Thousands(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		s    string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"a longer function name", 10, "a longe..."},
		{"µµµµµµ", 5, "µµ..."},
		{"abcdef", 2, "ab"},
	}
	for _, tt := range tests {
		if got := Truncate(tt.s, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.s, tt.max, got, tt.want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"main", "main"},
		{"_ZN3foo3barEv", "foo::bar"},
		{"wgpu::render[0123456789abcdef]", "wgpu::render"},
		{"alloc::vec::Vec<u8>::push", "Vec<u8>::push"},
		{"core::ops::function::FnOnce::call_once", "FnOnce::call_once"},
		{"alloc::boxed::Box<dyn Fn>", "Box<dyn Fn>"},
	}
	for _, tt := range tests {
		if got := DisplayName(tt.name); got != tt.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(1, 4); got != 25 {
		t.Errorf("Percent(1, 4) = %v, want 25", got)
	}
	if got := Percent(5, 0); got != 0 {
		t.Errorf("Percent(5, 0) = %v, want 0", got)
	}
}

func TestSparklineRange(t *testing.T) {
	got := SparklineRange([]float64{0, 0.5, 1, 2, -1}, 0, 1)
	want := "▁▄██▁"
	if got != want {
		t.Errorf("SparklineRange() = %q, want %q", got, want)
	}
	if got := SparklineRange([]float64{3, 3}, 3, 3); got != "▁▁" {
		t.Errorf("SparklineRange() flat = %q", got)
	}
}
