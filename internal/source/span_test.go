package source

import "testing"

func TestSpanSub(t *testing.T) {
	s := Span{File: 3, Start: 10, End: 20}
	tests := []struct {
		off, n uint32
		want   Span
	}{
		{0, 1, Span{File: 3, Start: 10, End: 11}},
		{4, 3, Span{File: 3, Start: 14, End: 17}},
		{8, 10, Span{File: 3, Start: 18, End: 20}},
		{30, 1, Span{File: 3, Start: 20, End: 20}},
	}
	for _, tt := range tests {
		if got := s.Sub(tt.off, tt.n); got != tt.want {
			t.Errorf("Sub(%d, %d) = %v, want %v", tt.off, tt.n, got, tt.want)
		}
	}
}

func TestSpanZeroAndContains(t *testing.T) {
	if !(Span{}).IsZero() {
		t.Fatal("zero span")
	}
	// пустой спан в начале файла 1 уже не синтетический
	if (Span{File: 1}).IsZero() {
		t.Fatal("span of file 1 is not synthetic")
	}
	s := Span{Start: 4, End: 6}
	for off, want := range map[uint32]bool{3: false, 4: true, 5: true, 6: false} {
		if got := s.Contains(off); got != want {
			t.Errorf("Contains(%d) = %v", off, got)
		}
	}
	if s.Len() != 2 || s.Empty() {
		t.Errorf("Len/Empty")
	}
}
