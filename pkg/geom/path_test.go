package geom

import "testing"

func TestNum(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{-0.0001, "0"},
		{35, "35"},
		{1.5, "1.5"},
		{1.23456, "1.235"},
		{-2.5, "-2.5"},
		{34.99999999, "35"},
	}

	for _, tt := range tests {
		if got := Num(tt.in); got != tt.want {
			t.Errorf("Num(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPathShorthand(t *testing.T) {
	tests := []struct {
		name  string
		build func(*Path)
		want  string
	}{
		{
			name:  "horizontal",
			build: func(p *Path) { p.MoveTo(Pt(0, 0)).LineBy(Pt(10, 0)) },
			want:  "M 0 0 h 10",
		},
		{
			name:  "vertical",
			build: func(p *Path) { p.MoveTo(Pt(1, 2)).LineBy(Pt(0, -3)) },
			want:  "M 1 2 v -3",
		},
		{
			name:  "diagonal",
			build: func(p *Path) { p.MoveTo(Pt(0, 0)).LineBy(Pt(1, 1)) },
			want:  "M 0 0 l 1 1",
		},
		{
			name:  "absolute line tracks current point",
			build: func(p *Path) { p.MoveTo(Pt(5, 5)).LineTo(Pt(5, 9)).LineTo(Pt(8, 13)) },
			want:  "M 5 5 v 4 l 3 4",
		},
		{
			name:  "quadratic",
			build: func(p *Path) { p.MoveTo(Pt(0, 0)).CurveBy(Pt(50, 20), Pt(100, 0)) },
			want:  "M 0 0 q 50 20 100 0",
		},
		{
			name:  "arc and close",
			build: func(p *Path) { p.MoveTo(Pt(0, 0)).ArcBy(Pt(5, 5), 0, true, false, Pt(10, 0)).Close() },
			want:  "M 0 0 a 5 5 0 1 0 10 0 z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPath()
			tt.build(p)
			if got := p.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPathAppend(t *testing.T) {
	a := NewPath().MoveTo(Pt(0, 0)).LineTo(Pt(1, 0))
	b := NewPath().MoveTo(Pt(5, 5)).LineTo(Pt(5, 6))
	a.Append(b)
	if got, want := a.String(), "M 0 0 h 1 M 5 5 v 1"; got != want {
		t.Errorf("Append = %q, want %q", got, want)
	}
	if a.Current() != Pt(5, 6) {
		t.Errorf("Current() = %v", a.Current())
	}
	if !NewPath().Empty() {
		t.Error("new path should be empty")
	}
}
