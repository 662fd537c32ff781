package geom

import (
	"math"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDist(t *testing.T) {
	if d := V(0, 0, 0).Dist(V(3, 0, 4)); !approx(d, 5) {
		t.Errorf("Dist = %v, want 5", d)
	}
}

func TestNormalize_Zero(t *testing.T) {
	if got := (Vec3{}).Normalize(); got != (Vec3{}) {
		t.Errorf("Normalize(zero) = %v, want zero", got)
	}
}

func TestMoveTowards(t *testing.T) {
	tests := []struct {
		name     string
		from, to Vec3
		step     float64
		want     Vec3
	}{
		{"partial", V(0, 0, 0), V(10, 0, 0), 4, V(4, 0, 0)},
		{"overshoot snaps", V(0, 0, 0), V(1, 0, 0), 4, V(1, 0, 0)},
		{"already there", V(2, 0, 2), V(2, 0, 2), 1, V(2, 0, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.from.MoveTowards(tt.to, tt.step)
			if !approx(got.X, tt.want.X) || !approx(got.Z, tt.want.Z) {
				t.Errorf("MoveTowards = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestYawForward(t *testing.T) {
	tests := []struct {
		dir  Vec3
		want float64
	}{
		{V(0, 0, 1), 0},
		{V(1, 0, 0), 90},
		{V(0, 0, -1), 180},
		{V(-1, 0, 0), 270},
	}
	for _, tt := range tests {
		if got := Yaw(tt.dir); !approx(got, tt.want) {
			t.Errorf("Yaw(%v) = %v, want %v", tt.dir, got, tt.want)
		}
		f := Forward(tt.want)
		if !approx(f.X, tt.dir.X) || !approx(f.Z, tt.dir.Z) {
			t.Errorf("Forward(%v) = %v, want %v", tt.want, f, tt.dir)
		}
	}
}

func TestRotateTowards(t *testing.T) {
	tests := []struct {
		name                  string
		current, target, step float64
		want                  float64
	}{
		{"clockwise step", 0, 90, 30, 30},
		{"counter-clockwise across zero", 10, 350, 15, 355},
		{"snap when within step", 80, 90, 30, 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RotateTowards(tt.current, tt.target, tt.step); !approx(got, tt.want) {
				t.Errorf("RotateTowards = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDeltaAngle(t *testing.T) {
	if d := DeltaAngle(350, 10); !approx(d, 20) {
		t.Errorf("DeltaAngle(350,10) = %v, want 20", d)
	}
	if d := DeltaAngle(10, 350); !approx(d, -20) {
		t.Errorf("DeltaAngle(10,350) = %v, want -20", d)
	}
}
