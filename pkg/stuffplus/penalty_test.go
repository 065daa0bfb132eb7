package stuffplus

import "testing"

func TestVelocityPenaltyFastball(t *testing.T) {
	adj, pen := VelocityPenalty("FF", 90, 15, 110)
	if pen != 3 || adj != 107 {
		t.Fatalf("FF@90: adj=%v pen=%v, want 107/3", adj, pen)
	}
	// soft fastball is capped at 105 before the penalty
	adj, pen = VelocityPenalty("FF", 88, 15, 120)
	if pen != 5 || adj != 100 {
		t.Fatalf("FF@88: adj=%v pen=%v, want 100/5", adj, pen)
	}
}

func TestVelocityPenaltyCap(t *testing.T) {
	_, pen := VelocityPenalty("CU", 30, 5, 100)
	if pen != 30 {
		t.Fatalf("penalty = %v, want capped at 30", pen)
	}
}

func TestVelocityPenaltyHighRideReclassifies(t *testing.T) {
	// 18" of induced vertical break gets fastball treatment even as SL
	_, pen := VelocityPenalty("SL", 90, 18, 100)
	if pen != 3 {
		t.Fatalf("penalty = %v, want fastball-scale 3", pen)
	}
}

func TestVelocityPenaltyAboveAverage(t *testing.T) {
	adj, pen := VelocityPenalty("SL", 88, 5, 112)
	if pen != 0 || adj != 112 {
		t.Fatalf("SL@88: adj=%v pen=%v, want untouched", adj, pen)
	}
}

func TestClip(t *testing.T) {
	if Clip(150) != 140 || Clip(40) != 60 || Clip(100) != 100 {
		t.Fatalf("Clip bounds wrong: %v %v %v", Clip(150), Clip(40), Clip(100))
	}
}
