package units

import (
	"errors"
	"math"
	"testing"
)

func TestPercentToPermille(t *testing.T) {
	tests := []struct {
		in   float64
		want int32
	}{
		{50.0, 500},
		{20.0, 200},
		{0, 0},
		{100.0, 1000},
		{-100.0, -1000},
		{12.34, 123},
		{12.36, 124}, // rounds, does not truncate
		{-0.26, -3},
	}

	for _, tt := range tests {
		got, err := PercentToPermille(tt.in)
		if err != nil {
			t.Fatalf("PercentToPermille(%v) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("PercentToPermille(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestRPMToDeciRPS(t *testing.T) {
	got, err := RPMToDeciRPS(120.0)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0x04B0 {
		t.Errorf("RPMToDeciRPS(120) = %d, want 1200", got)
	}

	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := RPMToDeciRPS(bad); !errors.Is(err, ErrNotFinite) {
			t.Errorf("RPMToDeciRPS(%v) error = %v, want ErrNotFinite", bad, err)
		}
	}
	if _, err := RPMToDeciRPS(1e9); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("RPMToDeciRPS(1e9) error = %v, want ErrOutOfRange", err)
	}
}

func TestSplitJoinUint32(t *testing.T) {
	values := []int32{0, 1, 1200, 0xFFFF, 0x10000, -1, -1200, math.MaxInt32, math.MinInt32, 0x12345678}
	for _, v := range values {
		high, low := SplitUint32(v)
		if back := JoinUint32(high, low); back != v {
			t.Errorf("Join(Split(%d)) = %d", v, back)
		}
	}

	high, low := SplitUint32(1200)
	if high != 0x0000 || low != 0x04B0 {
		t.Errorf("SplitUint32(1200) = (0x%04X, 0x%04X), want (0x0000, 0x04B0)", high, low)
	}
	high, low = SplitUint32(0x00012345)
	if high != 0x0001 || low != 0x2345 {
		t.Errorf("SplitUint32(0x12345) = (0x%04X, 0x%04X), want (0x0001, 0x2345)", high, low)
	}
}

func TestSignedTorqueToRegister(t *testing.T) {
	tests := []struct {
		magnitude int32
		dir       Direction
		want      uint16
	}{
		{500, Forward, 0x01F4},
		{500, Reverse, 0xFE0C},
		{0, Reverse, 0x0000},
		{1000, Forward, 0x03E8},
		{1000, Reverse, 0xFC18},
		{1, Reverse, 0xFFFF},
	}

	for _, tt := range tests {
		got, err := SignedTorqueToRegister(tt.magnitude, tt.dir)
		if err != nil {
			t.Fatalf("SignedTorqueToRegister(%d, %s) error: %v", tt.magnitude, tt.dir, err)
		}
		if got != tt.want {
			t.Errorf("SignedTorqueToRegister(%d, %s) = 0x%04X, want 0x%04X", tt.magnitude, tt.dir, got, tt.want)
		}
	}
}

func TestSignedTorqueRoundTrip(t *testing.T) {
	// Every 0.1 % step between -100 % and +100 %.
	for tenths := -1000; tenths <= 1000; tenths++ {
		p := float64(tenths) / 10
		dir := Forward
		if p < 0 {
			dir = Reverse
		}
		magnitude, err := PercentToPermille(math.Abs(p))
		if err != nil {
			t.Fatal(err)
		}
		reg, err := SignedTorqueToRegister(magnitude, dir)
		if err != nil {
			t.Fatalf("encode %.1f%%: %v", p, err)
		}
		if got := RegisterToSignedTorque(reg); got != int32(tenths) {
			t.Errorf("round-trip %.1f%%: decoded %d, want %d", p, got, tenths)
		}
	}
}

func TestSignedTorqueRejectsOverflow(t *testing.T) {
	for _, tc := range []struct {
		magnitude int32
		dir       Direction
	}{
		{32768, Forward},
		{32769, Reverse},
		{math.MaxInt32, Reverse},
	} {
		if _, err := SignedTorqueToRegister(tc.magnitude, tc.dir); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("SignedTorqueToRegister(%d, %s) error = %v, want ErrOutOfRange", tc.magnitude, tc.dir, err)
		}
	}
	// -32768 is representable.
	if reg, err := SignedTorqueToRegister(32768, Reverse); err != nil || reg != 0x8000 {
		t.Errorf("SignedTorqueToRegister(32768, reverse) = 0x%04X, %v", reg, err)
	}
}

func TestToUnsignedRegister(t *testing.T) {
	if v, err := ToUnsignedRegister(200); err != nil || v != 0x00C8 {
		t.Errorf("ToUnsignedRegister(200) = 0x%04X, %v", v, err)
	}
	if v, err := ToUnsignedRegister(65535); err != nil || v != 0xFFFF {
		t.Errorf("ToUnsignedRegister(65535) = 0x%04X, %v", v, err)
	}
	for _, bad := range []int32{-1, 65536} {
		if _, err := ToUnsignedRegister(bad); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("ToUnsignedRegister(%d) error = %v, want ErrOutOfRange", bad, err)
		}
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    Direction
		wantErr bool
	}{
		{"forward", Forward, false},
		{"FWD", Forward, false},
		{"+", Forward, false},
		{" reverse ", Reverse, false},
		{"rev", Reverse, false},
		{"-", Reverse, false},
		{"sideways", Forward, true},
	}

	for _, tt := range tests {
		got, err := ParseDirection(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDirection(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDirection(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
