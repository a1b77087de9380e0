package main

import "testing"

func TestDescribeWrite(t *testing.T) {
	tests := []struct {
		address uint16
		values  []uint16
		want    string
	}{
		{0x6071, []uint16{0xFE0C}, "torque -50.0%"},
		{0x6071, []uint16{0x01F4}, "torque 50.0%"},
		{0x6081, []uint16{0x0000, 0x04B0}, "speed 120.0 rpm"},
		{0x6087, []uint16{200}, "slope 20.0%/s"},
		{0x6060, []uint16{0x0004}, "torque mode"},
		{0x6040, []uint16{0x011F}, "quick-stop"},
		{0x6060, []uint16{0x0001}, ""},
		{0x1234, []uint16{1}, ""},
	}

	for _, tt := range tests {
		got := describeWrite(tt.address, tt.values)
		if got != tt.want {
			t.Errorf("describeWrite(0x%04X, %v) = %q, want %q", tt.address, tt.values, got, tt.want)
		}
	}
}
