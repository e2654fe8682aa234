package util

import "testing"

func TestToBinaryString(t *testing.T) {
	cases := map[byte]string{
		0x00: "00000000",
		0xFF: "11111111",
		0xFE: "11111110",
		0x80: "10000000",
		0x01: "00000001",
	}
	for in, want := range cases {
		if got := ToBinaryString(in); got != want {
			t.Errorf("ToBinaryString(%#x) = %q, want %q", in, got, want)
		}
	}
}
