package util

import (
	"strconv"
	"strings"
)

// ToBinaryString renders a byte as an 8-character "1"/"0" string, most
// significant bit first — used by flashfifoctl stat -v to print a page
// counter's bit pattern.
func ToBinaryString(data byte) string {
	result := make([]string, 0)
	for i := 0; i < 8; i++ {
		move := uint(7 - i)
		result = append(result, strconv.Itoa(int((data>>move)&1)))
	}
	return strings.Join(result, "")
}
