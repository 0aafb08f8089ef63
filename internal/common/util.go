package common

// WipeByteArray zeroes buf in place. Used for passwords read from the terminal.
func WipeByteArray(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
}
