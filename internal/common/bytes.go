package common

// WipeByteArray zeroes the slice in place. Used for passwords once they
// have been handed to the backend.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
