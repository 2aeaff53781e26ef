package utils

// CycleEnum steps through 0..last, wrapping at both ends. direction is +1 or -1.
func CycleEnum[T ~int](current T, direction int, last T) T {
	size := int(last) + 1
	return T(((int(current)+direction)%size + size) % size)
}
