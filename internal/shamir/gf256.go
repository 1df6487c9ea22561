package shamir

// Arithmetic in GF(2^8) with the AES reduction polynomial and generator 3.
// Addition and subtraction are both XOR.

const reducer = 0x11b

//nolint:gochecknoglobals // precomputed tables
var (
	gfExp [510]byte
	gfLog [256]byte
)

//nolint:gochecknoinits // tables are fixed and tiny
func init() {
	x := 1
	for i := 0; i < 255; i++ {
		gfExp[i] = byte(x)
		gfExp[i+255] = byte(x)
		gfLog[x] = byte(i)
		x ^= x << 1
		if x&0x100 != 0 {
			x ^= reducer
		}
	}
}

func mul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return gfExp[int(gfLog[a])+int(gfLog[b])]
}

// div returns a/b. b must be non-zero.
func div(a, b byte) byte {
	if a == 0 {
		return 0
	}
	return gfExp[int(gfLog[a])+255-int(gfLog[b])]
}

// eval computes p(x) by Horner's rule; coeffs[0] is the constant term.
func eval(coeffs []byte, x byte) byte {
	var y byte
	for i := len(coeffs) - 1; i >= 0; i-- {
		y = mul(y, x) ^ coeffs[i]
	}
	return y
}
