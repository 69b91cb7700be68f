package splitflap

// NumFlaps is the number of characters printed on the wheel
const NumFlaps = 57

// Flap is one printable position on the wheel
type Flap struct {
	Character byte
	Steps     int64
}

var flapCharacters = [NumFlaps]byte{
	'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'J',
	'K', 'L', 'M', 'N', 'O', 'P', 'Q', 'R', 'S', 'T',
	'U', 'V', 'W', 'X', 'Y', 'Z',
	'0', '1', '2', '3', '4', '5', '6', '7', '8', '9',
	'.', ':', '-', '\'', '/', ',', '@', '"', '#',
	'!', '&', '?', '~', '_', '+', '=', '(', ')', '$', '%', ' ',
}

// flapSteps is generated for 57 flaps on a 4096 step wheel. Regenerate it if either changes.
var flapSteps = [NumFlaps]int64{
	0, 72, 144, 216, 288, 360, 432, 504, 576, 648,
	720, 792, 864, 936, 1008, 1080, 1152, 1224, 1296, 1368,
	1440, 1512, 1584, 1656, 1728, 1800, 1872, 1944, 2016, 2088,
	2160, 2232, 2304, 2376, 2448, 2520, 2592, 2664, 2736, 2808,
	2880, 2952, 3024, 3096, 3168, 3240, 3312, 3384, 3456, 3528,
	3600, 3672, 3744, 3816, 3888, 3960, 4032,
}

// IndexOf returns the flap index showing c. Lowercase letters are matched against their uppercase flap.
func IndexOf(c byte) (int, bool) {
	c = toUpper(c)
	for i := range flapCharacters {
		if flapCharacters[i] == c {
			return i, true
		}
	}
	return -1, false
}

// CharacterAt returns the character printed on flap i. It panics if i is out of range.
func CharacterAt(i int) byte {
	return flapCharacters[i]
}

// StepsAt returns the nominal step position of flap i within one revolution. It panics if i is out of range.
func StepsAt(i int) int64 {
	return flapSteps[i]
}

// ValidIndex reports whether i addresses a flap
func ValidIndex(i int) bool {
	return i >= 0 && i < NumFlaps
}

// Flaps returns a copy of the whole index table in wheel order
func Flaps() []Flap {
	flaps := make([]Flap, NumFlaps)
	for i := range flaps {
		flaps[i] = Flap{Character: flapCharacters[i], Steps: flapSteps[i]}
	}
	return flaps
}

func toUpper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}
