package codes

// LuhnCheckDigit computes the check digit for a numeric string: digits at
// odd positions from the right are summed as-is, digits at even positions
// are doubled and their own digits summed, and the check digit is
// (10 - total%10) % 10. Non-digit characters are ignored.
func LuhnCheckDigit(base string) int {
	sum := 0
	position := 0
	for i := len(base) - 1; i >= 0; i-- {
		c := base[i]
		if c < '0' || c > '9' {
			continue
		}
		d := int(c - '0')
		position++
		if position%2 == 0 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}
	return (10 - sum%10) % 10
}

// LuhnVerify reports whether the final digit of the code is the correct
// Luhn check digit for the preceding digits.
func LuhnVerify(code string) bool {
	if len(code) < 2 {
		return false
	}
	last := code[len(code)-1]
	if last < '0' || last > '9' {
		return false
	}
	return LuhnCheckDigit(code[:len(code)-1]) == int(last-'0')
}
