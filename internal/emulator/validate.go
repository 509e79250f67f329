package emulator

// Validation limits for stored codes and send requests.
const (
	minSavedBits  = 1
	maxSavedBits  = 64
	minSendLength = 1
	maxSendLength = 128
)

// isHexValue reports whether s is a non-empty string of hex digits.
func isHexValue(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// savedCodeReason validates one saved-code entry, returning a human-readable
// rejection reason or "" when the entry is acceptable.
func savedCodeReason(protocol, value string, bits int) string {
	switch {
	case protocol == "":
		return "Missing protocol"
	case value == "":
		return "Missing value"
	case !isHexValue(value):
		return "Value must be hex"
	case bits < minSavedBits || bits > maxSavedBits:
		return "Bits out of range"
	}
	return ""
}

// validSendRequest checks the transmit parameters of /send and channel sends.
func validSendRequest(data string, length int) bool {
	return isHexValue(data) && length >= minSendLength && length <= maxSendLength
}
