package notation

import "fmt"

// SyntaxError reports a token the codec could not interpret. Index is the
// 0-based token index within the input, or -1 when the error was produced
// outside a token stream (e.g. a bare note-name lookup).
type SyntaxError struct {
	Token    string
	Index    int
	Expected string
}

func (e *SyntaxError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("invalid token %q at index %d: expected %s", e.Token, e.Index, e.Expected)
	}
	return fmt.Sprintf("invalid token %q: expected %s", e.Token, e.Expected)
}

// RangeError reports a numeric value outside its legal domain. Token and
// Index identify the offending token when the value came from a token
// stream; Token is empty otherwise.
type RangeError struct {
	What    string
	Value   float64
	Allowed string
	Token   string
	Index   int
}

func (e *RangeError) Error() string {
	msg := fmt.Sprintf("%s %s out of range: must be %s", e.What, formatNumber(e.Value), e.Allowed)
	if e.Token != "" && e.Index >= 0 {
		msg += fmt.Sprintf(" (token %q at index %d)", e.Token, e.Index)
	} else if e.Token != "" {
		msg += fmt.Sprintf(" (in %q)", e.Token)
	}
	return msg
}

// TimeSignatureError reports an unusable time signature.
type TimeSignatureError struct {
	Numerator   int
	Denominator int
}

func (e *TimeSignatureError) Error() string {
	return fmt.Sprintf("unsupported time signature %d/%d: numerator must be positive and denominator one of 1, 2, 4, 8, 16, 32",
		e.Numerator, e.Denominator)
}
