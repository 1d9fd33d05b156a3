package utils

import (
	"strconv"

	"github.com/pkg/errors"
)

var (
	ErrTypeMismatch = errors.New("type mismatch")
	ErrMalformedHex = errors.New("malformed hex quantity")
)

// HexToUint64 decodes a JSON value holding a hex quantity such as "0x1a".
// The "0x" prefix is optional and matched case-insensitively.
func HexToUint64(v any) (uint64, error) {
	s, ok := v.(string)
	if !ok {
		return 0, errors.Wrapf(ErrTypeMismatch, "expected hex string, got %T", v)
	}

	digits := s
	if len(digits) >= 2 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		digits = digits[2:]
	}
	if digits == "" {
		return 0, errors.Wrapf(ErrMalformedHex, "%q", s)
	}

	n, err := strconv.ParseUint(digits, 16, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrMalformedHex, "%q: %v", s, err)
	}
	return n, nil
}
