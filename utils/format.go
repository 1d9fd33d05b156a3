package utils

import (
	"fmt"
	"strconv"
)

const (
	thousand = 1_000
	million  = 1_000_000
	billion  = 1_000_000_000
)

// FormatMagnitude renders a quantity for humans: values below one thousand
// as-is, otherwise scaled to K, M or B with one decimal place.
func FormatMagnitude(v uint64) string {
	switch {
	case v < thousand:
		return strconv.FormatUint(v, 10)
	case v < million:
		return fmt.Sprintf("%.1fK", float64(v)/thousand)
	case v < billion:
		return fmt.Sprintf("%.1fM", float64(v)/million)
	default:
		return fmt.Sprintf("%.1fB", float64(v)/billion)
	}
}

// WeiToGwei converts an amount of wei to Gwei.
func WeiToGwei(wei uint64) float64 {
	return float64(wei) * 1e-9
}
