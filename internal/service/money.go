package service

import "math"

// Round2 rounds a monetary amount to two decimal places. All totals leaving
// the services are rounded with it.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
