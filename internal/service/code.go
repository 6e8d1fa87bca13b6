package service

import (
	"fmt"
	"strconv"
)

// Business code prefixes
const (
	CustomerCodePrefix  = "C"
	EmployeeCodePrefix  = "E"
	ProductCodePrefix   = "P"
	SaleCodePrefix      = "V"
	StoreItemCodePrefix = "A"
	PurchaseCodePrefix  = "B"
)

// NextCode increments the trailing number of latest and formats it as prefix plus
// at least three digits. An empty latest, or one without a trailing number, starts at 1.
func NextCode(prefix, latest string) string {
	end := len(latest)
	start := end
	for start > 0 && latest[start-1] >= '0' && latest[start-1] <= '9' {
		start--
	}

	next := 1
	if start < end {
		if n, err := strconv.Atoi(latest[start:end]); err == nil {
			next = n + 1
		}
	}
	return fmt.Sprintf("%s%03d", prefix, next)
}
