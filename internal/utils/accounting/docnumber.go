package accounting

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Document number prefixes. Entry and voucher numbers share the format
// <prefix><YYYYMMDD>-<NNNN>, with NNNN sequential per day starting at 0001.
const (
	EntryNumberPrefix      = "JE-"
	ReceivableNumberPrefix = "AR-"
	PayableNumberPrefix    = "AP-"
)

// DayPrefix returns the date-qualified prefix for documents issued on the
// given day, e.g. "JE-20260115-".
func DayPrefix(prefix string, day time.Time) string {
	return prefix + day.Format("20060102") + "-"
}

// NextNumber produces the document number following maxExisting within the
// same day prefix. maxExisting is the lexicographic maximum already issued
// ("" when the day has no documents yet).
func NextNumber(dayPrefix, maxExisting string) string {
	next := 1
	if maxExisting != "" {
		suffix := maxExisting
		if idx := strings.LastIndex(maxExisting, "-"); idx >= 0 {
			suffix = maxExisting[idx+1:]
		}
		if n, err := strconv.Atoi(suffix); err == nil {
			next = n + 1
		}
	}
	return fmt.Sprintf("%s%04d", dayPrefix, next)
}
