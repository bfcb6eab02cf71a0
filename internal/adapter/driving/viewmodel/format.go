package viewmodel

import "time"

// DateLayout is how last-watered dates are shown.
const DateLayout = "Jan 02, 2006"

// FormatDate renders t in local time, or "Never" when t is nil.
func FormatDate(t *time.Time) string {
	if t == nil {
		return "Never"
	}
	return t.Local().Format(DateLayout)
}
