package usage

import (
	"fmt"
	"math"
	"strings"
)

const barWidth = 24

func clampPercent(v float64) int {
	return int(math.Max(0, math.Min(100, math.Round(v))))
}

// FormatDuration renders seconds as "2d 3h", "4h 5m" or "6m".
func FormatDuration(seconds float64) string {
	s := int64(math.Floor(math.Max(0, seconds)))
	days := s / 86400
	hours := s % 86400 / 3600
	minutes := s % 3600 / 60
	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

// WindowName names a window by its length: "5-hour limit", "7-day limit".
func WindowName(seconds float64) string {
	hours := math.Max(1, math.Round(seconds/3600))
	if hours >= 24 {
		return fmt.Sprintf("%d-day limit", int(math.Round(hours/24)))
	}
	return fmt.Sprintf("%d-hour limit", int(hours))
}

// ProgressBar draws usedPercent as a fixed-width bar.
func ProgressBar(usedPercent float64, width int) string {
	p := clampPercent(usedPercent)
	filled := int(math.Round(float64(p) / 100 * float64(width)))
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

func formatWindow(w Window) []string {
	used := clampPercent(w.UsedPercent)
	remaining := clampPercent(float64(100 - used))
	return []string{
		WindowName(w.LimitWindowSeconds),
		fmt.Sprintf("%s %d%% used, %d%% remaining", ProgressBar(float64(used), barWidth), used, remaining),
		"Resets in: " + FormatDuration(w.ResetAfterSeconds),
	}
}

// Report renders the usage summary shown to the user.
func Report(r *Response, email string) string {
	if email == "" {
		email = "unknown"
	}
	lines := []string{
		"Codex usage",
		"",
		fmt.Sprintf("Account: %s (%s)", email, r.PlanType),
	}
	if r.RateLimit == nil {
		lines = append(lines, "", "No rate limit data available.")
		return strings.Join(lines, "\n")
	}
	lines = append(lines, "")
	lines = append(lines, formatWindow(r.RateLimit.Primary)...)
	if r.RateLimit.Secondary != nil {
		lines = append(lines, "")
		lines = append(lines, formatWindow(*r.RateLimit.Secondary)...)
	}
	if r.RateLimit.LimitReached {
		lines = append(lines, "", "Limit reached.")
	}
	return strings.Join(lines, "\n")
}
