package ledger

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const MaxTimeSlotLength = 20

var DefaultTimeSlots = []string{"22:00", "23:00", "00:00", "01:00"}

var clockLayouts = []string{"15:04", "15:04:05", "3PM", "3:04PM", "3 PM", "3:04 PM"}

// NormalizeTimeSlot canonicalises clock-like labels to HH:MM so "9:00",
// "09:00:00" and "9AM" address the same slot. Other labels are kept as-is.
func NormalizeTimeSlot(label string) (string, error) {
	s := strings.TrimSpace(label)
	if s == "" {
		return "", fmt.Errorf("%w: time_slot is required", ErrValidation)
	}

	upper := strings.ToUpper(s)
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, upper); err == nil {
			return t.Format("15:04"), nil
		}
	}

	if utf8.RuneCountInString(s) > MaxTimeSlotLength {
		return "", fmt.Errorf("%w: time_slot must be at most %d characters", ErrValidation, MaxTimeSlotLength)
	}
	return s, nil
}
