package domain

import (
	"strings"
)

// Quality is the caller-supplied recall rating on a 3-point scale.
type Quality int

// Possible quality values. The numeric values feed the ease formula directly.
const (
	QualityHard Quality = 1
	QualityOK   Quality = 3
	QualityEasy Quality = 5
)

// Quality labels as accepted from callers.
const (
	LabelHard = "hard"
	LabelOK   = "ok"
	LabelEasy = "easy"
)

// ParseQuality maps a hard/ok/easy label to its rating.
func ParseQuality(label string) (Quality, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case LabelHard:
		return QualityHard, nil
	case LabelOK:
		return QualityOK, nil
	case LabelEasy:
		return QualityEasy, nil
	default:
		return 0, NewValidationError("quality", "must be one of hard, ok, easy", ErrInvalidQuality)
	}
}

// IsValid reports whether q is one of the three defined ratings.
func (q Quality) IsValid() bool {
	switch q {
	case QualityHard, QualityOK, QualityEasy:
		return true
	default:
		return false
	}
}

// String returns the label for q, or "unknown".
func (q Quality) String() string {
	switch q {
	case QualityHard:
		return LabelHard
	case QualityOK:
		return LabelOK
	case QualityEasy:
		return LabelEasy
	default:
		return "unknown"
	}
}
