package partner

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// DutyMode is the on/off duty flag stored with every duty record.
type DutyMode string

const (
	DutyModeOn  DutyMode = "on_duty"
	DutyModeOff DutyMode = "off_duty"
)

// ParseDutyMode maps the stored representation onto a DutyMode.
func ParseDutyMode(s string) (DutyMode, error) {
	mode := DutyMode(s)
	if err := mode.Validate(); err != nil {
		return "", err
	}
	return mode, nil
}

func (m DutyMode) Validate() error {
	switch m {
	case DutyModeOn, DutyModeOff:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("duty mode", fmt.Errorf("unknown duty mode %q", string(m)))
	}
}

func (m DutyMode) String() string {
	return string(m)
}

func (m DutyMode) IsOnDuty() bool {
	return m == DutyModeOn
}
