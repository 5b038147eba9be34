package commands

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	ErrStartDutyCommandIsNotConstructed = errors.New(
		"start duty command is not constructed, use NewStartDutyCommand")
	ErrEndDutyCommandIsNotConstructed = errors.New(
		"end duty command is not constructed, use NewEndDutyCommand")
	ErrUpdateDutyAreaCommandIsNotConstructed = errors.New(
		"update duty area command is not constructed, use NewUpdateDutyAreaCommand")
)

type StartDutyCommand struct {
	partnerID string
	location  kernel.Location

	guard guard.ConstructorGuard
}

func NewStartDutyCommand(partnerID string, lat float64, lon float64) (StartDutyCommand, error) {
	location, locErr := kernel.NewLocation(lat, lon)
	if err := errors.Join(requirePartnerID(partnerID), locErr); err != nil {
		return StartDutyCommand{}, err
	}
	return StartDutyCommand{partnerID: partnerID, location: location, guard: guard.NewConstructorGuard()}, nil
}

func (c StartDutyCommand) Validate() error {
	return c.guard.Validate(ErrStartDutyCommandIsNotConstructed)
}

func (c StartDutyCommand) PartnerID() string {
	return c.partnerID
}

func (c StartDutyCommand) Location() kernel.Location {
	return c.location
}

type EndDutyCommand struct {
	partnerID string

	guard guard.ConstructorGuard
}

func NewEndDutyCommand(partnerID string) (EndDutyCommand, error) {
	if err := requirePartnerID(partnerID); err != nil {
		return EndDutyCommand{}, err
	}
	return EndDutyCommand{partnerID: partnerID, guard: guard.NewConstructorGuard()}, nil
}

func (c EndDutyCommand) Validate() error {
	return c.guard.Validate(ErrEndDutyCommandIsNotConstructed)
}

func (c EndDutyCommand) PartnerID() string {
	return c.partnerID
}

type UpdateDutyAreaCommand struct {
	partnerID string
	state     string
	district  string

	guard guard.ConstructorGuard
}

func NewUpdateDutyAreaCommand(partnerID string, state string, district string) (UpdateDutyAreaCommand, error) {
	state = strings.TrimSpace(state)
	district = strings.TrimSpace(district)

	var stateErr, districtErr error
	if state == "" {
		stateErr = errs.NewValueIsRequiredError("state")
	}
	if district == "" {
		districtErr = errs.NewValueIsRequiredError("district")
	}
	if err := errors.Join(requirePartnerID(partnerID), stateErr, districtErr); err != nil {
		return UpdateDutyAreaCommand{}, err
	}

	return UpdateDutyAreaCommand{
		partnerID: partnerID,
		state:     state,
		district:  district,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateDutyAreaCommand) Validate() error {
	return c.guard.Validate(ErrUpdateDutyAreaCommandIsNotConstructed)
}

func (c UpdateDutyAreaCommand) PartnerID() string {
	return c.partnerID
}

func (c UpdateDutyAreaCommand) State() string {
	return c.state
}

func (c UpdateDutyAreaCommand) District() string {
	return c.district
}

func requirePartnerID(id string) error {
	if strings.TrimSpace(id) == "" {
		return errs.NewValueIsRequiredError("dp_id")
	}
	return nil
}
