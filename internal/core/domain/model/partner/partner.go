package partner

import (
	"errors"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	ErrIDIsRequired            = errs.NewValueIsRequiredError("partner id")
	ErrStateIsRequired         = errs.NewValueIsRequiredError("state")
	ErrDistrictIsRequired      = errs.NewValueIsRequiredError("district")
	ErrPartnerIsNotConstructed = errors.New("Partner must be created via NewPartner or RestorePartner")
	ErrLocationIsRequired      = errs.NewValueIsRequiredError("duty location")
)

// Partner is a delivery partner with its duty state.
type Partner struct {
	id                   string
	name                 string
	state                string
	district             string
	dutyMode             DutyMode
	location             *kernel.Location
	lastDutyUpdateMillis int64
	guard                guard.ConstructorGuard
}

// NewPartner creates an off-duty partner filed under state and district.
func NewPartner(id string, name string, state string, district string) (*Partner, error) {
	p := &Partner{
		name:     strings.TrimSpace(name),
		dutyMode: DutyModeOff,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setArea(state, district),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// RestorePartner rebuilds a partner from a stored duty record.
func RestorePartner(
	id string,
	name string,
	state string,
	district string,
	mode DutyMode,
	location *kernel.Location,
	lastDutyUpdateMillis int64,
) (*Partner, error) {
	p := &Partner{
		name:                 strings.TrimSpace(name),
		location:             location,
		lastDutyUpdateMillis: lastDutyUpdateMillis,
		guard:                guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setArea(state, district),
		p.setDutyMode(mode),
	); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Partner) Validate() error {
	if p == nil {
		return ErrPartnerIsNotConstructed
	}
	return p.guard.Validate(ErrPartnerIsNotConstructed)
}

func (p *Partner) ID() string {
	return p.id
}

func (p *Partner) Name() string {
	return p.name
}

func (p *Partner) State() string {
	return p.state
}

func (p *Partner) District() string {
	return p.district
}

func (p *Partner) DutyMode() DutyMode {
	return p.dutyMode
}

// Location returns the last reported position, nil when unknown.
func (p *Partner) Location() *kernel.Location {
	return p.location
}

func (p *Partner) LastDutyUpdateMillis() int64 {
	return p.lastDutyUpdateMillis
}

// StartDuty puts the partner on duty at loc and stamps the duty timestamp.
func (p *Partner) StartDuty(loc kernel.Location, atMillis int64) error {
	if err := loc.Validate(); err != nil {
		return ErrLocationIsRequired
	}

	p.dutyMode = DutyModeOn
	p.location = &loc
	p.lastDutyUpdateMillis = atMillis
	return nil
}

// EndDuty takes the partner off duty. The last position is kept.
func (p *Partner) EndDuty(atMillis int64) {
	p.dutyMode = DutyModeOff
	p.lastDutyUpdateMillis = atMillis
}

// MoveTo files the partner under another state and district. It reports
// whether the area actually changed.
func (p *Partner) MoveTo(state string, district string) (bool, error) {
	before := p.state + "/" + p.district
	if err := p.setArea(state, district); err != nil {
		return false, err
	}
	return before != p.state+"/"+p.district, nil
}

// Bucket returns the duty bucket of the partner for day.
func (p *Partner) Bucket(day time.Time) (DutyBucket, error) {
	return NewDutyBucket(p.state, p.district, day)
}

// Candidate returns the snapshot the assignment engine works on.
func (p *Partner) Candidate() Candidate {
	c := Candidate{
		ID:                   p.id,
		Name:                 p.name,
		LastDutyUpdateMillis: p.lastDutyUpdateMillis,
	}
	if p.location != nil {
		loc := *p.location
		c.Location = &loc
		c.Geohash = loc.Geohash(kernel.GeohashStoredPrecision)
	}
	return c
}

func (p *Partner) setID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrIDIsRequired
	}
	p.id = id
	return nil
}

func (p *Partner) setArea(state string, district string) error {
	state = strings.ToLower(strings.TrimSpace(state))
	district = strings.ToLower(strings.TrimSpace(district))

	var errState, errDistrict error
	if state == "" {
		errState = ErrStateIsRequired
	}
	if district == "" {
		errDistrict = ErrDistrictIsRequired
	}
	if err := errors.Join(errState, errDistrict); err != nil {
		return err
	}

	p.state = state
	p.district = district
	return nil
}

func (p *Partner) setDutyMode(mode DutyMode) error {
	if err := mode.Validate(); err != nil {
		return err
	}
	p.dutyMode = mode
	return nil
}
