package partner

import (
	"errors"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrDutyBucketIsNotConstructed = errs.NewValueIsRequiredError(
	"duty bucket must be created via NewDutyBucket")

// DutyBucket groups the duty records of one district for one calendar day.
// State and district are normalised to lower case.
type DutyBucket struct {
	state    string
	district string
	date     string
	guard    guard.ConstructorGuard
}

func NewDutyBucket(state string, district string, day time.Time) (DutyBucket, error) {
	b := DutyBucket{
		state:    strings.ToLower(strings.TrimSpace(state)),
		district: strings.ToLower(strings.TrimSpace(district)),
		date:     kernel.DutyDate(day),
		guard:    guard.NewConstructorGuard(),
	}

	var errState, errDistrict error
	if b.state == "" {
		errState = errs.NewValueIsRequiredError("state")
	}
	if b.district == "" {
		errDistrict = errs.NewValueIsRequiredError("district")
	}
	if err := errors.Join(errState, errDistrict); err != nil {
		return DutyBucket{}, err
	}

	return b, nil
}

func (b DutyBucket) Validate() error {
	return b.guard.Validate(ErrDutyBucketIsNotConstructed)
}

func (b DutyBucket) State() string {
	return b.state
}

func (b DutyBucket) District() string {
	return b.district
}

// Date is the DutyDate key, e.g. "14OCT2026".
func (b DutyBucket) Date() string {
	return b.date
}

// Key identifies the bucket in logs and in-memory indexes.
func (b DutyBucket) Key() string {
	return b.state + "/" + b.district + "/" + b.date
}
