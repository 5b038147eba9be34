package queries

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/partner"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	ErrGetDutyStatusQueryIsNotConstructed = errors.New(
		"GetDutyStatusQuery must be created via NewGetDutyStatusQuery constructor",
	)
)

const (
	MessageDutyStatusUnavailable = "Unable to fetch current duty status!"
	dutyStatusFetchedFormat      = "Duty status for %s fetched successfully."
)

// GetDutyStatusQuery reads today's duty record of a delivery partner.
//
// Example:
//
//	query, err := NewGetDutyStatusQuery("dp-1")
//	if err != nil {
//	    return err
//	}
//	status, err := handler.Handle(ctx, query)
//	if err == nil && status.HasData {
//	    fmt.Println(status.DutyMode)
//	}
type GetDutyStatusQuery struct {
	partnerID string

	guard guard.ConstructorGuard
}

func NewGetDutyStatusQuery(partnerID string) (GetDutyStatusQuery, error) {
	partnerID = strings.TrimSpace(partnerID)
	if partnerID == "" {
		return GetDutyStatusQuery{}, errs.NewValueIsRequiredError("dp_id")
	}
	return GetDutyStatusQuery{partnerID: partnerID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetDutyStatusQuery) PartnerID() string {
	return q.partnerID
}

// Validate ensures the query was created through the constructor.
func (q GetDutyStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetDutyStatusQueryIsNotConstructed)
}

// GetDutyStatusQueryResponse reports HasData=false with a message when the
// partner has no profile or did not report for duty today.
//
// Example:
//
//	response := GetDutyStatusQueryResponse{
//	    HasData:              true,
//	    DutyMode:             partner.DutyModeOn,
//	    LastDutyUpdateMillis: 1791970200000,
//	    Message:              "Duty status for Arun fetched successfully.",
//	}
type GetDutyStatusQueryResponse struct {
	HasData              bool
	DutyMode             partner.DutyMode
	LastDutyUpdateMillis int64
	Message              string
}
