package http

import (
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
)

type StartDutyRequest struct {
	Lat *float64 `json:"lat" validate:"required,latitude"`
	Lon *float64 `json:"lon" validate:"required,longitude"`
}

type DutyAreaRequest struct {
	State    string `json:"state" validate:"required"`
	District string `json:"district" validate:"required"`
}

type DutyRecordResponse struct {
	PartnerID            string `json:"dp_id"`
	State                string `json:"state"`
	District             string `json:"district"`
	DutyMode             string `json:"duty_mode"`
	LastDutyUpdateMillis int64  `json:"last_duty_status_update_millis"`
	Moved                bool   `json:"moved"`
}

type DutyStatusResponse struct {
	HasData              bool   `json:"has_data"`
	DutyMode             string `json:"duty_mode"`
	LastDutyUpdateMillis int64  `json:"last_duty_status_update_millis"`
	Message              string `json:"message"`
}

func dutyRecordResponse(r commands.DutyResult) DutyRecordResponse {
	return DutyRecordResponse{
		PartnerID:            r.PartnerID,
		State:                r.State,
		District:             r.District,
		DutyMode:             r.DutyMode.String(),
		LastDutyUpdateMillis: r.LastDutyUpdateMillis,
		Moved:                r.Moved,
	}
}

// StartDuty handles POST /api/v1/partners/:dpId/duty/start.
func (s *Server) StartDuty(c echo.Context) error {
	partnerID, err := pathParam(c, "dpId")
	if err != nil {
		return s.badRequest(c, err)
	}
	var req StartDutyRequest
	if err := c.Bind(&req); err != nil {
		return s.badRequest(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return s.badRequest(c, err)
	}

	cmd, err := commands.NewStartDutyCommand(partnerID, *req.Lat, *req.Lon)
	if err != nil {
		return s.badRequest(c, err)
	}
	result, err := s.handlers.StartDuty.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err, "Failed to start duty")
	}
	return c.JSON(http.StatusOK, dutyRecordResponse(result))
}

// EndDuty handles POST /api/v1/partners/:dpId/duty/end.
func (s *Server) EndDuty(c echo.Context) error {
	partnerID, err := pathParam(c, "dpId")
	if err != nil {
		return s.badRequest(c, err)
	}

	cmd, err := commands.NewEndDutyCommand(partnerID)
	if err != nil {
		return s.badRequest(c, err)
	}
	result, err := s.handlers.EndDuty.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err, "Failed to end duty")
	}
	return c.JSON(http.StatusOK, dutyRecordResponse(result))
}

// UpdateDutyArea handles PUT /api/v1/partners/:dpId/duty/area.
func (s *Server) UpdateDutyArea(c echo.Context) error {
	partnerID, err := pathParam(c, "dpId")
	if err != nil {
		return s.badRequest(c, err)
	}
	var req DutyAreaRequest
	if err := c.Bind(&req); err != nil {
		return s.badRequest(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return s.badRequest(c, err)
	}

	cmd, err := commands.NewUpdateDutyAreaCommand(partnerID, req.State, req.District)
	if err != nil {
		return s.badRequest(c, err)
	}
	result, err := s.handlers.UpdateArea.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err, "Failed to update the duty area")
	}
	return c.JSON(http.StatusOK, dutyRecordResponse(result))
}

// GetDutyStatus handles GET /api/v1/partners/:dpId/duty.
func (s *Server) GetDutyStatus(c echo.Context) error {
	partnerID, err := pathParam(c, "dpId")
	if err != nil {
		return s.badRequest(c, err)
	}

	query, err := queries.NewGetDutyStatusQuery(partnerID)
	if err != nil {
		return s.badRequest(c, err)
	}
	status, err := s.handlers.DutyStatus.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err, "Failed to retrieve the duty status")
	}

	return c.JSON(http.StatusOK, DutyStatusResponse{
		HasData:              status.HasData,
		DutyMode:             status.DutyMode.String(),
		LastDutyUpdateMillis: status.LastDutyUpdateMillis,
		Message:              status.Message,
	})
}
