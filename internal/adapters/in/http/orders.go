package http

import (
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/pending"
	"dispatch/internal/core/domain/model/view"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const messagePlacementFailed = "Unable to place the order right now"

// PlaceOrderRequest is the body of both placement endpoints. The customer
// fields arrive encrypted and stay encrypted.
type PlaceOrderRequest struct {
	OrderID         string   `json:"order_id"`
	UserIDEnc       string   `json:"user_id_enc" validate:"required"`
	UserEmailEnc    string   `json:"user_email"`
	UserPhoneEnc    string   `json:"user_phno_enc" validate:"required"`
	ShopID          string   `json:"shop_id"`
	ShopDistrict    string   `json:"shop_district"`
	ShopPincode     string   `json:"shop_pincode"`
	VoiceDocID      string   `json:"order_by_voice_doc_id"`
	VoiceAudioRefID string   `json:"order_by_voice_audio_ref_id"`
	CurrentLat      *float64 `json:"curr_lat" validate:"omitempty,latitude"`
	CurrentLon      *float64 `json:"curr_lon" validate:"omitempty,longitude"`
}

func (r PlaceOrderRequest) toPending() pending.Request {
	return pending.Request{
		UserIDEnc:       r.UserIDEnc,
		UserEmailEnc:    r.UserEmailEnc,
		UserPhoneEnc:    r.UserPhoneEnc,
		VoiceDocID:      r.VoiceDocID,
		VoiceAudioRefID: r.VoiceAudioRefID,
		ShopID:          r.ShopID,
		ShopDistrict:    r.ShopDistrict,
		ShopPincode:     r.ShopPincode,
		CurrentLat:      r.CurrentLat,
		CurrentLon:      r.CurrentLon,
	}
}

type PlacementResponse struct {
	UserID      string `json:"user_id"`
	OrderID     string `json:"order_id"`
	ShopID      string `json:"shop_id"`
	PartnerID   string `json:"dp_id"`
	PartnerName string `json:"dp_name"`
	IsAssigned  bool   `json:"is_assigned"`
	Message     string `json:"message"`
}

type TransitionResponse struct {
	OrderID  string `json:"order_id"`
	StatusNo int    `json:"order_status_no"`
	Status   string `json:"status"`
	Applied  bool   `json:"applied"`
	Message  string `json:"message"`
}

type OrderStatusResponse struct {
	OrderID         string        `json:"order_id"`
	StatusNo        int           `json:"order_status_no"`
	PartnerAssigned bool          `json:"is_partner_assigned"`
	Label           string        `json:"label"`
	IsFinal         bool          `json:"is_final"`
	Data            view.Document `json:"data"`
}

func orderStatusResponse(r queries.GetOrderStatusQueryResponse) OrderStatusResponse {
	return OrderStatusResponse{
		OrderID:         r.OrderID.String(),
		StatusNo:        r.Status.Int(),
		PartnerAssigned: r.PartnerAssigned,
		Label:           r.Label,
		IsFinal:         r.IsFinal(),
		Data:            r.Payload,
	}
}

// PlaceShopOrder handles POST /api/v1/orders/obs.
func (s *Server) PlaceShopOrder(c echo.Context) error {
	return s.placeOrder(c, order.TypeShopBrowse)
}

// PlaceVoiceOrder handles POST /api/v1/orders/obv.
func (s *Server) PlaceVoiceOrder(c echo.Context) error {
	return s.placeOrder(c, order.TypeStorePreference)
}

// placeOrder answers 200 for every request it could turn into a command; the
// body tells whether a partner was assigned.
func (s *Server) placeOrder(c echo.Context, orderType order.Type) error {
	var req PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		return s.badRequest(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return s.badRequest(c, err)
	}

	cmd, err := commands.NewPlaceOrderCommand(orderType, req.OrderID, req.toPending())
	if err != nil {
		return s.badRequest(c, err)
	}

	result, err := s.handlers.PlaceOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		s.logger.Warn("placement ended with error",
			zap.String("order_id", result.OrderID),
			zap.Stringer("order_type", orderType),
			zap.Error(err))
		if result.Message == "" {
			result.Message = messagePlacementFailed
		}
	}

	return c.JSON(http.StatusOK, PlacementResponse{
		UserID:      result.UserID,
		OrderID:     result.OrderID,
		ShopID:      result.ShopID,
		PartnerID:   result.PartnerID,
		PartnerName: result.PartnerName,
		IsAssigned:  result.IsAssigned,
		Message:     result.Message,
	})
}

// ActOnOrder handles POST /api/v1/partners/:dpId/orders/:userId/:orderId/:action.
func (s *Server) ActOnOrder(c echo.Context) error {
	params, err := pathParams(c, "dpId", "userId", "orderId", "action")
	if err != nil {
		return s.badRequest(c, err)
	}

	handler, ok := s.handlers.OrderActions[params[3]]
	if !ok {
		return c.JSON(http.StatusNotFound, Error{Code: http.StatusNotFound, Message: "unknown order action " + params[3]})
	}

	cmd, err := commands.NewOrderActionCommand(params[0], params[1], params[2])
	if err != nil {
		return s.badRequest(c, err)
	}

	result, err := handler.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err, "Failed to update the order")
	}

	return c.JSON(http.StatusOK, TransitionResponse{
		OrderID:  result.OrderID,
		StatusNo: result.Status.Int(),
		Status:   result.Status.String(),
		Applied:  result.Applied,
		Message:  result.Message,
	})
}

// GetOrderStatus handles GET /api/v1/orders/:userId/:orderId/status.
func (s *Server) GetOrderStatus(c echo.Context) error {
	params, err := pathParams(c, "userId", "orderId")
	if err != nil {
		return s.badRequest(c, err)
	}

	query, err := queries.NewGetOrderStatusQuery(params[0], params[1])
	if err != nil {
		return s.badRequest(c, err)
	}

	status, err := s.handlers.OrderStatus.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err, "Failed to retrieve the order status")
	}

	return c.JSON(http.StatusOK, orderStatusResponse(status))
}
