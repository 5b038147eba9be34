package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"dispatch/internal/core/application/orderrecord"
	"dispatch/internal/core/domain/model/chat"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/partner"
	"dispatch/internal/core/domain/model/pending"
	"dispatch/internal/core/domain/model/view"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

const (
	noneValue = "None"

	MessageMissingData     = "cannot complete, missing data"
	MessageNoPartner       = "No partner available nearby, we will assign a partner soon"
	MessagePartnerAssigned = "Delivery partner assigned"
)

// ErrMissingCustomerData is returned when the decrypted customer data cannot
// identify the customer or the delivery address. ErrOrderAlreadyAssigned is
// returned for a placement of an order that has moved past assignment.
var (
	ErrMissingCustomerData  = errs.NewValueIsInvalidError("customer data")
	ErrOrderAlreadyAssigned = errs.NewValueIsInvalidErrorWithCause("order", errors.New("order is already assigned"))
)

// PlacementResult is returned for every placement, successful or not.
type PlacementResult struct {
	UserID      string
	OrderID     string
	ShopID      string
	PartnerID   string
	PartnerName string
	IsAssigned  bool
	Message     string
}

// OrderPlacer places an order; the retry loop replays pending orders through it.
type OrderPlacer interface {
	Handle(ctx context.Context, cmd PlaceOrderCommand) (PlacementResult, error)
}

// PlacementDeps are the collaborators of PlaceOrderCommandHandler. Routes and
// Metrics are optional.
type PlacementDeps struct {
	UoWFactory UoWFactory
	Writer     *orderrecord.Writer
	Directory  ports.PartnerDirectory
	Addresses  ports.AddressBook
	Shops      ports.ShopDirectory
	Routes     ports.RouteDistance
	Cipher     ports.Cipher
	Clock      ports.Clock
	IDs        ports.OrderIDGenerator
	Locker     ports.Locker
	Pusher     *Pusher
	Metrics    ports.Metrics
	Logger     *zap.Logger
	Timeout    time.Duration
}

// PlaceOrderCommandHandler places obs and obv orders. Both types share the
// flow; they differ in how the shop is resolved and in the search radii.
type PlaceOrderCommandHandler struct {
	deps     PlacementDeps
	assigner partnerAssigner
	locator  services.ShopLocator
}

func NewPlaceOrderCommandHandler(deps PlacementDeps) PlaceOrderCommandHandler {
	deps.Metrics = orNopMetrics(deps.Metrics)
	deps.Logger = orNopLogger(deps.Logger)

	return PlaceOrderCommandHandler{
		deps: deps,
		assigner: partnerAssigner{
			directory: deps.Directory,
			engine:    services.NewAssignmentEngine(),
			locker:    deps.Locker,
			clock:     deps.Clock,
			timeout:   deps.Timeout,
			logger:    deps.Logger,
		},
		locator: services.NewShopLocator(),
	}
}

type customerIdentity struct {
	userID string
	email  string
	phone  string
}

func (h PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (PlacementResult, error) {
	if err := cmd.Validate(); err != nil {
		return PlacementResult{}, err
	}

	now := h.deps.Clock.Now()
	request := cmd.Request()
	identity := h.decryptIdentity(request)

	orderID := cmd.OrderID()
	if orderID == "" {
		generated, err := h.deps.IDs.NewOrderID(cmd.OrderType(), now)
		if err != nil {
			return PlacementResult{}, err
		}
		orderID = generated
	}

	result := PlacementResult{UserID: identity.userID, OrderID: orderID.String()}
	logger := h.deps.Logger.With(
		zap.String("order_id", orderID.String()),
		zap.Stringer("order_type", cmd.OrderType()),
	)

	if identity.userID == noneValue || !isPhoneNumber(identity.phone) {
		logger.Warn("customer data incomplete, placement skipped")
		result.Message = MessageMissingData
		return result, ErrMissingCustomerData
	}

	release, err := h.deps.Locker.Lock(ctx, "order:"+orderID.String())
	if err != nil {
		return result, err
	}
	defer release()

	existing, err := h.existingAssignment(ctx, identity.userID, orderID)
	if err != nil {
		logger.Warn("order already past placement", zap.Error(err))
		return result, err
	}
	if existing != nil {
		p := existing.Partner()
		logger.Info("order already assigned, placement skipped", zap.String("partner_id", p.ID))
		if shop := existing.Shop(); shop != nil {
			result.ShopID = shop.ID()
		}
		result.PartnerID = p.ID
		result.PartnerName = p.Name
		result.IsAssigned = true
		result.Message = MessagePartnerAssigned
		return result, nil
	}

	if _, err := h.deps.Writer.WriteStatus(ctx, identity.userID, orderID,
		orderrecord.PlacedStatusPayload(orderID, now)); err != nil {
		return result, err
	}

	o, address, err := h.draft(ctx, cmd, orderID, identity, now)
	if err != nil {
		logger.Warn("order draft failed", zap.Error(err))
		result.Message = MessageMissingData
		return result, err
	}

	shop, err := h.resolveShop(ctx, cmd, o.Destination().Location(), address)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrNoShopNearby):
		logger.Info("no shop near the customer, order left unassigned")
	case errors.Is(err, errs.ErrObjectNotFound):
		result.Message = fmt.Sprintf("No shop data found for id %s", request.ShopID)
		return result, err
	default:
		return result, err
	}

	if shop != nil {
		if err := o.SetShop(*shop); err != nil {
			return result, err
		}
		result.ShopID = shop.ID()
		draft := o.Snapshot()

		selection, err := h.selectPartner(ctx, *shop, address, cmd.OrderType())
		switch {
		case err == nil:
			commitErr := h.withWriteTimeout(ctx, func(ctx context.Context) error {
				return h.commitAssigned(ctx, o, selection)
			})
			if commitErr == nil {
				h.deps.Metrics.ObserveAssignment(cmd.OrderType().String(), true, h.deps.Clock.Now().Sub(now))
				logger.Info("order assigned", zap.String("partner_id", selection.PartnerID))

				result.PartnerID = selection.PartnerID
				result.PartnerName = selection.Name
				result.IsAssigned = true
				result.Message = MessagePartnerAssigned
				return result, nil
			}
			logger.Warn("assignment writes failed, order goes pending", zap.Error(commitErr))
			if o, err = order.RestoreOrder(draft); err != nil {
				return result, err
			}
		case errors.Is(err, services.ErrNoPartnerAvailable):
			logger.Info("no partner available", zap.Error(err))
		default:
			return result, err
		}
	}

	if err := h.withWriteTimeout(ctx, func(ctx context.Context) error {
		return h.commitUnassigned(ctx, o, request, now)
	}); err != nil {
		logger.Error("pending order could not be stored", zap.Error(err))
		return result, err
	}
	h.deps.Metrics.ObserveAssignment(cmd.OrderType().String(), false, h.deps.Clock.Now().Sub(now))

	result.Message = MessageNoPartner
	return result, nil
}

// existingAssignment returns the order when an earlier placement already
// assigned it. An order past assignment without a placed view cannot be
// placed again.
func (h PlaceOrderCommandHandler) existingAssignment(ctx context.Context, userID string, orderID order.ID) (*order.Order, error) {
	placed, ok, err := h.deps.Writer.ReadCustomerOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if ok && placed.IsPartnerAssigned() && placed.Partner() != nil {
		return placed, nil
	}

	status, ok, err := h.deps.Writer.ReadStatus(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if ok && status.Int64(orderrecord.FieldStatusNo) >= int64(order.PartnerDecision.Int()) {
		return nil, ErrOrderAlreadyAssigned
	}
	return nil, nil
}

func (h PlaceOrderCommandHandler) withWriteTimeout(ctx context.Context, write func(ctx context.Context) error) error {
	return withTimeout(ctx, h.deps.Timeout, write)
}

func (h PlaceOrderCommandHandler) decryptIdentity(r pending.Request) customerIdentity {
	return customerIdentity{
		userID: h.decrypt(r.UserIDEnc),
		email:  h.decrypt(r.UserEmailEnc),
		phone:  h.decrypt(r.UserPhoneEnc),
	}
}

func (h PlaceOrderCommandHandler) decrypt(value string) string {
	if strings.TrimSpace(value) == "" {
		return noneValue
	}
	plain, err := h.deps.Cipher.Decrypt(value)
	if err != nil || plain == "" {
		return noneValue
	}
	return plain
}

// draft builds the placed order from the request and the saved address. A
// location shared with the request wins over the address position.
func (h PlaceOrderCommandHandler) draft(
	ctx context.Context,
	cmd PlaceOrderCommand,
	orderID order.ID,
	identity customerIdentity,
	now time.Time,
) (*order.Order, ports.Address, error) {
	address, err := h.deps.Addresses.GetAddress(ctx, identity.userID, identity.phone)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil, ports.Address{}, errors.Join(ErrMissingCustomerData, err)
		}
		return nil, ports.Address{}, err
	}

	request := cmd.Request()
	var (
		location kernel.Location
		kind     = order.DestinationActual
	)
	switch {
	case request.CurrentLat != nil && request.CurrentLon != nil:
		location, err = kernel.NewLocation(*request.CurrentLat, *request.CurrentLon)
		if err != nil {
			return nil, ports.Address{}, err
		}
		kind = order.DestinationCurrent
	case address.Location != nil:
		location = *address.Location
	default:
		return nil, ports.Address{}, errors.Join(ErrMissingCustomerData, errs.NewValueIsRequiredError("address location"))
	}

	destination, err := order.NewDestination(location, address.FullAddress, kind)
	if err != nil {
		return nil, ports.Address{}, err
	}
	customer, err := order.NewCustomer(identity.userID, address.Name, identity.email, identity.phone)
	if err != nil {
		return nil, ports.Address{}, err
	}

	o, err := order.NewOrder(orderID, cmd.OrderType(), customer, destination, order.VoiceRef{
		DocID:      request.VoiceDocID,
		AudioRefID: request.VoiceAudioRefID,
	}, now)
	if err != nil {
		return nil, ports.Address{}, err
	}
	if err := o.Place(); err != nil {
		return nil, ports.Address{}, err
	}
	return o, address, nil
}

func (h PlaceOrderCommandHandler) resolveShop(
	ctx context.Context,
	cmd PlaceOrderCommand,
	destination kernel.Location,
	address ports.Address,
) (*order.Shop, error) {
	request := cmd.Request()

	if cmd.OrderType() == order.TypeShopBrowse {
		shop, err := h.deps.Shops.GetShop(ctx, request.ShopID, address.State, request.ShopDistrict)
		if err != nil {
			return nil, err
		}
		return &shop, nil
	}

	shops, err := h.deps.Shops.ListShops(ctx, address.State, address.District)
	if err != nil {
		return nil, err
	}
	shop, err := h.locator.Nearest(destination, shops, func(s order.Shop) (float64, error) {
		if h.deps.Routes == nil {
			return kernel.Haversine(s.Location(), destination), nil
		}
		return h.deps.Routes.TravelKm(ctx, s.Location(), destination)
	})
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

// selectPartner searches the duty bucket of the shop's area, falling back to
// the customer's area when the shop does not name one.
func (h PlaceOrderCommandHandler) selectPartner(
	ctx context.Context,
	shop order.Shop,
	address ports.Address,
	orderType order.Type,
) (services.Selection, error) {
	state, district := shop.Address().State, shop.Address().District
	if state == "" {
		state = address.State
	}
	if district == "" {
		district = address.District
	}

	bucket, err := partner.NewDutyBucket(state, district, h.deps.Clock.Now())
	if err != nil {
		return services.Selection{}, errors.Join(services.ErrNoPartnerAvailable, err)
	}
	return h.assigner.assign(ctx, shop.Location(), bucket, services.PolicyFor(orderType))
}

// travelKm is the road distance, or the straight-line one when no route
// service is configured or it fails.
func (h PlaceOrderCommandHandler) travelKm(ctx context.Context, from kernel.Location, to kernel.Location) float64 {
	if h.deps.Routes != nil {
		km, err := h.deps.Routes.TravelKm(ctx, from, to)
		if err == nil {
			return km
		}
		h.deps.Logger.Warn("route distance unavailable, using haversine", zap.Error(err))
	}
	return kernel.Haversine(from, to)
}

// commitAssigned writes the assigned order everywhere. On failure every view
// of the order is discarded so that the caller can take the pending path.
func (h PlaceOrderCommandHandler) commitAssigned(ctx context.Context, o *order.Order, s services.Selection) error {
	shop := o.Shop()
	deliveryKm := h.travelKm(ctx, shop.Location(), o.Destination().Location())
	if err := o.AssignPartner(order.PartnerRef{ID: s.PartnerID, Name: s.Name}, s.DistanceToShopKm, deliveryKm); err != nil {
		return err
	}

	if err := h.writeAssigned(ctx, o); err != nil {
		if discardErr := h.deps.Writer.DiscardPlacement(ctx, o.ID(), s.PartnerID, o.Customer().ID()); discardErr != nil {
			return errors.Join(err, discardErr)
		}
		return err
	}

	h.deps.Pusher.Push(ctx, ports.Recipient{ID: s.PartnerID, Audience: ports.AudiencePartner}, newOrderNotification(o))
	return nil
}

func (h PlaceOrderCommandHandler) writeAssigned(ctx context.Context, o *order.Order) error {
	id := o.ID()
	userID := o.Customer().ID()
	partnerID := o.Partner().ID
	base := orderrecord.BaseDocument(o)
	info := orderrecord.InfoDocument(o)

	if err := h.deps.Writer.UpsertViews(ctx, []orderrecord.ViewWrite{
		{Name: "customer placed", Ref: view.CustomerPlaced(userID, id.String()), Base: base, Detail: info},
		{Name: "partner pending", Ref: view.PartnerPending(partnerID, id.String()), Base: base, Detail: info},
	}); err != nil {
		return err
	}

	if o.Type() == order.TypeShopBrowse {
		if err := h.deps.Writer.CopyManualCart(ctx, userID, o.Shop().ID(), partnerID, id); err != nil {
			return err
		}
	}

	if _, err := h.deps.Writer.WriteStatus(ctx, userID, id, orderrecord.StatusPayload(o)); err != nil {
		return err
	}

	reg, err := chat.NewRegistration(id, o.Type(), userID, o.Partner())
	if err != nil {
		return err
	}

	uow := h.deps.UoWFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.ChatRegistrationRepository().Upsert(ctx, reg); err != nil {
		return err
	}
	if err := uow.OrderMapRepository().Upsert(ctx, id, userID); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

func (h PlaceOrderCommandHandler) commitUnassigned(ctx context.Context, o *order.Order, request pending.Request, now time.Time) error {
	if err := o.AwaitPartner(); err != nil && !errors.Is(err, order.ErrTransitionAlreadyApplied) {
		return err
	}

	id := o.ID()
	userID := o.Customer().ID()

	if err := h.deps.Writer.UpsertViews(ctx, []orderrecord.ViewWrite{{
		Name:   "customer placed",
		Ref:    view.CustomerPlaced(userID, id.String()),
		Base:   orderrecord.BaseDocument(o),
		Detail: orderrecord.InfoDocument(o),
	}}); err != nil {
		return err
	}
	if _, err := h.deps.Writer.WriteStatus(ctx, userID, id, orderrecord.StatusPayload(o)); err != nil {
		return err
	}

	p, err := pending.NewPendingOrder(id, o.Type(), userID, request, now)
	if err != nil {
		return err
	}
	reg, err := chat.NewRegistration(id, o.Type(), userID, nil)
	if err != nil {
		return err
	}

	uow := h.deps.UoWFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.PendingOrderRepository().Upsert(ctx, p); err != nil {
		return err
	}
	if err := uow.ChatRegistrationRepository().Upsert(ctx, reg); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

func newOrderNotification(o *order.Order) ports.Notification {
	user := strings.ToUpper(o.Customer().Name())
	body := fmt.Sprintf("OBV order received from %s", user)
	data := map[string]string{
		"order_id": o.ID().String(),
		"user_id":  o.Customer().ID(),
	}
	if shop := o.Shop(); shop != nil {
		data["shop_id"] = shop.ID()
		data["shop_name"] = shop.Name()
		if o.Type() == order.TypeShopBrowse {
			body = fmt.Sprintf("Order received from %s.\n%s | %s", user, shop.Name(), shop.Address().Street)
		}
	}
	return ports.Notification{Title: "New order received", Body: body, Data: data}
}

func isPhoneNumber(s string) bool {
	if len(s) != 10 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
