package orderrecord

import (
	"fmt"
	"strconv"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/view"
)

// Field names shared by the customer and partner apps.
const (
	FieldOrderID          = "order_id"
	FieldOrderType        = "order_type"
	FieldOrderTime        = "order_time"
	FieldOrderTimeMillis  = "order_time_millis"
	FieldUserID           = "user_id"
	FieldUserName         = "user_name"
	FieldUserEmail        = "user_email"
	FieldUserPhone        = "user_phno"
	FieldShopID           = "shop_id"
	FieldShopName         = "shop_name"
	FieldShopLocation     = "shop_loc"
	FieldShopStreet       = "shop_street"
	FieldShopPhone        = "shop_phno"
	FieldShopPincode      = "shop_pincode"
	FieldShopState        = "shop_state"
	FieldShopDistrict     = "shop_district"
	FieldDeliveryLocation = "delivery_loc_coordinates"
	FieldDeliveryAddress  = "delivery_address"
	FieldDestination      = "delivery_address_loc"
	FieldDestinationKind  = "delivery_address_loc_type"
	FieldDestinationText  = "delivery_full_address"
	FieldVoiceDocID       = "order_by_voice_doc_id"
	FieldVoiceAudioRefID  = "order_by_voice_audio_ref_id"
	FieldPartnerID        = "dp_id"
	FieldPartnerName      = "dp_name"
	FieldPickupKm         = "pickup_destination_distance"
	FieldDeliveryKm       = "order_delivery_destination_distance"
	FieldSavedStatus      = "order_saved_status"
	FieldStatusNo         = "order_status_no"
	FieldStatusLabel      = "order_status_label"
	FieldStatusBgColor    = "order_status_bg_color"
	FieldStatusFgColor    = "order_status_fg_color"
	FieldStatusData       = "order_status_data"
	FieldPartnerAssigned  = "is_partner_assigned"
	FieldLabelBgColor     = "order_status_label_bg_color"
	FieldLabelFgColor     = "order_status_label_fg_color"
)

const (
	unknownPartner = "None"
	voiceShopName  = "VOICE ORDER"
)

// BaseDocument is the summary stored on a view's base document.
func BaseDocument(o *order.Order) view.Document {
	dest := o.Destination()
	doc := view.Document{
		FieldOrderID:          o.ID().String(),
		FieldOrderType:        o.Type().String(),
		FieldOrderTime:        kernel.DisplayTime(o.PlacedAt()),
		FieldOrderTimeMillis:  kernel.UnixMillis(o.PlacedAt()),
		FieldUserID:           o.Customer().ID(),
		FieldDeliveryLocation: dest.Location(),
		FieldDeliveryAddress:  dest.FullAddress(),
		FieldShopName:         shopName(o),
		FieldPartnerName:      partnerName(o),
	}
	if shop := o.Shop(); shop != nil {
		doc[FieldShopID] = shop.ID()
	}
	if p := o.Partner(); p != nil {
		doc[FieldPartnerID] = p.ID
	}
	return doc
}

// InfoDocument is the full detail stored in orderData/info.
func InfoDocument(o *order.Order) view.Document {
	dest := o.Destination()
	customer := o.Customer()
	doc := view.Document{
		FieldOrderID:         o.ID().String(),
		FieldOrderType:       o.Type().String(),
		FieldOrderTime:       kernel.DisplayTime(o.PlacedAt()),
		FieldOrderTimeMillis: kernel.UnixMillis(o.PlacedAt()),
		FieldUserID:          customer.ID(),
		FieldUserName:        customer.Name(),
		FieldUserEmail:       customer.Email(),
		FieldUserPhone:       customer.Phone(),
		FieldDestination:     dest.Location(),
		FieldDestinationKind: string(dest.Kind()),
		FieldDestinationText: dest.FullAddress(),
		FieldVoiceDocID:      o.Voice().DocID,
		FieldVoiceAudioRefID: o.Voice().AudioRefID,
		FieldPickupKm:        o.PickupDistanceKm(),
		FieldDeliveryKm:      o.DeliveryDistanceKm(),
		FieldShopName:        shopName(o),
		FieldPartnerName:     partnerName(o),
		FieldPartnerAssigned: o.IsPartnerAssigned(),
	}
	if shop := o.Shop(); shop != nil {
		addr := shop.Address()
		doc[FieldShopID] = shop.ID()
		doc[FieldShopLocation] = shop.Location()
		doc[FieldShopStreet] = addr.Street
		doc[FieldShopPhone] = addr.Phone
		doc[FieldShopPincode] = addr.Pincode
		doc[FieldShopState] = addr.State
		doc[FieldShopDistrict] = addr.District
	}
	if p := o.Partner(); p != nil {
		doc[FieldPartnerID] = p.ID
	}
	return doc.With(StageFields(o))
}

// StageFields are the milestone fields merged into every info view on a
// transition.
func StageFields(o *order.Order) view.Document {
	stage := o.Stage()
	return view.Document{
		FieldStatusNo:        stage.Status.Int(),
		FieldStatusLabel:     stage.Label,
		FieldStatusBgColor:   stage.BgColor,
		FieldStatusFgColor:   stage.FgColor,
		FieldSavedStatus:     string(o.SavedStatus()),
		FieldPartnerAssigned: o.IsPartnerAssigned(),
	}
}

// StatusPayload is the realtime status document of the order.
func StatusPayload(o *order.Order) view.Document {
	doc := statusPayload(o.ID(), o.PlacedAt(), o.Status(), o.IsPartnerAssigned())
	doc[FieldUserName] = o.Customer().Name()
	doc[FieldShopName] = shopName(o)
	doc[FieldPartnerName] = partnerName(o)
	if p := o.Partner(); p != nil {
		doc[FieldPartnerID] = p.ID
	}
	return doc
}

// PlacedStatusPayload is the status written as soon as a placement request
// arrives, before anything else about the order is known.
func PlacedStatusPayload(id order.ID, at time.Time) view.Document {
	return statusPayload(id, at, order.Placed, false)
}

func statusPayload(id order.ID, at time.Time, status order.Status, assigned bool) view.Document {
	stage := order.StageOf(status, assigned)

	history := view.Document{}
	for _, e := range order.HistoryOf(status, assigned) {
		history[strconv.Itoa(e.Key)] = view.Document{
			"key":       e.Key,
			"title":     e.Title,
			"sub_title": e.SubTitle,
		}
	}

	return view.Document{
		FieldOrderID:         id.String(),
		FieldOrderTime:       kernel.DisplayTime(at),
		FieldStatusNo:        status.Int(),
		FieldStatusData:      history,
		FieldPartnerAssigned: assigned,
		FieldStatusLabel:     stage.Label,
		FieldLabelBgColor:    stage.BgColor,
		FieldLabelFgColor:    stage.FgColor,
	}
}

// OrderFromInfo rebuilds an order from its info document.
func OrderFromInfo(doc view.Document) (*order.Order, error) {
	orderType, err := order.ParseType(doc.String(FieldOrderType))
	if err != nil {
		return nil, err
	}
	customer, err := order.NewCustomer(
		doc.String(FieldUserID),
		doc.String(FieldUserName),
		doc.String(FieldUserEmail),
		doc.String(FieldUserPhone),
	)
	if err != nil {
		return nil, err
	}
	destLoc, ok := doc.Location(FieldDestination)
	if !ok {
		return nil, fmt.Errorf("order %s: %s is missing", doc.String(FieldOrderID), FieldDestination)
	}
	dest, err := order.NewDestination(destLoc, doc.String(FieldDestinationText),
		order.DestinationKind(doc.String(FieldDestinationKind)))
	if err != nil {
		return nil, err
	}

	snapshot := order.Snapshot{
		ID:          order.ID(doc.String(FieldOrderID)),
		Type:        orderType,
		Customer:    customer,
		Destination: dest,
		Voice: order.VoiceRef{
			DocID:      doc.String(FieldVoiceDocID),
			AudioRefID: doc.String(FieldVoiceAudioRefID),
		},
		Status:      order.Status(doc.Int64(FieldStatusNo)),
		SavedStatus: order.SavedStatus(doc.String(FieldSavedStatus)),
		PickupKm:    doc.Float64(FieldPickupKm),
		DeliveryKm:  doc.Float64(FieldDeliveryKm),
		PlacedAt:    time.UnixMilli(doc.Int64(FieldOrderTimeMillis)),
	}

	if shopLoc, ok := doc.Location(FieldShopLocation); ok {
		shop, err := order.NewShop(doc.String(FieldShopID), doc.String(FieldShopName), shopLoc, order.ShopAddress{
			Street:   doc.String(FieldShopStreet),
			Phone:    doc.String(FieldShopPhone),
			Pincode:  doc.String(FieldShopPincode),
			State:    doc.String(FieldShopState),
			District: doc.String(FieldShopDistrict),
		})
		if err != nil {
			return nil, err
		}
		snapshot.Shop = &shop
	}
	if id := doc.String(FieldPartnerID); id != "" && id != unknownPartner {
		snapshot.Partner = &order.PartnerRef{ID: id, Name: doc.String(FieldPartnerName)}
	}

	return order.RestoreOrder(snapshot)
}

func shopName(o *order.Order) string {
	if shop := o.Shop(); shop != nil {
		return shop.Name()
	}
	if o.Type() == order.TypeStorePreference {
		return voiceShopName
	}
	return ""
}

func partnerName(o *order.Order) string {
	if p := o.Partner(); p != nil {
		return p.Name
	}
	return unknownPartner
}
