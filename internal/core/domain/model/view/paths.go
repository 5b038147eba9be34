package view

import "dispatch/internal/core/domain/model/partner"

const (
	collectionUsers          = "Users"
	collectionPartners       = "DeliveryPartners"
	collectionPlacedOrders   = "placedOrderData"
	collectionCurrentActive  = "currentActiveOrders"
	collectionPendingOrders  = "pendingOrders"
	collectionCurrentOrder   = "currentOrder"
	collectionFinishedOrders = "finishedOrders"
	collectionOrderData      = "orderData"
	collectionRealtime       = "realtimeUpdateData"
	collectionCart           = "userCartData"
	collectionManualCart     = "manualCartProductData"
	collectionVoiceCart      = "voiceCartProductData"
	collectionAddresses      = "userAddress"
	collectionDutyStatus     = "DeliveryPartnerDutyStatus"
	collectionDutyRecords    = "dutyStatus"
	collectionShopData       = "ShopData"
	collectionAllShops       = "allShopData"
	collectionTokenMapping   = "FCMTokenMapping"
	documentInfo             = "info"
	documentOrderStatus      = "orderStatus"
	documentShopData         = "data"
)

// Info returns the detail document kept below a base view.
func Info(base Ref) Ref {
	return base.Child(collectionOrderData, documentInfo)
}

func Customer(userID string) Ref {
	return Doc(collectionUsers, userID)
}

func Partner(partnerID string) Ref {
	return Doc(collectionPartners, partnerID)
}

// CustomerPlaced is the order as listed in the customer's placed orders.
func CustomerPlaced(userID, orderID string) Ref {
	return Customer(userID).Child(collectionPlacedOrders, orderID)
}

// RealtimeStatus is the status document the customer app watches.
func RealtimeStatus(userID, orderID string) Ref {
	return CustomerPlaced(userID, orderID).Child(collectionRealtime, documentOrderStatus)
}

// CustomerCurrent is the order while it is active for the customer.
func CustomerCurrent(userID, orderID string) Ref {
	return Customer(userID).Child(collectionCurrentActive, orderID)
}

// PartnerPending is the order offered to the partner.
func PartnerPending(partnerID, orderID string) Ref {
	return Partner(partnerID).Child(collectionPendingOrders, orderID)
}

// PartnerCurrent is the order the partner is working on.
func PartnerCurrent(partnerID, orderID string) Ref {
	return Partner(partnerID).Child(collectionCurrentOrder, orderID)
}

// PartnerFinished is the archive entry written at delivery.
func PartnerFinished(partnerID, orderID string) Ref {
	return Partner(partnerID).Child(collectionFinishedOrders, orderID)
}

// CustomerManualCart holds the items the customer picked in a shop.
func CustomerManualCart(userID, shopID string) CollectionRef {
	return Customer(userID).Child(collectionCart, shopID).Collection(collectionManualCart)
}

// PartnerManualCart is the partner's copy of CustomerManualCart.
func PartnerManualCart(partnerID, orderID string) CollectionRef {
	return PartnerPending(partnerID, orderID).Collection(collectionManualCart)
}

// CustomerVoiceCart is the cart entry created by a voice order.
func CustomerVoiceCart(userID, voiceDocID, audioRefID string) Ref {
	return Customer(userID).Child(collectionCart, voiceDocID).Child(collectionVoiceCart, audioRefID)
}

// CustomerAddress is the saved address keyed by phone number.
func CustomerAddress(userID, phone string) Ref {
	return Customer(userID).Child(collectionAddresses, phone)
}

// DutyRecords is the collection of duty records of one bucket.
func DutyRecords(b partner.DutyBucket) CollectionRef {
	return Collection(collectionDutyStatus, b.State(), b.District(), b.Date(), collectionDutyRecords)
}

// DutyRecord is one partner's record in a bucket.
func DutyRecord(b partner.DutyBucket, partnerID string) Ref {
	return DutyRecords(b).Doc(partnerID)
}

// Shops lists the shops of a district.
func Shops(state, district string) CollectionRef {
	return Doc(collectionShopData, documentShopData).
		Child(state, district).
		Collection(collectionAllShops)
}

func Shop(state, district, shopID string) Ref {
	return Shops(state, district).Doc(shopID)
}

// TokenMapping is the document mapping client ids to push tokens for one app.
func TokenMapping(app string) Ref {
	return Doc(collectionTokenMapping, app)
}
