package order

// Stage is what the customer app shows for a milestone.
type Stage struct {
	Status   Status
	Assigned bool
	Label    string
	BgColor  string
	FgColor  string
}

// HistoryEntry is one line of the order timeline.
type HistoryEntry struct {
	Key      int
	Title    string
	SubTitle string
}

var stages = map[Status]Stage{
	UnassignedDraft: {Label: "Partner not assigned!", BgColor: "#e0af19", FgColor: "#990000"},
	Placed:          {Label: "Order Placed", BgColor: "#1d4176", FgColor: "#ffffff"},
	PartnerDecision: {Label: "Delivery partner assigned", BgColor: "#1d4176", FgColor: "#ffffff", Assigned: true},
	Accepted:        {Label: "Order Accepted", BgColor: "#1d4176", FgColor: "#ffffff", Assigned: true},
	PickedUp:        {Label: "Order Picked", BgColor: "#3d85c6", FgColor: "#ffffff", Assigned: true},
	EnRoute:         {Label: "Order enrouted", BgColor: "#8fce00", FgColor: "#16537e", Assigned: true},
	Delivered:       {Label: "Order Delivered", BgColor: "#8fce00", FgColor: "#ffffff", Assigned: true},
}

var unassignedDecision = Stage{
	Label:   "Delivery partner not assigned",
	BgColor: "#ab3109",
	FgColor: "#ffffff",
}

var history = map[Status]HistoryEntry{
	Placed:          {Title: "Order placed", SubTitle: "You have successfully placed your order."},
	PartnerDecision: {Title: "Delivery partner assigned", SubTitle: "Order have been confirmed, partner assigned."},
	Accepted:        {Title: "Order accepted", SubTitle: "Delivery partner had accepted your order."},
	PickedUp:        {Title: "Order picked", SubTitle: "Your order has picked up from shop."},
	EnRoute:         {Title: "Order en-routed", SubTitle: "Partner is on the way to deliver."},
	Delivered:       {Title: "Order delivered", SubTitle: "Your order has been delivered successfully"},
}

var unassignedHistory = HistoryEntry{
	Title:    "Delivery partner not assigned",
	SubTitle: "We'll assign a delivery partner soon.",
}

// StageOf returns the display metadata of a milestone. assigned only matters
// for PartnerDecision.
func StageOf(status Status, assigned bool) Stage {
	if status == PartnerDecision && !assigned {
		s := unassignedDecision
		s.Status = status
		return s
	}
	s, ok := stages[status]
	if !ok {
		s = stages[UnassignedDraft]
	}
	s.Status = status
	return s
}

// HistoryOf returns the timeline entries 1..status.
func HistoryOf(status Status, assigned bool) []HistoryEntry {
	entries := make([]HistoryEntry, 0, int(Delivered))
	for s := Placed; s <= status && s <= Delivered; s++ {
		e := history[s]
		if s == PartnerDecision && status == PartnerDecision && !assigned {
			e = unassignedHistory
		}
		e.Key = int(s)
		entries = append(entries, e)
	}
	return entries
}
