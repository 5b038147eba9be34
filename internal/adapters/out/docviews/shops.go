package docviews

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/view"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// ShopDirectory reads ShopData/data/{state}/{district}/allShopData.
type ShopDirectory struct {
	store  ports.DocumentStore
	logger *zap.Logger
}

var _ ports.ShopDirectory = (*ShopDirectory)(nil)

func NewShopDirectory(store ports.DocumentStore, logger *zap.Logger) *ShopDirectory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShopDirectory{store: store, logger: logger}
}

func (d *ShopDirectory) GetShop(ctx context.Context, shopID string, state string, district string) (order.Shop, error) {
	ref := view.Shop(strings.ToLower(state), strings.ToLower(district), shopID)
	doc, ok, err := d.store.Get(ctx, ref)
	if err != nil {
		return order.Shop{}, err
	}
	if !ok {
		return order.Shop{}, errs.NewObjectNotFoundError("shopId", shopID)
	}
	return shopFromDocument(shopID, doc)
}

// ListShops skips shop documents that cannot be read as a shop, such as
// entries without coordinates.
func (d *ShopDirectory) ListShops(ctx context.Context, state string, district string) ([]order.Shop, error) {
	docs, err := d.store.List(ctx, view.Shops(strings.ToLower(state), strings.ToLower(district)))
	if err != nil {
		return nil, err
	}

	shops := make([]order.Shop, 0, len(docs))
	for _, stored := range docs {
		shop, err := shopFromDocument(stored.Ref.ID(), stored.Data)
		if err != nil {
			d.logger.Warn("skipping unreadable shop",
				zap.String("ref", stored.Ref.Path()), zap.Error(err))
			continue
		}
		shops = append(shops, shop)
	}
	return shops, nil
}

func shopFromDocument(fallbackID string, doc view.Document) (order.Shop, error) {
	loc, ok := doc.Location(fieldShopLocation)
	if !ok {
		return order.Shop{}, errs.NewValueIsRequiredError(fieldShopLocation)
	}
	id := doc.String(fieldShopID)
	if id == "" {
		id = fallbackID
	}
	return order.NewShop(id, doc.String(fieldShopName), loc, order.ShopAddress{
		Street:   doc.String(fieldShopStreet),
		Phone:    doc.String(fieldShopPhone),
		Pincode:  doc.String(fieldShopPincode),
		State:    strings.ToLower(doc.String(fieldShopState)),
		District: strings.ToLower(doc.String(fieldShopDistrict)),
	})
}
