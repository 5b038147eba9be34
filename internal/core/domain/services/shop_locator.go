package services

import (
	"errors"
	"math"
	"sort"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

var ErrNoShopNearby = errors.New("no shop nearby")

// TravelDistance returns the road distance in kilometres from a shop to the
// customer. Errors rank the shop last.
type TravelDistance func(shop order.Shop) (float64, error)

// ShopLocator resolves the shop of a voice order.
type ShopLocator struct {
	radii []float64
}

func NewShopLocator() ShopLocator {
	return ShopLocator{radii: []float64{StorePreferencePolicy.Primary, StorePreferencePolicy.Secondary}}
}

// Nearest returns the shop closest to destination by travel distance among
// the shops inside the smallest radius holding any shop. Shops are ordered by
// straight-line distance first, so equal travel distances keep that order.
func (l ShopLocator) Nearest(destination kernel.Location, shops []order.Shop, travel TravelDistance) (order.Shop, error) {
	if err := destination.Validate(); err != nil {
		return order.Shop{}, err
	}

	for _, radius := range l.radii {
		inRange := withinRadius(destination, shops, radius)
		if len(inRange) == 0 {
			continue
		}

		for i := range inRange {
			inRange[i].travelKm = math.Inf(1)
			if travel == nil {
				continue
			}
			if km, err := travel(inRange[i].shop); err == nil {
				inRange[i].travelKm = km
			}
		}
		sort.SliceStable(inRange, func(i, j int) bool {
			return inRange[i].travelKm < inRange[j].travelKm
		})
		return inRange[0].shop, nil
	}

	return order.Shop{}, ErrNoShopNearby
}

type rankedShop struct {
	shop     order.Shop
	straight float64
	travelKm float64
}

func withinRadius(destination kernel.Location, shops []order.Shop, radius float64) []rankedShop {
	ranked := make([]rankedShop, 0, len(shops))
	for _, s := range shops {
		if s.Validate() != nil {
			continue
		}
		d := kernel.Haversine(destination, s.Location())
		if d <= radius {
			ranked = append(ranked, rankedShop{shop: s, straight: d})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].straight < ranked[j].straight
	})
	return ranked
}
