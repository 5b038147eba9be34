package docviews

import (
	"context"
	"strings"

	"dispatch/internal/core/domain/model/view"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// AddressBook reads Users/{uid}/userAddress/{phone}.
type AddressBook struct {
	store ports.DocumentStore
}

var _ ports.AddressBook = (*AddressBook)(nil)

func NewAddressBook(store ports.DocumentStore) *AddressBook {
	return &AddressBook{store: store}
}

func (b *AddressBook) GetAddress(ctx context.Context, userID string, phone string) (ports.Address, error) {
	phone = strings.TrimSpace(phone)
	ref := view.CustomerAddress(userID, phone)
	doc, ok, err := b.store.Get(ctx, ref)
	if err != nil {
		return ports.Address{}, err
	}
	if !ok {
		return ports.Address{}, errs.NewObjectNotFoundError("address", userID+"/"+phone)
	}

	address := ports.Address{
		Name:        doc.String(fieldAddressName),
		FullAddress: doc.String(fieldAddressFull),
		State:       strings.ToLower(doc.String(fieldAddressState)),
		District:    strings.ToLower(doc.String(fieldAddressDistrict)),
	}
	if loc, ok := doc.Location(fieldAddressLocation); ok {
		address.Location = &loc
	}
	return address, nil
}
