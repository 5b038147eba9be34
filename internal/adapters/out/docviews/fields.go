package docviews

// Address document.
const (
	fieldAddressName     = "name"
	fieldAddressFull     = "full_address"
	fieldAddressState    = "state"
	fieldAddressDistrict = "district"
	fieldAddressLocation = "address_loc_coordinates"
)

// Shop document.
const (
	fieldShopID       = "shop_id"
	fieldShopName     = "shop_name"
	fieldShopLocation = "shop_loc_coords"
	fieldShopStreet   = "shop_street"
	fieldShopPhone    = "shop_phone"
	fieldShopPincode  = "shop_pincode"
	fieldShopState    = "shop_state"
	fieldShopDistrict = "shop_district"
)

// Partner profile document.
const (
	fieldProfileName     = "user_name"
	fieldProfileState    = "user_state"
	fieldProfileDistrict = "user_district"
)
