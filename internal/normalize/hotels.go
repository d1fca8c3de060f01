package normalize

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/alex-user-go/getaway/internal/search/types"
)

const (
	// PlaceholderImage is shown when a hotel carries no usable image.
	PlaceholderImage = "https://images.unsplash.com/photo-1542314831-068cd1dbfeeb?q=80&w=1400&auto=format&fit=crop"
	// DefaultRoomName is used when the first offer names no room.
	DefaultRoomName = "Double or Twin Standard"

	mapsSearchURL = "https://www.google.com/maps/search/?api=1&query="
)

// SerpItems returns the raw per-hotel items of a results page in upstream order.
func SerpItems(payload []byte) []gjson.Result {
	root := gjson.ParseBytes(payload)
	if v, ok := firstOf(root, nonEmptyArray, "data.hotels", "data.items", "hotels", "items"); ok {
		return v.Array()
	}
	return nil
}

// Hotels normalizes a results page, preserving order and dropping items without
// any identifier.
func Hotels(payload []byte) []types.HotelResult {
	items := SerpItems(payload)
	hotels := make([]types.HotelResult, 0, len(items))
	for _, it := range items {
		if h, ok := Hotel(it); ok {
			hotels = append(hotels, h)
		}
	}
	return hotels
}

// Hotel normalizes one results item. It reports false when the item has
// neither an id nor a hid.
func Hotel(item gjson.Result) (types.HotelResult, bool) {
	h := subject(item)

	res := types.HotelResult{
		ID:              idOf(h, "id"),
		HID:             h.Get("hid").Int(),
		Name:            stringOf(h, "", "name"),
		Address:         stringOf(h, "", "address.text", "address"),
		Coordinates:     Coordinates(item),
		CheapestPrice:   offerPrice(item.Get("offers.0"), "price", "amount"),
		CheapestOfferID: FirstOfferID(item),
		Image:           Image(item),
		RoomName:        RoomName(item),
		ReviewsCount:    ReviewsCount(item),
		Raw:             json.RawMessage(item.Raw),
	}
	if res.ID == "" && res.HID == 0 {
		return types.HotelResult{}, false
	}

	name := res.Name
	if name == "" {
		name = "Hotel"
	}
	res.MapURL = MapURL(name, res.Coordinates, "")

	return res, true
}

// Image returns the first usable image URL of an item, else PlaceholderImage.
func Image(item gjson.Result) string {
	h := subject(item)

	if list, ok := firstOf(h, nonEmptyArray, "images", "image_urls"); ok {
		if u := imageURL(list.Array()[0]); u != "" {
			return u
		}
	} else if list, ok := firstOf(item, nonEmptyArray, "images", "image_urls"); ok {
		if u := imageURL(list.Array()[0]); u != "" {
			return u
		}
	}

	for _, r := range []gjson.Result{h, item} {
		if im := r.Get("image_groups.0.images.0"); im.Exists() {
			if u := imageURL(im); u != "" {
				return u
			}
		}
	}

	return PlaceholderImage
}

func imageURL(v gjson.Result) string {
	if v.Type == gjson.String {
		return v.Str
	}
	return stringOf(v, "", "url", "urls.0", "link")
}

// RoomName returns the room name of the first offer, else DefaultRoomName.
func RoomName(item gjson.Result) string {
	return stringOf(item.Get("offers.0"), DefaultRoomName, "room.name", "room_name", "name")
}

// FirstOfferID returns the identifier of the first offer, or "".
func FirstOfferID(item gjson.Result) string {
	return idOf(item.Get("offers.0"), "offer_id", "id")
}

// Coordinates returns the hotel location, or nil when lat or lng is missing.
func Coordinates(item gjson.Result) *types.Coordinates {
	h := subject(item)
	lat, lng := h.Get("location.lat"), h.Get("location.lng")
	if !notNull(lat) || !notNull(lng) {
		return nil
	}
	return &types.Coordinates{Lat: lat.Float(), Lng: lng.Float()}
}

// ReviewsCount returns the review count of the hotel or item, or 0.
func ReviewsCount(item gjson.Result) int64 {
	if v, ok := firstOf(item, present, "hotel.reviews_count", "reviews_count"); ok {
		return v.Int()
	}
	return 0
}

// MapURL links to the coordinates when known, else to a text search for the
// hotel name and city.
func MapURL(name string, coords *types.Coordinates, city string) string {
	if coords != nil {
		return mapsSearchURL +
			strconv.FormatFloat(coords.Lat, 'f', -1, 64) + "," +
			strconv.FormatFloat(coords.Lng, 'f', -1, 64)
	}
	q := strings.TrimSpace(name + " " + city)
	if q == "" {
		q = "hotel"
	}
	return mapsSearchURL + strings.ReplaceAll(url.QueryEscape(q), "+", "%20")
}

// offerPrice reads the price of an offer. The price object is looked up under
// containers in order; amount and currency use their own alias lists.
func offerPrice(offer gjson.Result, containers ...string) *types.Money {
	price, ok := firstOf(offer, isObject, containers...)
	if !ok {
		return nil
	}
	amount, ok := firstOf(price, present, "total", "gross", "value")
	if !ok {
		return nil
	}
	return &types.Money{
		Amount:   amount.Float(),
		Currency: stringOf(price, "", "currency", "ccy"),
	}
}
