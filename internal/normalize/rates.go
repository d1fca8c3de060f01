package normalize

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/alex-user-go/getaway/internal/search/types"
)

const (
	defaultRateRoom = "Room"
	defaultRateMeal = "Board"
)

// RateOffers extracts the rate listing of a hotel page response. The listing is
// read from "data" when present, else from the payload root.
func RateOffers(payload []byte) *types.HotelRates {
	return rates(gjson.ParseBytes(payload))
}

func rates(root gjson.Result) *types.HotelRates {
	body := root
	if d := root.Get("data"); d.IsObject() {
		body = d
	}

	res := &types.HotelRates{Raw: json.RawMessage(body.Raw)}
	for _, o := range body.Get("offers").Array() {
		res.Offers = append(res.Offers, RateOffer(o))
	}
	return res
}

// RateOffer normalizes one hotel page offer.
func RateOffer(o gjson.Result) types.RateOffer {
	ro := types.RateOffer{
		OfferID:  idOf(o, "offer_id", "id"),
		RoomName: stringOf(o, defaultRateRoom, "room.name", "room_name"),
		MealName: stringOf(o, defaultRateMeal, "meal.name", "board_name"),
	}
	if amount, ok := firstOf(o, present, "price.total", "price.gross", "amount"); ok {
		ro.Price = &types.Money{
			Amount:   amount.Float(),
			Currency: stringOf(o, "", "price.currency", "price.ccy"),
		}
	}
	return ro
}
