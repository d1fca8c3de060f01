package normalize

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/alex-user-go/getaway/internal/search/types"
)

const defaultOwnerName = "Airline"

// FlightOffers extracts offers from an offer request response, reading
// "data.offers" and falling back to a top-level "offers" array.
func FlightOffers(payload []byte) []types.FlightOffer {
	root := gjson.ParseBytes(payload)
	list, ok := firstOf(root, nonEmptyArray, "data.offers", "offers")
	if !ok {
		return nil
	}

	items := list.Array()
	offers := make([]types.FlightOffer, 0, len(items))
	for _, o := range items {
		offers = append(offers, FlightOffer(o))
	}
	return offers
}

// FlightOffer normalizes one flight offer.
func FlightOffer(o gjson.Result) types.FlightOffer {
	fo := types.FlightOffer{
		ID:            idOf(o, "id"),
		OwnerName:     stringOf(o, defaultOwnerName, "owner.name", "owner.iata_code"),
		TotalAmount:   idOf(o, "total_amount"),
		TotalCurrency: stringOf(o, "", "total_currency"),
		Raw:           json.RawMessage(o.Raw),
	}
	for _, s := range o.Get("slices").Array() {
		fo.Slices = append(fo.Slices, types.FlightSlice{
			Origin:       stringOf(s, "", "origin.iata_code"),
			Destination:  stringOf(s, "", "destination.iata_code"),
			SegmentCount: len(s.Get("segments").Array()),
		})
	}
	return fo
}
