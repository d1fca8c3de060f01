package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alex-user-go/getaway/internal/cli/output"
	"github.com/alex-user-go/getaway/internal/search/cache"
	"github.com/alex-user-go/getaway/internal/search/types"
	"github.com/alex-user-go/getaway/internal/session"
)

func formatMoney(m *types.Money) string {
	if m == nil {
		return "-"
	}
	return strings.TrimSpace(fmt.Sprintf("%.2f %s", m.Amount, m.Currency))
}

func formatRoute(o *types.FlightOffer) string {
	if len(o.Slices) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(o.Slices))
	for _, s := range o.Slices {
		parts = append(parts, s.Origin+"→"+s.Destination)
	}
	return strings.Join(parts, ", ")
}

func formatStops(o *types.FlightOffer) string {
	if o.Direct() {
		return "direct"
	}
	stops := 0
	for _, s := range o.Slices {
		stops += s.Stops()
	}
	if stops == 1 {
		return "1 stop"
	}
	return strconv.Itoa(stops) + " stops"
}

func renderSearch(p *output.Printer, res *types.SearchResult) error {
	title := "Hotels"
	if res.Region != nil && res.Region.Name != "" {
		title = "Hotels in " + res.Region.Name
	}
	p.Header(title)

	if len(res.Hotels) == 0 {
		p.Info("No hotels found.")
		return nil
	}

	table := output.NewTable(p.Out(), []string{"#", "key", "name", "from", "room", "reviews"})
	for i, h := range res.Hotels {
		table.AddRow(
			strconv.Itoa(i+1),
			h.Key(),
			p.Bold(h.Name),
			formatMoney(h.CheapestPrice),
			h.RoomName,
			strconv.FormatInt(h.ReviewsCount, 10),
		)
	}
	return table.Render()
}

func renderEntries(p *output.Printer, snap session.Snapshot) error {
	if snap.Query == nil {
		p.Info("No search yet. Try: search Reykjavik 2025-06-01 3 2")
		return nil
	}

	title := "Results for " + snap.Query.Destination
	if snap.Region != nil && snap.Region.Name != "" {
		title = "Hotels in " + snap.Region.Name
	}
	p.Header(fmt.Sprintf("%s (%s, %d nights, %d adults)", title, snap.Query.CheckIn, snap.Query.Nights, snap.Query.Adults))

	if len(snap.Hotels) == 0 {
		p.Info("No hotels.")
		return nil
	}

	table := output.NewTable(p.Out(), []string{"#", "name", "from", "rates", "flight"})
	for _, e := range snap.Hotels {
		rates := p.Dim("-")
		if e.Rates != nil {
			rates = strconv.Itoa(len(e.Rates.Offers)) + " offers"
		}
		flight := p.Dim("-")
		switch {
		case e.FlightChecked && e.Flight == nil:
			flight = "none found"
		case e.Flight != nil:
			flight = e.Flight.OwnerName + " " + formatStops(e.Flight)
		}
		table.AddRow(strconv.Itoa(e.Index), p.Bold(e.Hotel.Name), formatMoney(e.Hotel.CheapestPrice), rates, flight)
	}
	return table.Render()
}

func renderRates(p *output.Printer, hotel string, rates *types.HotelRates) error {
	p.Header("Rates for " + hotel)

	if len(rates.Offers) == 0 {
		p.Info("No rates available.")
		return nil
	}

	table := output.NewTable(p.Out(), []string{"#", "room", "meal", "price", "offer"})
	for i, o := range rates.Offers {
		table.AddRow(strconv.Itoa(i+1), o.RoomName, o.MealName, formatMoney(o.Price), p.Dim(o.OfferID))
	}
	return table.Render()
}

func renderFlight(p *output.Printer, offer *types.FlightOffer) error {
	if offer == nil {
		p.Info("No flights found.")
		return nil
	}
	p.Print("%s  %s  %s  %s %s",
		p.Bold(offer.OwnerName),
		formatRoute(offer),
		formatStops(offer),
		offer.TotalAmount,
		offer.TotalCurrency)
	return nil
}

func renderFlights(p *output.Printer, offers []types.FlightOffer) error {
	p.Header("Flight offers")

	if len(offers) == 0 {
		p.Info("No flights found.")
		return nil
	}

	table := output.NewTable(p.Out(), []string{"#", "airline", "route", "stops", "total"})
	for i := range offers {
		o := &offers[i]
		table.AddRow(
			strconv.Itoa(i+1),
			o.OwnerName,
			formatRoute(o),
			formatStops(o),
			strings.TrimSpace(o.TotalAmount+" "+o.TotalCurrency),
		)
	}
	return table.Render()
}

func renderPrebooking(p *output.Printer, pb *types.Prebooking) error {
	p.Success("Price locked for offer %s", pb.OfferID)
	return nil
}

func renderFull(p *output.Printer, res *types.FullResult) error {
	p.Header("Combined search")
	if res.Status != "" {
		p.Print("status: %s", res.Status)
	}

	table := output.NewTable(p.Out(), []string{"#", "key", "name", "from", "rates"})
	for i, it := range res.Items {
		rates := p.Dim("-")
		if it.Rates != nil {
			rates = strconv.Itoa(len(it.Rates.Offers)) + " offers"
		}
		table.AddRow(strconv.Itoa(i+1), it.Hotel.Key(), p.Bold(it.Hotel.Name), formatMoney(it.Hotel.CheapestPrice), rates)
	}
	return table.Render()
}

func renderStats(p *output.Printer, snap session.Snapshot) {
	p.Header("Session")
	p.Print("generation: %d", snap.Generation)
	p.Print("searching:  %t", snap.Searching)
	p.Print("hotels:     %d", len(snap.Hotels))
	p.Print("cached:     rates=%d flights=%d info=%d", snap.Cache[cache.StoreRates], snap.Cache[cache.StoreFlights], snap.Cache[cache.StoreInfo])
}
