package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/alex-user-go/getaway/internal/search"
	"github.com/alex-user-go/getaway/internal/search/types"
)

// stayFlags are the date and occupancy flags shared by search, rates and full.
type stayFlags struct {
	checkin string
	nights  int
	adults  int
}

func (f *stayFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.checkin, "checkin", "", "check-in date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&f.nights, "nights", 1, "number of nights")
	cmd.Flags().IntVar(&f.adults, "adults", 2, "number of adults")
}

// refFlags identify a hotel by id or hid.
type refFlags struct {
	id  string
	hid int64
}

func (f *refFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.id, "id", "", "hotel id")
	cmd.Flags().Int64Var(&f.hid, "hid", 0, "numeric hotel id")
	cmd.MarkFlagsOneRequired("id", "hid")
}

func (f *refFlags) ref() types.HotelRef {
	return types.HotelRef{ID: strings.TrimSpace(f.id), HID: f.hid}
}

// SearchCmd searches hotels for a destination.
func SearchCmd(e *env) *cobra.Command {
	var (
		stay     stayFlags
		limit    int
		regionID string
	)

	cmd := &cobra.Command{
		Use:   "search <destination>",
		Short: "Search hotels for a destination and dates",
		Long: `Resolve a destination to a region and list its hotels in provider order.

Examples:
  getaway search Reykjavik --checkin 2025-06-01 --nights 3 --adults 2
  getaway search --region-id 2114 --checkin 2025-06-01 --limit 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := e.app.Query(strings.Join(args, " "), stay.checkin, stay.nights, stay.adults)
			q.RegionID = strings.TrimSpace(regionID)
			if limit > 0 {
				q.ResultCap = limit
			}

			res, err := e.app.Search.Search(cmd.Context(), q)
			if err != nil {
				return err
			}
			return e.render(res, func() error { return renderSearch(e.printer, res) })
		},
	}

	stay.register(cmd)
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of hotels (default GETAWAY_HOTELS_LIMIT)")
	cmd.Flags().StringVar(&regionID, "region-id", "", "search a known region id, skipping destination lookup")

	return cmd
}

// RatesCmd lists the full rates of one hotel.
func RatesCmd(e *env) *cobra.Command {
	var (
		stay stayFlags
		ref  refFlags
	)

	cmd := &cobra.Command{
		Use:   "rates",
		Short: "List all rates of a hotel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := e.app.Query("", stay.checkin, stay.nights, stay.adults)

			rates, err := e.app.Hotels.Rates(cmd.Context(), ref.ref(), q)
			if err != nil {
				return err
			}
			return e.render(rates, func() error { return renderRates(e.printer, ref.ref().Key(), rates) })
		},
	}

	stay.register(cmd)
	ref.register(cmd)

	return cmd
}

// PrebookCmd locks the price of an offer.
func PrebookCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "prebook <offer-id>",
		Short: "Lock the price of an offer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pb, err := e.app.Hotels.Prebook(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return e.render(pb, func() error { return renderPrebooking(e.printer, pb) })
		},
	}
}

// InfoCmd prints the rich content of a hotel.
func InfoCmd(e *env) *cobra.Command {
	var ref refFlags

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show hotel rich content",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := e.app.Hotels.Info(cmd.Context(), ref.ref(), e.app.Config.Language)
			if err != nil {
				return err
			}
			return e.printer.JSON(info.Raw)
		},
	}

	ref.register(cmd)

	return cmd
}

// FlightsCmd searches flights between two airports.
func FlightsCmd(e *env) *cobra.Command {
	var (
		date   string
		adults int
		cabin  string
		all    bool
	)

	cmd := &cobra.Command{
		Use:   "flights <origin> <destination>",
		Short: "Find a flight between two airports",
		Long: `Request flight offers between two IATA airport codes. By default only the
paired offer is shown: the first direct offer, else the first offer.

Examples:
  getaway flights LHR KEF --date 2025-06-01
  getaway flights lhr kef --date 2025-06-01 --all`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := types.FlightQuery{
				Origin:        args[0],
				Destination:   args[1],
				DepartureDate: date,
				Adults:        adults,
				CabinClass:    cabin,
			}

			if all {
				offers, err := e.app.Flights.Offers(cmd.Context(), q)
				if err != nil {
					return err
				}
				return e.render(offers, func() error { return renderFlights(e.printer, offers) })
			}

			offer, err := e.app.Flights.Pair(cmd.Context(), q)
			if err != nil {
				return err
			}
			return e.render(offer, func() error { return renderFlight(e.printer, offer) })
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "departure date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&adults, "adults", 1, "number of adults")
	cmd.Flags().StringVar(&cabin, "cabin", "", "cabin class (default GETAWAY_CABIN_CLASS)")
	cmd.Flags().BoolVar(&all, "all", false, "list every offer instead of the paired one")

	return cmd
}

// FullCmd runs the combined search for a region.
func FullCmd(e *env) *cobra.Command {
	var (
		stay      stayFlags
		includeHP bool
		hpLimit   int
	)

	cmd := &cobra.Command{
		Use:   "full <region-id>",
		Short: "Combined search with rich content and optional rates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := e.app.Query("", stay.checkin, stay.nights, stay.adults)
			q.RegionID = strings.TrimSpace(args[0])

			res, err := e.app.Search.Full(cmd.Context(), q, search.FullOptions{
				IncludeHP: includeHP,
				HPLimit:   hpLimit,
			})
			if err != nil {
				return err
			}
			return e.render(res, func() error { return renderFull(e.printer, res) })
		},
	}

	stay.register(cmd)
	cmd.Flags().BoolVar(&includeHP, "include-hp", false, "include rates for the first hotels")
	cmd.Flags().IntVar(&hpLimit, "hp-limit", 5, "number of hotels to include rates for")

	return cmd
}
