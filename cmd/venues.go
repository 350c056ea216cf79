package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/holidaze/internal/holidaze"
)

const dayFormat = "2006-01-02"

func newVenuesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "venues",
		Short: "Browse venues",
	}
	cmd.AddCommand(newVenuesListCmd())
	cmd.AddCommand(newVenuesShowCmd())
	cmd.AddCommand(newVenuesSearchCmd())
	return cmd
}

func newVenuesListCmd() *cobra.Command {
	var page, limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List venues",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			venues, meta, err := a.api.ListVenues(cmd.Context(), page, limit)
			if err != nil {
				return err
			}
			for _, v := range venues {
				printVenueLine(v)
			}
			fmt.Printf("page %d of %d (%d venues)\n", meta.CurrentPage, meta.PageCount, meta.TotalCount)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&limit, "limit", 20, "venues per page")
	return cmd
}

func newVenuesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <venue-id>",
		Short: "Show one venue with its booked dates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			v, err := a.api.GetVenue(cmd.Context(), args[0], true)
			if err != nil {
				return err
			}

			fmt.Printf("%s\n%s\n", v.Name, v.Description)
			fmt.Printf("%s, %s · %.0f/night · up to %d guests · rated %.1f\n",
				v.Location.City, v.Location.Country, v.Price, v.MaxGuests, v.Rating)
			if len(v.Bookings) == 0 {
				fmt.Println("no booked dates")
				return nil
			}
			fmt.Println("booked dates:")
			for _, b := range v.Bookings {
				fmt.Printf("  %s – %s\n", b.DateFrom.Format(dayFormat), b.DateTo.Format(dayFormat))
			}
			return nil
		},
	}
}

func newVenuesSearchCmd() *cobra.Command {
	var fromStr, toStr string

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search venues by name, optionally filtered to an available date range",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			var q string
			if len(args) == 1 {
				q = args[0]
			}
			var from, to time.Time
			if fromStr != "" || toStr != "" {
				if from, err = time.Parse(dayFormat, fromStr); err != nil {
					return fmt.Errorf("--from: %w", err)
				}
				if to, err = time.Parse(dayFormat, toStr); err != nil {
					return fmt.Errorf("--to: %w", err)
				}
			}

			venues, err := a.api.SearchVenues(cmd.Context(), q, from, to)
			if err != nil {
				return err
			}
			if len(venues) == 0 {
				fmt.Println("no venues found")
				return nil
			}
			for _, v := range venues {
				printVenueLine(v)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&fromStr, "from", "", "check-in date (2006-01-02)")
	cmd.Flags().StringVar(&toStr, "to", "", "check-out date (2006-01-02)")
	return cmd
}

func printVenueLine(v holidaze.Venue) {
	loc := v.Location.City
	if loc == "" {
		loc = "unknown"
	}
	fmt.Printf("%s  %-30s %-20s %.0f/night, %d guests\n", v.ID, v.Name, loc, v.Price, v.MaxGuests)
}
