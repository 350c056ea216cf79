package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/holidaze/internal/bookingflow"
)

func newBookCmd() *cobra.Command {
	var fromStr, toStr string
	var guests int
	var yes bool

	cmd := &cobra.Command{
		Use:   "book <venue-id>",
		Short: "Book a stay at a venue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newAuthedApp()
			if err != nil {
				return err
			}

			from, err := time.Parse(dayFormat, fromStr)
			if err != nil {
				return fmt.Errorf("--from: %w", err)
			}
			to, err := time.Parse(dayFormat, toStr)
			if err != nil {
				return fmt.Errorf("--to: %w", err)
			}

			flow := bookingflow.New(a.api, a.tokens, a.log)
			view := bookingflow.NewView(flow)
			defer view.Close()

			if err := view.Load(cmd.Context(), args[0]); err != nil {
				return err
			}
			venue, _ := view.Venue()

			view.SelectCheckIn(from)
			if err := view.SelectCheckOut(to); err != nil {
				return err
			}

			available, err := view.CheckAvailability()
			if err != nil {
				return err
			}
			if !available {
				return fmt.Errorf("%s is not available %s to %s", venue.Name, fromStr, toStr)
			}

			fmt.Printf("%s, %s to %s, %d guests, %.0f/night\n", venue.Name, fromStr, toStr, guests, venue.Price)
			if !yes {
				answer, err := readLine(cmd, "Book it? [y/N] ")
				if err != nil {
					return err
				}
				if !strings.EqualFold(answer, "y") {
					fmt.Println("cancelled")
					return nil
				}
			}

			res, err := view.Submit(cmd.Context(), guests)
			if err != nil {
				return err
			}
			fmt.Printf("booked! id=%s\n", res.BookingID)
			return nil
		},
	}

	cmd.Flags().StringVar(&fromStr, "from", "", "check-in date (2006-01-02)")
	cmd.Flags().StringVar(&toStr, "to", "", "check-out date (2006-01-02)")
	cmd.Flags().IntVar(&guests, "guests", 1, "number of guests")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
