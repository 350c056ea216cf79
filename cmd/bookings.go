package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBookingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookings",
		Short: "Manage your bookings",
	}
	cmd.AddCommand(newBookingsListCmd())
	cmd.AddCommand(newBookingsCancelCmd())
	return cmd
}

func newBookingsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your bookings",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newAuthedApp()
			if err != nil {
				return err
			}
			sess, ok := a.tokens.Get()
			if !ok {
				return fmt.Errorf("not logged in")
			}

			bookings, _, err := a.api.BookingsByProfile(cmd.Context(), sess.User.Name, 1, 100)
			if err != nil {
				return err
			}
			if len(bookings) == 0 {
				fmt.Println("no bookings")
				return nil
			}
			for _, b := range bookings {
				name := "unknown venue"
				if b.Venue != nil {
					name = b.Venue.Name
				}
				fmt.Printf("%s  %s – %s  %d guests  %s\n",
					b.ID, b.DateFrom.Format(dayFormat), b.DateTo.Format(dayFormat), b.Guests, name)
			}
			return nil
		},
	}
}

func newBookingsCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <booking-id>",
		Short: "Cancel a booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newAuthedApp()
			if err != nil {
				return err
			}
			if err := a.api.DeleteBooking(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("cancelled")
			return nil
		},
	}
}
