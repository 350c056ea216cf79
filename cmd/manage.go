package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/holidaze/internal/holidaze"
)

func newManageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manage",
		Short: "Manage your own venues (venue-manager accounts)",
	}
	cmd.AddCommand(newManageListCmd())
	cmd.AddCommand(newManageCreateCmd())
	cmd.AddCommand(newManageUpdateCmd())
	cmd.AddCommand(newManageDeleteCmd())
	return cmd
}

// venueFlags binds the venue fields shared by create and update.
func venueFlags(cmd *cobra.Command, req *holidaze.VenueRequest) {
	cmd.Flags().StringVar(&req.Name, "name", "", "venue name")
	cmd.Flags().StringVar(&req.Description, "description", "", "venue description")
	cmd.Flags().Float64Var(&req.Price, "price", 0, "price per night")
	cmd.Flags().IntVar(&req.MaxGuests, "max-guests", 1, "maximum number of guests")
	cmd.Flags().StringVar(&req.Location.Address, "address", "", "street address")
	cmd.Flags().StringVar(&req.Location.City, "city", "", "city")
	cmd.Flags().StringVar(&req.Location.Country, "country", "", "country")
	cmd.Flags().BoolVar(&req.Meta.Wifi, "wifi", false, "has wifi")
	cmd.Flags().BoolVar(&req.Meta.Parking, "parking", false, "has parking")
	cmd.Flags().BoolVar(&req.Meta.Breakfast, "breakfast", false, "serves breakfast")
	cmd.Flags().BoolVar(&req.Meta.Pets, "pets", false, "allows pets")
}

func newManageListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your venues with their upcoming bookings",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newAuthedApp()
			if err != nil {
				return err
			}
			sess, ok := a.tokens.Get()
			if !ok {
				return fmt.Errorf("not logged in")
			}

			venues, err := a.api.VenuesByProfile(cmd.Context(), sess.User.Name)
			if err != nil {
				return err
			}
			if len(venues) == 0 {
				fmt.Println("no venues")
				return nil
			}
			for _, v := range venues {
				printVenueLine(v)
				for _, b := range v.Bookings {
					fmt.Printf("    %s – %s  %d guests\n",
						b.DateFrom.Format(dayFormat), b.DateTo.Format(dayFormat), b.Guests)
				}
			}
			return nil
		},
	}
}

func newManageCreateCmd() *cobra.Command {
	var req holidaze.VenueRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a venue",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newAuthedApp()
			if err != nil {
				return err
			}
			v, err := a.api.CreateVenue(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Printf("created %s (%s)\n", v.Name, v.ID)
			return nil
		},
	}

	venueFlags(cmd, &req)
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("price")
	return cmd
}

func newManageUpdateCmd() *cobra.Command {
	var req holidaze.VenueRequest

	cmd := &cobra.Command{
		Use:   "update <venue-id>",
		Short: "Update a venue; unset flags keep their current values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newAuthedApp()
			if err != nil {
				return err
			}

			// The API replaces the whole record, so start from the current
			// one and overlay only the flags that were set.
			current, err := a.api.GetVenue(cmd.Context(), args[0], false)
			if err != nil {
				return err
			}
			merged := holidaze.VenueRequest{
				Name:        current.Name,
				Description: current.Description,
				Media:       current.Media,
				Price:       current.Price,
				MaxGuests:   current.MaxGuests,
				Meta:        current.Meta,
				Location:    current.Location,
			}
			overlay := map[string]func(){
				"name":        func() { merged.Name = req.Name },
				"description": func() { merged.Description = req.Description },
				"price":       func() { merged.Price = req.Price },
				"max-guests":  func() { merged.MaxGuests = req.MaxGuests },
				"address":     func() { merged.Location.Address = req.Location.Address },
				"city":        func() { merged.Location.City = req.Location.City },
				"country":     func() { merged.Location.Country = req.Location.Country },
				"wifi":        func() { merged.Meta.Wifi = req.Meta.Wifi },
				"parking":     func() { merged.Meta.Parking = req.Meta.Parking },
				"breakfast":   func() { merged.Meta.Breakfast = req.Meta.Breakfast },
				"pets":        func() { merged.Meta.Pets = req.Meta.Pets },
			}
			for name, apply := range overlay {
				if cmd.Flags().Changed(name) {
					apply()
				}
			}

			v, err := a.api.UpdateVenue(cmd.Context(), args[0], merged)
			if err != nil {
				return err
			}
			fmt.Printf("updated %s (%s)\n", v.Name, v.ID)
			return nil
		},
	}

	venueFlags(cmd, &req)
	return cmd
}

func newManageDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <venue-id>",
		Short: "Delete a venue and all of its bookings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newAuthedApp()
			if err != nil {
				return err
			}
			if err := a.api.DeleteVenue(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("deleted")
			return nil
		},
	}
}
