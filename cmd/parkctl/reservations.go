package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"parksystem-backend/internal/model"
	"parksystem-backend/internal/reservation"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid reservation id %q", s)
	}
	return id, nil
}

func newListCmd(a *app) *cobra.Command {
	var (
		tab    string
		search string
		pages  int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show reservations of a tab, grouped by flight",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := reservation.ParseTab(tab)
			if err != nil {
				return err
			}
			board, err := a.refreshed(cmd.Context())
			if err != nil {
				return err
			}

			sel := reservation.NewSelection(a.pageSize())
			sel.SetTab(t)
			sel.SetQuery(search)
			for i := 1; i < pages; i++ {
				sel.LoadMore()
			}
			now := a.clock()
			return printView(a.out, sel.View(board.Snapshot(), now), now)
		},
	}
	cmd.Flags().StringVar(&tab, "tab", "today", "today, all-active or completed")
	cmd.Flags().StringVarP(&search, "search", "s", "", "filter by plate, customer or flight")
	cmd.Flags().IntVar(&pages, "pages", 1, "number of pages to show on paginated tabs")
	return cmd
}

// draftFlags binds the reservation fields to command flags.
type draftFlags struct {
	plate      string
	name       string
	phone      string
	returnAt   string
	flight     string
	passengers int
	paid       bool
	price      float64
}

func (f *draftFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.plate, "plate", "", "license plate")
	fs.StringVar(&f.name, "name", "", "customer name")
	fs.StringVar(&f.phone, "phone", "", "customer phone number")
	fs.StringVar(&f.returnAt, "return", "", "return time, YYYY-MM-DD HH:MM")
	fs.StringVar(&f.flight, "flight", "", "return flight number")
	fs.IntVar(&f.passengers, "passengers", 1, "number of passengers")
	fs.BoolVar(&f.paid, "paid", false, "already paid")
	fs.Float64Var(&f.price, "price", 0, "agreed price")
}

// apply copies the flags the user set onto d.
func (f *draftFlags) apply(fs *pflag.FlagSet, d *reservation.Draft, a *app) error {
	if fs.Changed("plate") {
		d.LicensePlate = f.plate
	}
	if fs.Changed("name") {
		d.CustomerName = f.name
	}
	if fs.Changed("phone") {
		d.PhoneNumber = f.phone
	}
	if fs.Changed("return") {
		t, err := parseWhen(f.returnAt, a.cfg.location)
		if err != nil {
			return err
		}
		d.ReturnDate = t
	}
	if fs.Changed("flight") {
		d.FlightNumber = f.flight
	}
	if fs.Changed("passengers") {
		d.PassengerCount = f.passengers
	}
	if fs.Changed("paid") {
		d.IsPaid = f.paid
	}
	if fs.Changed("price") {
		price := f.price
		d.Price = &price
	}
	return nil
}

func printSaved(a *app, verb string, r model.Reservation) {
	fmt.Fprintf(a.out, "%s reservation %d: %s, %s, returns %s\n",
		verb, r.ID, r.LicensePlate, r.CustomerName, r.ReturnDate.In(a.cfg.location).Format("2006-01-02 15:04"))
}

func newAddCmd(a *app) *cobra.Command {
	var flags draftFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a reservation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := reservation.Draft{PassengerCount: 1}
			if err := flags.apply(cmd.Flags(), &d, a); err != nil {
				return err
			}
			r, err := a.board.Add(cmd.Context(), d)
			if err != nil {
				return err
			}
			printSaved(a, "Created", r)
			return nil
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var flags draftFlags
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change fields of a reservation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			board, err := a.refreshed(cmd.Context())
			if err != nil {
				return err
			}
			current, ok := board.Find(id)
			if !ok {
				return fmt.Errorf("reservation %d not found", id)
			}

			d := reservation.DraftOf(current)
			if err := flags.apply(cmd.Flags(), &d, a); err != nil {
				return err
			}
			r, err := board.Edit(cmd.Context(), id, d)
			if err != nil {
				return err
			}
			printSaved(a, "Updated", r)
			return nil
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a reservation",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.board.Remove(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted reservation %d\n", id)
			return nil
		},
	}
}

func newDoneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "done ID",
		Short: "Toggle completion of a reservation and the rest of its flight group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			board, err := a.refreshed(cmd.Context())
			if err != nil {
				return err
			}
			r, err := board.ToggleComplete(cmd.Context(), id)
			if err != nil {
				return err
			}

			state := "active"
			if r.IsCompleted {
				state = "completed"
			}
			companions := reservation.Companions(board.Snapshot(), r, a.cfg.location)
			fmt.Fprintf(a.out, "Reservation %d is %s", r.ID, state)
			if len(companions) > 0 {
				fmt.Fprintf(a.out, ", together with %d more on flight %s", len(companions), r.Flight())
			}
			fmt.Fprintln(a.out)
			return nil
		},
	}
}

func newPaidCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "paid ID",
		Short: "Toggle the paid flag of a reservation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			r, err := a.board.TogglePayment(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Reservation %d paid: %s\n", r.ID, yesNo(r.IsPaid))
			return nil
		},
	}
}
