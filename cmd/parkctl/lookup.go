package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"parksystem-backend/internal/model"
	"parksystem-backend/internal/pricing"
)

func newFlightCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "flight ID",
		Short: "Show the arrival status of a reservation's flight",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			st, err := a.client.FlightStatus(cmd.Context(), id)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "Flight\t%s\n", st.FlightNumber)
			fmt.Fprintf(tw, "Status\t%s (%s)\n", st.Status, st.StatusColor)
			fmt.Fprintf(tw, "Scheduled\t%s\n", st.ScheduledTime.In(a.cfg.location).Format("2006-01-02 15:04"))
			if st.ActualTime != nil {
				fmt.Fprintf(tw, "Actual\t%s\n", st.ActualTime.In(a.cfg.location).Format("2006-01-02 15:04"))
			}
			fmt.Fprintf(tw, "Terminal\t%s\n", st.Terminal)
			fmt.Fprintf(tw, "Tracking\t%s\n", st.TrackingLink)
			return tw.Flush()
		},
	}
}

func printPricing(a *app, p model.PricingSettings) error {
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	for days := 1; days <= 7; days++ {
		fmt.Fprintf(tw, "%d day(s)\t%.2f\n", days, p.Tier(days))
	}
	fmt.Fprintf(tw, "each extra day\t%.2f\n", p.ExtraDay)
	return tw.Flush()
}

func newPricingCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pricing",
		Short: "Show or change the price list",
	}

	get := &cobra.Command{
		Use:   "get",
		Short: "Show the price list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.client.Pricing(cmd.Context())
			if err != nil {
				return err
			}
			return printPricing(a, p)
		},
	}

	var days [7]float64
	var extra float64
	set := &cobra.Command{
		Use:   "set",
		Short: "Change some prices, e.g. --day1 60 --extra 25",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch pricing.Patch
			targets := []**float64{&patch.Day1, &patch.Day2, &patch.Day3, &patch.Day4, &patch.Day5, &patch.Day6, &patch.Day7}
			for i := range days {
				if cmd.Flags().Changed(fmt.Sprintf("day%d", i+1)) {
					v := days[i]
					*targets[i] = &v
				}
			}
			if cmd.Flags().Changed("extra") {
				patch.ExtraDay = &extra
			}
			p, err := a.client.SetPricing(cmd.Context(), patch)
			if err != nil {
				return err
			}
			return printPricing(a, p)
		},
	}
	for i := range days {
		set.Flags().Float64Var(&days[i], fmt.Sprintf("day%d", i+1), 0, fmt.Sprintf("price for %d day(s)", i+1))
	}
	set.Flags().Float64Var(&extra, "extra", 0, "price of each day after the seventh")

	var returnAt string
	estimate := &cobra.Command{
		Use:   "estimate",
		Short: "Price a stay from now until the return time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseWhen(returnAt, a.cfg.location)
			if err != nil {
				return err
			}
			e, err := a.client.Estimate(cmd.Context(), t)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%d day(s): %.2f\n", e.Days, e.Price)
			return nil
		},
	}
	estimate.Flags().StringVar(&returnAt, "return", "", "return time, YYYY-MM-DD HH:MM")
	_ = estimate.MarkFlagRequired("return")

	cmd.AddCommand(get, set, estimate)
	return cmd
}

func newProfileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the account's plan and usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.client.Profile(cmd.Context())
			if err != nil {
				return err
			}
			plan := p.PlanName
			if plan == "" {
				plan = "none"
			}

			tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "User\t%s\n", p.Username)
			fmt.Fprintf(tw, "Email\t%s\n", p.Email)
			fmt.Fprintf(tw, "Plan\t%s\n", plan)
			if p.Limit > 0 {
				fmt.Fprintf(tw, "Usage\t%d / %d\n", p.Usage, p.Limit)
			} else {
				fmt.Fprintf(tw, "Usage\t%d\n", p.Usage)
			}
			fmt.Fprintf(tw, "Language\t%s\n", p.Language)
			return tw.Flush()
		},
	}
}
