package main

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"parksystem-backend/internal/reservation"
)

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow the next pickup countdown and today's timeline until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			board, err := a.refreshed(ctx)
			if err != nil {
				return err
			}

			var mu sync.Mutex
			timeline := reservation.StartTicker(ctx, time.Minute, func(time.Time) {
				if err := board.Refresh(ctx); err != nil && ctx.Err() == nil {
					mu.Lock()
					fmt.Fprintf(a.out, "\nrefresh failed: %v\n", err)
					mu.Unlock()
					return
				}
				now := a.clock()
				mu.Lock()
				defer mu.Unlock()
				fmt.Fprintf(a.out, "\n== %s ==\n", now.Format("15:04"))
				printTimeline(a.out, reservation.Today(board.Snapshot(), now), now)
			})
			countdown := reservation.StartTicker(ctx, time.Second, func(time.Time) {
				now := a.clock()
				line := "no upcoming pickups"
				if next, ok := reservation.NextPickup(board.Snapshot(), now); ok {
					line = fmt.Sprintf("next: %s (%s) in %s",
						next.LicensePlate, next.CustomerName, formatCountdown(reservation.Split(next.ReturnDate.Sub(now))))
				}
				mu.Lock()
				defer mu.Unlock()
				fmt.Fprintf(a.out, "\r%-72s", line)
			})

			<-ctx.Done()
			timeline.Stop()
			countdown.Stop()
			fmt.Fprintln(a.out)
			return nil
		},
	}
}
