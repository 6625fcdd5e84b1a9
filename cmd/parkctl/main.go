// Command parkctl is the operator's terminal client for parkd.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/spf13/cobra"

	"parksystem-backend/internal/client"
	"parksystem-backend/internal/reservation"
)

// app is what every command runs against.
type app struct {
	cfg    *cliConfig
	client *client.Client
	board  *client.Board
	out    io.Writer
	now    func() time.Time
}

func (a *app) clock() time.Time {
	return a.now().In(a.cfg.location)
}

// refreshed loads the board from the server.
func (a *app) refreshed(ctx context.Context) (*client.Board, error) {
	if err := a.board.Refresh(ctx); err != nil {
		return nil, err
	}
	return a.board, nil
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out, now: time.Now}
	configPath := defaultConfigPath()

	root := &cobra.Command{
		Use:           "parkctl",
		Short:         "Manage parking reservations from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.client = client.New(cfg.APIURL, client.NewFileSessionStore(cfg.SessionFile), nil)
			a.board = client.NewBoard(a.client, cfg.location)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", configPath, "path to the parkctl configuration")
	root.SetOut(out)

	root.AddCommand(
		newLoginCmd(a), newGoogleLoginCmd(a), newLogoutCmd(a),
		newListCmd(a), newAddCmd(a), newEditCmd(a), newRemoveCmd(a), newDoneCmd(a), newPaidCmd(a),
		newFlightCmd(a), newPricingCmd(a), newProfileCmd(a),
		newWatchCmd(a),
	)
	return root
}

func (a *app) pageSize() int {
	if a.cfg.PageSize > 0 {
		return a.cfg.PageSize
	}
	return reservation.DefaultPageSize
}
