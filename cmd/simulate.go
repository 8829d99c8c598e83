package cmd

import (
	"context"
	"flag"
	"io"
	"os"

	"coinbot/cmd/oddsim"
	"coinbot/config"
)

// Simulate runs the odds simulator with the configured economy rules
func Simulate(ctx context.Context, args []string) error {
	return simulate(ctx, args, os.Stdout)
}

func simulate(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	fs.SetOutput(out)
	rounds := fs.Int("rounds", 100000, "rounds per game")
	stake := fs.Int64("stake", 100, "stake per round")
	seed := fs.Uint64("seed", 1, "random seed")
	if err := fs.Parse(args); err != nil {
		return err
	}

	economyCfg, err := config.Get().Economy()
	if err != nil {
		return err
	}

	report, err := oddsim.Run(ctx, economyCfg, oddsim.Options{
		Rounds: *rounds,
		Stake:  *stake,
		Seed:   *seed,
	})
	if err != nil {
		return err
	}

	report.Print(out)
	return nil
}
