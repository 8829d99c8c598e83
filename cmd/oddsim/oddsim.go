// Package oddsim replays many wagers through the economy engine and compares
// observed win rates and return-to-player against the configured odds.
package oddsim

import (
	"context"
	"fmt"
	"io"
	"math"

	"coinbot/domain/entities"
	"coinbot/domain/services"
	"coinbot/domain/utils"
	"coinbot/events"
	"coinbot/repository/memory"
)

// chiSquaredCritical7 is the 95% critical value for 7 degrees of freedom
const chiSquaredCritical7 = 14.07

// Options controls a simulation run
type Options struct {
	Rounds int
	Stake  int64
	Seed   uint64
}

// GameReport aggregates one game's rounds
type GameReport struct {
	Game        entities.GameType
	Rounds      int
	Wins        int
	Staked      int64
	Paid        int64
	ExpectedRTP float64
}

// WinRate is the share of rounds that paid more than the stake
func (g GameReport) WinRate() float64 {
	if g.Rounds == 0 {
		return 0
	}
	return float64(g.Wins) / float64(g.Rounds)
}

// RTP is total payout over total stake
func (g GameReport) RTP() float64 {
	if g.Staked == 0 {
		return 0
	}
	return float64(g.Paid) / float64(g.Staked)
}

func (g *GameReport) add(result entities.WagerResult) {
	g.Rounds++
	g.Staked += result.Stake
	g.Paid += result.Payout
	if result.Won {
		g.Wins++
	}
}

// Report is the outcome of a simulation run
type Report struct {
	Options      Options
	CoinFlip     GameReport
	DiceRoll     GameReport
	Wheel        GameReport
	Sectors      [entities.WheelSectors]int
	StartBalance int64
	FinalBalance int64
}

// SectorChiSquared measures how far the wheel sector counts are from uniform
func (r *Report) SectorChiSquared() float64 {
	total := 0
	for _, n := range r.Sectors {
		total += n
	}
	if total == 0 {
		return 0
	}

	expected := float64(total) / float64(entities.WheelSectors)
	chi := 0.0
	for _, n := range r.Sectors {
		chi += math.Pow(float64(n)-expected, 2) / expected
	}
	return chi
}

// Run plays opts.Rounds of every game against an in-memory ledger
func Run(ctx context.Context, cfg entities.EconomyConfig, opts Options) (*Report, error) {
	if opts.Rounds <= 0 {
		return nil, fmt.Errorf("rounds must be positive, got %d", opts.Rounds)
	}
	if opts.Stake <= 0 {
		return nil, fmt.Errorf("stake must be positive, got %d", opts.Stake)
	}

	store := memory.New()
	economy, err := services.NewEconomyService(store, events.NewBus(), services.NewSeededRandomizer(opts.Seed), cfg)
	if err != nil {
		return nil, err
	}

	player := int64(1)
	if player == cfg.BotAccountID {
		player = 2
	}

	report := &Report{
		Options:      opts,
		CoinFlip:     GameReport{Game: entities.GameCoinFlip, ExpectedRTP: expectedChanceRTP(cfg.CoinFlip)},
		DiceRoll:     GameReport{Game: entities.GameDiceRoll, ExpectedRTP: expectedChanceRTP(cfg.DiceRoll)},
		Wheel:        GameReport{Game: entities.GameWheel, ExpectedRTP: expectedWheelRTP(cfg.Wheel)},
		StartBalance: opts.Stake * int64(opts.Rounds) * 3,
	}
	if err := store.SetBalance(ctx, player, report.StartBalance); err != nil {
		return nil, err
	}

	sides := []entities.CoinSide{entities.CoinSideHeads, entities.CoinSideTails}
	for i := 0; i < opts.Rounds; i++ {
		flip, err := economy.CoinFlip(ctx, player, sides[i%2], opts.Stake)
		if err != nil {
			return nil, err
		}
		report.CoinFlip.add(flip.WagerResult)

		roll, err := economy.DiceRoll(ctx, player, entities.DiceSide(i%entities.DiceSides+1), opts.Stake)
		if err != nil {
			return nil, err
		}
		report.DiceRoll.add(roll.WagerResult)

		spin, err := economy.Wheel(ctx, player, opts.Stake)
		if err != nil {
			return nil, err
		}
		report.Wheel.add(spin.WagerResult)
		report.Sectors[spin.Sector]++
	}

	final, err := economy.Balance(ctx, player)
	if err != nil {
		return nil, err
	}
	report.FinalBalance = final.Balance

	return report, nil
}

func expectedChanceRTP(game entities.ChanceGame) float64 {
	return float64(game.WinChance) / 100 * game.RewardMultiplier
}

func expectedWheelRTP(table [entities.WheelSectors]float64) float64 {
	sum := 0.0
	for _, m := range table {
		sum += m
	}
	return sum / float64(entities.WheelSectors)
}

// Print writes a human-readable summary of the report
func (r *Report) Print(w io.Writer) {
	fmt.Fprintf(w, "=== Odds simulation: %d rounds per game, stake %d, seed %d ===\n\n",
		r.Options.Rounds, r.Options.Stake, r.Options.Seed)

	for _, g := range []GameReport{r.CoinFlip, r.DiceRoll, r.Wheel} {
		fmt.Fprintf(w, "%-10s | wins: %6d | win rate: %6.2f%% | RTP: %.4f (expected %.4f, %+.2f%%)\n",
			g.Game, g.Wins, g.WinRate()*100, g.RTP(), g.ExpectedRTP, (g.RTP()-g.ExpectedRTP)*100)
	}

	fmt.Fprintln(w, "\nWheel sectors:")
	expected := float64(r.Wheel.Rounds) / float64(entities.WheelSectors)
	for i, n := range r.Sectors {
		d := entities.Direction(i)
		deviation := 0.0
		if expected > 0 {
			deviation = (float64(n) - expected) / expected * 100
		}
		fmt.Fprintf(w, "  %s %-11s %6d (%+5.2f%%)\n", d.Symbol(), d, n, deviation)
	}

	chi := r.SectorChiSquared()
	verdict := "✓ uniform"
	if chi >= chiSquaredCritical7 {
		verdict = "✗ not uniform"
	}
	fmt.Fprintf(w, "\nχ² (sectors): %.2f (critical %.2f at 95%%, 7 df) %s\n", chi, chiSquaredCritical7, verdict)
	net := utils.FormatShortNotation(r.FinalBalance - r.StartBalance)
	if r.FinalBalance >= r.StartBalance {
		net = "+" + net
	}
	fmt.Fprintf(w, "Balance: %s -> %s (%s)\n",
		utils.FormatShortNotation(r.StartBalance), utils.FormatShortNotation(r.FinalBalance), net)
}
