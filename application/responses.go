package application

import (
	"fmt"
	"strings"

	"coinbot/domain/entities"
	"coinbot/domain/utils"
)

type renderer struct {
	cfg entities.EconomyConfig
}

// amount renders a bolded amount with its unit, e.g. **1,000 coins**
func (r *renderer) amount(value int64) string {
	return fmt.Sprintf("**%s %s**", utils.FormatBalance(value), r.cfg.Currency.Label(value))
}

func mention(userID int64) string {
	return fmt.Sprintf("<@%d>", userID)
}

func (r *renderer) balance(callerID int64, result *entities.BalanceResult) string {
	if result.Infinite {
		return fmt.Sprintf("💰 %s has **infinite %s**", mention(result.UserID), r.cfg.Currency.Plural)
	}
	if result.UserID == callerID {
		return fmt.Sprintf("💰 %s, your current balance: %s", mention(callerID), r.amount(result.Balance))
	}
	return fmt.Sprintf("💰 %s has %s", mention(result.UserID), r.amount(result.Balance))
}

func (r *renderer) claim(result *entities.ClaimResult) string {
	return fmt.Sprintf("🎁 You claimed your **%s** reward of %s! New balance: %s",
		result.Bucket, r.amount(result.Reward), r.amount(result.NewBalance))
}

func (r *renderer) rejection(rejection *entities.Rejection, bucket entities.ClaimBucket) string {
	switch rejection.Reason {
	case entities.RejectionCooldown:
		return fmt.Sprintf("Your %s reward is not ready yet. Try again in **%s**.", bucket, utils.FormatDuration(rejection.Wait))
	case entities.RejectionInsufficientFunds:
		return fmt.Sprintf("Insufficient funds. You need %s more.", r.amount(rejection.Shortfall))
	case entities.RejectionInvalidAmount:
		return "Amount must be at least 1."
	default:
		return "That is not allowed."
	}
}

func (r *renderer) transfer(result *entities.TransferResult) string {
	return fmt.Sprintf("✅ sent %s to %s. New balance: %s",
		r.amount(result.Amount), mention(result.ToUserID), r.amount(result.FromBalance))
}

func (r *renderer) transferRejection(result *entities.TransferResult) string {
	switch result.Rejection.Reason {
	case entities.RejectionSelfTransfer:
		return fmt.Sprintf("You cannot send %s to yourself.", r.cfg.Currency.Plural)
	case entities.RejectionReservedAccount:
		return fmt.Sprintf("You cannot send %s to %s.", r.cfg.Currency.Plural, mention(result.ToUserID))
	default:
		return r.rejection(result.Rejection, "")
	}
}

// outcome renders the won/lost clause shared by every game
func (r *renderer) outcome(result *entities.WagerResult) string {
	net := result.Payout - result.Stake
	switch {
	case net > 0:
		return fmt.Sprintf("You won %s!", r.amount(net))
	case net == 0:
		return "You broke even."
	default:
		return fmt.Sprintf("You lost %s.", r.amount(-net))
	}
}

func (r *renderer) coinFlip(result *entities.CoinFlipResult) string {
	return fmt.Sprintf("🪙 The coin landed on **%s**. %s New balance: %s",
		result.Landed, r.outcome(&result.WagerResult), r.amount(result.NewBalance))
}

func (r *renderer) diceRoll(result *entities.DiceRollResult) string {
	return fmt.Sprintf("🎲 The die landed on **%d**. %s New balance: %s",
		result.Landed, r.outcome(&result.WagerResult), r.amount(result.NewBalance))
}

func (r *renderer) wheel(result *entities.WheelResult) string {
	var sb strings.Builder
	sb.WriteString(wheelGrid(result.Table, result.Sector))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "🎡 The wheel stopped on **%s** (%s). %s New balance: %s",
		result.Sector, utils.FormatMultiplier(result.Multiplier), r.outcome(&result.WagerResult), r.amount(result.NewBalance))
	return sb.String()
}

// wheelGrid lays the eight multipliers out as a compass around the chosen arrow
func wheelGrid(table [entities.WheelSectors]float64, chosen entities.Direction) string {
	cell := func(d entities.Direction) string {
		return "`" + utils.FormatMultiplier(table[d]) + "`"
	}

	rows := [3]string{
		strings.Join([]string{cell(entities.DirectionNorthWest), cell(entities.DirectionNorth), cell(entities.DirectionNorthEast)}, " "),
		strings.Join([]string{cell(entities.DirectionWest), chosen.Symbol(), cell(entities.DirectionEast)}, " "),
		strings.Join([]string{cell(entities.DirectionSouthWest), cell(entities.DirectionSouth), cell(entities.DirectionSouthEast)}, " "),
	}
	return strings.Join(rows[:], "\n")
}
