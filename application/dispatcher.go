package application

import (
	"context"
	"fmt"

	"coinbot/domain/entities"
	"coinbot/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// Dispatcher validates inbound commands, runs them against the economy engine
// and renders the reply text
type Dispatcher struct {
	economy interfaces.EconomyService
	render  *renderer
}

// NewDispatcher creates a dispatcher over the economy engine
func NewDispatcher(economy interfaces.EconomyService) *Dispatcher {
	return &Dispatcher{
		economy: economy,
		render:  &renderer{cfg: economy.Config()},
	}
}

// Handle runs one command. Rule violations and malformed arguments come back as
// error responses; a returned error means the store failed.
func (d *Dispatcher) Handle(ctx context.Context, cmd entities.Command) (*entities.Response, error) {
	log.WithFields(log.Fields{
		"userID":  cmd.UserID,
		"command": cmd.Name,
	}).Debug("Handling command")

	var (
		resp *entities.Response
		err  error
	)
	switch cmd.Name {
	case entities.CommandBalance:
		resp, err = d.handleBalance(ctx, cmd)
	case entities.CommandClaim:
		resp, err = d.handleClaim(ctx, cmd)
	case entities.CommandSend:
		resp, err = d.handleSend(ctx, cmd)
	case entities.CommandBetCoinFlip:
		resp, err = d.handleCoinFlip(ctx, cmd)
	case entities.CommandBetDiceRoll:
		resp, err = d.handleDiceRoll(ctx, cmd)
	case entities.CommandBetWheel:
		resp, err = d.handleWheel(ctx, cmd)
	default:
		return errorResponse(fmt.Sprintf("Unknown command %q.", cmd.Name)), nil
	}

	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"userID":  cmd.UserID,
			"command": cmd.Name,
		}).Error("Command failed")
		return nil, fmt.Errorf("failed to handle %s: %w", cmd.Name, err)
	}
	return resp, nil
}

func (d *Dispatcher) handleBalance(ctx context.Context, cmd entities.Command) (*entities.Response, error) {
	subject := cmd.UserID
	if cmd.Args.Target != nil {
		subject = *cmd.Args.Target
	}

	result, err := d.economy.Balance(ctx, subject)
	if err != nil {
		return nil, err
	}

	resp := &entities.Response{Text: d.render.balance(cmd.UserID, result)}
	if subject == cmd.UserID && !result.Infinite {
		resp.Balance = &result.Balance
	}
	return resp, nil
}

func (d *Dispatcher) handleClaim(ctx context.Context, cmd entities.Command) (*entities.Response, error) {
	bucket, err := entities.ParseClaimBucket(cmd.Args.Bucket)
	if err != nil {
		return errorResponse("Unknown reward. Choose hourly, daily or monthly."), nil
	}

	result, err := d.economy.Claim(ctx, cmd.UserID, bucket)
	if err != nil {
		return nil, err
	}

	if !result.Claimed() {
		return errorResponse(d.render.rejection(result.Rejection, bucket)), nil
	}
	return &entities.Response{
		Text:    d.render.claim(result),
		Balance: &result.NewBalance,
	}, nil
}

func (d *Dispatcher) handleSend(ctx context.Context, cmd entities.Command) (*entities.Response, error) {
	if cmd.Args.Target == nil {
		return errorResponse("Please choose a recipient."), nil
	}
	if msg, ok := validateAmount(cmd.Args.Amount); !ok {
		return errorResponse(msg), nil
	}

	result, err := d.economy.Send(ctx, cmd.UserID, *cmd.Args.Target, cmd.Args.Amount)
	if err != nil {
		return nil, err
	}

	if result.Rejection != nil {
		return errorResponse(d.render.transferRejection(result)), nil
	}
	return &entities.Response{
		Text:    d.render.transfer(result),
		Balance: &result.FromBalance,
	}, nil
}

func (d *Dispatcher) handleCoinFlip(ctx context.Context, cmd entities.Command) (*entities.Response, error) {
	side, err := entities.ParseCoinSide(cmd.Args.Side)
	if err != nil {
		return errorResponse("Pick heads or tails."), nil
	}
	if msg, ok := validateAmount(cmd.Args.Amount); !ok {
		return errorResponse(msg), nil
	}

	result, err := d.economy.CoinFlip(ctx, cmd.UserID, side, cmd.Args.Amount)
	if err != nil {
		return nil, err
	}

	if result.Rejection != nil {
		return errorResponse(d.render.rejection(result.Rejection, "")), nil
	}
	return &entities.Response{
		Text:    d.render.coinFlip(result),
		Balance: &result.NewBalance,
	}, nil
}

func (d *Dispatcher) handleDiceRoll(ctx context.Context, cmd entities.Command) (*entities.Response, error) {
	side, err := entities.ParseDiceSide(cmd.Args.Side)
	if err != nil {
		return errorResponse(fmt.Sprintf("Pick a side between 1 and %d.", entities.DiceSides)), nil
	}
	if msg, ok := validateAmount(cmd.Args.Amount); !ok {
		return errorResponse(msg), nil
	}

	result, err := d.economy.DiceRoll(ctx, cmd.UserID, side, cmd.Args.Amount)
	if err != nil {
		return nil, err
	}

	if result.Rejection != nil {
		return errorResponse(d.render.rejection(result.Rejection, "")), nil
	}
	return &entities.Response{
		Text:    d.render.diceRoll(result),
		Balance: &result.NewBalance,
	}, nil
}

func (d *Dispatcher) handleWheel(ctx context.Context, cmd entities.Command) (*entities.Response, error) {
	if msg, ok := validateAmount(cmd.Args.Amount); !ok {
		return errorResponse(msg), nil
	}

	result, err := d.economy.Wheel(ctx, cmd.UserID, cmd.Args.Amount)
	if err != nil {
		return nil, err
	}

	if result.Rejection != nil {
		return errorResponse(d.render.rejection(result.Rejection, "")), nil
	}
	return &entities.Response{
		Text:    d.render.wheel(result),
		Balance: &result.NewBalance,
	}, nil
}

func validateAmount(amount int64) (string, bool) {
	if amount < 1 {
		return "Amount must be at least 1.", false
	}
	return "", true
}

func errorResponse(message string) *entities.Response {
	return &entities.Response{
		Text:    "❌ " + message,
		IsError: true,
	}
}
