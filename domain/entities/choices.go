package entities

import (
	"fmt"
	"strconv"
	"strings"
)

// CoinSide is the side a player calls on a coin flip
type CoinSide string

const (
	CoinSideHeads CoinSide = "heads"
	CoinSideTails CoinSide = "tails"
)

// ParseCoinSide validates a free-form coin side
func ParseCoinSide(s string) (CoinSide, error) {
	switch CoinSide(strings.ToLower(strings.TrimSpace(s))) {
	case CoinSideHeads, "h":
		return CoinSideHeads, nil
	case CoinSideTails, "t":
		return CoinSideTails, nil
	default:
		return "", fmt.Errorf("unknown coin side %q", s)
	}
}

// Opposite returns the other side of the coin
func (c CoinSide) Opposite() CoinSide {
	if c == CoinSideHeads {
		return CoinSideTails
	}
	return CoinSideHeads
}

// String returns the string representation of the side
func (c CoinSide) String() string {
	return string(c)
}

// DiceSides is the number of faces on the die
const DiceSides = 6

// DiceSide is a face of the die, 1 through 6
type DiceSide int

// ParseDiceSide validates a free-form die face
func ParseDiceSide(s string) (DiceSide, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid dice side %q", s)
	}
	side := DiceSide(n)
	if !side.IsValid() {
		return 0, fmt.Errorf("dice side must be between 1 and %d, got %d", DiceSides, n)
	}
	return side, nil
}

// IsValid reports whether the face exists on the die
func (d DiceSide) IsValid() bool {
	return d >= 1 && d <= DiceSides
}

// Direction is one of the eight wheel sectors, in clockwise order starting north
type Direction int

const (
	DirectionNorth Direction = iota
	DirectionNorthEast
	DirectionEast
	DirectionSouthEast
	DirectionSouth
	DirectionSouthWest
	DirectionWest
	DirectionNorthWest
)

// WheelSectors is the number of sectors on the wheel
const WheelSectors = 8

// Directions lists the sectors in the order configured multipliers are matched
var Directions = [WheelSectors]Direction{
	DirectionNorth,
	DirectionNorthEast,
	DirectionEast,
	DirectionSouthEast,
	DirectionSouth,
	DirectionSouthWest,
	DirectionWest,
	DirectionNorthWest,
}

var directionSymbols = [WheelSectors]string{"⬆️", "↗️", "➡️", "↘️", "⬇️", "↙️", "⬅️", "↖️"}

var directionNames = [WheelSectors]string{"north", "north-east", "east", "south-east", "south", "south-west", "west", "north-west"}

// Symbol returns the arrow drawn for the sector
func (d Direction) Symbol() string {
	if d < 0 || int(d) >= WheelSectors {
		return "?"
	}
	return directionSymbols[d]
}

// String returns the sector name
func (d Direction) String() string {
	if d < 0 || int(d) >= WheelSectors {
		return fmt.Sprintf("direction(%d)", int(d))
	}
	return directionNames[d]
}
