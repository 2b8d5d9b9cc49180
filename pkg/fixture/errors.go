package fixture

import "errors"

// Sentinel errors for common error conditions
var (
	// Construction errors
	ErrInvalidTables = errors.New("invalid lookup tables")
	ErrNilRand       = errors.New("random source is required")
	ErrUnknownPreset = errors.New("unknown preset")

	// Record invariant violations
	ErrWinnerIndex    = errors.New("winner index out of range")
	ErrPlayerCount    = errors.New("player count out of range")
	ErrSeatPositions  = errors.New("seat positions are not 1..n")
	ErrColorIdentity  = errors.New("color identity does not match mana cost")
	ErrFastMana       = errors.New("fast mana flag disagrees with cards")
	ErrWinConditions  = errors.New("invalid win conditions")
	ErrKeyCards       = errors.New("invalid key wincon cards")
	ErrWinTurn        = errors.New("win turn out of range")
	ErrEmptyCommander = errors.New("commander name is empty")
)
