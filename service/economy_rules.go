package service

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

// CooldownKind names a cooldown-gated economy action
type CooldownKind string

const (
	CooldownDaily CooldownKind = "daily"
	CooldownWork  CooldownKind = "work"
	CooldownCrime CooldownKind = "crime"
	CooldownRob   CooldownKind = "rob"
)

// Economy timing
const (
	DailyCooldown = 24 * time.Hour
	StreakWindow  = 48 * time.Hour
	WorkCooldown  = time.Hour
	CrimeCooldown = 2 * time.Hour
	RobCooldown   = 4 * time.Hour
)

// Economy amounts
const (
	DailyBaseReward    int64 = 100
	DailyStreakStep    int64 = 10
	DailyMaxBonus      int64 = 500
	CrimeFineMin       int64 = 100
	CrimeFineMax       int64 = 300
	RobSuccessRate           = 0.35
	RobMinVictimWallet int64 = 100
	RobMaxStealPercent       = 50
	RobFinePercent     int64 = 10
)

// Sentinel errors returned by the economy service
var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrSelfTarget        = errors.New("you cannot target yourself")
	ErrVictimTooPoor     = errors.New("target doesn't have enough money to rob")
)

// CooldownError is returned when an action is attempted before its cooldown expires
type CooldownError struct {
	Kind      CooldownKind
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("%s is on cooldown for another %s", e.Kind, e.Remaining)
}

// Job is one entry of the /work table
type Job struct {
	Name   string
	MinPay int64
	MaxPay int64
}

// Jobs available to /work
var Jobs = []Job{
	{"Developer", 150, 300},
	{"Teacher", 100, 200},
	{"Chef", 120, 250},
	{"Artist", 80, 180},
	{"Writer", 90, 220},
	{"Musician", 110, 240},
	{"Doctor", 200, 400},
	{"Engineer", 180, 350},
}

// Crime is one entry of the /crime table
type Crime struct {
	Name        string
	MinReward   int64
	MaxReward   int64
	SuccessRate float64
}

// Crimes available to /crime
var Crimes = []Crime{
	{"Shoplifting", 200, 500, 0.7},
	{"Pickpocketing", 150, 400, 0.6},
	{"Bank Robbery", 500, 1000, 0.3},
	{"Hacking", 300, 800, 0.5},
	{"Art Theft", 400, 900, 0.4},
}

// Random is the source of randomness for the economy and games
type Random interface {
	IntN(n int) int
	Float64() float64
}

type defaultRandom struct{}

func (defaultRandom) IntN(n int) int   { return rand.IntN(n) }
func (defaultRandom) Float64() float64 { return rand.Float64() }

// DefaultRandom is backed by the global math/rand/v2 source
var DefaultRandom Random = defaultRandom{}

// RandomBetween returns a uniform value in [min, max]
func RandomBetween(r Random, min, max int64) int64 {
	if max <= min {
		return min
	}
	return min + int64(r.IntN(int(max-min+1)))
}

// CooldownFor returns the cooldown duration of an action
func CooldownFor(kind CooldownKind) time.Duration {
	switch kind {
	case CooldownDaily:
		return DailyCooldown
	case CooldownWork:
		return WorkCooldown
	case CooldownCrime:
		return CrimeCooldown
	case CooldownRob:
		return RobCooldown
	default:
		return 0
	}
}

// CooldownRemaining returns how long until an action used at last may be used again.
// A nil last means the action was never used.
func CooldownRemaining(last *time.Time, cooldown time.Duration, now time.Time) time.Duration {
	if last == nil {
		return 0
	}
	remaining := last.Add(cooldown).Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// NextStreak returns the daily streak after a claim at now. The streak
// continues when the previous claim is at most 48 hours old.
func NextStreak(lastDaily *time.Time, streak int, now time.Time) int {
	if lastDaily == nil || now.Sub(*lastDaily) > StreakWindow {
		return 1
	}
	return streak + 1
}

// DailyReward returns the payout for a claim at the given streak
func DailyReward(streak int) int64 {
	return DailyBaseReward + StreakBonus(streak)
}

// StreakBonus returns the capped streak part of a daily reward
func StreakBonus(streak int) int64 {
	return min(int64(streak)*DailyStreakStep, DailyMaxBonus)
}
