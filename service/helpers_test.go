package service

import (
	"context"
	"time"
)

const testGuildID int64 = 987654321

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// scriptedRandom returns queued values in order and panics when a test
// consumes more randomness than it scripted
type scriptedRandom struct {
	ints   []int
	floats []float64
}

func (r *scriptedRandom) IntN(n int) int {
	if len(r.ints) == 0 {
		panic("scriptedRandom: no ints left")
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	if v >= n {
		panic("scriptedRandom: int out of range")
	}
	return v
}

func (r *scriptedRandom) Float64() float64 {
	if len(r.floats) == 0 {
		panic("scriptedRandom: no floats left")
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

// setupUoW returns a factory that hands out one unit of work for testGuildID,
// already expecting Begin and the deferred Rollback
func setupUoW(ctx context.Context) (*MockUnitOfWorkFactory, *MockUnitOfWork) {
	uow := NewMockUnitOfWork()
	factory := new(MockUnitOfWorkFactory)
	factory.On("CreateForGuild", testGuildID).Return(uow)
	uow.On("Begin", ctx).Return(nil)
	uow.On("Rollback").Return(nil)
	return factory, uow
}

func timePtr(t time.Time) *time.Time {
	return &t
}
