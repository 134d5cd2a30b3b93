package service

import (
	"context"
	"sync"
	"time"
	"vtobot/internal/core/domain"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Wardrobe interface {
	SetPerson(chatID int64, data []byte)
	SetGarment(chatID int64, data []byte)
	Get(chatID int64) domain.Fitting
	Clear(chatID int64)
}

// FittingRoom keeps the pending person and garment uploads per chat until a
// try-on runs or the entry goes stale.
type FittingRoom struct {
	fittings map[int64]*fitting
	ttl      time.Duration
	mutex    sync.Mutex
}

type fitting struct {
	person  []byte
	garment []byte
	updated time.Time
}

const sweepInterval = time.Minute

func NewFittingRoom(ctx context.Context) *FittingRoom {
	ttl := viper.GetDuration("session.ttl")
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	f := &FittingRoom{
		fittings: make(map[int64]*fitting),
		ttl:      ttl,
	}

	go f.sweepStaleFittings(ctx)

	return f
}

func (f *FittingRoom) SetPerson(chatID int64, data []byte) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	entry := f.getOrCreate(chatID)
	entry.person = data
	entry.updated = time.Now()
}

func (f *FittingRoom) SetGarment(chatID int64, data []byte) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	entry := f.getOrCreate(chatID)
	entry.garment = data
	entry.updated = time.Now()
}

func (f *FittingRoom) Get(chatID int64) domain.Fitting {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	entry, ok := f.fittings[chatID]
	if !ok {
		return domain.Fitting{}
	}

	return domain.Fitting{Person: entry.person, Garment: entry.garment}
}

func (f *FittingRoom) Clear(chatID int64) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	delete(f.fittings, chatID)
}

// getOrCreate assumes the caller holds the mutex.
func (f *FittingRoom) getOrCreate(chatID int64) *fitting {
	entry, ok := f.fittings[chatID]
	if !ok {
		entry = &fitting{}
		f.fittings[chatID] = entry
	}

	return entry
}

func (f *FittingRoom) sweepStaleFittings(ctx context.Context) {
	t := time.NewTicker(sweepInterval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			f.removeStaleFittings()
		case <-ctx.Done():
			log.Debug().Msg("stopping fitting room sweep")
			return
		}
	}
}

func (f *FittingRoom) removeStaleFittings() {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	for chatID, entry := range f.fittings {
		if time.Since(entry.updated) > f.ttl {
			log.Debug().Int64("chatID", chatID).Msg("clearing stale fitting")
			delete(f.fittings, chatID)
		}
	}
}
