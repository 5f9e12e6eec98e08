package store

import (
	"context"
	"errors"
	"fmt"

	log "github.com/go-pkgz/lgr"
)

// SlotStore is the part of the store a Slot needs.
type SlotStore interface {
	Get(ctx context.Context, profile, key string) (string, error)
	Set(ctx context.Context, profile, key, value string) error
}

// Slot binds a store to one profile and gives it the plain key-value shape of
// browser storage. Read failures count as "nothing saved".
// Slot keeps the request context since the key-value shape has no room for one.
type Slot struct {
	ctx     context.Context
	store   SlotStore
	profile string
}

// NewSlot makes a slot for the profile.
func NewSlot(ctx context.Context, st SlotStore, profile string) *Slot {
	return &Slot{ctx: ctx, store: st, profile: profile}
}

// Get returns the saved value, false if nothing is saved or the store can't be read.
func (s *Slot) Get(key string) (string, bool) {
	v, err := s.store.Get(s.ctx, s.profile, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("[WARN] failed to read %s of profile %s: %v", key, s.profile, err)
		}
		return "", false
	}
	return v, true
}

// Set saves the value for the profile.
func (s *Slot) Set(key, value string) error {
	if err := s.store.Set(s.ctx, s.profile, key, value); err != nil {
		return fmt.Errorf("slot set: %w", err)
	}
	return nil
}
