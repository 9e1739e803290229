package main

import (
	"errors"
	"fmt"
	"log"
	"slices"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	ProgressKey       = "glitchfall_player_data"
	DefaultCharacter  = "kira"
	DefaultWeapon     = "Lâmina Binária"
	progressKeyPrefix = ProgressKey + ":"
)

// ProgressRecord is the permanent, cross-run player record
type ProgressRecord struct {
	UnlockedCharacters []string       `msgpack:"unlockedCharacters" json:"unlockedCharacters"`
	UnlockedWeapons    []string       `msgpack:"unlockedWeapons" json:"unlockedWeapons"`
	PermanentCurrency  int            `msgpack:"permanentCurrency" json:"permanentCurrency"`
	BestScore          int            `msgpack:"bestScore" json:"bestScore"`
	PermanentUpgrades  map[string]int `msgpack:"permanentUpgrades" json:"permanentUpgrades"`
	Achievements       []string       `msgpack:"achievements" json:"achievements"`
}

// DefaultProgress returns a fresh record for a new player
func DefaultProgress() ProgressRecord {
	return ProgressRecord{
		UnlockedCharacters: []string{DefaultCharacter},
		UnlockedWeapons:    []string{DefaultWeapon},
		PermanentUpgrades:  map[string]int{},
	}
}

// HasCharacter reports whether the character is unlocked
func (r ProgressRecord) HasCharacter(name string) bool {
	return slices.Contains(r.UnlockedCharacters, name)
}

// HasWeapon reports whether the weapon is unlocked
func (r ProgressRecord) HasWeapon(name string) bool {
	return slices.Contains(r.UnlockedWeapons, name)
}

// ProfileKey returns the storage key for a named profile. An empty name
// selects the default key.
func ProfileKey(name string) string {
	if name == "" {
		return ProgressKey
	}
	return progressKeyPrefix + name
}

//go:generate mockgen -source=progress.go -destination=mock_progress_test.go -package=main

// ProgressStore is the raw key/value storage behind Progress
type ProgressStore interface {
	LoadRaw(key string) ([]byte, error)
	SaveRaw(key string, data []byte) error
}

// Progress reads and updates one progress record. Storage failures are
// logged and never propagated: a broken store behaves like an empty one.
type Progress struct {
	store ProgressStore
	key   string
}

// NewProgress creates a Progress bound to key. A nil store keeps
// everything in defaults.
func NewProgress(store ProgressStore, key string) *Progress {
	return &Progress{store: store, key: key}
}

// Key returns the storage key
func (p *Progress) Key() string {
	return p.key
}

// Load returns the stored record merged over the defaults. When nothing is
// stored yet the defaults are saved and returned.
func (p *Progress) Load() ProgressRecord {
	rec := DefaultProgress()
	if p == nil || p.store == nil {
		return rec
	}
	data, err := p.store.LoadRaw(p.key)
	if errors.Is(err, ErrNoProgress) {
		p.Save(rec)
		return rec
	}
	if err != nil {
		log.Printf("progress load %s: %v", p.key, err)
		return DefaultProgress()
	}
	// Fields missing from the stored blob keep their default values
	if err := msgpack.Unmarshal(data, &rec); err != nil {
		log.Printf("progress decode %s: %v", p.key, err)
		return DefaultProgress()
	}
	if rec.PermanentUpgrades == nil {
		rec.PermanentUpgrades = map[string]int{}
	}
	return rec
}

// Save writes the record
func (p *Progress) Save(rec ProgressRecord) {
	if p == nil || p.store == nil {
		return
	}
	data, err := msgpack.Marshal(&rec)
	if err != nil {
		log.Printf("progress encode %s: %v", p.key, err)
		return
	}
	if err := p.store.SaveRaw(p.key, data); err != nil {
		log.Printf("progress save %s: %v", p.key, err)
	}
}

// UnlockCharacter adds a character to the unlocked list (idempotent)
func (p *Progress) UnlockCharacter(name string) {
	rec := p.Load()
	if rec.HasCharacter(name) {
		return
	}
	rec.UnlockedCharacters = append(rec.UnlockedCharacters, name)
	p.Save(rec)
	log.Printf("character %s unlocked (%s)", name, p.key)
}

// UnlockWeapon adds a weapon to the unlocked list (idempotent)
func (p *Progress) UnlockWeapon(name string) {
	rec := p.Load()
	if rec.HasWeapon(name) {
		return
	}
	rec.UnlockedWeapons = append(rec.UnlockedWeapons, name)
	p.Save(rec)
	log.Printf("weapon %s unlocked (%s)", name, p.key)
}

// UpdateBestScore raises the best score; lower scores are ignored
func (p *Progress) UpdateBestScore(score int) {
	rec := p.Load()
	if score > rec.BestScore {
		rec.BestScore = score
		p.Save(rec)
	}
}

// AddPermanentCurrency adds amount to the permanent currency
func (p *Progress) AddPermanentCurrency(amount int) {
	rec := p.Load()
	rec.PermanentCurrency += amount
	p.Save(rec)
}

// Spend deducts amount from the permanent currency
func (p *Progress) Spend(amount int) error {
	rec := p.Load()
	if amount < 0 {
		return fmt.Errorf("invalid amount %d", amount)
	}
	if rec.PermanentCurrency < amount {
		return fmt.Errorf("not enough shards (have %d, need %d)", rec.PermanentCurrency, amount)
	}
	rec.PermanentCurrency -= amount
	p.Save(rec)
	return nil
}
