package main

import (
	"errors"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/mock/gomock"
)

func TestProgressLoadSeedsDefaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockProgressStore(ctrl)
	store.EXPECT().LoadRaw(ProgressKey).Return(nil, ErrNoProgress)
	store.EXPECT().SaveRaw(ProgressKey, gomock.Any()).Return(nil)

	rec := NewProgress(store, ProgressKey).Load()

	if !rec.HasCharacter(DefaultCharacter) || !rec.HasWeapon(DefaultWeapon) {
		t.Errorf("expected default unlocks, got %+v", rec)
	}
	if rec.PermanentCurrency != 0 || rec.BestScore != 0 {
		t.Errorf("expected zero currency and score, got %+v", rec)
	}
}

func TestProgressLoadStoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockProgressStore(ctrl)
	store.EXPECT().LoadRaw(ProgressKey).Return(nil, errors.New("disk on fire"))

	rec := NewProgress(store, ProgressKey).Load()
	if !rec.HasCharacter(DefaultCharacter) {
		t.Error("a failing store should read as defaults")
	}
}

func TestProgressLoadCorruptData(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockProgressStore(ctrl)
	store.EXPECT().LoadRaw(ProgressKey).Return([]byte{0xc1, 0x00, 0xff}, nil)

	rec := NewProgress(store, ProgressKey).Load()
	if !rec.HasCharacter(DefaultCharacter) || rec.PermanentUpgrades == nil {
		t.Errorf("corrupt data should read as defaults, got %+v", rec)
	}
}

func TestProgressLoadMergesMissingFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockProgressStore(ctrl)
	partial, err := msgpack.Marshal(map[string]interface{}{"bestScore": 900})
	if err != nil {
		t.Fatal(err)
	}
	store.EXPECT().LoadRaw(ProgressKey).Return(partial, nil)

	rec := NewProgress(store, ProgressKey).Load()
	if rec.BestScore != 900 {
		t.Errorf("expected best score 900, got %d", rec.BestScore)
	}
	if !rec.HasCharacter(DefaultCharacter) {
		t.Error("missing fields should keep their defaults")
	}
	if rec.PermanentUpgrades == nil {
		t.Error("upgrades map should never be nil")
	}
}

func TestProgressSaveErrorIsSwallowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockProgressStore(ctrl)
	store.EXPECT().SaveRaw(ProgressKey, gomock.Any()).Return(errors.New("read-only"))
	NewProgress(store, ProgressKey).Save(DefaultProgress())
}

func TestProgressNilStore(t *testing.T) {
	p := NewProgress(nil, ProgressKey)
	p.AddPermanentCurrency(100)
	if got := p.Load().PermanentCurrency; got != 0 {
		t.Errorf("nil store keeps defaults, got currency %d", got)
	}
}

func TestProgressUnlockIdempotent(t *testing.T) {
	p := NewProgress(newMemStore(), ProgressKey)
	p.UnlockCharacter("vex")
	p.UnlockCharacter("vex")
	p.UnlockWeapon("Canhão de Dados")

	rec := p.Load()
	count := 0
	for _, c := range rec.UnlockedCharacters {
		if c == "vex" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected vex once, got %d times", count)
	}
	if !rec.HasWeapon("Canhão de Dados") {
		t.Error("expected weapon unlocked")
	}
}

func TestProgressBestScoreOnlyRises(t *testing.T) {
	p := NewProgress(newMemStore(), ProgressKey)
	p.UpdateBestScore(500)
	p.UpdateBestScore(200)
	if got := p.Load().BestScore; got != 500 {
		t.Errorf("expected best 500, got %d", got)
	}
}

func TestProgressSpend(t *testing.T) {
	p := NewProgress(newMemStore(), ProgressKey)
	p.AddPermanentCurrency(100)
	if err := p.Spend(150); err == nil {
		t.Error("expected error spending more than held")
	}
	if err := p.Spend(-1); err == nil {
		t.Error("expected error for negative amount")
	}
	if err := p.Spend(60); err != nil {
		t.Fatalf("spend: %v", err)
	}
	if got := p.Load().PermanentCurrency; got != 40 {
		t.Errorf("expected 40 left, got %d", got)
	}
}

func TestProfileKeysAreSeparate(t *testing.T) {
	store := newMemStore()
	NewProgress(store, ProfileKey("")).AddPermanentCurrency(10)
	NewProgress(store, ProfileKey("alice")).AddPermanentCurrency(99)

	if ProfileKey("") != ProgressKey {
		t.Errorf("empty profile should use %q, got %q", ProgressKey, ProfileKey(""))
	}
	if got := NewProgress(store, ProfileKey("")).Load().PermanentCurrency; got != 10 {
		t.Errorf("default profile currency = %d, want 10", got)
	}
	if got := NewProgress(store, ProfileKey("alice")).Load().PermanentCurrency; got != 99 {
		t.Errorf("alice currency = %d, want 99", got)
	}
}
