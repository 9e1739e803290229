package main

//go:generate mockgen -source=screens.go -destination=mock_screens_test.go -package=main

// Screens is the menu/UI collaborator. The websocket client implements it
// by sending screen messages; tests use mocks.
type Screens interface {
	ShowStart()
	ShowCharacterSelect(unlocked []string)
	ShowShop(catalog Catalog, record ProgressRecord)
	ShowUpgrade(options []Upgrade)
	ShowGameOver(score, best, currency int)
	HideAll()
}

// HUDState is what the heads-up display shows each in-game frame
type HUDState struct {
	Score     int     `json:"score" msgpack:"sc"`
	Shards    int     `json:"shards" msgpack:"sh"`
	Health    int     `json:"health" msgpack:"hp"`
	DashRatio float64 `json:"dash" msgpack:"dr"`
}

// HUD receives one update per in-game frame
type HUD interface {
	UpdateHUD(s HUDState)
}

// nopScreens is used when no client is attached
type nopScreens struct{}

func (nopScreens) ShowStart() {}
func (nopScreens) ShowCharacterSelect([]string) {}
func (nopScreens) ShowShop(Catalog, ProgressRecord) {}
func (nopScreens) ShowUpgrade([]Upgrade) {}
func (nopScreens) ShowGameOver(score, best, cur int) {}
func (nopScreens) HideAll() {}
func (nopScreens) UpdateHUD(HUDState) {}
