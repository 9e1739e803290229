package main

import "fmt"

// Item kinds sold in the shop
const (
	ItemCharacter = "character"
	ItemWeapon    = "weapon"
)

// StoreItem is a permanent unlock bought with shards
type StoreItem struct {
	ID      string `json:"id" msgpack:"id"`
	Name    string `json:"name" msgpack:"name"`
	Type    string `json:"type" msgpack:"type"`   // "character" or "weapon"
	Price   int    `json:"price" msgpack:"price"` // in permanent shards
	Color   string `json:"color" msgpack:"color"`
	Preview string `json:"preview" msgpack:"preview"`
}

// Catalog is the shop listing
type Catalog []StoreItem

// StoreCatalog is the full list of purchasable unlocks. Weapon IDs are the
// names stored in the progress record.
var StoreCatalog = Catalog{
	// Characters
	{ID: "kira", Name: "Kira", Type: ItemCharacter, Price: 0, Color: "#00ffff", Preview: "Balanced runner"},
	{ID: "vex", Name: "Vex", Type: ItemCharacter, Price: 150, Color: "#ff00ff", Preview: "Glass cannon hacker"},
	{ID: "orin", Name: "Orin", Type: ItemCharacter, Price: 300, Color: "#ffaa00", Preview: "Heavy frame, slow fall"},
	{ID: "null", Name: "Null", Type: ItemCharacter, Price: 600, Color: "#aaaaaa", Preview: "Corrupted process"},

	// Weapons
	{ID: "Lâmina Binária", Name: "Lâmina Binária", Type: ItemWeapon, Price: 0, Color: "#00aaff", Preview: "Neon circuit blade"},
	{ID: "Dual-Chaves de Depuração", Name: "Dual-Chaves de Depuração", Type: ItemWeapon, Price: 80, Color: "#66ff66", Preview: "Twin debug pistols"},
	{ID: "Canhão de Dados", Name: "Canhão de Dados", Type: ItemWeapon, Price: 120, Color: "#ffcc00", Preview: "Data cylinder cannon"},
	{ID: "Lança Fragmento", Name: "Lança Fragmento", Type: ItemWeapon, Price: 120, Color: "#ff66aa", Preview: "Fragmenting lance"},
	{ID: "Martelo de Commit", Name: "Martelo de Commit", Type: ItemWeapon, Price: 160, Color: "#ff8833", Preview: "Commit hammer"},
	{ID: "Projétil Glitch-Pulse", Name: "Projétil Glitch-Pulse", Type: ItemWeapon, Price: 160, Color: "#aa44ff", Preview: "Pulsing glitch shot"},
	{ID: "Arco de Código Espiral", Name: "Arco de Código Espiral", Type: ItemWeapon, Price: 200, Color: "#44ddff", Preview: "Spiral code bow"},
	{ID: "Geração de Sub-Rotina", Name: "Geração de Sub-Rotina", Type: ItemWeapon, Price: 220, Color: "#88ff00", Preview: "Spawns subroutines"},
	{ID: "Faca de Thread Estilhaçada", Name: "Faca de Thread Estilhaçada", Type: ItemWeapon, Price: 240, Color: "#ffffff", Preview: "Shattered thread knife"},
	{ID: "Lança-Gravidade de Overflow", Name: "Lança-Gravidade de Overflow", Type: ItemWeapon, Price: 300, Color: "#4444ff", Preview: "Overflow gravity lance"},
	{ID: "Espingarda de Backup", Name: "Espingarda de Backup", Type: ItemWeapon, Price: 300, Color: "#cc0000", Preview: "Backup shotgun"},
	{ID: "Canhão de Subprocessos", Name: "Canhão de Subprocessos", Type: ItemWeapon, Price: 400, Color: "#ff4400", Preview: "Subprocess cannon"},
	{ID: "Chicote de Código Mutante", Name: "Chicote de Código Mutante", Type: ItemWeapon, Price: 450, Color: "#00ff88", Preview: "Mutating code whip"},
	{ID: "Lança-Explosão de Glitch", Name: "Lança-Explosão de Glitch", Type: ItemWeapon, Price: 600, Color: "#ff44ff", Preview: "Glitch blast lance"},
}

// StoreCatalogMap provides O(1) lookup by item ID
var StoreCatalogMap map[string]StoreItem

func init() {
	StoreCatalogMap = make(map[string]StoreItem, len(StoreCatalog))
	for _, item := range StoreCatalog {
		StoreCatalogMap[item.ID] = item
	}
}

// Owned reports whether the record already holds the item
func (it StoreItem) Owned(rec ProgressRecord) bool {
	if it.Type == ItemCharacter {
		return rec.HasCharacter(it.ID)
	}
	return rec.HasWeapon(it.ID)
}

// Purchase buys a catalog item for the progress record, deducting its price
// and unlocking it in a single save. Returns the updated record.
func Purchase(p *Progress, itemID string) (ProgressRecord, error) {
	item, ok := StoreCatalogMap[itemID]
	if !ok {
		return ProgressRecord{}, fmt.Errorf("unknown item %q", itemID)
	}
	rec := p.Load()
	if item.Owned(rec) {
		return rec, fmt.Errorf("already owned")
	}
	if rec.PermanentCurrency < item.Price {
		return rec, fmt.Errorf("not enough shards")
	}
	rec.PermanentCurrency -= item.Price
	if item.Type == ItemCharacter {
		rec.UnlockedCharacters = append(rec.UnlockedCharacters, item.ID)
	} else {
		rec.UnlockedWeapons = append(rec.UnlockedWeapons, item.ID)
	}
	p.Save(rec)
	return rec, nil
}
