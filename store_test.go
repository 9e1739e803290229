package main

import "testing"

func TestPurchase(t *testing.T) {
	p := NewProgress(newMemStore(), ProgressKey)

	if _, err := Purchase(p, "nope"); err == nil {
		t.Error("expected error for unknown item")
	}
	if _, err := Purchase(p, "vex"); err == nil {
		t.Error("expected error without enough shards")
	}

	p.AddPermanentCurrency(200)
	rec, err := Purchase(p, "vex")
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if rec.PermanentCurrency != 50 {
		t.Errorf("expected 50 shards left, got %d", rec.PermanentCurrency)
	}
	if !p.Load().HasCharacter("vex") {
		t.Error("purchase should be persisted")
	}

	if _, err := Purchase(p, "vex"); err == nil {
		t.Error("expected error buying an owned item")
	}
	if _, err := Purchase(p, DefaultWeapon); err == nil {
		t.Error("the default weapon is already owned")
	}
}

func TestPurchaseWeapon(t *testing.T) {
	p := NewProgress(newMemStore(), ProgressKey)
	p.AddPermanentCurrency(120)
	rec, err := Purchase(p, "Canhão de Dados")
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if !rec.HasWeapon("Canhão de Dados") || rec.HasCharacter("Canhão de Dados") {
		t.Errorf("weapon should land in the weapon list, got %+v", rec)
	}
	if rec.PermanentCurrency != 0 {
		t.Errorf("expected 0 left, got %d", rec.PermanentCurrency)
	}
}

func TestCatalogIDsUnique(t *testing.T) {
	if len(StoreCatalogMap) != len(StoreCatalog) {
		t.Errorf("catalog has duplicate IDs: %d items, %d unique", len(StoreCatalog), len(StoreCatalogMap))
	}
	for _, it := range StoreCatalog {
		if it.Type != ItemCharacter && it.Type != ItemWeapon {
			t.Errorf("item %q has bad type %q", it.ID, it.Type)
		}
		if it.Price < 0 {
			t.Errorf("item %q has negative price", it.ID)
		}
	}
	if StoreCatalogMap[DefaultCharacter].Price != 0 || StoreCatalogMap[DefaultWeapon].Price != 0 {
		t.Error("default unlocks should be free")
	}
}
