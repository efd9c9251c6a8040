package loadout

import (
	"math"
	"testing"

	"hunt-stats-lab/internal/domain"
)

func opalo() *domain.Equipment {
	return &domain.Equipment{
		Name:    "Sollomate Opalo",
		Economy: domain.EconomyProfile{Decay: 0.2016, AmmoBurn: 105.6},
	}
}

func basicLoadout() *domain.Loadout {
	return &domain.Loadout{
		ID:               "lo-1",
		Name:             "test",
		Weapon:           opalo(),
		HitProfession:    100,
		DamageProfession: 100,
	}
}

func TestWeaponCost(t *testing.T) {
	got := WeaponCost(opalo())
	want := 0.21216 // 105.6 ammo burn * 0.0001 + 0.2016 decay
	if math.Abs(got-want) > 1e-4 {
		t.Fatalf("WeaponCost = %.6f, want %.6f", got, want)
	}

	if WeaponCost(nil) != 0 {
		t.Fatal("nil equipment must cost nothing")
	}
}

func TestAttachmentCostIgnoresAmmoBurn(t *testing.T) {
	scope := &domain.Equipment{Economy: domain.EconomyProfile{Decay: 0.002, AmmoBurn: 999}}
	if got := AttachmentCost(scope); got != 0.002 {
		t.Fatalf("AttachmentCost = %.6f, want 0.002", got)
	}
}

func TestCostsDamageEnhancersDoubleAtTenSlots(t *testing.T) {
	base := Costs(basicLoadout())

	l := basicLoadout()
	l.Enhancers.Damage = 10
	enhanced := Costs(l)

	if math.Abs(enhanced.Weapon-base.Weapon*2) > 1e-9 {
		t.Fatalf("10 damage enhancers: weapon cost %.6f, want %.6f", enhanced.Weapon, base.Weapon*2)
	}
	wantSurcharge := 0.103
	if math.Abs(enhanced.EnhancerSurcharge-wantSurcharge) > 1e-9 {
		t.Fatalf("surcharge %.6f, want %.6f", enhanced.EnhancerSurcharge, wantSurcharge)
	}
	wantTotal := base.TotalPerShot*2 + wantSurcharge
	if math.Abs(enhanced.TotalPerShot-wantTotal) > 1e-9 {
		t.Fatalf("total %.6f, want %.6f", enhanced.TotalPerShot, wantTotal)
	}
}

func TestCostsLegacyEnhancersAfterMigration(t *testing.T) {
	l := basicLoadout()
	l.LegacyEnhancers = 10

	if !Migrate(l) {
		t.Fatal("migration should report a change")
	}
	if l.Enhancers.Damage != 10 || l.LegacyEnhancers != 0 {
		t.Fatalf("migration result: %+v", l.Enhancers)
	}

	b := Costs(l)
	if math.Abs(b.EnhancerSurcharge-0.103) > 1e-9 {
		t.Fatalf("surcharge after migration %.6f, want 0.103", b.EnhancerSurcharge)
	}
}

func TestCostsEconomyEnhancersCompound(t *testing.T) {
	l := basicLoadout()
	l.Enhancers.Economy = 5
	b := Costs(l)

	want := WeaponCost(opalo()) * math.Pow(0.989, 5)
	if math.Abs(b.Weapon-want) > 1e-9 {
		t.Fatalf("economy-enhanced weapon cost %.6f, want %.6f", b.Weapon, want)
	}
}

func TestCostsScopeAndSightUnscaled(t *testing.T) {
	l := basicLoadout()
	l.Enhancers.Damage = 10
	l.Scope = &domain.Equipment{Economy: domain.EconomyProfile{Decay: 0.003}}
	l.Sight = &domain.Equipment{Economy: domain.EconomyProfile{Decay: 0.001}}

	b := Costs(l)
	if b.Scope != 0.003 || b.Sight != 0.001 {
		t.Fatalf("attachments must not be enhancer-scaled: scope %.6f sight %.6f", b.Scope, b.Sight)
	}
}

func TestCostsAmmoDecaySplit(t *testing.T) {
	l := basicLoadout()
	l.Amp = &domain.Equipment{Economy: domain.EconomyProfile{Decay: 0.01, AmmoBurn: 20}}
	b := Costs(l)

	wantAmmo := 105.6*AmmoBurnToPED + 20*AmmoBurnToPED
	wantDecay := 0.2016 + 0.01
	if math.Abs(b.Ammo-wantAmmo) > 1e-9 || math.Abs(b.Decay-wantDecay) > 1e-9 {
		t.Fatalf("split ammo=%.6f decay=%.6f, want %.6f/%.6f", b.Ammo, b.Decay, wantAmmo, wantDecay)
	}
	if math.Abs(b.TotalPerShot-(b.Ammo+b.Decay)) > 1e-12 {
		t.Fatal("total must equal ammo + decay")
	}
}

func TestManualCostOverride(t *testing.T) {
	l := basicLoadout()
	override := 0.05
	l.UseManualCost = true
	l.ManualCostPerShot = &override

	if got := EffectiveCostPerShot(l); got != 0.05 {
		t.Fatalf("EffectiveCostPerShot = %.6f, want 0.05", got)
	}
	ammo, decay := ShotCost(l)
	if ammo != 0.05 || decay != 0 {
		t.Fatalf("override must be recorded as ammo: ammo=%.6f decay=%.6f", ammo, decay)
	}

	// Flag set but no value: fall back to the calculated cost.
	l.ManualCostPerShot = nil
	if got := EffectiveCostPerShot(l); math.Abs(got-Costs(l).TotalPerShot) > 1e-12 {
		t.Fatalf("missing override value must use calculated cost, got %.6f", got)
	}
}
