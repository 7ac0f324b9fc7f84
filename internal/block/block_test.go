package block

import "testing"

func TestWellKnownBiomeIDs(t *testing.T) {
	cases := []struct {
		biome Biome
		want  Biome
	}{
		{Plains, 0},
		{Forest, 1},
		{River, 2},
	}
	for _, c := range cases {
		if c.biome != c.want {
			t.Errorf("biome ID = %d, want %d", c.biome, c.want)
		}
	}
}

func TestWellKnownBlockIDs(t *testing.T) {
	if Air != 0 {
		t.Errorf("Air ID = %d, want 0", Air)
	}
	if Stone != 1 {
		t.Errorf("Stone ID = %d, want 1", Stone)
	}
	if Water != 2 {
		t.Errorf("Water ID = %d, want 2", Water)
	}
}

func TestInternBlockRoundTrip(t *testing.T) {
	b := InternBlock("minecraft:oak_planks")
	if b.Name() != "minecraft:oak_planks" {
		t.Errorf("Name() = %q, want %q", b.Name(), "minecraft:oak_planks")
	}
	again := InternBlock("minecraft:oak_planks")
	if b != again {
		t.Errorf("InternBlock not idempotent: %d != %d", b, again)
	}
}

func TestPropertiesKeyOrderIndependent(t *testing.T) {
	a := Properties{"rotation": "4", "waterlogged": "false"}
	b := Properties{"waterlogged": "false", "rotation": "4"}
	if !a.Equal(b) {
		t.Errorf("properties with same pairs in different order should be equal")
	}
}

func TestWithPropertiesKeyDistinguishesProperties(t *testing.T) {
	sign := InternBlock("minecraft:oak_sign")
	a := WithProperties{Block: sign, Properties: Properties{"rotation": "4"}}
	b := WithProperties{Block: sign, Properties: Properties{"rotation": "8"}}
	if a.Key() == b.Key() {
		t.Error("distinct properties must produce distinct palette keys")
	}
}
