package content

// Default element ids, matching the canonical built-in bundle's
// key->id assignment. Id 0 is always empty.
const (
	IDEmpty uint8 = iota
	IDStone
	IDSand
	IDWood
	IDMetal
	IDIce
	IDWater
	IDOil
	IDLava
	IDAcid
	IDSteam
	IDSmoke
	IDFire
	IDSpark
	IDElectricity
	IDGunpowder
	IDClone
	IDVoid
	IDDirt
	IDSeed
	IDPlant
)

func edge(temp float32, to uint8) *PhaseEdge { return &PhaseEdge{Temp: temp, ToID: to} }

func ptr(v uint8) *uint8 { return &v }

// Default returns the engine's built-in element + reaction bundle. It is
// used when no bundle is explicitly loaded, so the engine runs without
// requiring an authored JSON file first.
func Default() *Bundle {
	elements := []Element{
		{ID: IDEmpty, Key: "base:empty", Category: CategorySolid, Color: BackgroundColour, Hidden: true},
		{ID: IDStone, Key: "base:stone", Category: CategorySolid, Color: 0xFF8C8C8C,
			DefaultTemp: 20, HeatConductivity: 20, Bounce: 0.1, Friction: 0.9,
			Flags: Flags{Rigid: true},
			PhaseChange: &PhaseChange{High: edge(900, IDLava)}},
		{ID: IDSand, Key: "base:sand", Category: CategoryPowder, Color: 0xFF5FC9E0, Density: 1600,
			DefaultTemp: 20, HeatConductivity: 10, Bounce: 0.05, Friction: 0.8},
		{ID: IDWood, Key: "base:wood", Category: CategorySolid, Color: 0xFF2D5A8C, Density: 700,
			DefaultTemp: 20, HeatConductivity: 5, Bounce: 0.0, Friction: 0.95,
			Flags: Flags{Flammable: true}},
		{ID: IDMetal, Key: "base:metal", Category: CategorySolid, Color: 0xFFB0B0B0, Density: 7800,
			DefaultTemp: 20, HeatConductivity: 90, Bounce: 0.2, Friction: 0.7,
			Flags: Flags{Conductive: true}},
		{ID: IDIce, Key: "base:ice", Category: CategorySolid, Color: 0xFFF0E0A0, Density: 920,
			DefaultTemp: -5, HeatConductivity: 40, Bounce: 0.0, Friction: 0.3,
			Flags: Flags{Cold: true},
			PhaseChange: &PhaseChange{High: edge(0, IDWater)}},
		{ID: IDWater, Key: "base:water", Category: CategoryLiquid, Color: 0xFFE0A050, Density: 1000,
			Dispersion: 5, DefaultTemp: 20, HeatConductivity: 60, Bounce: 0.0, Friction: 0.0,
			PhaseChange: &PhaseChange{High: edge(100, IDSteam), Low: edge(0, IDIce)}},
		{ID: IDOil, Key: "base:oil", Category: CategoryLiquid, Color: 0xFF204060, Density: 850,
			Dispersion: 5, DefaultTemp: 20, HeatConductivity: 15, Bounce: 0.0, Friction: 0.0,
			Flags: Flags{Flammable: true}},
		{ID: IDLava, Key: "base:lava", Category: CategoryLiquid, Color: 0xFF0050FF, Density: 3100,
			Dispersion: 2, DefaultTemp: 1200, HeatConductivity: 70, Bounce: 0.0, Friction: 0.0,
			Flags: Flags{Hot: true},
			PhaseChange: &PhaseChange{Low: edge(700, IDStone)}},
		{ID: IDAcid, Key: "base:acid", Category: CategoryLiquid, Color: 0xFF20E020, Density: 1100,
			Dispersion: 4, DefaultTemp: 20, HeatConductivity: 30, Bounce: 0.0, Friction: 0.0,
			Flags: Flags{Corrosive: true}},
		{ID: IDSteam, Key: "base:steam", Category: CategoryGas, Color: 0xFFE0E0E0, Density: 0.5,
			Dispersion: 5, Lifetime: 600, DefaultTemp: 110, HeatConductivity: 20, Bounce: 0, Friction: 0,
			PhaseChange: &PhaseChange{Low: edge(90, IDWater)}},
		{ID: IDSmoke, Key: "base:smoke", Category: CategoryGas, Color: 0xFF404040, Density: 0.3,
			Dispersion: 5, Lifetime: 300, DefaultTemp: 80, HeatConductivity: 10, Bounce: 0, Friction: 0},
		{ID: IDFire, Key: "base:fire", Category: CategoryEnergy, Color: 0xFF0060FF, Density: 0.1,
			Lifetime: 20, DefaultTemp: 600, HeatConductivity: 50, Bounce: 0, Friction: 0,
			BehaviorKind: BehaviorFire, Flags: Flags{Hot: true}},
		{ID: IDSpark, Key: "base:spark", Category: CategoryEnergy, Color: 0xFF00FFFF, Density: 0.1,
			Lifetime: 4, DefaultTemp: 400, HeatConductivity: 80, Bounce: 0, Friction: 0,
			BehaviorKind: BehaviorSpark, Flags: Flags{Hot: true}},
		{ID: IDElectricity, Key: "base:electricity", Category: CategoryEnergy, Color: 0xFFFFFF40, Density: 0.1,
			Lifetime: 3, DefaultTemp: 40, HeatConductivity: 100, Bounce: 0, Friction: 0,
			BehaviorKind: BehaviorElectricity, Flags: Flags{Conductive: true}},
		{ID: IDGunpowder, Key: "base:gunpowder", Category: CategoryPowder, Color: 0xFF303030, Density: 1000,
			DefaultTemp: 20, HeatConductivity: 10, Bounce: 0.1, Friction: 0.85,
			Flags: Flags{Flammable: true}},
		{ID: IDClone, Key: "base:clone", Category: CategoryUtility, Color: 0xFFFF00FF, Density: 9999,
			DefaultTemp: 20, HeatConductivity: 0, Bounce: 0, Friction: 1,
			BehaviorKind: BehaviorClone, Flags: Flags{IgnoresGravity: true}},
		{ID: IDVoid, Key: "base:void", Category: CategoryUtility, Color: 0xFF000000, Density: 9999,
			DefaultTemp: 20, HeatConductivity: 0, Bounce: 0, Friction: 1,
			BehaviorKind: BehaviorVoid, Flags: Flags{IgnoresGravity: true}},
		{ID: IDDirt, Key: "base:dirt", Category: CategorySolid, Color: 0xFF205080, Density: 1400,
			DefaultTemp: 20, HeatConductivity: 8, Bounce: 0.0, Friction: 0.9},
		{ID: IDSeed, Key: "base:seed", Category: CategoryBio, Color: 0xFF105020, Density: 1100,
			DefaultTemp: 20, HeatConductivity: 5, Bounce: 0.0, Friction: 0.8,
			BehaviorKind: BehaviorSeed},
		{ID: IDPlant, Key: "base:plant", Category: CategoryBio, Color: 0xFF208020, Density: 600,
			DefaultTemp: 20, HeatConductivity: 5, Bounce: 0, Friction: 1,
			Lifetime: 0, BehaviorKind: BehaviorPlant, Flags: Flags{IgnoresGravity: true}},
	}

	keyToID := make(map[string]uint8, len(elements))
	for _, el := range elements {
		keyToID[el.Key] = el.ID
	}

	// Reaction chances below are copied from the original engine's
	// 0-100 percentages and divided by 100 into the bundle's [0,1]
	// convention.
	reactions := []Reaction{
		{AggressorID: IDFire, VictimID: IDWood, ResultVictimID: IDFire, ResultAggressorID: ptr(IDSmoke), SpawnID: ptr(IDSmoke), Chance: 0.10},
		{AggressorID: IDFire, VictimID: IDOil, ResultVictimID: IDFire, ResultAggressorID: ptr(IDSmoke), SpawnID: ptr(IDSmoke), Chance: 0.20},
		{AggressorID: IDFire, VictimID: IDWater, ResultVictimID: IDSteam, ResultAggressorID: ptr(IDEmpty), Chance: 0.50},
		{AggressorID: IDFire, VictimID: IDIce, ResultVictimID: IDWater, ResultAggressorID: ptr(IDEmpty), SpawnID: ptr(IDSteam), Chance: 0.30},
		{AggressorID: IDFire, VictimID: IDGunpowder, ResultVictimID: IDFire, ResultAggressorID: ptr(IDFire), SpawnID: ptr(IDSmoke), Chance: 1.00},
		{AggressorID: IDFire, VictimID: IDPlant, ResultVictimID: IDFire, ResultAggressorID: ptr(IDSmoke), SpawnID: ptr(IDSmoke), Chance: 0.10},
		{AggressorID: IDFire, VictimID: IDSeed, ResultVictimID: IDFire, ResultAggressorID: ptr(IDSmoke), Chance: 0.20},

		{AggressorID: IDLava, VictimID: IDWater, ResultVictimID: IDSteam, ResultAggressorID: ptr(IDStone), SpawnID: ptr(IDSteam), Chance: 0.15},
		{AggressorID: IDLava, VictimID: IDWood, ResultVictimID: IDFire, SpawnID: ptr(IDSmoke), Chance: 0.30},
		{AggressorID: IDLava, VictimID: IDOil, ResultVictimID: IDFire, SpawnID: ptr(IDSmoke), Chance: 0.40},
		{AggressorID: IDLava, VictimID: IDIce, ResultVictimID: IDSteam, ResultAggressorID: ptr(IDStone), Chance: 0.30},
		{AggressorID: IDLava, VictimID: IDGunpowder, ResultVictimID: IDFire, SpawnID: ptr(IDSmoke), Chance: 1.00},
		{AggressorID: IDLava, VictimID: IDPlant, ResultVictimID: IDFire, SpawnID: ptr(IDSmoke), Chance: 0.50},
		{AggressorID: IDLava, VictimID: IDDirt, ResultVictimID: IDStone, Chance: 0.05},

		{AggressorID: IDAcid, VictimID: IDStone, ResultVictimID: IDEmpty, ResultAggressorID: ptr(IDEmpty), SpawnID: ptr(IDSmoke), Chance: 0.10},
		{AggressorID: IDAcid, VictimID: IDMetal, ResultVictimID: IDEmpty, ResultAggressorID: ptr(IDEmpty), Chance: 0.05},
		{AggressorID: IDAcid, VictimID: IDWood, ResultVictimID: IDEmpty, ResultAggressorID: ptr(IDEmpty), Chance: 0.20},
		{AggressorID: IDAcid, VictimID: IDIce, ResultVictimID: IDWater, ResultAggressorID: ptr(IDEmpty), Chance: 0.20},
		{AggressorID: IDAcid, VictimID: IDPlant, ResultVictimID: IDEmpty, ResultAggressorID: ptr(IDEmpty), Chance: 0.15},
		{AggressorID: IDAcid, VictimID: IDDirt, ResultVictimID: IDEmpty, ResultAggressorID: ptr(IDEmpty), Chance: 0.05},

		{AggressorID: IDWater, VictimID: IDLava, ResultVictimID: IDStone, ResultAggressorID: ptr(IDSteam), SpawnID: ptr(IDSteam), Chance: 0.15},
		{AggressorID: IDWater, VictimID: IDFire, ResultVictimID: IDEmpty, ResultAggressorID: ptr(IDSteam), Chance: 0.30},
	}

	return &Bundle{Elements: elements, ElementKeyToID: keyToID, Reactions: reactions}
}
