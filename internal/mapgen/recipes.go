package mapgen

import "math/rand"

// Recipe assembles a builder chain for one kind of level.
type Recipe func(depth, width, height int, opts ...Option) *BuilderChain

// LevelBuilder picks the recipe for depth. Depths past the last themed
// level get a recipe chosen by rng.
func LevelBuilder(depth, width, height int, rng *rand.Rand, opts ...Option) *BuilderChain {
	switch depth {
	case 1:
		return TownLevel(depth, width, height, opts...)
	case 2:
		return ForestLevel(depth, width, height, opts...)
	case 3:
		return LimestoneCavernLevel(depth, width, height, opts...)
	case 4:
		return DeepCavernLevel(depth, width, height, opts...)
	case 5:
		return CavernTransitionLevel(depth, width, height, opts...)
	case 6:
		return DwarfFortLevel(depth, width, height, opts...)
	case 7:
		return MushroomGroveLevel(depth, width, height, opts...)
	case 8:
		return LabyrinthLevel(depth, width, height, opts...)
	case 9:
		return MinesLevel(depth, width, height, opts...)
	case 10:
		return CryptLevel(depth, width, height, opts...)
	default:
		return RandomLevel(depth, width, height, rng, opts...)
	}
}

func TownLevel(depth, width, height int, opts ...Option) *BuilderChain {
	return NewBuilderChain(depth, width, height, "The Town of Bracketon", opts...).
		StartWith(NewTown()).
		With(NewCullUnreachable())
}

func ForestLevel(depth, width, height int, opts ...Option) *BuilderChain {
	return NewBuilderChain(depth, width, height, "Into the Woods", opts...).
		StartWith(NewCellularAutomata()).
		With(NewAreaStartingPosition(XCenter, YCenter).WithMinRegion(64)).
		With(NewCullUnreachable()).
		With(NewAreaStartingPosition(XLeft, YCenter)).
		With(NewDistantExit()).
		With(NewVoronoiSpawning()).
		With(NewYellowBrickRoad())
}

func LimestoneCavernLevel(depth, width, height int, opts ...Option) *BuilderChain {
	return caveChain(depth, width, height, "Limestone Caverns", NewWindingPassages(), opts...)
}

func DeepCavernLevel(depth, width, height int, opts ...Option) *BuilderChain {
	return caveChain(depth, width, height, "Deep Caverns", NewInsectoid(), opts...)
}

func caveChain(depth, width, height int, name string, starter InitialBuilder, opts ...Option) *BuilderChain {
	return NewBuilderChain(depth, width, height, name, opts...).
		StartWith(starter).
		With(NewAreaStartingPosition(XCenter, YCenter).WithMinRegion(64)).
		With(NewCullUnreachable()).
		With(NewDistantExit()).
		With(NewCaveDecorator()).
		With(NewVoronoiSpawning())
}

func CavernTransitionLevel(depth, width, height int, opts ...Option) *BuilderChain {
	return areaChain(depth, width, height, "Cavern Transition", NewVoronoiPythagoras(), opts...)
}

// areaChain is the generic recipe for builders that produce open areas
// rather than rooms.
func areaChain(depth, width, height int, name string, starter InitialBuilder, opts ...Option) *BuilderChain {
	return NewBuilderChain(depth, width, height, name, opts...).
		StartWith(starter).
		With(NewAreaStartingPosition(XCenter, YCenter).WithMinRegion(64)).
		With(NewCullUnreachable()).
		With(NewDistantExit()).
		With(NewVoronoiSpawning())
}

func DwarfFortLevel(depth, width, height int, opts ...Option) *BuilderChain {
	return NewBuilderChain(depth, width, height, "Dwarven Fortress", opts...).
		StartWith(NewBspDungeon()).
		With(NewRoomSorter(Leftmost)).
		With(NewRoomBasedStartingPosition()).
		With(NewCullUnreachable()).
		With(NewRoomBasedStairs()).
		With(NewDoorPlacement()).
		With(NewRoomBasedSpawner()).
		With(NewCorridorSpawner())
}

func MushroomGroveLevel(depth, width, height int, opts ...Option) *BuilderChain {
	return NewBuilderChain(depth, width, height, "Mushroom Grove", opts...).
		StartWith(NewCellularAutomata()).
		With(NewAreaStartingPosition(XCenter, YCenter).WithMinRegion(64)).
		With(NewCullUnreachable()).
		With(NewWaveformCollapse()).
		With(NewAreaStartingPosition(XCenter, YCenter).WithMinRegion(64)).
		With(NewCullUnreachable()).
		With(NewDistantExit()).
		With(NewVoronoiSpawning())
}

func LabyrinthLevel(depth, width, height int, opts ...Option) *BuilderChain {
	return NewBuilderChain(depth, width, height, "Labyrinth", opts...).
		StartWith(NewMaze()).
		With(NewAreaStartingPosition(XLeft, YTop)).
		With(NewCullUnreachable()).
		With(NewDistantExit()).
		With(NewVoronoiSpawning())
}

func MinesLevel(depth, width, height int, opts ...Option) *BuilderChain {
	return NewBuilderChain(depth, width, height, "The Mines", opts...).
		StartWith(NewSimpleMap()).
		With(NewRoomCornerRounding()).
		With(NewRoomBasedStartingPosition()).
		With(NewCullUnreachable()).
		With(NewRoomBasedStairs()).
		With(NewDoorPlacement()).
		With(NewRoomBasedSpawner()).
		With(NewCorridorSpawner())
}

func CryptLevel(depth, width, height int, opts ...Option) *BuilderChain {
	return NewBuilderChain(depth, width, height, "The Crypt", opts...).
		StartWith(NewPrefabWaveformCollapse("crypt")).
		With(NewAreaStartingPosition(XCenter, YCenter).WithMinRegion(64)).
		With(NewCullUnreachable()).
		With(NewDistantExit()).
		With(NewDoorPlacement()).
		With(NewVoronoiSpawning())
}

// roomChain connects and furnishes a rooms-only starter.
func roomChain(depth, width, height int, name string, starter InitialBuilder, corridors MetaBuilder, opts ...Option) *BuilderChain {
	c := NewBuilderChain(depth, width, height, name, opts...).
		StartWith(starter).
		With(NewRoomSorter(Leftmost))
	if corridors != nil {
		c.With(corridors)
	}
	return c.
		With(NewRoomCornerRounding()).
		With(NewRoomBasedStartingPosition()).
		With(NewCullUnreachable()).
		With(NewRoomBasedStairs()).
		With(NewDoorPlacement()).
		With(NewRoomBasedSpawner()).
		With(NewCorridorSpawner())
}

// RandomLevel picks one of the generic recipes with rng.
func RandomLevel(depth, width, height int, rng *rand.Rand, opts ...Option) *BuilderChain {
	const name = "The Depths"
	recipes := []func() *BuilderChain{
		func() *BuilderChain {
			return roomChain(depth, width, height, name, NewRoomsOnly(), NewDoglegCorridors(), opts...)
		},
		func() *BuilderChain {
			return roomChain(depth, width, height, name, NewRoomsOnly(), NewNearestCorridors(), opts...)
		},
		func() *BuilderChain {
			return roomChain(depth, width, height, name, NewBspInterior(), nil, opts...)
		},
		func() *BuilderChain { return areaChain(depth, width, height, name, NewCellularAutomata(), opts...) },
		func() *BuilderChain { return areaChain(depth, width, height, name, NewVoronoiManhattan(), opts...) },
		func() *BuilderChain { return areaChain(depth, width, height, name, NewVoronoiChebyshev(), opts...) },
		func() *BuilderChain { return caveChain(depth, width, height, name, NewOpenArea(), opts...) },
		func() *BuilderChain { return caveChain(depth, width, height, name, NewOpenHalls(), opts...) },
		func() *BuilderChain { return caveChain(depth, width, height, name, NewFatPassages(), opts...) },
		func() *BuilderChain { return caveChain(depth, width, height, name, NewFearfulSymmetry(), opts...) },
		func() *BuilderChain { return caveChain(depth, width, height, name, NewWalkInwards(), opts...) },
		func() *BuilderChain { return caveChain(depth, width, height, name, NewWalkOutwards(), opts...) },
		func() *BuilderChain { return caveChain(depth, width, height, name, NewCentralAttractor(), opts...) },
		func() *BuilderChain { return areaChain(depth, width, height, name, NewMaze(), opts...) },
		func() *BuilderChain { return caveChain(depth, width, height, name, NewRuleCave(), opts...) },
		func() *BuilderChain { return caveChain(depth, width, height, name, NewTunnelCave(), opts...) },
		func() *BuilderChain {
			return areaChain(depth, width, height, name, NewPrefabWaveformCollapse("catacomb"), opts...)
		},
	}
	return recipes[rng.Intn(len(recipes))]()
}
