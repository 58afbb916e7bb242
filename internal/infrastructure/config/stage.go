package config

// StageConfig is the root config for stage files. Coordinates are pixels with a top-left origin.
type StageConfig struct {
	ID          string                       `json:"id"`
	Name        string                       `json:"name"`
	Size        StageSizeConfig              `json:"size"`
	PlayerSpawn PositionConfig               `json:"playerSpawn"` // feet, bottom-center
	Layers      LayersConfig                 `json:"layers"`
	TileMapping map[string]TileMappingConfig `json:"tileMapping"`
	Targets     []TargetSpawnConfig          `json:"targets"`
}

type StageSizeConfig struct {
	Width    int `json:"width"`
	Height   int `json:"height"`
	TileSize int `json:"tileSize"`
}

type PositionConfig struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type LayersConfig struct {
	Collision []string `json:"collision"`
}

type TileMappingConfig struct {
	Type  string `json:"type"`
	Solid bool   `json:"solid"`
}

// TargetSpawnConfig places a target by its bottom-center point.
type TargetSpawnConfig struct {
	Kind string `json:"kind"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}
