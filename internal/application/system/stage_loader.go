package system

import (
	"github.com/younwookim/adventurer/internal/domain/character"
	"github.com/younwookim/adventurer/internal/domain/entity"
	"github.com/younwookim/adventurer/internal/infrastructure/config"
	"github.com/younwookim/adventurer/internal/infrastructure/physics"
)

// LoadStage converts a StageConfig into a Stage entity
func LoadStage(cfg *config.StageConfig) *entity.Stage {
	tileWidth := cfg.Size.Width / cfg.Size.TileSize
	tileHeight := len(cfg.Layers.Collision)

	tiles := make([][]entity.Tile, tileHeight)
	for y, row := range cfg.Layers.Collision {
		tiles[y] = make([]entity.Tile, tileWidth)
		for x, char := range row {
			if x >= tileWidth {
				break
			}
			mapping, ok := cfg.TileMapping[string(char)]
			if !ok {
				tiles[y][x] = entity.Tile{Type: entity.TileEmpty, Solid: false}
				continue
			}

			var tileType entity.TileType
			switch mapping.Type {
			case "ground":
				tileType = entity.TileGround
			case "platform":
				tileType = entity.TilePlatform
			default:
				tileType = entity.TileEmpty
			}

			tiles[y][x] = entity.Tile{
				Type:  tileType,
				Solid: mapping.Solid,
			}
		}
	}

	targets := make([]entity.TargetSpawn, 0, len(cfg.Targets))
	for _, t := range cfg.Targets {
		targets = append(targets, entity.TargetSpawn{Kind: t.Kind, X: t.X, Y: t.Y})
	}

	return &entity.Stage{
		Name:     cfg.ID,
		Width:    tileWidth,
		Height:   tileHeight,
		TileSize: cfg.Size.TileSize,
		Tiles:    tiles,
		SpawnX:   cfg.PlayerSpawn.X,
		SpawnY:   cfg.PlayerSpawn.Y,
		Targets:  targets,
	}
}

// StageGeometry converts stage pixels (top-left origin, y-down) to world units (y-up).
type StageGeometry struct {
	PixelsPerUnit float64
	HeightPx      int
}

// NewStageGeometry returns the geometry for a stage
func NewStageGeometry(stage *entity.Stage, pixelsPerUnit float64) StageGeometry {
	if pixelsPerUnit <= 0 {
		pixelsPerUnit = physics.DefaultPixelsPerUnit
	}
	_, h := stage.PixelSize()
	return StageGeometry{PixelsPerUnit: pixelsPerUnit, HeightPx: h}
}

// Point converts a pixel position to world units
func (g StageGeometry) Point(px, py int) character.Vec {
	return character.Vec{
		X: float64(px) / g.PixelsPerUnit,
		Y: float64(g.HeightPx-py) / g.PixelsPerUnit,
	}
}

// Box converts a pixel rectangle to a world box
func (g StageGeometry) Box(r entity.Rect) character.Box {
	bottomLeft := g.Point(r.X, r.Y+r.H)
	return character.BoxFromMin(bottomLeft.X, bottomLeft.Y,
		float64(r.W)/g.PixelsPerUnit, float64(r.H)/g.PixelsPerUnit)
}

// ScreenPoint converts a world position back to stage pixels
func (g StageGeometry) ScreenPoint(v character.Vec) (float64, float64) {
	return v.X * g.PixelsPerUnit, float64(g.HeightPx) - v.Y*g.PixelsPerUnit
}

// ScreenRect converts a world box to a pixel rectangle (top-left, size)
func (g StageGeometry) ScreenRect(b character.Box) (x, y, w, h float64) {
	lo, hi := b.Min(), b.Max()
	x, y = g.ScreenPoint(character.Vec{X: lo.X, Y: hi.Y})
	return x, y, b.Size.X * g.PixelsPerUnit, b.Size.Y * g.PixelsPerUnit
}

// WorldConfig returns physics bounds covering the stage
func (g StageGeometry) WorldConfig(stage *entity.Stage, gravity float64) physics.Config {
	w, h := stage.PixelSize()
	return physics.Config{
		Gravity:       gravity,
		Width:         float64(w) / g.PixelsPerUnit,
		Height:        float64(h) / g.PixelsPerUnit,
		PixelsPerUnit: g.PixelsPerUnit,
	}
}

// BuildGround adds every solid run of the stage to the world
func BuildGround(world physics.World, stage *entity.Stage, g StageGeometry) int {
	runs := stage.SolidRuns()
	for _, r := range runs {
		world.AddGround(g.Box(r))
	}
	return len(runs)
}
