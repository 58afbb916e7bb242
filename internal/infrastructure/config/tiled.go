package config

import (
	"fmt"
	"strings"

	"github.com/lafriks/go-tiled"
)

// Tiled map layout: one tile layer of solid ground plus spawn and target object groups.
const (
	tiledGroundLayer  = "ground"
	tiledSpawnGroup   = "spawn"
	tiledTargetsGroup = "targets"
	tiledKindProperty = "kind"
	defaultTargetKind = "dummy"

	solidChar = "#"
	emptyChar = "."
)

// loadTiledStage reads a TMX map and flattens it into the same StageConfig the JSON stages use.
func (l *Loader) loadTiledStage(name, tmxPath string) (*StageConfig, error) {
	m, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(l.fsys))
	if err != nil {
		return nil, fmt.Errorf("failed to load stage %s: %w", name, err)
	}
	if m.TileWidth != m.TileHeight {
		return nil, fmt.Errorf("stage %s: tiles must be square, got %dx%d", name, m.TileWidth, m.TileHeight)
	}

	cfg := &StageConfig{
		ID:   name,
		Name: name,
		Size: StageSizeConfig{
			Width:    m.Width * m.TileWidth,
			Height:   m.Height * m.TileHeight,
			TileSize: m.TileWidth,
		},
		TileMapping: map[string]TileMappingConfig{
			solidChar: {Type: "ground", Solid: true},
		},
	}

	ground := groundLayer(m)
	if ground == nil {
		return nil, fmt.Errorf("stage %s: missing %q tile layer", name, tiledGroundLayer)
	}
	for y := 0; y < m.Height; y++ {
		var row strings.Builder
		for x := 0; x < m.Width; x++ {
			tile := ground.Tiles[y*m.Width+x]
			if tile == nil || tile.IsNil() {
				row.WriteString(emptyChar)
			} else {
				row.WriteString(solidChar)
			}
		}
		cfg.Layers.Collision = append(cfg.Layers.Collision, row.String())
	}

	for _, og := range m.ObjectGroups {
		switch og.Name {
		case tiledSpawnGroup:
			if len(og.Objects) > 0 {
				o := og.Objects[0]
				cfg.PlayerSpawn = PositionConfig{X: int(o.X + o.Width/2), Y: int(o.Y + o.Height)}
			}
		case tiledTargetsGroup:
			for _, o := range og.Objects {
				kind := o.Properties.GetString(tiledKindProperty)
				if kind == "" {
					kind = defaultTargetKind
				}
				cfg.Targets = append(cfg.Targets, TargetSpawnConfig{
					Kind: kind,
					X:    int(o.X + o.Width/2),
					Y:    int(o.Y + o.Height),
				})
			}
		}
	}

	return cfg, nil
}

func groundLayer(m *tiled.Map) *tiled.Layer {
	for _, layer := range m.Layers {
		if layer.Name == tiledGroundLayer {
			return layer
		}
	}
	return nil
}
