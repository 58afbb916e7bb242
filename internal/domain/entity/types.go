package entity

// EntityID is a unique identifier for an entity
type EntityID uint32

// TileType represents the type of a tile
type TileType int

const (
	TileEmpty TileType = iota
	TileGround
	TilePlatform
)

// Tile represents a single tile in the stage
type Tile struct {
	Type  TileType
	Solid bool
}

// TargetSpawn places an attackable target by its bottom-center, in stage pixels (top-left origin).
type TargetSpawn struct {
	Kind string
	X, Y int
}

// Rect is a pixel rectangle with a top-left origin.
type Rect struct {
	X, Y, W, H int
}

// Stage represents the current stage's tile data
type Stage struct {
	Name     string
	Width    int // in tiles
	Height   int // in tiles
	TileSize int // in pixels
	Tiles    [][]Tile
	SpawnX   int
	SpawnY   int
	Targets  []TargetSpawn
}

// GetTile returns the tile at the given tile coordinates
func (s *Stage) GetTile(tx, ty int) Tile {
	if tx < 0 || tx >= s.Width || ty < 0 || ty >= s.Height {
		return Tile{Type: TileEmpty}
	}
	return s.Tiles[ty][tx]
}

// GetTileAtPixel returns the tile at the given pixel coordinates
func (s *Stage) GetTileAtPixel(px, py int) Tile {
	if px < 0 || py < 0 {
		return Tile{Type: TileEmpty}
	}
	return s.GetTile(px/s.TileSize, py/s.TileSize)
}

// IsSolidAt checks if the tile at pixel coordinates is solid
func (s *Stage) IsSolidAt(px, py int) bool {
	return s.GetTileAtPixel(px, py).Solid
}

// PixelSize returns the stage size in pixels.
func (s *Stage) PixelSize() (w, h int) {
	return s.Width * s.TileSize, s.Height * s.TileSize
}

// SolidRuns merges each row's consecutive solid tiles into one rectangle.
// Fewer, wider colliders keep the character from snagging on tile seams.
func (s *Stage) SolidRuns() []Rect {
	var runs []Rect
	for ty := 0; ty < s.Height; ty++ {
		start := -1
		for tx := 0; tx <= s.Width; tx++ {
			solid := tx < s.Width && s.GetTile(tx, ty).Solid
			if solid && start < 0 {
				start = tx
			}
			if !solid && start >= 0 {
				runs = append(runs, Rect{
					X: start * s.TileSize,
					Y: ty * s.TileSize,
					W: (tx - start) * s.TileSize,
					H: s.TileSize,
				})
				start = -1
			}
		}
	}
	return runs
}
