package config

// PhysicsConfig is the root config for physics.json
type PhysicsConfig struct {
	Display DisplayConfig   `json:"display"`
	Physics PhysicsSettings `json:"physics"`
}

type DisplayConfig struct {
	ScreenWidth  int `json:"screenWidth"`
	ScreenHeight int `json:"screenHeight"`
	Scale        int `json:"scale"`
	Framerate    int `json:"framerate"`
}

type PhysicsSettings struct {
	Backend       string  `json:"backend"`       // "chipmunk" or "kinematic"
	FixedDelta    float64 `json:"fixedDelta"`    // seconds per physics step
	Gravity       float64 `json:"gravity"`       // units/s², y-up
	PixelsPerUnit float64 `json:"pixelsPerUnit"` // stage pixels per world unit
}

// EntitiesConfig is the root config for entities.yaml
type EntitiesConfig struct {
	Character CharacterConfig         `yaml:"character"`
	Targets   map[string]TargetConfig `yaml:"targets"`
}

// CharacterConfig holds the character tuning and collider layout, in world units.
type CharacterConfig struct {
	Speed         float64           `yaml:"speed"`
	JumpForce     float64           `yaml:"jumpForce"`
	FallThreshold float64           `yaml:"fallThreshold"`
	Mass          float64           `yaml:"mass"`
	Collider      SizeConfig        `yaml:"collider"`
	GroundCheck   GroundCheckConfig `yaml:"groundCheck"`
	AttackArea    AreaConfig        `yaml:"attackArea"`
}

type SizeConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// GroundCheckConfig places the ground ray relative to the collider center.
type GroundCheckConfig struct {
	OffsetX float64 `yaml:"offsetX"`
	OffsetY float64 `yaml:"offsetY"`
	Length  float64 `yaml:"length"`
}

// AreaConfig is a box relative to the collider center, authored facing right.
type AreaConfig struct {
	OffsetX float64 `yaml:"offsetX"`
	OffsetY float64 `yaml:"offsetY"`
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
}

// TargetConfig describes an attackable target kind.
type TargetConfig struct {
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	DieDuration float64 `yaml:"dieDuration"`
}

// AnimationsConfig is the root config for animations.yaml
type AnimationsConfig struct {
	Clips []ClipConfig `yaml:"clips"`
}

// ClipConfig is one animation clip. Events maps a frame index to the event fired on entering it.
type ClipConfig struct {
	Name          string         `yaml:"name"`
	Trigger       string         `yaml:"trigger"`
	Frames        int            `yaml:"frames"`
	TicksPerFrame int            `yaml:"ticksPerFrame"`
	Loop          bool           `yaml:"loop"`
	Events        map[int]string `yaml:"events"`
}
