// Package playing provides the main gameplay scene.
package playing

import (
	"fmt"
	"image/color"
	"log"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"github.com/younwookim/adventurer/internal/application/replay"
	"github.com/younwookim/adventurer/internal/application/scene"
	"github.com/younwookim/adventurer/internal/application/state"
	"github.com/younwookim/adventurer/internal/application/system"
	"github.com/younwookim/adventurer/internal/domain/character"
	"github.com/younwookim/adventurer/internal/domain/entity"
	"github.com/younwookim/adventurer/internal/infrastructure/config"
)

// Colors for rendering
var (
	colorBG       = color.RGBA{26, 26, 46, 255}
	colorGround   = color.RGBA{80, 80, 100, 255}
	colorPlatform = color.RGBA{110, 90, 70, 255}
	colorTarget   = color.RGBA{200, 100, 100, 255}
	colorGizmo    = color.RGBA{0, 27, 77, 77}
	colorHUD      = color.RGBA{230, 230, 230, 255}

	stateColors = map[character.State]color.RGBA{
		character.Idle:      {100, 200, 100, 255},
		character.Running:   {120, 220, 160, 255},
		character.Jumping:   {100, 160, 240, 255},
		character.Falling:   {160, 120, 240, 255},
		character.Attacking: {250, 200, 80, 255},
	}
)

const (
	entitiesFile = "entities.yaml"
	hudLine      = 14
)

// Options configures a Playing scene
type Options struct {
	Backend    string             // physics backend, empty uses the config's
	Debug      bool               // draw the attack volume
	RecordPath string             // record input to this file when set
	Input      system.InputSource // nil reads the keyboard
	Keys       system.KeyReader   // nil reads ebiten
	Reload     <-chan string      // changed config files
	Loader     *config.Loader     // re-reads tuning on reload
	OnClear    func(hits, ticks int)
}

// Playing is the main gameplay scene
type Playing struct {
	config   *config.GameConfig
	stageCfg *config.StageConfig
	opts     Options

	session  *system.Session
	input    system.InputSource
	keys     system.KeyReader
	recorder *replay.Recorder
	state    state.GameState
	debug    bool

	screenW int
	screenH int
	face    *text.GoXFace

	lastTransition string
}

// New creates a new Playing scene.
func New(cfg *config.GameConfig, stageCfg *config.StageConfig, opts Options) (*Playing, error) {
	p := &Playing{
		config:   cfg,
		stageCfg: stageCfg,
		opts:     opts,
		keys:     opts.Keys,
		debug:    opts.Debug,
		screenW:  cfg.Physics.Display.ScreenWidth,
		screenH:  cfg.Physics.Display.ScreenHeight,
		face:     text.NewGoXFace(basicfont.Face7x13),
	}
	if p.keys == nil {
		p.keys = system.DefaultKeys()
	}

	if err := p.start(); err != nil {
		return nil, err
	}
	return p, nil
}

// start builds a fresh session on the stage
func (p *Playing) start() error {
	session, err := system.NewSession(p.config, p.stageCfg, p.opts.Backend)
	if err != nil {
		return fmt.Errorf("start stage %s: %w", p.stageCfg.ID, err)
	}
	p.session = session
	p.state = state.StatePlaying
	p.lastTransition = ""

	session.Controller.OnTransition = func(from, to character.State) {
		p.lastTransition = fmt.Sprintf("%s -> %s", from, to)
		if p.debug {
			log.Printf("state %s", p.lastTransition)
		}
	}
	session.Targets.OnHide = func(t *entity.Target) {
		log.Printf("Target %d (%s) hidden, %d standing", t.ID, t.Kind, session.Targets.Standing())
	}

	p.input = p.opts.Input
	if p.input == nil {
		p.input = system.NewInputSystemWith(p.keys)
	}
	if p.opts.RecordPath != "" {
		p.recorder = replay.NewRecorder(p.stageCfg.ID, session.Backend, p.config.Physics.Physics.FixedDelta)
		p.input = p.recorder.Tap(p.input)
		log.Printf("Recording enabled: %s", p.opts.RecordPath)
	}
	return nil
}

// OnEnter implements scene.Scene
func (p *Playing) OnEnter() {
	log.Printf("Entering stage %s (%s backend, %d targets)",
		p.stageCfg.ID, p.session.Backend, len(p.session.Targets.Targets()))
}

// OnExit implements scene.Scene
func (p *Playing) OnExit() {
	p.saveRecording()
}

// Update proceeds the game state (implements scene.Scene)
func (p *Playing) Update(dt float64) (scene.Scene, error) {
	p.applyReloads()

	if p.keys.IsKeyJustPressed(ebiten.KeyF3) {
		p.debug = !p.debug
	}
	if p.keys.IsKeyJustPressed(ebiten.KeyEscape) {
		p.state = p.state.Toggle()
	}
	if p.keys.IsKeyJustPressed(ebiten.KeyF5) {
		p.saveRecording()
	}
	if p.keys.IsKeyJustPressed(ebiten.KeyR) {
		p.saveRecording()
		if err := p.start(); err != nil {
			return nil, err
		}
		return nil, nil
	}

	if p.state != state.StatePlaying {
		return nil, nil
	}

	p.session.Tick(p.input.GetInput(), dt)

	if p.session.Cleared() {
		p.state = state.StateStageClear
		ctrl := p.session.Controller
		log.Printf("Stage %s cleared: %d hits in %d ticks", p.stageCfg.ID, ctrl.Hits(), ctrl.Ticks())
		if p.opts.OnClear != nil {
			p.opts.OnClear(ctrl.Hits(), ctrl.Ticks())
		}
	}

	return nil, nil
}

// applyReloads drains changed config files and applies new tuning
func (p *Playing) applyReloads() {
	for {
		select {
		case name, ok := <-p.opts.Reload:
			if !ok {
				p.opts.Reload = nil
				return
			}
			if filepath.Base(name) != entitiesFile || p.opts.Loader == nil {
				continue
			}
			entities, err := p.opts.Loader.LoadEntities()
			if err != nil {
				log.Printf("Failed to reload %s: %v", name, err)
				continue
			}
			c := entities.Character
			p.session.Controller.SetTuning(c.Speed, c.JumpForce)
			log.Printf("Tuning reloaded: speed %.2f, jump force %.2f", c.Speed, c.JumpForce)
		default:
			return
		}
	}
}

// saveRecording saves the current recording to file
func (p *Playing) saveRecording() {
	if p.recorder == nil || p.recorder.FrameCount() == 0 {
		return
	}

	filename := p.opts.RecordPath
	if filename == "" {
		filename = replay.GenerateFilename()
	}

	if err := p.recorder.Save(filename); err != nil {
		log.Printf("Failed to save recording: %v", err)
	} else {
		log.Printf("Recording saved: %s (%d frames)", filename, p.recorder.FrameCount())
	}
}

// State returns the scene state
func (p *Playing) State() state.GameState { return p.state }

// Session returns the running session
func (p *Playing) Session() *system.Session { return p.session }

// Draw renders the game screen
func (p *Playing) Draw(screen *ebiten.Image) {
	screen.Fill(colorBG)

	camX := p.cameraX()

	p.drawTiles(screen, camX)
	p.drawTargets(screen, camX)
	p.drawCharacter(screen, camX)
	if p.debug {
		p.drawAttackGizmo(screen, camX)
	}
	p.drawHUD(screen)

	switch p.state {
	case state.StatePaused:
		p.drawOverlay(screen, color.RGBA{0, 0, 0, 128}, "PAUSED\n\nPress ESC to resume")
	case state.StateStageClear:
		p.drawOverlay(screen, color.RGBA{0, 60, 0, 150},
			fmt.Sprintf("STAGE CLEAR\n\nHits: %d\n\nPress R to restart", p.session.Controller.Hits()))
	}
}

// cameraX follows the character horizontally, clamped to the stage
func (p *Playing) cameraX() float64 {
	g := p.session.Geometry
	x, _ := g.ScreenPoint(p.session.Controller.Body().Position())
	camX := x - float64(p.screenW)/2

	w, _ := p.session.Stage.PixelSize()
	maxCamX := float64(w - p.screenW)
	if camX > maxCamX {
		camX = maxCamX
	}
	if camX < 0 {
		camX = 0
	}
	return camX
}

func (p *Playing) drawTiles(screen *ebiten.Image, camX float64) {
	stage := p.session.Stage
	size := float64(stage.TileSize)

	for ty := 0; ty < stage.Height; ty++ {
		for tx := 0; tx < stage.Width; tx++ {
			tile := stage.GetTile(tx, ty)
			if tile.Type == entity.TileEmpty {
				continue
			}

			x := float64(tx)*size - camX
			if x+size < 0 || x > float64(p.screenW) {
				continue
			}

			c := colorGround
			if tile.Type == entity.TilePlatform {
				c = colorPlatform
			}
			ebitenutil.DrawRect(screen, x, float64(ty)*size, size, size, c)
		}
	}
}

func (p *Playing) drawTargets(screen *ebiten.Image, camX float64) {
	g := p.session.Geometry
	for _, t := range p.session.Targets.Targets() {
		if t.State() == entity.TargetHidden {
			continue
		}
		x, y, w, h := g.ScreenRect(character.BoxFromMin(t.GetHitbox()))
		ebitenutil.DrawRect(screen, x-camX, y, w, h, fade(colorTarget, t.Alpha()))
	}
}

func (p *Playing) drawCharacter(screen *ebiten.Image, camX float64) {
	ctrl := p.session.Controller
	body := ctrl.Body()
	g := p.session.Geometry

	box := character.Box{Center: body.Position(), Size: body.Size()}
	x, y, w, h := g.ScreenRect(box)
	ebitenutil.DrawRect(screen, x-camX, y, w, h, stateColors[ctrl.Machine().State()])

	// Facing marker
	eyeX := x + w - 4
	if ctrl.Machine().Facing() == character.FacingLeft {
		eyeX = x + 1
	}
	ebitenutil.DrawRect(screen, eyeX-camX, y+3, 3, 3, colorBG)
}

func (p *Playing) drawAttackGizmo(screen *ebiten.Image, camX float64) {
	x, y, w, h := p.session.Geometry.ScreenRect(p.session.Controller.AttackVolume())
	ebitenutil.DrawRect(screen, x-camX, y, w, h, colorGizmo)
}

func (p *Playing) drawHUD(screen *ebiten.Image) {
	ctrl := p.session.Controller
	m := ctrl.Machine()

	lines := []string{
		fmt.Sprintf("%s  %s  facing %s", p.stageCfg.Name, m.State(), m.Facing()),
		fmt.Sprintf("targets %d/%d  hits %d", p.session.Targets.Standing(), len(p.session.Targets.Targets()), ctrl.Hits()),
		fmt.Sprintf("anim %s:%d  %s", ctrl.Animation().Current(), ctrl.Animation().Frame(), p.lastTransition),
	}
	if p.recorder != nil {
		lines = append(lines, fmt.Sprintf("REC %d", p.recorder.FrameCount()))
	}

	for i, line := range lines {
		p.drawText(screen, line, 6, float64(4+i*hudLine))
	}
	p.drawText(screen, "A/D: Move | Space: Jump | LClick/J: Attack | F3: Debug | R: Restart | ESC: Pause",
		6, float64(p.screenH-hudLine-2))
}

func (p *Playing) drawOverlay(screen *ebiten.Image, c color.Color, msg string) {
	ebitenutil.DrawRect(screen, 0, 0, float64(p.screenW), float64(p.screenH), c)
	p.drawText(screen, msg, float64(p.screenW)/2-60, float64(p.screenH)/2-30)
}

func (p *Playing) drawText(screen *ebiten.Image, s string, x, y float64) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(colorHUD)
	op.LineSpacing = hudLine
	text.Draw(screen, s, p.face, op)
}

// fade scales a color by alpha (pre-multiplied)
func fade(c color.RGBA, alpha float64) color.RGBA {
	return color.RGBA{
		uint8(float64(c.R) * alpha),
		uint8(float64(c.G) * alpha),
		uint8(float64(c.B) * alpha),
		uint8(float64(c.A) * alpha),
	}
}
