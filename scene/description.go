// Package scene loads engagement descriptions and builds them into a running match
package scene

import (
	"bytes"
	_ "embed"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/broadside/physics"
)

// Ship kinds
const (
	KindPlayer = "player"
	KindEnemy  = "enemy"
)

var (
	ErrNoShips        = errors.New("scene has no ships")
	ErrDuplicateShip  = errors.New("duplicate ship name")
	ErrUnknownKind    = errors.New("unknown ship kind")
	ErrUnknownTarget  = errors.New("unknown target")
	ErrDegenerateHull = errors.New("degenerate hull size")
	ErrTooManyPlayers = errors.New("more than one player ship")
	ErrInvalidValue   = errors.New("invalid value")
	ErrInvalidName    = errors.New("invalid ship name")
)

// poolSeparator joins a ship name to its pooled cannonball names
const poolSeparator = "/"

//go:embed default.yaml
var defaultScene []byte

// Description is the on-disk form of a scene
type Description struct {
	Name       string         `yaml:"name"`
	World      WorldSpec      `yaml:"world"`
	Cannonball CannonballSpec `yaml:"cannonball"`
	Ships      []ShipSpec     `yaml:"ships"`
}

// WorldSpec holds physics settings, zero values select the package defaults
type WorldSpec struct {
	Floor       float64 `yaml:"floor"`
	VelocityCap float64 `yaml:"velocity_cap"`
}

// CannonballSpec is shared by every pooled ball in the scene
// Gravity left unset selects physics.DefaultGravity, an explicit 0 gives weightless balls
type CannonballSpec struct {
	Radius       float64  `yaml:"radius"`
	Gravity      *float64 `yaml:"gravity"`
	Speed        float64  `yaml:"speed"`
	Lift         float64  `yaml:"lift"`
	MuzzleHeight float64  `yaml:"muzzle_height"`
	Damage       int      `yaml:"damage"`
}

// GravityOrDefault resolves the configured ball gravity
func (c CannonballSpec) GravityOrDefault() float64 {
	if c.Gravity == nil {
		return physics.DefaultGravity
	}
	return *c.Gravity
}

// PatrolSpec drives the x-axis patrol of a ship
type PatrolSpec struct {
	Speed    float64       `yaml:"speed"`
	Interval time.Duration `yaml:"interval"`
	Reversed bool          `yaml:"reversed"`
}

// ShipSpec describes one ship
type ShipSpec struct {
	Name     string       `yaml:"name"`
	Kind     string       `yaml:"kind"`
	Position mgl64.Vec3   `yaml:"position"`
	Size     mgl64.Vec3   `yaml:"size"`
	Vertices []mgl64.Vec3 `yaml:"vertices"`
	Health   int          `yaml:"health"`
	Patrol   PatrolSpec   `yaml:"patrol"`
	Ammo     int          `yaml:"ammo"`

	// Enemy only
	Target       string        `yaml:"target"`
	FireInterval time.Duration `yaml:"fire_interval"`

	// Player only
	MoveSpeed float64 `yaml:"move_speed"`
}

// Load decodes and validates a description
func Load(r io.Reader) (*Description, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var desc Description
	if err := dec.Decode(&desc); err != nil {
		return nil, errors.Wrap(err, "decode scene")
	}
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	return &desc, nil
}

// LoadFile reads a description from path
func LoadFile(path string) (*Description, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open scene")
	}
	defer f.Close()

	desc, err := Load(f)
	if err != nil {
		return nil, errors.Wrapf(err, "scene %s", path)
	}
	return desc, nil
}

// Default returns the built-in skirmish
func Default() *Description {
	desc, err := Load(bytes.NewReader(defaultScene))
	if err != nil {
		panic("embedded scene: " + err.Error())
	}
	return desc
}

// Validate checks names, kinds, targets and hull sizes
func (d *Description) Validate() error {
	if len(d.Ships) == 0 {
		return ErrNoShips
	}
	if d.Cannonball.Radius < 0 || d.Cannonball.Damage < 0 || d.Cannonball.Speed < 0 {
		return errors.Wrap(ErrInvalidValue, "cannonball")
	}
	if d.World.VelocityCap < 0 {
		return errors.Wrap(ErrInvalidValue, "velocity_cap")
	}

	names := make(map[string]bool, len(d.Ships))
	players := 0
	for i, s := range d.Ships {
		if s.Name == "" {
			return errors.Wrapf(ErrInvalidValue, "ship %d has no name", i)
		}
		if strings.Contains(s.Name, poolSeparator) {
			return errors.Wrapf(ErrInvalidName, "%q contains %q", s.Name, poolSeparator)
		}
		if names[s.Name] {
			return errors.Wrap(ErrDuplicateShip, s.Name)
		}
		names[s.Name] = true

		switch s.Kind {
		case KindPlayer:
			players++
		case KindEnemy:
		default:
			return errors.Wrapf(ErrUnknownKind, "%s: %q", s.Name, s.Kind)
		}

		if len(s.Vertices) == 0 && (s.Size[0] <= 0 || s.Size[1] <= 0 || s.Size[2] <= 0) {
			return errors.Wrapf(ErrDegenerateHull, "%s: %v", s.Name, s.Size)
		}
		if s.Health < 0 || s.Ammo < 0 || s.Patrol.Speed < 0 || s.Patrol.Interval < 0 || s.FireInterval < 0 {
			return errors.Wrap(ErrInvalidValue, s.Name)
		}
	}
	if players > 1 {
		return ErrTooManyPlayers
	}

	for _, s := range d.Ships {
		if s.Target == "" {
			continue
		}
		if !names[s.Target] || s.Target == s.Name {
			return errors.Wrapf(ErrUnknownTarget, "%s: %q", s.Name, s.Target)
		}
	}
	return nil
}
