package scene

import (
	"fmt"
	"log"

	"github.com/pkg/errors"

	"github.com/lixenwraith/broadside/core"
	"github.com/lixenwraith/broadside/fleet"
	"github.com/lixenwraith/broadside/game"
	"github.com/lixenwraith/broadside/physics"
	"github.com/lixenwraith/broadside/status"
	"github.com/lixenwraith/broadside/vmath"
)

// Match is a built scene ready to be started by the engine
type Match struct {
	Name    string
	World   *physics.World
	Scene   *game.Scene
	Context *game.Context
	Roster  *fleet.Roster

	// Player is nil in scenes without a player ship
	Player *fleet.PlayerShip
	Ships  []fleet.Vessel
	// Ammo maps ship name to its cannonball pool
	Ammo  map[string]*game.Pool[*fleet.Cannonball]
	Pools []game.Reclaimer
}

// Build validates desc and creates every ship and pooled cannonball in world
// The returned Context has no input or event queue attached yet
func Build(desc *Description, world *physics.World, reg *status.Registry) (*Match, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	if reg != nil {
		world.AttachStatus(reg)
	}
	if limit := desc.World.VelocityCap; limit > 0 {
		world.SetVelocityCap(vmath.Splat(limit))
	}

	names := make([]string, len(desc.Ships))
	for i, s := range desc.Ships {
		names[i] = s.Name
	}
	roster, err := fleet.NewRoster(names...)
	if err != nil {
		return nil, errors.Wrap(err, "build roster")
	}

	m := &Match{
		Name:   desc.Name,
		World:  world,
		Scene:  game.NewScene(),
		Roster: roster,
		Ammo:   make(map[string]*game.Pool[*fleet.Cannonball], len(desc.Ships)),
	}
	m.Context = &game.Context{Physics: world}
	m.Scene.Bind(m.Context)

	cannon := fleet.CannonConfig{
		Speed:        desc.Cannonball.Speed,
		Lift:         desc.Cannonball.Lift,
		MuzzleHeight: desc.Cannonball.MuzzleHeight,
	}
	if cannon.Speed == 0 {
		cannon.Speed = fleet.DefaultCannonSpeed
	}

	for _, s := range desc.Ships {
		vessel, err := m.spawnShip(s, cannon)
		if err != nil {
			return nil, err
		}
		m.Ships = append(m.Ships, vessel)
	}

	ball := fleet.CannonballConfig{
		Radius:  desc.Cannonball.Radius,
		Gravity: desc.Cannonball.GravityOrDefault(),
		Damage:  desc.Cannonball.Damage,
		Floor:   desc.World.Floor,
	}
	for i, s := range desc.Ships {
		pool, err := m.fillPool(s.Name, s.Ammo, ball)
		if err != nil {
			return nil, err
		}
		m.Ammo[s.Name] = pool
		m.Pools = append(m.Pools, pool)

		switch ship := m.Ships[i].(type) {
		case *fleet.PlayerShip:
			ship.Arm(pool)
		case *fleet.EnemyShip:
			ship.Arm(pool)
		}
	}

	log.Printf("[scene] built %q: %d ships, %d objects, %d bodies", m.Name, len(m.Ships), m.Scene.Len(), world.Len())
	return m, nil
}

func (m *Match) spawnShip(s ShipSpec, cannon fleet.CannonConfig) (fleet.Vessel, error) {
	hull := fleet.HullConfig{
		Name:           s.Name,
		Position:       s.Position,
		Vertices:       s.Vertices,
		Size:           s.Size,
		Health:         s.Health,
		PatrolSpeed:    s.Patrol.Speed,
		PatrolInterval: s.Patrol.Interval,
		PatrolReversed: s.Patrol.Reversed,
	}

	obj, err := m.Scene.Spawn(s.Name, func(h core.Handle) (game.GameObject, error) {
		if s.Kind == KindPlayer {
			return fleet.NewPlayerShip(m.World, h, m.Scene.Dispatcher(), m.Roster, fleet.PlayerConfig{
				HullConfig: hull,
				MoveSpeed:  s.MoveSpeed,
				Cannon:     cannon,
			})
		}
		interval := s.FireInterval
		if interval == 0 && s.Target != "" {
			interval = fleet.DefaultFireInterval
		}
		return fleet.NewEnemyShip(m.World, h, m.Scene.Dispatcher(), m.Roster, fleet.EnemyConfig{
			HullConfig:   hull,
			Target:       s.Target,
			Cannon:       cannon,
			FireInterval: interval,
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "spawn ship")
	}

	if p, ok := obj.(*fleet.PlayerShip); ok {
		m.Player = p
	}
	return obj.(fleet.Vessel), nil
}

func (m *Match) fillPool(owner string, n int, cfg fleet.CannonballConfig) (*game.Pool[*fleet.Cannonball], error) {
	pool := game.NewPool[*fleet.Cannonball](n)
	for i := 0; i < n; i++ {
		cfg.Name = fmt.Sprintf("%s%sball%d", owner, poolSeparator, i)
		obj, err := m.Scene.Spawn(cfg.Name, func(h core.Handle) (game.GameObject, error) {
			return fleet.NewCannonball(m.World, h, m.Scene.Dispatcher(), m.Roster, cfg)
		})
		if err != nil {
			return nil, errors.Wrap(err, "spawn cannonball")
		}
		pool.Add(m.Context, obj.(*fleet.Cannonball))
	}
	return pool, nil
}
