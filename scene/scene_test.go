package scene

import (
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/lixenwraith/broadside/fleet"
	"github.com/lixenwraith/broadside/physics"
	"github.com/lixenwraith/broadside/status"
)

func TestDefaultSceneBuilds(t *testing.T) {
	desc := Default()
	if desc.Name != "skirmish" {
		t.Errorf("Name = %q, want skirmish", desc.Name)
	}

	reg := status.NewRegistry()
	m, err := Build(desc, physics.NewWorld(), reg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if m.Player == nil || m.Player.Name() != "mainShip" {
		t.Fatalf("Player = %v, want mainShip", m.Player)
	}
	if len(m.Ships) != 4 {
		t.Errorf("ships = %d, want 4", len(m.Ships))
	}

	wantBalls := 0
	for _, s := range desc.Ships {
		wantBalls += s.Ammo
		pool, ok := m.Ammo[s.Name]
		if !ok {
			t.Errorf("no pool for %s", s.Name)
			continue
		}
		if pool.Free() != s.Ammo {
			t.Errorf("%s pool Free() = %d, want %d", s.Name, pool.Free(), s.Ammo)
		}
	}
	if got := m.Scene.Len(); got != 4+wantBalls {
		t.Errorf("scene objects = %d, want %d", got, 4+wantBalls)
	}
	if got := reg.Ints.Get("physics.bodies").Load(); got != int64(4+wantBalls) {
		t.Errorf("physics.bodies = %d, want %d", got, 4+wantBalls)
	}

	ship1, _ := m.Scene.FindByName("Ship1")
	m.Scene.Start(m.Context)
	enemy := ship1.(*fleet.EnemyShip)
	if enemy.Target() == nil || enemy.Target().Name() != "mainShip" {
		t.Errorf("Ship1 target = %v, want mainShip", enemy.Target())
	}
	if enemy.Patrol().Interval != 12*time.Second {
		t.Errorf("patrol interval = %v, want 12s", enemy.Patrol().Interval)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	src := `
ships:
  - name: a
    kind: enemy
    size: [1, 1, 1]
    hitpoints: 3
`
	if _, err := Load(strings.NewReader(src)); err == nil {
		t.Error("Load accepted an unknown field")
	}
}

func TestLoadVertices(t *testing.T) {
	src := `
ships:
  - name: raft
    kind: enemy
    position: [1, 0, 2]
    vertices: [[-1, 0, -1], [1, 1, 1]]
`
	desc, err := Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	m, err := Build(desc, physics.NewWorld(), nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	box := m.Ships[0].Drawable()
	if len(box.Vertices) != 2 {
		t.Errorf("vertices = %d, want 2", len(box.Vertices))
	}
	if m.Player != nil {
		t.Error("Player set in a scene without one")
	}
}

func TestValidate(t *testing.T) {
	enemy := func(name string) ShipSpec {
		return ShipSpec{Name: name, Kind: KindEnemy, Size: [3]float64{1, 1, 1}}
	}

	tests := []struct {
		name  string
		ships []ShipSpec
		want  error
	}{
		{"no ships", nil, ErrNoShips},
		{"duplicate", []ShipSpec{enemy("a"), enemy("a")}, ErrDuplicateShip},
		{"bad kind", []ShipSpec{{Name: "a", Kind: "submarine", Size: [3]float64{1, 1, 1}}}, ErrUnknownKind},
		{"zero size", []ShipSpec{{Name: "a", Kind: KindEnemy}}, ErrDegenerateHull},
		{"negative size", []ShipSpec{{Name: "a", Kind: KindEnemy, Size: [3]float64{1, -1, 1}}}, ErrDegenerateHull},
		{"unknown target", []ShipSpec{func() ShipSpec { s := enemy("a"); s.Target = "b"; return s }()}, ErrUnknownTarget},
		{"self target", []ShipSpec{func() ShipSpec { s := enemy("a"); s.Target = "a"; return s }()}, ErrUnknownTarget},
		{"pool separator in name", []ShipSpec{enemy("A/ball0"), func() ShipSpec { s := enemy("A"); s.Ammo = 1; return s }()}, ErrInvalidName},
		{"negative ammo", []ShipSpec{func() ShipSpec { s := enemy("a"); s.Ammo = -1; return s }()}, ErrInvalidValue},
		{"two players", []ShipSpec{
			{Name: "a", Kind: KindPlayer, Size: [3]float64{1, 1, 1}},
			{Name: "b", Kind: KindPlayer, Size: [3]float64{1, 1, 1}},
		}, ErrTooManyPlayers},
		{"valid", []ShipSpec{enemy("a"), func() ShipSpec { s := enemy("b"); s.Target = "a"; return s }()}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Description{Ships: tt.ships}
			err := d.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBuildRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		desc *Description
		want error
	}{
		{"empty", &Description{}, ErrNoShips},
		{"ball name collision", &Description{Ships: []ShipSpec{
			{Name: "A/ball0", Kind: KindEnemy, Size: [3]float64{1, 1, 1}},
			{Name: "A", Kind: KindEnemy, Size: [3]float64{1, 1, 1}, Ammo: 1},
		}}, ErrInvalidName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := physics.NewWorld()
			if _, err := Build(tt.desc, w, nil); !errors.Is(err, tt.want) {
				t.Errorf("Build err = %v, want %v", err, tt.want)
			}
			if w.Len() != 0 {
				t.Errorf("world has %d bodies after a rejected build", w.Len())
			}
		})
	}
}

func TestCannonballGravity(t *testing.T) {
	tests := []struct {
		name string
		ball string
		want float64
	}{
		{"omitted", "cannonball:\n  speed: 10\n", physics.DefaultGravity},
		{"explicit zero", "cannonball:\n  gravity: 0\n", 0},
		{"explicit", "cannonball:\n  gravity: 3.5\n", 3.5},
	}
	ships := `
ships:
  - name: A
    kind: enemy
    size: [2, 2, 2]
    ammo: 2
`
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc, err := Load(strings.NewReader(tt.ball + ships))
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			m, err := Build(desc, physics.NewWorld(), nil)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			obj, ok := m.Scene.FindByName("A/ball0")
			if !ok {
				t.Fatal("A/ball0 not spawned")
			}
			if got := obj.(*fleet.Cannonball).Body().GravityStrength; got != tt.want {
				t.Errorf("GravityStrength = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(t.TempDir() + "/missing.yaml"); err == nil {
		t.Error("LoadFile on a missing path succeeded")
	}
}
