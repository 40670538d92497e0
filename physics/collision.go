package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/lixenwraith/broadside/drawable"
	"github.com/lixenwraith/broadside/vmath"
)

// ErrDegenerateCollider is returned for non-positive radii and inverted or empty boxes
var ErrDegenerateCollider = errors.New("degenerate collider")

// Kind tags the active variant of a Collider
type Kind uint8

const (
	KindSphere Kind = iota
	KindBox
)

func (k Kind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	case KindBox:
		return "box"
	default:
		return "unknown"
	}
}

// Sphere is a ball collider
type Sphere struct {
	Center mgl64.Vec3
	Radius float64
}

// Box is an axis-aligned bounding box
type Box struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// Collider is a tagged union over Sphere and Box, only the field matching Kind is meaningful
type Collider struct {
	Kind   Kind
	Sphere Sphere
	Box    Box
}

// NewSphere validates and builds a sphere collider
func NewSphere(center mgl64.Vec3, radius float64) (Collider, error) {
	c := Collider{Kind: KindSphere, Sphere: Sphere{Center: center, Radius: radius}}
	if err := c.validate(); err != nil {
		return Collider{}, err
	}
	return c, nil
}

// NewBox validates and builds a box from its corners
func NewBox(min, max mgl64.Vec3) (Collider, error) {
	c := Collider{Kind: KindBox, Box: Box{Min: min, Max: max}}
	if err := c.validate(); err != nil {
		return Collider{}, err
	}
	return c, nil
}

// validate applies the constructor rules to either variant, flat boxes are allowed
func (c Collider) validate() error {
	switch c.Kind {
	case KindSphere:
		r := c.Sphere.Radius
		if !(r > 0) || math.IsInf(r, 0) {
			return errors.Wrapf(ErrDegenerateCollider, "sphere radius %v", r)
		}
	case KindBox:
		min, max := c.Box.Min, c.Box.Max
		for i := 0; i < 3; i++ {
			if math.IsNaN(min[i]) || math.IsNaN(max[i]) || min[i] > max[i] {
				return errors.Wrapf(ErrDegenerateCollider, "box min %v max %v", min, max)
			}
		}
	default:
		return errors.Wrapf(ErrDegenerateCollider, "kind %v", c.Kind)
	}
	return nil
}

// NewBoundingBox builds a box of the given extents centred on center
func NewBoundingBox(center mgl64.Vec3, width, height, depth float64) (Collider, error) {
	if width < 0 || height < 0 || depth < 0 {
		return Collider{}, errors.Wrapf(ErrDegenerateCollider, "box size %vx%vx%v", width, height, depth)
	}
	half := mgl64.Vec3{width / 2, height / 2, depth / 2}
	return NewBox(center.Sub(half), center.Add(half))
}

// BoundingBoxFromVertices encloses every mesh vertex of d, scaled and offset by its position
// Computed once at setup, it is not refit when the drawable rotates
func BoundingBoxFromVertices(d *drawable.Drawable) (Collider, error) {
	if d == nil || len(d.Vertices) == 0 {
		return Collider{}, errors.Wrap(ErrDegenerateCollider, "no vertices")
	}

	inf := math.Inf(1)
	min := mgl64.Vec3{inf, inf, inf}
	max := mgl64.Vec3{-inf, -inf, -inf}
	for _, v := range d.Vertices {
		p := vmath.MulPerAxis(v, d.Scale)
		for i := 0; i < 3; i++ {
			min[i] = math.Min(min[i], p[i])
			max[i] = math.Max(max[i], p[i])
		}
	}
	return NewBox(min.Add(d.Position), max.Add(d.Position))
}

// Finite reports whether every coordinate of the collider is finite
func (c Collider) Finite() bool {
	if c.Kind == KindSphere {
		return vmath.IsFinite3(c.Sphere.Center)
	}
	return vmath.IsFinite3(c.Box.Min) && vmath.IsFinite3(c.Box.Max)
}

// Center returns the sphere center or the box midpoint
func (c Collider) Center() mgl64.Vec3 {
	if c.Kind == KindSphere {
		return c.Sphere.Center
	}
	return c.Box.Min.Add(c.Box.Max).Mul(0.5)
}

// SphereSphere is true when the center distance is strictly below the radius sum
func SphereSphere(a, b Sphere) bool {
	return a.Center.Sub(b.Center).Len() < a.Radius+b.Radius
}

// BoxBox is true when the intervals overlap on all three axes, touching faces included
func BoxBox(a, b Box) bool {
	return a.Min[0] <= b.Max[0] && a.Max[0] >= b.Min[0] &&
		a.Min[1] <= b.Max[1] && a.Max[1] >= b.Min[1] &&
		a.Min[2] <= b.Max[2] && a.Max[2] >= b.Min[2]
}

// SphereBox clamps the center into the box and tests the remaining distance strictly
func SphereBox(s Sphere, b Box) bool {
	nearest := vmath.Clamp3(s.Center, b.Min, b.Max)
	return nearest.Sub(s.Center).Len() < s.Radius
}

// Intersects dispatches on both collider kinds
// Parked colliders with non-finite coordinates never intersect
func Intersects(a, b Collider) bool {
	if !a.Finite() || !b.Finite() {
		return false
	}
	switch {
	case a.Kind == KindSphere && b.Kind == KindSphere:
		return SphereSphere(a.Sphere, b.Sphere)
	case a.Kind == KindBox && b.Kind == KindBox:
		return BoxBox(a.Box, b.Box)
	case a.Kind == KindSphere && b.Kind == KindBox:
		return SphereBox(a.Sphere, b.Box)
	default:
		return SphereBox(b.Sphere, a.Box)
	}
}
