package prefabs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/milk9111/collide2d/collision"
	"github.com/milk9111/collide2d/geom"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownSolver        = errors.New("prefabs: unknown solver")
	ErrUnknownShape         = errors.New("prefabs: unknown collider shape")
	ErrUnknownCollisionType = errors.New("prefabs: unknown collision type")
	ErrUnknownGroup         = errors.New("prefabs: unknown collision group")
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type VectorSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (v VectorSpec) Vector() geom.Vector {
	return geom.V(v.X, v.Y)
}

func vectorSpec(v geom.Vector) VectorSpec {
	return VectorSpec{X: v.X, Y: v.Y}
}

// PhysicsSpec is the YAML form of collision.Config. Keys left out of the file
// keep the value the spec was seeded with.
type PhysicsSpec struct {
	Enabled     bool       `yaml:"enabled"`
	Gravity     VectorSpec `yaml:"gravity"`
	Solver      string     `yaml:"solver"`
	DefaultMass float64    `yaml:"default_mass"`

	PositionIterations int     `yaml:"position_iterations"`
	VelocityIterations int     `yaml:"velocity_iterations"`
	Slop               float64 `yaml:"slop"`
	SteeringFactor     float64 `yaml:"steering_factor"`
	WarmStart          bool    `yaml:"warm_start"`

	Sleep       SleepSpec       `yaml:"sleep"`
	FastBodies  FastBodySpec    `yaml:"fast_bodies"`
	DynamicTree DynamicTreeSpec `yaml:"dynamic_tree"`
}

type SleepSpec struct {
	ByDefault     bool    `yaml:"by_default"`
	Epsilon       float64 `yaml:"epsilon"`
	WakeThreshold float64 `yaml:"wake_threshold"`
	Bias          float64 `yaml:"bias"`
}

type FastBodySpec struct {
	Check               bool    `yaml:"check"`
	DisableMinimumSpeed bool    `yaml:"disable_minimum_speed"`
	SurfaceEpsilon      float64 `yaml:"surface_epsilon"`
}

type DynamicTreeSpec struct {
	BoundsPadding      float64 `yaml:"bounds_padding"`
	VelocityMultiplier float64 `yaml:"velocity_multiplier"`
}

func NewPhysicsSpec(cfg collision.Config) PhysicsSpec {
	return PhysicsSpec{
		Enabled:            cfg.Enabled,
		Gravity:            vectorSpec(cfg.Gravity),
		Solver:             string(cfg.Solver),
		DefaultMass:        cfg.DefaultMass,
		PositionIterations: cfg.PositionIterations,
		VelocityIterations: cfg.VelocityIterations,
		Slop:               cfg.Slop,
		SteeringFactor:     cfg.SteeringFactor,
		WarmStart:          cfg.WarmStart,
		Sleep: SleepSpec{
			ByDefault:     cfg.BodiesCanSleepByDefault,
			Epsilon:       cfg.SleepEpsilon,
			WakeThreshold: cfg.WakeThreshold,
			Bias:          cfg.SleepBias,
		},
		FastBodies: FastBodySpec{
			Check:               cfg.CheckForFastBodies,
			DisableMinimumSpeed: cfg.DisableMinimumSpeedForFastBody,
			SurfaceEpsilon:      cfg.SurfaceEpsilon,
		},
		DynamicTree: DynamicTreeSpec{
			BoundsPadding:      cfg.DynamicTree.BoundsPadding,
			VelocityMultiplier: cfg.DynamicTree.VelocityMultiplier,
		},
	}
}

func (s PhysicsSpec) Config() (collision.Config, error) {
	solver := collision.SolverStrategy(strings.ToLower(s.Solver))
	switch solver {
	case collision.SolverArcade, collision.SolverRealistic:
	default:
		return collision.Config{}, fmt.Errorf("%w: %q", ErrUnknownSolver, s.Solver)
	}
	return collision.Config{
		Enabled:                        s.Enabled,
		Gravity:                        s.Gravity.Vector(),
		Solver:                         solver,
		DefaultMass:                    s.DefaultMass,
		PositionIterations:             s.PositionIterations,
		VelocityIterations:             s.VelocityIterations,
		Slop:                           s.Slop,
		SteeringFactor:                 s.SteeringFactor,
		WarmStart:                      s.WarmStart,
		BodiesCanSleepByDefault:        s.Sleep.ByDefault,
		SleepEpsilon:                   s.Sleep.Epsilon,
		WakeThreshold:                  s.Sleep.WakeThreshold,
		SleepBias:                      s.Sleep.Bias,
		CheckForFastBodies:             s.FastBodies.Check,
		DisableMinimumSpeedForFastBody: s.FastBodies.DisableMinimumSpeed,
		SurfaceEpsilon:                 s.FastBodies.SurfaceEpsilon,
		DynamicTree: collision.DynamicTreeConfig{
			BoundsPadding:      s.DynamicTree.BoundsPadding,
			VelocityMultiplier: s.DynamicTree.VelocityMultiplier,
		},
	}, nil
}

// ParseConfig overlays data onto the defaults.
func ParseConfig(data []byte) (collision.Config, error) {
	spec := NewPhysicsSpec(collision.DefaultConfig())
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return collision.Config{}, err
	}
	return spec.Config()
}

func LoadConfig(filename string) (collision.Config, error) {
	data, err := Load(filename)
	if err != nil {
		return collision.Config{}, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return collision.Config{}, fmt.Errorf("prefabs: parse %s: %w", filename, err)
	}
	return cfg, nil
}

type SceneSpec struct {
	Name     string            `yaml:"name"`
	Groups   []string          `yaml:"groups"`
	Entities []EntityBuildSpec `yaml:"entities"`
}

func LoadSceneSpec(name string) (SceneSpec, error) {
	return LoadSpec[SceneSpec](ScenePath(name))
}

// ColliderSpec describes one collider. Shape is circle, box, polygon, edge or
// composite.
type ColliderSpec struct {
	Shape    string         `yaml:"shape"`
	Radius   float64        `yaml:"radius"`
	Width    float64        `yaml:"width"`
	Height   float64        `yaml:"height"`
	Anchor   *VectorSpec    `yaml:"anchor"`
	Points   []VectorSpec   `yaml:"points"`
	Begin    VectorSpec     `yaml:"begin"`
	End      VectorSpec     `yaml:"end"`
	Offset   VectorSpec     `yaml:"offset"`
	Children []ColliderSpec `yaml:"children"`
}

func (s ColliderSpec) Build() (collision.Collider, error) {
	offset := s.Offset.Vector()
	switch strings.ToLower(s.Shape) {
	case "circle":
		return collision.NewCircle(s.Radius, offset), nil
	case "box":
		anchor := geom.V(0.5, 0.5)
		if s.Anchor != nil {
			anchor = s.Anchor.Vector()
		}
		return collision.NewBox(s.Width, s.Height, anchor, offset), nil
	case "polygon":
		if len(s.Points) < 3 {
			return nil, fmt.Errorf("prefabs: polygon with %d points: %w", len(s.Points), collision.ErrTooFewPoints)
		}
		points := make([]geom.Vector, 0, len(s.Points))
		for _, p := range s.Points {
			points = append(points, p.Vector())
		}
		return collision.NewPolygon(points, offset), nil
	case "edge":
		return collision.NewEdge(s.Begin.Vector(), s.End.Vector(), offset), nil
	case "composite":
		children := make([]collision.Collider, 0, len(s.Children))
		for i, child := range s.Children {
			c, err := child.Build()
			if err != nil {
				return nil, fmt.Errorf("prefabs: composite child %d: %w", i, err)
			}
			children = append(children, c)
		}
		return collision.NewComposite(children...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownShape, s.Shape)
	}
}

func ParseCollisionType(s string) (collision.CollisionType, error) {
	switch strings.ToLower(s) {
	case "", "active":
		return collision.Active, nil
	case "fixed":
		return collision.Fixed, nil
	case "passive":
		return collision.Passive, nil
	case "prevent", "preventcollision":
		return collision.PreventCollision, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCollisionType, s)
	}
}

func ParseLocks(names []string) (collision.DegreeOfFreedom, error) {
	var locked collision.DegreeOfFreedom
	for _, name := range names {
		switch strings.ToLower(name) {
		case "x":
			locked |= collision.LockX
		case "y":
			locked |= collision.LockY
		case "rotation":
			locked |= collision.LockRotation
		default:
			return 0, fmt.Errorf("prefabs: unknown lock %q", name)
		}
	}
	return locked, nil
}
