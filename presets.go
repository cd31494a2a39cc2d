package lumen

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gekko3d/lumen/shade/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

type CameraData struct {
	Position mgl32.Vec3 `json:"position"`
	Target   mgl32.Vec3 `json:"target"`
	FovY     float32    `json:"fov_y"` // degrees
	Near     float32    `json:"near"`
	Far      float32    `json:"far"`
}

type LightData struct {
	ID LightId `json:"id,omitempty"`
	LightComponent
}

type SkyData struct {
	Procedural   bool        `json:"procedural"`
	SunDirection *mgl32.Vec3 `json:"sun_direction,omitempty"`
	SunElevation float32     `json:"sun_elevation"` // degrees
	SunRotation  float32     `json:"sun_rotation"`  // degrees
	SunIntensity float32     `json:"sun_intensity"`
	SunStrength  float32     `json:"sun_strength"`
	Altitude     float32     `json:"altitude"`
	AirDensity   float32     `json:"air_density"`
	Aerosols     float32     `json:"aerosols"`
	SyncWithSun  bool        `json:"sync_with_sun"`
}

type MaterialData struct {
	BaseColor mgl32.Vec3 `json:"base_color"`
	Roughness float32    `json:"roughness"`
	Metallic  float32    `json:"metallic"`
	Unlit     bool       `json:"unlit,omitempty"`
}

func (d MaterialData) Sample() core.MaterialSample {
	m := core.NewMaterialSample(d.BaseColor, d.Roughness, d.Metallic)
	m.Lit = !d.Unlit
	return m
}

type ShapeKind string

const (
	ShapeSphere ShapeKind = "sphere"
	ShapeBox    ShapeKind = "box"
)

type ShapeData struct {
	Kind     ShapeKind    `json:"kind"`
	Center   mgl32.Vec3   `json:"center,omitempty"`
	Radius   float32      `json:"radius,omitempty"`
	Min      mgl32.Vec3   `json:"min,omitempty"`
	Max      mgl32.Vec3   `json:"max,omitempty"`
	Material MaterialData `json:"material"`
}

// ScenePreset is a self-contained demo scene: camera, lights, sky and a few
// analytic shapes standing on a ground plane at y = 0.
type ScenePreset struct {
	Quality      string       `json:"quality"`
	Camera       CameraData   `json:"camera"`
	Lights       []LightData  `json:"lights"`
	Sky          SkyData      `json:"sky"`
	Environment  mgl32.Vec3   `json:"environment"`
	Ground       MaterialData `json:"ground"`
	Shapes       []ShapeData  `json:"shapes"`
	ShadowLayers uint32       `json:"shadow_layers"`
	ShadowSize   int          `json:"shadow_size"`
}

func DefaultScenePreset() ScenePreset {
	sun := NewSunLight()
	sun.SetPose(mgl32.Vec3{}, mgl32.Vec3{-0.4, -1, -0.3}, mgl32.Vec3{0, 1, 0})
	sun.SetIntensity(3)

	spot := NewSpotLight()
	spot.SetPose(mgl32.Vec3{-2, 4, 2}, mgl32.Vec3{0.4, -1, -0.4}, mgl32.Vec3{0, 0, -1})
	spot.SetColor(1, 0.6, 0.3)
	spot.SetIntensity(60)
	spot.SetRange(15)
	spot.SetInnerAngle(15)
	spot.SetOuterAngle(30)

	point := NewPointLight()
	point.SetPose(mgl32.Vec3{2, 1.5, 1}, mgl32.Vec3{0, -1, 0}, mgl32.Vec3{0, 1, 0})
	point.SetColor(0.3, 0.6, 1)
	point.SetIntensity(20)
	point.SetRange(8)
	point.Radius = 0.1

	sky := core.DefaultSkyParams()
	return ScenePreset{
		Quality: "fast",
		Camera: CameraData{
			Position: mgl32.Vec3{0, 3, 8},
			Target:   mgl32.Vec3{0, 0.5, 0},
			FovY:     60,
			Near:     0.1,
			Far:      100,
		},
		Lights: []LightData{
			{LightComponent: sun},
			{LightComponent: spot},
			{LightComponent: point},
		},
		Sky: SkyData{
			Procedural:   true,
			SunElevation: mgl32.RadToDeg(sky.SunElevation),
			SunIntensity: sky.SunIntensity,
			SunStrength:  sky.SunStrength,
			AirDensity:   sky.AirDensity,
			Aerosols:     sky.Aerosols,
			SyncWithSun:  true,
		},
		Environment: mgl32.Vec3{0.03, 0.035, 0.045},
		Ground:      MaterialData{BaseColor: mgl32.Vec3{0.6, 0.6, 0.6}, Roughness: 0.8},
		Shapes: []ShapeData{
			{Kind: ShapeSphere, Center: mgl32.Vec3{0, 1, 0}, Radius: 1,
				Material: MaterialData{BaseColor: mgl32.Vec3{0.9, 0.2, 0.2}, Roughness: 0.35}},
			{Kind: ShapeSphere, Center: mgl32.Vec3{2.2, 0.6, -0.5}, Radius: 0.6,
				Material: MaterialData{BaseColor: mgl32.Vec3{0.95, 0.8, 0.4}, Roughness: 0.2, Metallic: 1}},
			{Kind: ShapeBox, Min: mgl32.Vec3{-3, 0, -1.5}, Max: mgl32.Vec3{-1.8, 1.2, -0.3},
				Material: MaterialData{BaseColor: mgl32.Vec3{0.2, 0.5, 0.8}, Roughness: 0.6}},
		},
		ShadowLayers: 48,
		ShadowSize:   512,
	}
}

// SkyParams converts the preset sky block; a sun light wins over the stored
// angles when SyncWithSun is set.
func (p ScenePreset) SkyParams() core.SkyParams {
	s := core.SkyParams{
		Mode:         core.SkyCubemap,
		SunElevation: mgl32.DegToRad(p.Sky.SunElevation),
		SunRotation:  mgl32.DegToRad(p.Sky.SunRotation),
		SunIntensity: p.Sky.SunIntensity,
		SunStrength:  p.Sky.SunStrength,
		Altitude:     p.Sky.Altitude,
		AirDensity:   p.Sky.AirDensity,
		Aerosols:     p.Sky.Aerosols,
	}
	if p.Sky.Procedural {
		s.Mode = core.SkyProcedural
	}
	if p.Sky.SunDirection != nil {
		s.SunDirection = *p.Sky.SunDirection
	}
	return s.Clamped()
}

func (p ScenePreset) BuildCamera(aspect float32) *core.Camera {
	c := p.Camera
	if c.FovY <= 0 {
		c.FovY = 60
	}
	if c.Near <= 0 {
		c.Near = 0.1
	}
	if c.Far <= c.Near {
		c.Far = c.Near * 1000
	}
	return core.NewLookAtCamera(c.Position, c.Target, mgl32.DegToRad(c.FovY), aspect, c.Near, c.Far)
}

// Apply registers the preset lights, assigning ids to lights without one.
func (p ScenePreset) Apply(m *LightManager) []LightId {
	ids := make([]LightId, 0, len(p.Lights))
	for _, l := range p.Lights {
		id := l.ID
		if id == "" {
			id = NewLightId()
		}
		m.Add(id, l.LightComponent)
		ids = append(ids, id)
	}
	return ids
}

func SavePreset(p ScenePreset, filename string) error {
	bytes, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode preset: %w", err)
	}
	if err := os.WriteFile(filename, bytes, 0644); err != nil {
		return fmt.Errorf("write preset: %w", err)
	}
	return nil
}

func LoadPreset(filename string) (ScenePreset, error) {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return ScenePreset{}, fmt.Errorf("read preset: %w", err)
	}
	var p ScenePreset
	if err := json.Unmarshal(bytes, &p); err != nil {
		return ScenePreset{}, fmt.Errorf("decode preset %s: %w", filename, err)
	}
	return p, nil
}
