package lumen

import (
	"sync"

	"github.com/gekko3d/lumen/shade/rt/core"
	"github.com/gekko3d/lumen/shade/rt/shadow"
	"github.com/google/uuid"
)

// LightId identifies the owner of a light proxy.
type LightId string

func NewLightId() LightId { return LightId(uuid.NewString()) }

// ShadowAssignment maps one atlas layer to a light face.
type ShadowAssignment struct {
	Layer      uint32
	LightIndex int
	Face       uint32
}

// LightManager keeps the owner-keyed light proxies the kernel consumes and
// hands out shadow atlas layers.
type LightManager struct {
	mu          sync.RWMutex
	log         Logger
	owners      []LightId
	components  []LightComponent
	proxies     []core.Light
	assignments []ShadowAssignment
	layers      uint32
}

func NewLightManager(log Logger) *LightManager {
	return &LightManager{log: orNop(log)}
}

func (m *LightManager) indexOf(owner LightId) int {
	for i, o := range m.owners {
		if o == owner {
			return i
		}
	}
	return -1
}

// Add registers a light, replacing the one already held by owner. Shadow
// layers must be reassigned afterwards.
func (m *LightManager) Add(owner LightId, c LightComponent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ClearDirty()
	proxy := c.ToLight()
	m.invalidateShadows()
	if i := m.indexOf(owner); i >= 0 {
		m.components[i] = c
		m.proxies[i] = proxy
		return
	}
	m.owners = append(m.owners, owner)
	m.components = append(m.components, c)
	m.proxies = append(m.proxies, proxy)
	m.log.Debugf("Registered %s light %s", c.Type, owner)
}

// Remove drops the owner's light. Shadow layers must be reassigned afterwards.
func (m *LightManager) Remove(owner LightId) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(owner)
	if i < 0 {
		return false
	}
	m.owners = append(m.owners[:i], m.owners[i+1:]...)
	m.components = append(m.components[:i], m.components[i+1:]...)
	m.proxies = append(m.proxies[:i], m.proxies[i+1:]...)
	m.invalidateShadows()
	m.log.Debugf("Removed light %s", owner)
	return true
}

// Update applies cmd to the owner's light. Assigned shadow indices survive
// unless the light changes type or stops casting shadows, which invalidates
// every assignment.
func (m *LightManager) Update(owner LightId, cmd func(*LightComponent)) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(owner)
	if i < 0 {
		m.log.Warnf("Requested light %s not found", owner)
		return false
	}
	c := &m.components[i]
	kind, casts := c.Type, c.CastShadows
	cmd(c)
	if !c.Dirty() && c.Type == kind && c.CastShadows == casts {
		return true
	}
	c.ClearDirty()
	proxy := c.ToLight()
	proxy.ShadowMapID = m.proxies[i].ShadowMapID
	proxy.ShadowMatBase = m.proxies[i].ShadowMatBase
	m.proxies[i] = proxy
	if c.Type != kind || c.CastShadows != casts {
		m.invalidateShadows()
	}
	return true
}

// invalidateShadows drops every layer assignment; the indices no longer match
// the light list once it changes shape. Callers hold m.mu.
func (m *LightManager) invalidateShadows() {
	if len(m.assignments) == 0 && m.layers == 0 {
		return
	}
	for i := range m.proxies {
		m.proxies[i].ShadowMapID, m.proxies[i].ShadowMatBase = core.NoShadow, core.NoShadow
	}
	m.assignments = m.assignments[:0]
	m.layers = 0
	m.log.Debugf("Shadow layer assignments invalidated")
}

// Tick advances angle tweening of every light.
func (m *LightManager) Tick(dt float32) {
	m.mu.Lock()
	ids := make([]LightId, 0, len(m.owners))
	for i := range m.components {
		if m.components[i].TweenEnabled {
			ids = append(ids, m.owners[i])
		}
	}
	m.mu.Unlock()
	for _, id := range ids {
		m.Update(id, func(c *LightComponent) { c.Tick(dt) })
	}
}

func (m *LightManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.proxies)
}

func (m *LightManager) Light(i int) (core.Light, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i < 0 || i >= len(m.proxies) {
		return core.Light{}, false
	}
	return m.proxies[i], true
}

func (m *LightManager) Component(owner LightId) (LightComponent, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := m.indexOf(owner)
	if i < 0 {
		return LightComponent{}, false
	}
	return m.components[i], true
}

// Proxies returns a copy of the light list; an empty manager yields the
// placeholder light so the list is never empty.
func (m *LightManager) Proxies() []core.Light {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.proxies) == 0 {
		return []core.Light{core.DummyLight()}
	}
	return append([]core.Light(nil), m.proxies...)
}

// AssignShadowLayers hands out consecutive atlas layers: six per point light,
// one per spot light, none for sun lights. Lights that do not fit the budget,
// or do not cast shadows, get the sentinel. It returns the layers used.
func (m *LightManager) AssignShadowLayers(budget uint32) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.assignments = m.assignments[:0]
	var next uint32
	dropped := 0
	for i := range m.proxies {
		l := &m.proxies[i]
		l.ShadowMapID, l.ShadowMatBase = core.NoShadow, core.NoShadow

		faces := l.Kind.ShadowFaces()
		if faces == 0 || !m.components[i].CastShadows {
			continue
		}
		if next+faces > budget {
			dropped++
			continue
		}
		l.ShadowMapID, l.ShadowMatBase = next, next
		for f := uint32(0); f < faces; f++ {
			m.assignments = append(m.assignments, ShadowAssignment{Layer: next + f, LightIndex: i, Face: f})
		}
		next += faces
	}
	if dropped > 0 {
		m.log.Warnf("Shadow layers exhausted: %d lights without shadows (budget %d)", dropped, budget)
	}
	m.layers = next
	return next
}

func (m *LightManager) Assignments() []ShadowAssignment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]ShadowAssignment(nil), m.assignments...)
}

// BuildShadowAtlas allocates an atlas for the current assignments and fills
// its transform array from the shadow cameras.
func (m *LightManager) BuildShadowAtlas(size int) *shadow.Atlas {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a := shadow.NewAtlas(int(m.layers), size)
	for _, as := range m.assignments {
		if as.LightIndex < 0 || as.LightIndex >= len(m.proxies) || int(as.Layer) >= len(a.Matrices) {
			continue
		}
		l := &m.proxies[as.LightIndex]
		switch l.Kind {
		case core.LightSpot:
			a.Matrices[as.Layer] = shadow.SpotShadowMatrix(l)
		case core.LightPoint:
			a.Matrices[as.Layer] = shadow.PointShadowMatrix(l, as.Face)
		}
	}
	return a
}

// RenderShadows rasterizes occluders into every assigned layer of a.
func (m *LightManager) RenderShadows(a *shadow.Atlas, occluders ...shadow.Occluder) {
	m.mu.RLock()
	assignments := append([]ShadowAssignment(nil), m.assignments...)
	m.mu.RUnlock()
	for _, as := range assignments {
		layer := a.Layer(as.Layer, 0)
		mat, ok := a.Matrix(as.Layer, 0)
		if layer == nil || !ok {
			continue
		}
		layer.Clear(1)
		shadow.RenderDepth(layer, mat, occluders...)
	}
}

// SyncSky points the sky sun at the first sun light. It reports whether a
// sun light was found.
func (m *LightManager) SyncSky(sky *core.SkyParams) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := range m.proxies {
		if m.proxies[i].Kind == core.LightSun {
			sky.SyncFromSunLight(&m.proxies[i])
			return true
		}
	}
	return false
}
