package renderer

import (
	"maps"
	"slices"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gl/engine/texture"
)

// uniformBinder writes a material's parameters into the program it draws with.
type uniformBinder struct {
	ctx      *renderContext
	textures *textureManager
}

// bindHandlers maps each material kind to the function that writes its uniforms.
var bindHandlers = map[material.Kind]func(*uniformBinder, shader.Program, material.Material){
	material.KindBasic:   (*uniformBinder).bindBasic,
	material.KindLambert: (*uniformBinder).bindLambert,
	material.KindPhong:   (*uniformBinder).bindPhong,
	material.KindDepth:   (*uniformBinder).bindDepth,
	material.KindNormal:  (*uniformBinder).bindNormal,
	material.KindCube:    (*uniformBinder).bindCube,
	material.KindShader:  (*uniformBinder).bindShader,
}

// bind writes m's uniforms into p, which must be current. Kinds without a handler are skipped.
func (b *uniformBinder) bind(p shader.Program, m material.Material) {
	if handler, ok := bindHandlers[m.Kind()]; ok {
		handler(b, p, m)
	}
}

func (b *uniformBinder) bindBasic(p shader.Program, m material.Material) {
	b.bindColor(p, m)
	b.bindMaps(p, m)
	b.ctx.set1i(p, "material", int32(material.KindBasic))
}

func (b *uniformBinder) bindLambert(p shader.Program, m material.Material) {
	b.bindColor(p, m)
	b.bindMaps(p, m)
	b.ctx.set1i(p, "material", int32(material.KindLambert))
}

func (b *uniformBinder) bindPhong(p shader.Program, m material.Material) {
	b.bindColor(p, m)
	b.bindMaps(p, m)
	b.ctx.set3f(p, "mAmbient", m.Ambient())
	b.ctx.set3f(p, "mSpecular", m.Specular())
	b.ctx.set1f(p, "mShininess", m.Shininess())
	b.ctx.set1i(p, "material", int32(material.KindPhong))
}

func (b *uniformBinder) bindDepth(p shader.Program, m material.Material) {
	near, far := m.Near(), m.Far()
	b.ctx.set1f(p, "mOpacity", m.Opacity())
	b.ctx.set1f(p, "m2Near", 2*near)
	b.ctx.set1f(p, "mFarPlusNear", far+near)
	b.ctx.set1f(p, "mFarMinusNear", far-near)
	b.ctx.set1i(p, "material", int32(material.KindDepth))
}

func (b *uniformBinder) bindNormal(p shader.Program, m material.Material) {
	b.ctx.set1f(p, "mOpacity", m.Opacity())
	b.ctx.set1i(p, "material", int32(material.KindNormal))
}

func (b *uniformBinder) bindCube(p shader.Program, m material.Material) {
	if env := m.EnvMap(); env != nil {
		b.textures.bindCube(cubeUnit, env)
	}
	b.ctx.set1i(p, "material", int32(material.KindCube))
}

// bindShader writes a custom material's typed uniform map in key order.
func (b *uniformBinder) bindShader(p shader.Program, m material.Material) {
	uniforms := m.Uniforms()
	for _, name := range slices.Sorted(maps.Keys(uniforms)) {
		u := uniforms[name]
		switch u.Type {
		case material.UniformTypeInt:
			b.ctx.set1i(p, name, u.Int)
		case material.UniformTypeFloat:
			b.ctx.set1f(p, name, u.Float)
		case material.UniformTypeTexture:
			switch {
			case u.Cube != nil:
				b.textures.bindCube(int(u.Unit), u.Cube)
			case u.Texture != nil:
				b.textures.bind2D(int(u.Unit), u.Texture)
			}
			b.ctx.set1i(p, name, u.Unit)
		}
	}
}

// bindColor writes the opacity-premultiplied color.
func (b *uniformBinder) bindColor(p shader.Program, m material.Material) {
	c, a := m.Color(), m.Opacity()
	b.ctx.set4f(p, "mColor", c[0]*a, c[1]*a, c[2]*a, a)
	b.ctx.set1f(p, "mOpacity", a)
}

// bindMaps writes the diffuse map and environment map state shared by the lit and unlit kinds.
func (b *uniformBinder) bindMaps(p shader.Program, m material.Material) {
	if tex := m.Map(); tex != nil && b.textures.bind2D(mapUnit, tex) {
		b.ctx.set1i(p, "tMap", mapUnit)
		b.ctx.set1i(p, "enableMap", 1)
	} else {
		b.ctx.set1i(p, "enableMap", 0)
	}

	env := m.EnvMap()
	if env == nil || !b.textures.bindCube(cubeUnit, env) {
		b.ctx.set1i(p, "enableCubeMap", 0)
		return
	}
	b.ctx.set1i(p, "enableCubeMap", 1)
	b.ctx.set1i(p, "mixEnvMap", boolInt(m.Combine() == material.CombineMix))
	b.ctx.set1f(p, "mReflectivity", m.Reflectivity())
	b.ctx.set1i(p, "useRefract", boolInt(env.Mapping() == texture.MappingRefraction))
	b.ctx.set1f(p, "mRefractionRatio", m.RefractionRatio())
}

func boolInt(v bool) int32 {
	if v {
		return 1
	}
	return 0
}
