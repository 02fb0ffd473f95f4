package render

import (
	"math"
	"strconv"

	rl "github.com/gen2brain/raylib-go/raylib"

	"scene-sandbox/internal/mesh"
	"scene-sandbox/internal/scene"
	"scene-sandbox/internal/viewport"
)

// primitives maps geometry keys (kind plus args) to GPU meshes. Meshes are created on first
// draw so that GPU resources are allocated after the window/OpenGL context exists.
type primitives struct {
	meshes  map[string]rl.Mesh
	mtl     rl.Material
	mtlInit bool
	viewPos [3]float32
}

func newPrimitives() *primitives {
	return &primitives{meshes: make(map[string]rl.Mesh)}
}

func (p *primitives) setView(viewPos [3]float32) {
	p.viewPos = viewPos
}

func (p *primitives) ensureMaterial() {
	if p.mtlInit {
		return
	}
	p.mtl = rl.LoadMaterialDefault()
	if shader := rl.LoadShaderFromMemory(litVS, litFS); rl.IsShaderValid(shader) {
		p.mtl.Shader = shader
	}
	p.mtlInit = true
}

// genMesh builds the raylib mesh for o. raylib's generators differ from the scene model in two
// places: the plane lies in XZ and the torus is sized by its outer diameter with the tube
// given as a ratio. Both are mapped here; see meshFix for the plane.
func genMesh(o *scene.Object) rl.Mesh {
	a := o.Args
	switch o.Kind {
	case scene.Cube:
		return rl.GenMeshCube(float32(a[0]), float32(a[1]), float32(a[2]))
	case scene.Sphere:
		return rl.GenMeshSphere(float32(a[0]), int32(a[2]), int32(a[1]))
	case scene.Plane:
		return rl.GenMeshPlane(float32(a[0]), float32(a[1]), 1, 1)
	case scene.Torus:
		ratio := math.Min(math.Max(a[1]/a[0], 0.1), 1)
		return rl.GenMeshTorus(float32(ratio), float32(2*a[0]), int32(a[2]), int32(a[3]))
	}
	return rl.Mesh{}
}

// meshFix is applied before the object transform: it turns raylib's XZ plane into the XY
// plane facing +Z.
func meshFix(k scene.Kind) rl.Matrix {
	if k == scene.Plane {
		return rl.MatrixRotateX(math.Pi / 2)
	}
	return rl.MatrixIdentity()
}

func geometryKey(o *scene.Object) string {
	key := o.Kind.String()
	for _, a := range o.Args {
		key += ":" + strconv.FormatFloat(a, 'g', -1, 64)
	}
	return key
}

func (p *primitives) draw(n *viewport.Node) {
	o := &n.Object
	if len(o.Args) != o.Kind.ArgCount() {
		return
	}
	p.ensureMaterial()
	key := geometryKey(o)
	m, ok := p.meshes[key]
	if !ok {
		m = genMesh(o)
		p.meshes[key] = m
	}

	c, err := scene.ParseColor(o.Color)
	if err != nil {
		return
	}
	tint := rl.NewColor(c.R, c.G, c.B, uint8(math.Round(o.Opacity*255)))
	if albedo := p.mtl.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = tint
	}
	setLitShaderUniforms(p.mtl.Shader, p.viewPos)

	q := mesh.Rotation(n.Rotation)
	rot := rl.QuaternionToMatrix(rl.Quaternion{X: float32(q[0]), Y: float32(q[1]), Z: float32(q[2]), W: float32(q[3])})
	scale := rl.MatrixScale(float32(o.Scale[0]), float32(o.Scale[1]), float32(o.Scale[2]))
	trans := rl.MatrixTranslate(float32(o.Position[0]), float32(o.Position[1]), float32(o.Position[2]))
	// Order: mesh fix, then scale, then rotate, then translate to position.
	transform := rl.MatrixMultiply(rl.MatrixMultiply(rl.MatrixMultiply(meshFix(o.Kind), scale), rot), trans)

	if o.Wireframe {
		rl.EnableWireMode()
		defer rl.DisableWireMode()
	}
	if o.Kind == scene.Plane {
		rl.DisableBackfaceCulling()
		defer rl.EnableBackfaceCulling()
	}
	rl.DrawMesh(m, p.mtl, transform)
}

// retain unloads cached meshes not used by nodes.
func (p *primitives) retain(nodes []viewport.Node) {
	used := make(map[string]bool, len(nodes))
	for i := range nodes {
		used[geometryKey(&nodes[i].Object)] = true
	}
	for key, m := range p.meshes {
		if !used[key] {
			rl.UnloadMesh(&m)
			delete(p.meshes, key)
		}
	}
}

func (p *primitives) unloadShader() {
	if p.mtlInit {
		rl.UnloadShader(p.mtl.Shader)
		p.mtlInit = false
	}
}

// lightDir is the direction to the light, from above-right.
var lightDir = [3]float32{0.5, 1, 0.5}

// defaultAmbient is the ambient term (dim so shadowed areas aren't pure black).
var defaultAmbient = [4]float32{0.2, 0.22, 0.26, 1.0}

var defaultLightColor = [3]float32{1.0, 0.98, 0.95}

const (
	defaultLightIntensity   = float32(0.75)
	defaultSpecularPower    = float32(48.0)
	defaultSpecularStrength = float32(0.35)
)

// setLitShaderUniforms sets view position, light and specular terms (cgo-safe: local arrays).
func setLitShaderUniforms(shader rl.Shader, viewPos [3]float32) {
	if !rl.IsShaderValid(shader) {
		return
	}
	vp := viewPos
	ld := lightDir
	amb := defaultAmbient
	lc := defaultLightColor
	if loc := rl.GetShaderLocation(shader, "viewPos"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, vp[:], rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(shader, "lightDir"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, ld[:], rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(shader, "ambient"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, amb[:], rl.ShaderUniformVec4, 1)
	}
	if loc := rl.GetShaderLocation(shader, "lightColor"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, lc[:], rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(shader, "lightIntensity"); loc >= 0 {
		rl.SetShaderValue(shader, loc, []float32{defaultLightIntensity}, rl.ShaderUniformFloat)
	}
	if loc := rl.GetShaderLocation(shader, "specularPower"); loc >= 0 {
		rl.SetShaderValue(shader, loc, []float32{defaultSpecularPower}, rl.ShaderUniformFloat)
	}
	if loc := rl.GetShaderLocation(shader, "specularStrength"); loc >= 0 {
		rl.SetShaderValue(shader, loc, []float32{defaultSpecularStrength}, rl.ShaderUniformFloat)
	}
}

// Directional light + ambient + Blinn-Phong specular. Alpha comes from the tint so opacity
// carries through.
const (
	litVS = `#version 330
in vec3 vertexPosition;
in vec2 vertexTexCoord;
in vec3 vertexNormal;
uniform mat4 matProjection;
uniform mat4 matView;
uniform mat4 matModel;
out vec3 fragPosition;
out vec3 fragNormal;
void main() {
  vec4 worldPos = matModel * vec4(vertexPosition, 1.0);
  fragPosition = worldPos.xyz;
  fragNormal = mat3(matModel) * vertexNormal;
  gl_Position = matProjection * matView * worldPos;
}
`
	litFS = `#version 330
in vec3 fragPosition;
in vec3 fragNormal;
uniform vec4 colDiffuse;
uniform vec3 viewPos;
uniform vec3 lightDir;
uniform vec4 ambient;
uniform vec3 lightColor;
uniform float lightIntensity;
uniform float specularPower;
uniform float specularStrength;
out vec4 finalColor;
void main() {
  vec4 tint = colDiffuse;
  vec3 N = normalize(fragNormal);
  if (!gl_FrontFacing) N = -N;
  vec3 L = normalize(lightDir);
  vec3 V = normalize(viewPos - fragPosition);
  float NdotL = max(dot(N, L), 0.0);
  vec3 diffuse = tint.rgb * NdotL * lightColor * lightIntensity;
  vec3 amb = ambient.rgb * tint.rgb;
  vec3 H = normalize(L + V);
  float NdotH = max(dot(N, H), 0.0);
  float spec = pow(NdotH, specularPower) * specularStrength;
  vec3 specular = lightColor * spec * (NdotL > 0.0 ? 1.0 : 0.0);
  finalColor = vec4(amb + diffuse + specular, tint.a);
}
`
)
