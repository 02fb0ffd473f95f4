package export

import (
	"encoding/base64"
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"scene-sandbox/internal/mesh"
	"scene-sandbox/internal/scene"
)

// Generator is written to asset.generator.
const Generator = "scene-sandbox"

// accessors of one generated geometry.
type geometry struct {
	position, normal, indices uint32
}

// Build converts objects into a glTF 2.0 document with one node, mesh and material per object.
// Objects with the same kind and args share vertex data.
func Build(objects []scene.Object) (*gltf.Document, error) {
	doc := gltf.NewDocument()
	doc.Asset.Generator = Generator
	doc.Scenes[0].Name = "Scene"

	cache := map[string]geometry{}
	for _, o := range objects {
		key := geometryKey(o)
		g, ok := cache[key]
		if !ok {
			m, err := mesh.For(o)
			if err != nil {
				return nil, err
			}
			g = geometry{
				position: modeler.WritePosition(doc, m.Positions),
				normal:   modeler.WriteNormal(doc, m.Normals),
				indices:  modeler.WriteIndices(doc, m.Indices),
			}
			cache[key] = g
		}

		mat, err := material(o)
		if err != nil {
			return nil, err
		}
		doc.Materials = append(doc.Materials, mat)

		doc.Meshes = append(doc.Meshes, &gltf.Mesh{
			Name: o.ID,
			Primitives: []*gltf.Primitive{{
				Attributes: gltf.Attribute{
					gltf.POSITION: g.position,
					gltf.NORMAL:   g.normal,
				},
				Indices:  gltf.Index(g.indices),
				Material: gltf.Index(uint32(len(doc.Materials) - 1)),
				Mode:     gltf.PrimitiveTriangles,
			}},
		})

		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name:        o.Name,
			Mesh:        gltf.Index(uint32(len(doc.Meshes) - 1)),
			Translation: [3]float64(o.Position),
			Rotation:    mesh.Rotation(o.Rotation),
			Scale:       [3]float64(o.Scale),
			Extras:      map[string]any{"id": o.ID, "type": o.Kind.String()},
		})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)-1))
	}
	return doc, nil
}

func geometryKey(o scene.Object) string {
	var b strings.Builder
	b.WriteString(o.Kind.String())
	for _, a := range o.Args {
		b.WriteByte(':')
		b.WriteString(strconv.FormatFloat(a, 'g', -1, 64))
	}
	return b.String()
}

func material(o scene.Object) (*gltf.Material, error) {
	c, err := scene.ParseColor(o.Color)
	if err != nil {
		return nil, fmt.Errorf("export: %s: %w", o.ID, err)
	}
	base := linear(c)
	base[3] = o.Opacity
	m := &gltf.Material{
		Name: o.Name,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &base,
			MetallicFactor:  gltf.Float(0),
			RoughnessFactor: gltf.Float(0.5),
		},
		DoubleSided: o.Kind == scene.Plane,
	}
	if o.Opacity < 1 {
		m.AlphaMode = gltf.AlphaBlend
	}
	return m, nil
}

// linear converts an sRGB color to the linear factors glTF expects.
func linear(c color.RGBA) [4]float64 {
	conv := func(v uint8) float64 {
		f := float64(v) / 255
		if f <= 0.04045 {
			return f / 12.92
		}
		return math.Pow((f+0.055)/1.055, 2.4)
	}
	return [4]float64{conv(c.R), conv(c.G), conv(c.B), 1}
}

// Encode writes doc as binary glTF (FormatGLB) or as JSON with the buffer embedded as a data
// URI (FormatGLTF).
func Encode(w io.Writer, doc *gltf.Document, format string) error {
	enc := gltf.NewEncoder(w)
	switch format {
	case FormatGLB:
		enc.AsBinary = true
	case FormatGLTF:
		enc.AsBinary = false
		for _, b := range doc.Buffers {
			if b.URI == "" {
				b.URI = "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(b.Data)
			}
		}
	default:
		return fmt.Errorf("export: unknown format %q", format)
	}
	return enc.Encode(doc)
}
