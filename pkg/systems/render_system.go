package systems

import (
	"bytes"
	"image"
	"image/color"
	"log"
	"math"
	"sort"

	"github.com/decker502/grenadegrid/internal/mesh"
	"github.com/decker502/grenadegrid/pkg/components"
	"github.com/decker502/grenadegrid/pkg/config"
	"github.com/decker502/grenadegrid/pkg/ecs"
	"github.com/decker502/grenadegrid/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/gomono"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// maxBatchVertices 单次 DrawTriangles 的顶点上限（uint16 索引）
	maxBatchVertices = math.MaxUint16

	hudFontSize = 13
)

var gridLineColor = color.RGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xFF}

// newWhiteImage 纯白纹理，DrawTriangles 通过顶点颜色着色
// 取 3x3 图像的中心像素，避免采样到边缘
func newWhiteImage() *ebiten.Image {
	img := ebiten.NewImage(3, 3)
	img.Fill(color.White)
	return img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}

// shadedFace 投影并着色后的三角形，按深度排序后绘制
type shadedFace struct {
	points [3]utils.Projection
	color  [4]float32 // 非预乘 RGBA
	depth  float64
}

// RenderSystem 把场景画到屏幕上
//
// 绘制顺序：
//  1. 背景色
//  2. 网格线（地面 y=0）
//  3. 高亮格（半透明四边形）
//  4. 所有可见模型的三角形：Lambert 着色，按深度从远到近排序（画家算法）
//  5. video 终幕的当前帧（全屏）
//  6. 淡入淡出遮罩
//
// HUD 文字由 DrawHUD 单独绘制，位于遮罩之上。
type RenderSystem struct {
	entityManager   *ecs.EntityManager
	cameraEntity    ecs.EntityID
	gridEntity      ecs.EntityID
	highlightEntity ecs.EntityID
	overlayEntity   ecs.EntityID
	sceneEntity     ecs.EntityID // 持有 BackgroundComponent

	white    *ebiten.Image
	faces    []shadedFace    // 复用，避免每帧分配
	vertices []ebiten.Vertex // 复用
	indices  []uint16        // 复用

	hudFace *text.GoTextFace
}

// NewRenderSystem 创建渲染系统
func NewRenderSystem(
	em *ecs.EntityManager,
	cameraEntity, gridEntity, highlightEntity, overlayEntity, sceneEntity ecs.EntityID,
) *RenderSystem {
	s := &RenderSystem{
		entityManager:   em,
		cameraEntity:    cameraEntity,
		gridEntity:      gridEntity,
		highlightEntity: highlightEntity,
		overlayEntity:   overlayEntity,
		sceneEntity:     sceneEntity,
		white:           newWhiteImage(),
		faces:           make([]shadedFace, 0, 2048),
		vertices:        make([]ebiten.Vertex, 0, 6144),
		indices:         make([]uint16, 0, 6144),
	}
	src, err := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))
	if err != nil {
		log.Printf("[RenderSystem] Warning: HUD font unavailable: %v", err)
	} else {
		s.hudFace = &text.GoTextFace{Source: src, Size: hudFontSize}
	}
	return s
}

// Draw 绘制一帧
func (s *RenderSystem) Draw(screen *ebiten.Image) {
	if bg, ok := ecs.GetComponent[*components.BackgroundComponent](s.entityManager, s.sceneEntity); ok {
		screen.Fill(bg.Color)
	}

	cam, ok := ecs.GetComponent[*components.CameraComponent](s.entityManager, s.cameraEntity)
	if ok {
		proj := utils.NewProjector(cam)
		s.drawGrid(screen, proj)
		s.drawHighlight(screen, proj)
		s.drawMeshes(screen, proj, cam.Position)
	}

	s.drawVideo(screen)
	s.drawOverlay(screen)
}

// drawGrid 网格线，端点在相机后方的线段直接跳过
func (s *RenderSystem) drawGrid(screen *ebiten.Image, proj *utils.Projector) {
	grid, ok := ecs.GetComponent[*components.GridComponent](s.entityManager, s.gridEntity)
	if !ok {
		return
	}
	for _, line := range utils.GridLines(grid.Size) {
		a, okA := proj.Project(line[0])
		b, okB := proj.Project(line[1])
		if !okA || !okB {
			continue
		}
		vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), config.GridLineWidth, gridLineColor, true)
	}
}

func (s *RenderSystem) drawHighlight(screen *ebiten.Image, proj *utils.Projector) {
	hl, ok := ecs.GetComponent[*components.HighlightComponent](s.entityManager, s.highlightEntity)
	if !ok || !hl.Valid || hl.Opacity <= 0 {
		return
	}
	// 略高于地面，避免与网格线重叠闪烁
	const lift = 0.001
	var pts [4]utils.Projection
	for i, c := range utils.CellCorners(hl.Cell) {
		c.Y = lift
		p, ok := proj.Project(c)
		if !ok {
			return
		}
		pts[i] = p
	}
	clr := [4]float32{
		float32(hl.Color.R) / 0xFF,
		float32(hl.Color.G) / 0xFF,
		float32(hl.Color.B) / 0xFF,
		float32(hl.Opacity),
	}
	s.vertices = s.vertices[:0]
	s.indices = s.indices[:0]
	for _, p := range pts {
		s.vertices = append(s.vertices, vertexAt(p, clr))
	}
	s.indices = append(s.indices, 0, 1, 2, 0, 2, 3)
	screen.DrawTriangles(s.vertices, s.indices, s.white, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

// drawMeshes 收集所有可见模型的三角形，着色后从远到近绘制
func (s *RenderSystem) drawMeshes(screen *ebiten.Image, proj *utils.Projector, eye r3.Vec) {
	lights := s.collectLights()
	s.faces = s.faces[:0]

	for _, id := range ecs.GetEntitiesWith2[*components.MeshComponent, *components.TransformComponent](s.entityManager) {
		m, _ := ecs.GetComponent[*components.MeshComponent](s.entityManager, id)
		transform, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
		if !m.Visible || m.Model == nil {
			continue
		}
		var poses map[string]mesh.Pose
		if anim, ok := ecs.GetComponent[*components.AnimationPlayerComponent](s.entityManager, id); ok && anim.Player != nil {
			poses = anim.Player.Poses()
		}
		s.collectFaces(m.Model, transform, poses, lights, proj, eye)
	}

	sort.SliceStable(s.faces, func(i, j int) bool {
		return s.faces[i].depth > s.faces[j].depth
	})
	s.flushFaces(screen)
}

func (s *RenderSystem) collectFaces(
	model *mesh.Model,
	transform *components.TransformComponent,
	poses map[string]mesh.Pose,
	lights []*components.LightComponent,
	proj *utils.Projector,
	eye r3.Vec,
) {
	world := make([]r3.Vec, 0, 64)
	for pi := range model.Parts {
		part := &model.Parts[pi]
		pose, ok := poses[part.Name]
		if !ok {
			pose = mesh.IdentityPose()
		}

		world = world[:0]
		for _, v := range part.Vertices {
			world = append(world, transform.Apply(mesh.PartToModel(part, pose, v)))
		}

	faces:
		for _, f := range part.Faces {
			a, b, c := world[f[0]], world[f[1]], world[f[2]]
			var sf shadedFace
			for i, v := range [3]r3.Vec{a, b, c} {
				p, ok := proj.Project(v)
				if !ok {
					continue faces
				}
				sf.points[i] = p
			}

			centroid := r3.Scale(1.0/3, r3.Add(a, r3.Add(b, c)))
			normal := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
			if r3.Norm(normal) == 0 {
				continue
			}
			normal = r3.Unit(normal)
			// 双面材质：法线总是朝向相机
			if r3.Dot(normal, r3.Sub(eye, centroid)) < 0 {
				normal = r3.Scale(-1, normal)
			}

			sf.color = shade(part.Color, normal, centroid, lights)
			sf.depth = (sf.points[0].Depth + sf.points[1].Depth + sf.points[2].Depth) / 3
			s.faces = append(s.faces, sf)
		}
	}
}

// flushFaces 按 uint16 索引上限分批提交三角形
func (s *RenderSystem) flushFaces(screen *ebiten.Image) {
	s.vertices = s.vertices[:0]
	s.indices = s.indices[:0]
	op := &ebiten.DrawTrianglesOptions{AntiAlias: true}

	for _, f := range s.faces {
		if len(s.vertices)+3 > maxBatchVertices {
			screen.DrawTriangles(s.vertices, s.indices, s.white, op)
			s.vertices = s.vertices[:0]
			s.indices = s.indices[:0]
		}
		base := uint16(len(s.vertices))
		for _, p := range f.points {
			s.vertices = append(s.vertices, vertexAt(p, f.color))
		}
		s.indices = append(s.indices, base, base+1, base+2)
	}
	if len(s.indices) > 0 {
		screen.DrawTriangles(s.vertices, s.indices, s.white, op)
	}
}

func (s *RenderSystem) collectLights() []*components.LightComponent {
	ids := ecs.GetEntitiesWith1[*components.LightComponent](s.entityManager)
	lights := make([]*components.LightComponent, 0, len(ids))
	for _, id := range ids {
		light, _ := ecs.GetComponent[*components.LightComponent](s.entityManager, id)
		lights = append(lights, light)
	}
	return lights
}

// shade Lambert 漫反射
//   - ambient: color * intensity
//   - directional: 方向为 Position -> Target 的反向，按 N·L 计算
//   - point: intensity / d² 衰减，Distance > 0 时在该距离处平滑衰减到 0
func shade(base color.RGBA, normal, point r3.Vec, lights []*components.LightComponent) [4]float32 {
	var r, g, b float64
	for _, l := range lights {
		var k float64
		switch l.Kind {
		case components.LightAmbient:
			k = l.Intensity
		case components.LightDirectional:
			dir := r3.Sub(l.Position, l.Target)
			if r3.Norm(dir) == 0 {
				continue
			}
			k = l.Intensity * math.Max(0, r3.Dot(normal, r3.Unit(dir)))
		case components.LightPoint:
			toLight := r3.Sub(l.Position, point)
			d := r3.Norm(toLight)
			if d == 0 {
				continue
			}
			k = l.Intensity * math.Max(0, r3.Dot(normal, r3.Scale(1/d, toLight))) * PointAttenuation(d, l.Distance)
		}
		r += k * float64(l.Color.R) / 0xFF
		g += k * float64(l.Color.G) / 0xFF
		b += k * float64(l.Color.B) / 0xFF
	}
	return [4]float32{
		float32(utils.Clamp(r*float64(base.R)/0xFF, 0, 1)),
		float32(utils.Clamp(g*float64(base.G)/0xFF, 0, 1)),
		float32(utils.Clamp(b*float64(base.B)/0xFF, 0, 1)),
		float32(base.A) / 0xFF,
	}
}

// PointAttenuation 点光源距离衰减：1/d²，cutoff > 0 时乘以 (1-(d/cutoff)^4)^2
func PointAttenuation(d, cutoff float64) float64 {
	falloff := 1 / math.Max(d*d, 0.01)
	if cutoff > 0 {
		w := utils.Clamp(1-math.Pow(d/cutoff, 4), 0, 1)
		falloff *= w * w
	}
	return falloff
}

func vertexAt(p utils.Projection, clr [4]float32) ebiten.Vertex {
	return ebiten.Vertex{
		DstX:   float32(p.X),
		DstY:   float32(p.Y),
		SrcX:   0,
		SrcY:   0,
		ColorR: clr[0],
		ColorG: clr[1],
		ColorB: clr[2],
		ColorA: clr[3],
	}
}

// drawVideo 全屏绘制 video 终幕的当前帧，保持宽高比居中
func (s *RenderSystem) drawVideo(screen *ebiten.Image) {
	for _, id := range ecs.GetEntitiesWith1[*components.VideoPlayerComponent](s.entityManager) {
		video, _ := ecs.GetComponent[*components.VideoPlayerComponent](s.entityManager, id)
		if len(video.Frames) == 0 {
			continue
		}
		frame := video.Frames[video.CurrentFrame]
		fw, fh := frame.Bounds().Dx(), frame.Bounds().Dy()
		sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
		if fw == 0 || fh == 0 {
			continue
		}
		scale := math.Min(float64(sw)/float64(fw), float64(sh)/float64(fh))
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate((float64(sw)-float64(fw)*scale)/2, (float64(sh)-float64(fh)*scale)/2)
		op.Filter = ebiten.FilterLinear
		screen.DrawImage(frame, op)
	}
}

func (s *RenderSystem) drawOverlay(screen *ebiten.Image) {
	overlay, ok := ecs.GetComponent[*components.FadeOverlayComponent](s.entityManager, s.overlayEntity)
	if !ok || overlay.Opacity <= 0 {
		return
	}
	c := overlay.Color
	a := utils.Clamp(overlay.Opacity, 0, 1)
	clr := color.RGBA{
		R: uint8(float64(c.R) * a),
		G: uint8(float64(c.G) * a),
		B: uint8(float64(c.B) * a),
		A: uint8(0xFF * a),
	}
	b := screen.Bounds()
	vector.DrawFilledRect(screen, 0, 0, float32(b.Dx()), float32(b.Dy()), clr, false)
}

// DrawHUD 在左上角绘制状态文字（半透明黑底）
func (s *RenderSystem) DrawHUD(screen *ebiten.Image, lines []string) {
	if s.hudFace == nil || len(lines) == 0 {
		return
	}
	width := 0.0
	for _, line := range lines {
		w, _ := text.Measure(line, s.hudFace, config.HUDLineHeight)
		width = math.Max(width, w)
	}
	const pad = 5
	vector.DrawFilledRect(screen,
		config.HUDMarginX-pad, config.HUDMarginY-pad,
		float32(width+2*pad), float32(len(lines)*config.HUDLineHeight+2*pad),
		color.RGBA{A: 180}, false)

	y := float64(config.HUDMarginY)
	for _, line := range lines {
		op := &text.DrawOptions{}
		op.GeoM.Translate(config.HUDMarginX, y)
		op.ColorScale.ScaleWithColor(color.White)
		text.Draw(screen, line, s.hudFace, op)
		y += config.HUDLineHeight
	}
}
