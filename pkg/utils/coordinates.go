// Package utils 提供场景中常用的工具函数
//
// coordinates.go 提供屏幕坐标、归一化设备坐标（NDC）与世界坐标之间的转换。
//
// # 坐标系统概述
//
//   - **世界坐标**：右手系，Y 轴向上，地面为 y=0 平面
//   - **屏幕坐标**：相对于窗口左上角，单位像素，Y 向下
//   - **NDC**：[-1, 1]，X 向右、Y 向上，中心为 (0, 0)
//
// # 核心转换
//
//	ndcX = screenX / width * 2 - 1
//	ndcY = -(screenY / height) * 2 + 1
//
// 指针拾取：ScreenToNDC -> RayFromCamera -> IntersectGround -> SnapToCell
// 渲染：Project 将世界坐标投影回屏幕坐标
package utils

import (
	"math"

	"github.com/decker502/grenadegrid/pkg/components"
	"gonum.org/v1/gonum/spatial/r3"
)

const parallelEpsilon = 1e-9

var worldUp = r3.Vec{Y: 1}

// Ray 射线
type Ray struct {
	Origin r3.Vec
	Dir    r3.Vec // 单位向量
}

// At 返回射线上参数 t 处的点
func (r Ray) At(t float64) r3.Vec {
	return r3.Add(r.Origin, r3.Scale(t, r.Dir))
}

// ScreenToNDC 将屏幕坐标转换为归一化设备坐标
func ScreenToNDC(x, y, width, height int) (float64, float64) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	ndcX := float64(x)/float64(width)*2 - 1
	ndcY := -(float64(y)/float64(height))*2 + 1
	return ndcX, ndcY
}

// CameraBasis 计算相机的右、上、前方向（单位向量）
// 前方向与世界 Y 轴平行时改用 -Z 作为参考上方向
func CameraBasis(cam *components.CameraComponent) (right, up, forward r3.Vec) {
	forward = r3.Unit(r3.Sub(cam.Target, cam.Position))
	ref := worldUp
	if r3.Norm(r3.Cross(forward, ref)) < parallelEpsilon {
		ref = r3.Vec{Z: -1}
	}
	right = r3.Unit(r3.Cross(forward, ref))
	up = r3.Cross(right, forward)
	return right, up, forward
}

func tanHalfFov(cam *components.CameraComponent) float64 {
	return math.Tan(cam.FovY * math.Pi / 180 / 2)
}

// RayFromCamera 从相机出发，穿过 NDC 点的射线
func RayFromCamera(cam *components.CameraComponent, ndcX, ndcY float64) Ray {
	right, up, forward := CameraBasis(cam)
	th := tanHalfFov(cam)
	dir := r3.Add(forward, r3.Add(
		r3.Scale(ndcX*th*cam.Aspect(), right),
		r3.Scale(ndcY*th, up),
	))
	return Ray{Origin: cam.Position, Dir: r3.Unit(dir)}
}

// IntersectGround 求射线与地面（y=0，|x|,|z| <= halfExtent）的交点
// 返回:
//   - r3.Vec: 交点
//   - bool: 是否命中
func IntersectGround(ray Ray, halfExtent float64) (r3.Vec, bool) {
	if math.Abs(ray.Dir.Y) < parallelEpsilon {
		return r3.Vec{}, false
	}
	t := -ray.Origin.Y / ray.Dir.Y
	if t < 0 {
		return r3.Vec{}, false
	}
	p := ray.At(t)
	p.Y = 0
	if math.Abs(p.X) > halfExtent || math.Abs(p.Z) > halfExtent {
		return r3.Vec{}, false
	}
	return p, true
}

// PickGround 从屏幕坐标拾取地面点
func PickGround(cam *components.CameraComponent, x, y int, halfExtent float64) (r3.Vec, bool) {
	ndcX, ndcY := ScreenToNDC(x, y, cam.Width, cam.Height)
	return IntersectGround(RayFromCamera(cam, ndcX, ndcY), halfExtent)
}

// Projection 投影结果
type Projection struct {
	X, Y  float64 // 屏幕坐标
	Depth float64 // 沿视线方向的距离
}

// Projector 缓存相机基向量，批量投影时避免重复计算
type Projector struct {
	cam                   *components.CameraComponent
	right, up, forward    r3.Vec
	tanHalf, aspect, w, h float64
}

// NewProjector 为当前相机状态创建投影器
func NewProjector(cam *components.CameraComponent) *Projector {
	right, up, forward := CameraBasis(cam)
	return &Projector{
		cam:     cam,
		right:   right,
		up:      up,
		forward: forward,
		tanHalf: tanHalfFov(cam),
		aspect:  cam.Aspect(),
		w:       float64(cam.Width),
		h:       float64(cam.Height),
	}
}

// Project 将世界坐标投影到屏幕
// 点位于近裁剪面之前或远裁剪面之后时返回 false
func (p *Projector) Project(v r3.Vec) (Projection, bool) {
	d := r3.Sub(v, p.cam.Position)
	z := r3.Dot(d, p.forward)
	if z < p.cam.Near || (p.cam.Far > 0 && z > p.cam.Far) {
		return Projection{}, false
	}
	x := r3.Dot(d, p.right) / (z * p.tanHalf * p.aspect)
	y := r3.Dot(d, p.up) / (z * p.tanHalf)
	return Projection{
		X:     (x + 1) / 2 * p.w,
		Y:     (1 - y) / 2 * p.h,
		Depth: z,
	}, true
}
