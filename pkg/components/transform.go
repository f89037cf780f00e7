package components

import (
	"github.com/decker502/grenadegrid/internal/mesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// TransformComponent 实体在世界中的位置、旋转（XYZ 欧拉角，弧度）和缩放
type TransformComponent struct {
	Position r3.Vec
	Rotation r3.Vec
	Scale    r3.Vec
}

// NewTransform 创建均匀缩放的变换
func NewTransform(position r3.Vec, scale float64) *TransformComponent {
	return &TransformComponent{
		Position: position,
		Scale:    r3.Vec{X: scale, Y: scale, Z: scale},
	}
}

// Apply 将模型空间的点变换到世界空间
func (t *TransformComponent) Apply(v r3.Vec) r3.Vec {
	v = mesh.MulElem(t.Scale, v)
	v = mesh.RotateEuler(v, t.Rotation)
	return r3.Add(v, t.Position)
}

// MeshComponent 可渲染的模型
// Model 在多个实例间共享，只读
type MeshComponent struct {
	Model   *mesh.Model
	Visible bool
}

// AnimationPlayerComponent 每个实例独立的动画播放状态
type AnimationPlayerComponent struct {
	Player *mesh.Player
}
