package systems

import (
	"github.com/decker502/grenadegrid/pkg/components"
	"github.com/decker502/grenadegrid/pkg/ecs"
	"github.com/decker502/grenadegrid/pkg/types"
	"github.com/decker502/grenadegrid/pkg/utils"
	"gonum.org/v1/gonum/spatial/r3"
)

// OrbitSystem 相机轨道控制
// 右键拖动绕注视点旋转，滚轮缩放；极角和距离受 OrbitComponent 限制。
// 只在 Interactive 模式下生效，终幕相机位置固定。
type OrbitSystem struct {
	entityManager *ecs.EntityManager
	cameraEntity  ecs.EntityID
	phaseEntity   ecs.EntityID
}

// NewOrbitSystem 创建轨道控制系统
func NewOrbitSystem(em *ecs.EntityManager, cameraEntity, phaseEntity ecs.EntityID) *OrbitSystem {
	return &OrbitSystem{
		entityManager: em,
		cameraEntity:  cameraEntity,
		phaseEntity:   phaseEntity,
	}
}

// Update 根据本帧输入更新相机位置
// 返回:
//   - bool: 相机是否移动
func (s *OrbitSystem) Update(input utils.InputState) bool {
	cam, ok := ecs.GetComponent[*components.CameraComponent](s.entityManager, s.cameraEntity)
	if !ok {
		return false
	}
	orbit, ok := ecs.GetComponent[*components.OrbitComponent](s.entityManager, s.cameraEntity)
	if !ok {
		return false
	}
	if !orbit.Enabled || CurrentMode(s.entityManager, s.phaseEntity) != types.SceneModeInteractive {
		orbit.Dragging = false
		return false
	}

	var dx, dy int
	if input.SecondaryDown {
		if orbit.Dragging {
			dx, dy = input.X-orbit.LastX, input.Y-orbit.LastY
		}
		orbit.Dragging = true
		orbit.LastX, orbit.LastY = input.X, input.Y
	} else {
		orbit.Dragging = false
	}
	if dx == 0 && dy == 0 && input.WheelY == 0 {
		return false
	}

	sph := utils.SphericalFromOffset(r3.Sub(cam.Position, cam.Target))
	sph.Azimuth -= float64(dx) * orbit.RotateSpeed
	sph.Polar -= float64(dy) * orbit.RotateSpeed
	if input.WheelY != 0 {
		sph.Radius *= 1 - input.WheelY*orbit.ZoomSpeed
	}
	sph = sph.Clamped(orbit.MinPolar, orbit.MaxPolar, orbit.MinDistance, orbit.MaxDistance)
	cam.Position = r3.Add(cam.Target, sph.Offset())
	return true
}
