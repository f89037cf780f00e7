package components

import (
	"image/color"

	"gonum.org/v1/gonum/spatial/r3"
)

// LightKind 灯光类型
type LightKind int

const (
	LightAmbient LightKind = iota
	LightDirectional
	LightPoint
)

// ParseLightKind 解析配置中的灯光类型名称
func ParseLightKind(s string) (LightKind, bool) {
	switch s {
	case "ambient":
		return LightAmbient, true
	case "directional":
		return LightDirectional, true
	case "point":
		return LightPoint, true
	}
	return LightAmbient, false
}

// LightComponent 灯光
//
// 平行光方向为 Position -> Target；点光源按 Distance 线性衰减
type LightComponent struct {
	Kind      LightKind
	Color     color.RGBA
	Intensity float64
	Position  r3.Vec
	Target    r3.Vec
	Distance  float64
}

// BackgroundComponent 场景背景色（交互阶段为黑色，终幕为白色）
type BackgroundComponent struct {
	Color color.RGBA
}
