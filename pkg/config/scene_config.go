package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"strconv"
	"strings"

	"github.com/decker502/grenadegrid/pkg/types"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig 配置内容不合法（schema 校验失败或取值越界）
var ErrInvalidConfig = errors.New("invalid scene config")

// 默认配置文件路径（相对于资源根目录）
const (
	DefaultSceneConfigPath = "data/scene.yaml"
	SceneSchemaPath        = "data/scene.schema.json"
)

// Vec3 YAML 中的三维坐标，写作 [x, y, z]
type Vec3 [3]float64

// R3 转换为 gonum 向量
func (v Vec3) R3() r3.Vec {
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}

// SceneConfig 场景配置
// 对应 data/scene.yaml，缺省字段使用 DefaultSceneConfig 中的值
type SceneConfig struct {
	Variant   types.Variant   `yaml:"variant"`   // 终幕类型：explosion / video
	Capacity  int             `yaml:"capacity"`  // 最多可放置的手雷数量
	Grid      GridConfig      `yaml:"grid"`      // 网格与地面
	Timing    TimingConfig    `yaml:"timing"`    // 转场时间参数
	Camera    CameraConfig    `yaml:"camera"`    // 相机与轨道控制
	Placement PlacementConfig `yaml:"placement"` // 可放置模型
	Final     FinalConfig     `yaml:"final"`     // 终幕内容
	Lights    []LightConfig   `yaml:"lights"`    // 交互阶段的灯光
}

// GridConfig 网格配置
// 地面是以原点为中心、边长为 Size 的正方形，每格边长为 1
type GridConfig struct {
	Size int `yaml:"size"`
}

// HalfExtent 返回地面半边长
func (g GridConfig) HalfExtent() float64 {
	return float64(g.Size) / 2
}

// TimingConfig 转场时间参数（秒）
type TimingConfig struct {
	TriggerDelay float64 `yaml:"triggerDelay"` // 放满后到开始转场的延迟
	FadeDuration float64 `yaml:"fadeDuration"` // 遮罩淡入/淡出时长
	FadeOutDelay float64 `yaml:"fadeOutDelay"` // 终幕加载后到遮罩淡出的延迟
	LoadTimeout  float64 `yaml:"loadTimeout"`  // 模型加载超时
}

// CameraConfig 相机配置
type CameraConfig struct {
	FovY          float64 `yaml:"fovY"` // 垂直视角（度）
	Near          float64 `yaml:"near"`
	Far           float64 `yaml:"far"`
	Position      Vec3    `yaml:"position"`
	Target        Vec3    `yaml:"target"`
	FinalPosition Vec3    `yaml:"finalPosition"` // 终幕相机位置
	MinPolarDeg   float64 `yaml:"minPolarDeg"`
	MaxPolarDeg   float64 `yaml:"maxPolarDeg"`
	MinDistance   float64 `yaml:"minDistance"`
	MaxDistance   float64 `yaml:"maxDistance"`
	OrbitSpeed    float64 `yaml:"orbitSpeed"` // 每像素旋转弧度
	ZoomSpeed     float64 `yaml:"zoomSpeed"`  // 每格滚轮缩放比例
}

// PlacementConfig 可放置模型配置
type PlacementConfig struct {
	Model        string  `yaml:"model"`
	Scale        float64 `yaml:"scale"`
	TimeScale    float64 `yaml:"timeScale"`    // 内嵌动画播放速度
	BobBase      float64 `yaml:"bobBase"`      // 浮动基准高度
	BobAmplitude float64 `yaml:"bobAmplitude"` // 浮动振幅
}

// FinalConfig 终幕配置
type FinalConfig struct {
	Model       string      `yaml:"model"`       // explosion 终幕模型
	Scale       float64     `yaml:"scale"`       // 终幕模型缩放
	Background  string      `yaml:"background"`  // 终幕背景色
	Light       LightConfig `yaml:"light"`       // 终幕点光源
	VideoFrames string      `yaml:"videoFrames"` // video 终幕帧序列（glob）
	VideoFPS    float64     `yaml:"videoFPS"`
	Audio       string      `yaml:"audio"` // 可选背景音频
}

// LightConfig 灯光配置
type LightConfig struct {
	Type      string  `yaml:"type"` // directional / ambient / point
	Color     string  `yaml:"color"`
	Intensity float64 `yaml:"intensity"`
	Position  Vec3    `yaml:"position"`
	Target    Vec3    `yaml:"target"`
	Distance  float64 `yaml:"distance"` // 点光源衰减距离，0 表示不衰减
}

// RGBA 解析灯光颜色
func (l LightConfig) RGBA() color.RGBA {
	c, err := ParseHexColor(l.Color)
	if err != nil {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return c
}

// DefaultSceneConfig 返回默认配置
// 数值对应 data/scene.yaml 的出厂配置
func DefaultSceneConfig() *SceneConfig {
	return &SceneConfig{
		Variant:  types.VariantExplosion,
		Capacity: 4,
		Grid:     GridConfig{Size: 2},
		Timing: TimingConfig{
			TriggerDelay: 0.2,
			FadeDuration: 1.5,
			FadeOutDelay: 0.5,
			LoadTimeout:  10,
		},
		Camera: CameraConfig{
			FovY:          20,
			Near:          0.1,
			Far:           1000,
			Position:      Vec3{5, 10, -4},
			Target:        Vec3{0, 0, 0},
			FinalPosition: Vec3{90, -40, 0},
			MinPolarDeg:   0,
			MaxPolarDeg:   69,
			MinDistance:   1,
			MaxDistance:   100,
			OrbitSpeed:    0.01,
			ZoomSpeed:     0.1,
		},
		Placement: PlacementConfig{
			Model:        "data/models/grenade.yaml",
			Scale:        0.8,
			TimeScale:    0.5,
			BobBase:      0.5,
			BobAmplitude: 0.5,
		},
		Final: FinalConfig{
			Model:      "data/models/explosion.yaml",
			Scale:      3,
			Background: "#FFFFFF",
			Light: LightConfig{
				Type:      "point",
				Color:     "#FFFFFF",
				Intensity: 60,
				Position:  Vec3{5, 5, 10},
				Distance:  9000,
			},
			VideoFPS: 24,
		},
		Lights: []LightConfig{
			{Type: "directional", Color: "#FFFFFF", Intensity: 1, Position: Vec3{-10, 10, 10}},
			{Type: "directional", Color: "#FFFFFF", Intensity: 1, Position: Vec3{10, 10, 10}},
			{Type: "ambient", Color: "#404040", Intensity: 0.2},
		},
	}
}

// LoadSceneConfig 从资源文件系统读取并校验场景配置
//
// 参数：
//   - fsys: 资源文件系统（嵌入资源或 os.DirFS）
//   - path: 配置文件路径，如 "data/scene.yaml"
//
// 返回：
//   - *SceneConfig: 合并默认值后的配置
//   - error: 读取、schema 校验或解析失败
func LoadSceneConfig(fsys fs.FS, path string) (*SceneConfig, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene config %s: %w", path, err)
	}

	schemaData, err := fs.ReadFile(fsys, SceneSchemaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene schema %s: %w", SceneSchemaPath, err)
	}

	return ParseSceneConfig(data, schemaData)
}

// ParseSceneConfig 解析 YAML 配置
// schemaData 为空时跳过 schema 校验
func ParseSceneConfig(data, schemaData []byte) (*SceneConfig, error) {
	if len(schemaData) > 0 {
		if err := validateAgainstSchema(data, schemaData); err != nil {
			return nil, err
		}
	}

	cfg := DefaultSceneConfig()
	// 显式给出的 lights 会整体替换默认灯光
	cfg.Lights = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse scene config YAML: %w", err)
	}
	if cfg.Lights == nil {
		cfg.Lights = DefaultSceneConfig().Lights
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 检查 schema 无法表达的约束
func (c *SceneConfig) Validate() error {
	if !c.Variant.IsValid() {
		return fmt.Errorf("%w: unknown variant %q", ErrInvalidConfig, c.Variant)
	}
	if c.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidConfig, c.Capacity)
	}
	if c.Grid.Size <= 0 || c.Grid.Size%2 != 0 {
		return fmt.Errorf("%w: grid size must be a positive even number, got %d", ErrInvalidConfig, c.Grid.Size)
	}
	if cells := c.Grid.Size * c.Grid.Size; c.Capacity > cells {
		return fmt.Errorf("%w: capacity %d exceeds %d grid cells", ErrInvalidConfig, c.Capacity, cells)
	}
	if c.Camera.MinPolarDeg > c.Camera.MaxPolarDeg {
		return fmt.Errorf("%w: minPolarDeg > maxPolarDeg", ErrInvalidConfig)
	}
	if c.Camera.MinDistance > c.Camera.MaxDistance {
		return fmt.Errorf("%w: minDistance > maxDistance", ErrInvalidConfig)
	}
	if c.Variant == types.VariantExplosion && c.Final.Model == "" {
		return fmt.Errorf("%w: explosion variant requires final.model", ErrInvalidConfig)
	}
	if c.Variant == types.VariantVideo && c.Final.VideoFrames == "" {
		return fmt.Errorf("%w: video variant requires final.videoFrames", ErrInvalidConfig)
	}
	if _, err := ParseHexColor(c.Final.Background); err != nil {
		return fmt.Errorf("%w: final.background: %v", ErrInvalidConfig, err)
	}
	return nil
}

// validateAgainstSchema 将 YAML 转为 JSON 值后做 schema 校验
func validateAgainstSchema(data, schemaData []byte) error {
	compiler := jsonschema.NewCompiler()
	const url = "mem://schemas/scene.json"
	if err := compiler.AddResource(url, bytes.NewReader(schemaData)); err != nil {
		return fmt.Errorf("failed to add scene schema: %w", err)
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		return fmt.Errorf("failed to compile scene schema: %w", err)
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse scene config YAML: %w", err)
	}
	if raw == nil {
		raw = map[string]any{}
	}

	// 经过一次 JSON 编解码，得到 jsonschema 期望的值类型
	jsonData, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to convert scene config to JSON: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(jsonData))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("failed to decode scene config JSON: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// ParseHexColor 解析 "#RRGGBB" 或 "#RRGGBBAA"
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("bad color %q", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("bad color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
