// Package embedded 提供场景资源的统一访问接口
//
// 由于 Go embed 指令只能嵌入当前包目录及其子目录的文件，
// embed.FS 变量必须声明在项目根目录（embed.go）。
// 本包把嵌入的 data/ 与可选的外部资源目录（-assets）合并为一个 fs.FS：
//
//   - "data/..." 路径从嵌入的 data 读取（配置、schema、YAML 模型）
//   - 其他路径从外部资源目录读取（视频帧、音频）
//
// 使用前必须调用 Init() 初始化。
package embedded

import (
	"errors"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
)

var (
	dataFS      fs.FS
	assetsFS    fs.FS
	initialized bool
)

// ErrNotInitialized Init 之前访问资源
var ErrNotInitialized = errors.New("embedded package not initialized, call Init() first")

// Init 初始化资源文件系统
// assets 可以为 nil，此时只有 data/ 下的文件可用
func Init(data, assets fs.FS) {
	dataFS = data
	assetsFS = assets
	initialized = true
}

// IsInitialized 返回 embedded 包是否已初始化
func IsInitialized() bool {
	return initialized
}

// HasAssets 是否挂载了外部资源目录
func HasAssets() bool {
	return initialized && assetsFS != nil
}

// FS 返回合并后的文件系统
func FS() fs.FS {
	return routedFS{}
}

type routedFS struct{}

func (routedFS) Open(name string) (fs.File, error) {
	return Open(name)
}

// normalize 标准化路径分隔符并移除 "./" 前缀
func normalize(name string) string {
	name = filepath.ToSlash(name)
	name = strings.TrimPrefix(name, "./")
	return path.Clean(name)
}

func route(name string) (fs.FS, string, error) {
	if !initialized {
		return nil, "", ErrNotInitialized
	}
	name = normalize(name)
	if name == "data" || strings.HasPrefix(name, "data/") {
		return dataFS, name, nil
	}
	if assetsFS == nil {
		return nil, "", &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return assetsFS, name, nil
}

// Open 根据路径前缀选择文件系统并打开文件
func Open(name string) (fs.File, error) {
	fsys, name, err := route(name)
	if err != nil {
		return nil, err
	}
	return fsys.Open(name)
}
