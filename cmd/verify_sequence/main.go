// verify_sequence 无窗口运行一次完整流程：依次点击格子放满手雷，
// 等待转场和终幕，输出模式时间线和最终报告。
//
// 必须在项目根目录运行（data/ 从工作目录读取）：
//
//	go run ./cmd/verify_sequence
//	go run ./cmd/verify_sequence -variant video -assets ./assets
package main

import (
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/decker502/grenadegrid/pkg/app"
	"github.com/decker502/grenadegrid/pkg/components"
	"github.com/decker502/grenadegrid/pkg/embedded"
	"github.com/decker502/grenadegrid/pkg/game"
	"github.com/decker502/grenadegrid/pkg/scenes"
	"github.com/decker502/grenadegrid/pkg/types"
	"github.com/decker502/grenadegrid/pkg/utils"
)

const frame = 1.0 / 60

var (
	// 命令行参数
	variant    = flag.String("variant", "", "终幕类型（explosion / video），覆盖配置文件")
	configPath = flag.String("config", "", "场景配置路径")
	assetsDir  = flag.String("assets", "", "外部资源目录（视频帧、音频）")
	maxSeconds = flag.Float64("max", 10, "最长运行时间（场景秒）")
	settle     = flag.Float64("settle", 3, "进入终幕后继续运行的时间（秒）")
	verbose    = flag.Bool("verbose", false, "显示详细调试信息")
)

// clicker 按顺序点击格子中心，两次点击之间空一帧
type clicker struct {
	scene *scenes.GridScene
	cells []components.GridCell
	next  int
	idle  bool
	x, y  int
}

func (c *clicker) read() utils.InputState {
	if c.idle || c.next >= len(c.cells) {
		c.idle = false
		return utils.InputState{X: c.x, Y: c.y}
	}
	x, y, ok := c.scene.CellScreenPosition(c.cells[c.next])
	c.next++
	c.idle = true
	if !ok {
		return utils.InputState{X: c.x, Y: c.y}
	}
	c.x, c.y = x, y
	return utils.InputState{X: x, Y: y, JustPressed: true}
}

// cellsFor 网格中从左上开始的前 n 个格子
func cellsFor(size, n int) []components.GridCell {
	half := size / 2
	cells := make([]components.GridCell, 0, n)
	for k := -half; k < size-half && len(cells) < n; k++ {
		for i := -half; i < size-half && len(cells) < n; i++ {
			cells = append(cells, components.GridCell{I: i, K: k})
		}
	}
	return cells
}

func main() {
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}

	var assets fs.FS
	if *assetsDir != "" {
		assets = os.DirFS(*assetsDir)
	}
	embedded.Init(os.DirFS("."), assets)

	cfg, err := app.LoadConfig(app.Config{Variant: *variant, ConfigPath: *configPath})
	if err != nil {
		fmt.Fprintf(os.Stderr, "配置加载失败: %v\n", err)
		os.Exit(1)
	}

	rm := game.NewResourceManager(embedded.FS(), nil)
	scene := scenes.NewGridScene(rm, cfg)
	defer scene.Close()

	in := &clicker{scene: scene, cells: cellsFor(cfg.Grid.Size, cfg.Capacity)}
	scene.SetInputSource(in.read)

	fmt.Printf("session %s: variant=%s capacity=%d\n", scene.SessionID, cfg.Variant, cfg.Capacity)
	fmt.Printf("%8.3fs  %s\n", 0.0, scene.Mode())

	mode := scene.Mode()
	finalAt := -1.0
	for scene.Clock() < *maxSeconds {
		scene.Update(frame)
		// 加载在后台 goroutine 中进行，按实际时间的四倍速推进
		time.Sleep(time.Second / 240)
		if m := scene.Mode(); m != mode {
			mode = m
			fmt.Printf("%8.3fs  %s\n", scene.Clock(), m)
			if m == types.SceneModeFinal {
				finalAt = scene.Clock()
			}
		}
		if finalAt >= 0 && scene.Clock()-finalAt >= *settle {
			break
		}
	}

	fmt.Println()
	fmt.Println(scene.Report())

	if mode != types.SceneModeFinal {
		fmt.Fprintf(os.Stderr, "未进入终幕（当前 %s，已运行 %.2fs）\n", mode, scene.Clock())
		os.Exit(1)
	}
}
