package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/decker502/grenadegrid/pkg/app"
	"github.com/decker502/grenadegrid/pkg/config"
	"github.com/decker502/grenadegrid/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	verbose := flag.Bool("verbose", false, "启用详细日志输出")
	variant := flag.String("variant", "", "终幕类型（explosion / video），覆盖配置文件")
	configPath := flag.String("config", "", "场景配置路径，data/ 开头的路径读取嵌入资源，其余读取 -assets 目录")
	assetsDir := flag.String("assets", "", "外部资源目录（视频帧、音频）")
	flag.Parse()

	var assets fs.FS
	if *assetsDir != "" {
		if info, err := os.Stat(*assetsDir); err != nil || !info.IsDir() {
			fmt.Fprintf(os.Stderr, "资源目录不可用: %s\n", *assetsDir)
			os.Exit(2)
		}
		assets = os.DirFS(*assetsDir)
	}
	embedded.Init(dataFS, assets)

	gameApp, err := app.NewApp(app.Config{
		Verbose:    *verbose,
		Variant:    *variant,
		ConfigPath: *configPath,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化失败: %v\n", err)
		os.Exit(1)
	}

	ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
	ebiten.SetWindowTitle(config.WindowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(gameApp); err != nil && !errors.Is(err, app.ErrQuit) {
		log.Fatal(err)
	}
	gameApp.GetSceneManager().Close()
}
