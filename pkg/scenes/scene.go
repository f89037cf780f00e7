package scenes

import (
	"github.com/decker502/grenadegrid/pkg/game"
)

// Scene is a type alias for game.Scene so callers only need this package.
type Scene = game.Scene

// GridScene 实现场景管理器的全部可选接口
var (
	_ Scene          = (*GridScene)(nil)
	_ game.Resizable = (*GridScene)(nil)
	_ game.Closable  = (*GridScene)(nil)
)
