package app

import (
	"io"

	"github.com/vk/scriptassoc/internal/engine"
	"github.com/vk/scriptassoc/modules/hclscript"
	"github.com/vk/scriptassoc/modules/shell"
)

// coreModules is the definitive list of engine modules compiled into the
// binary. Script output goes to outW.
func coreModules(outW io.Writer) []engine.Module {
	return []engine.Module{
		&hclscript.Module{Output: outW},
		&shell.Module{Output: outW},
	}
}
