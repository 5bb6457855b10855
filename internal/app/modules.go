package app

import (
	"github.com/smarr/graal-jvmci-9/internal/catalog"
	"github.com/smarr/graal-jvmci-9/modules/noopcompiler"
)

// coreModules is the definitive list of provider modules that are compiled
// into the binary.
var coreModules = []catalog.Module{
	&noopcompiler.Module{},
}
