package fsops

import (
	"fmt"
	"sync"

	"github.com/kelseyhightower/envconfig"

	"github.com/petasbytes/dungeon-tools/internal/config"
	"github.com/petasbytes/dungeon-tools/internal/safety"
)

var (
	sandboxOnce    sync.Once
	defaultSandbox *safety.Sandbox
	initSandboxErr error
)

func initSandbox() {
	var sc config.SandboxConfig
	if err := envconfig.Process(config.Prefix, &sc); err != nil {
		initSandboxErr = fmt.Errorf("sandbox config: %w", err)
		return
	}
	defaultSandbox, initSandboxErr = safety.NewSandbox(sc.ReadRoot, nil)
}

// getSandbox returns the process-wide sandbox rooted at AGT_READ_ROOT (or the
// working directory), initialising it once on first use.
func getSandbox() (*safety.Sandbox, error) {
	sandboxOnce.Do(initSandbox)
	return defaultSandbox, initSandboxErr
}
