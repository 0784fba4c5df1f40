package shutdown

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/rs/zerolog/log"
)

var (
	execCommand = exec.Command
	goos        = runtime.GOOS
)

// Shutdown powers the host off. Off Linux it only logs.
func Shutdown() error {
	if goos != "linux" {
		log.Info().Str("os", goos).Msg("Host shutdown requested, not supported on this platform")
		return nil
	}

	log.Warn().Msg("Shutting down host")
	out, err := execCommand("shutdown", "-h", "0").CombinedOutput()
	if err != nil {
		return fmt.Errorf("shutdown failed: %s (output: %s)", err, string(out))
	}
	return nil
}
