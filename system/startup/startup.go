package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var executable = os.Executable

// ServiceUnit renders the systemd unit that starts the panel at boot.
func ServiceUnit(binary, configFile string) string {
	workdir := filepath.Dir(binary)

	args := []string{binary}
	if configFile != "" {
		abs, err := filepath.Abs(configFile)
		if err == nil {
			configFile = abs
		}
		args = append(args, "-config-file", configFile)
	}

	return fmt.Sprintf(`[Unit]
Description=Printer touch panel
After=network-online.target
Wants=network-online.target

[Service]
Type=simple
WorkingDirectory=%s
Environment=PATH=/usr/local/bin:/usr/bin:/bin
ExecStart=%s
Restart=on-failure
RestartSec=5s

[Install]
WantedBy=multi-user.target
`, workdir, strings.Join(args, " "))
}

// InstallService writes the unit for the running binary to servicePath.
func InstallService(servicePath, configFile string) error {
	binary, err := executable()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}
	unit := ServiceUnit(binary, configFile)
	if err := os.WriteFile(servicePath, []byte(unit), 0644); err != nil {
		return fmt.Errorf("write service unit: %w", err)
	}
	return nil
}
