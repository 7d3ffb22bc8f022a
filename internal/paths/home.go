package paths

import (
	"os"
	"path/filepath"
)

const envHome = "CASETRAIL_HOME_DIR"

// Home returns the base directory for casetrail configuration/state.
// Defaults to ~/.baldrick-casetrail, can be overridden via CASETRAIL_HOME_DIR.
func Home() string {
	if v := os.Getenv(envHome); v != "" {
		return v
	}
	hd, err := os.UserHomeDir()
	if err != nil || hd == "" {
		return ".baldrick-casetrail"
	}
	return filepath.Join(hd, ".baldrick-casetrail")
}

func EnsureHome() (string, error) {
	h := Home()
	if err := os.MkdirAll(h, 0o755); err != nil {
		return "", err
	}
	return h, nil
}
