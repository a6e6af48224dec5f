package state

import (
	"encoding/json" // For JSON encoding and decoding of receipt files
	"errors"
	"fmt"
	"os" // For file system operations like reading and writing files
	"path/filepath"
	"time"

	"orbiter/internal/config"
	"orbiter/internal/logger" // Custom logger package for logging errors and debug info
)

// ReceiptFile is the name of the receipt inside a payload's config dir.
const ReceiptFile = "receipt.json"

// Receipt records what the last successful install of a payload produced. It is written
// for `orbiter list` and never consulted when deciding whether to install.
type Receipt struct {
	ID          string           `json:"id"`                    // Payload id
	Resource    *config.Resource `json:"resource,omitempty"`    // Resource resolved for this platform, nil when none applied
	AssetPath   string           `json:"asset_path,omitempty"`  // Downloaded file, empty for clones
	EntryPoint  string           `json:"entry_point,omitempty"` // Shim or symlink path, empty without exec
	InstalledAt time.Time        `json:"installed_at"`          // Completion time of the install
}

// LoadReceipt reads the receipt stored in configDir. A missing receipt is reported with
// ok == false and no error.
func LoadReceipt(configDir string) (Receipt, bool, error) {
	// Read entire receipt JSON file into memory
	file, err := os.ReadFile(filepath.Join(configDir, ReceiptFile))
	if errors.Is(err, os.ErrNotExist) {
		return Receipt{}, false, nil
	}
	if err != nil {
		return Receipt{}, false, err
	}

	var r Receipt
	if err := json.Unmarshal(file, &r); err != nil {
		return Receipt{}, false, fmt.Errorf("corrupt receipt in %s: %w", configDir, err)
	}
	return r, true, nil
}

// SaveReceipt writes r into configDir, pretty-printed for readability.
func SaveReceipt(configDir string, r Receipt) error {
	// Marshal the Receipt struct into indented JSON bytes
	file, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}

	path := filepath.Join(configDir, ReceiptFile)
	logger.Debug("[DEBUG] Writing receipt to %s:\n%s\n", path, string(file))

	// Write the JSON bytes to the file with mode 0644 (read/write owner, read others)
	if err := os.WriteFile(path, file, 0o644); err != nil {
		return fmt.Errorf("failed to write receipt %s: %w", path, err)
	}
	return nil
}
