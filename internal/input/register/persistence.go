package register

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// persistedRegister is the JSON-serializable form of one register.
type persistedRegister struct {
	Register string   `json:"register"`
	Values   []string `json:"values"`
}

// persistedData is the root structure for register persistence.
type persistedData struct {
	Version   int                 `json:"version"`
	SavedAt   time.Time           `json:"saved_at"`
	Registers []persistedRegister `json:"registers"`
}

const currentVersion = 1

// Save writes all registers to the given path.
// The file is written atomically using a temporary file and rename.
func Save(store *Store, path string) error {
	regs := store.snapshot()

	data := persistedData{
		Version:   currentVersion,
		SavedAt:   time.Now(),
		Registers: make([]persistedRegister, 0, len(regs)),
	}
	for reg, values := range regs {
		data.Registers = append(data.Registers, persistedRegister{
			Register: string(reg),
			Values:   values,
		})
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling registers: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating register directory: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, jsonData, 0o644); err != nil {
		return fmt.Errorf("writing registers: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("renaming register file: %w", err)
	}
	return nil
}

// Load reads registers from the given path into the store, replacing its
// contents. A missing file is not an error.
func Load(store *Store, path string) error {
	jsonData, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading register file: %w", err)
	}

	var data persistedData
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return fmt.Errorf("unmarshaling registers: %w", err)
	}
	if data.Version > currentVersion {
		return fmt.Errorf("unsupported register file version: %d (max supported: %d)",
			data.Version, currentVersion)
	}

	regs := make(map[rune][]string, len(data.Registers))
	for _, pr := range data.Registers {
		runes := []rune(pr.Register)
		if len(runes) != 1 {
			continue
		}
		regs[runes[0]] = pr.Values
	}
	store.restore(regs)
	return nil
}

// DefaultPath returns the default location for the register file.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config directory: %w", err)
	}
	return filepath.Join(configDir, "modality", "registers.json"), nil
}
