package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hay-kot/criterio"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration
// including file accessibility of the data directory and host channels. The
// configPath argument specifies the config file location to validate (empty
// string skips config file check). This calls Validate() first for basic
// structural validation, then adds I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		c.validateHostFiles(),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.Host.Mode == HostNone {
		if c.Host.Out != "" {
			warnings = append(warnings, ValidationWarning{
				Category: "Host",
				Item:     "host.out",
				Message:  "ignored while host.mode is none",
			})
		}
		if c.Host.In != "" {
			warnings = append(warnings, ValidationWarning{
				Category: "Host",
				Item:     "host.in",
				Message:  "ignored while host.mode is none",
			})
		}
	}

	if c.Host.Mode == HostFile && c.Host.In == "" {
		warnings = append(warnings, ValidationWarning{
			Category: "Host",
			Item:     "host.in",
			Message:  "no inbox configured, SHOW_FACT requests cannot be received",
		})
	}

	return warnings
}

// validateFileAccess checks the config file and data directory.
func (c *Config) validateFileAccess(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// validateHostFiles checks that host channel files can be created.
func (c *Config) validateHostFiles() error {
	if c.Host.Mode != HostFile {
		return nil
	}

	var errs criterio.FieldErrorsBuilder
	if err := isFileOrCreatable(c.Host.Out); err != nil {
		errs = errs.Append("host.out", err)
	}
	if err := isFileOrCreatable(c.Host.In); err != nil {
		errs = errs.Append("host.in", err)
	} else if c.Host.In != "" && filepath.Clean(c.Host.In) == filepath.Clean(c.Host.Out) {
		// the inspector would read back its own notifications
		errs = errs.Append("host.in", fmt.Errorf("must differ from host.out"))
	}
	return errs.ToError()
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

// isFileOrCreatable validates that a path is a regular file, or that its
// parent is a directory (or missing, in which case it will be created).
func isFileOrCreatable(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if err == nil {
		if info.IsDir() {
			return fmt.Errorf("%s is a directory, not a file", path)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("cannot access: %w", err)
	}
	return isDirectoryOrNotExist(filepath.Dir(path))
}
