package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/mtt/internal/harness"
	"github.com/roach88/mtt/internal/suite"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
}

// FileValidation holds the validation result for one file.
type FileValidation struct {
	Path  string `json:"path"`
	Kind  string `json:"kind"` // "scenario" or "suite"
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// ValidationResult holds the overall validation result.
type ValidationResult struct {
	Files   []FileValidation `json:"files"`
	Valid   int              `json:"valid"`
	Invalid int              `json:"invalid"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <path>...",
		Short: "Check scenario and suite files without running them",
		Long: `Statically check test definition files. YAML files are parsed as
scenarios with strict field checking; CUE files are compiled as
suites. Directories are walked for both kinds.

Nothing is executed: validation catches typos, out-of-range worker
references and malformed definitions before a run ever starts.

Examples:
  mtt validate scenarios/all-noop.yaml
  mtt validate scenarios/ suites/nightly.cue
  mtt validate scenarios/ --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *ValidateOptions, paths []string, cmd *cobra.Command) error {
	files, err := collectDefinitionFiles(paths)
	if err != nil {
		return err
	}

	result := ValidationResult{Files: make([]FileValidation, 0, len(files))}
	for _, path := range files {
		fv := validateFile(path)
		result.Files = append(result.Files, fv)
		if fv.Valid {
			result.Valid++
		} else {
			result.Invalid++
		}
	}

	if opts.Format == "json" {
		resp := CLIResponse{Status: "ok", Data: result}
		if result.Invalid > 0 {
			resp.Status = "error"
			resp.Error = &CLIError{
				Code:    "E_VALIDATION_FAILED",
				Message: fmt.Sprintf("%d file(s) invalid", result.Invalid),
			}
		}
		if err := writeJSON(cmd.OutOrStdout(), resp); err != nil {
			return err
		}
	} else {
		w := cmd.OutOrStdout()
		for _, fv := range result.Files {
			if fv.Valid {
				fmt.Fprintf(w, "✓ %s (%s)\n", fv.Path, fv.Kind)
			} else {
				fmt.Fprintf(w, "✗ %s (%s)\n", fv.Path, fv.Kind)
				fmt.Fprintf(w, "  %s\n", fv.Error)
			}
		}
	}

	if result.Invalid > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d file(s) invalid", result.Invalid))
	}
	return nil
}

// collectDefinitionFiles expands the argument list into scenario and
// suite files. Directories are walked; unknown extensions under an
// explicit file argument are an error, unknown extensions inside a
// directory are skipped.
func collectDefinitionFiles(paths []string) ([]string, error) {
	var files []string

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, NewExitError(ExitCommandError, fmt.Sprintf("path not found: %s", p))
		}

		if !info.IsDir() {
			if kindForPath(p) == "" {
				return nil, NewExitError(ExitCommandError,
					fmt.Sprintf("unsupported file type: %s (want .yaml, .yml or .cue)", p))
			}
			files = append(files, p)
			continue
		}

		err = filepath.Walk(p, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				if info.Name() == "golden" {
					return filepath.SkipDir
				}
				return nil
			}
			if kindForPath(path) != "" {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to walk directory", err)
		}
	}

	if len(files) == 0 {
		return nil, NewExitError(ExitCommandError, "no scenario or suite files found")
	}
	return files, nil
}

// kindForPath classifies a definition file by extension.
func kindForPath(path string) string {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return "scenario"
	case ".cue":
		return "suite"
	default:
		return ""
	}
}

// validateFile checks one definition file.
func validateFile(path string) FileValidation {
	fv := FileValidation{Path: path, Kind: kindForPath(path)}

	var err error
	switch fv.Kind {
	case "scenario":
		_, err = harness.LoadScenario(path)
	case "suite":
		_, err = suite.Load(path)
	}

	if err != nil {
		fv.Error = err.Error()
		return fv
	}
	fv.Valid = true
	return fv
}
