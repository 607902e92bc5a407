package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// readInput reads diagram text from a file, or from stdin when path is
// empty or "-".
func readInput(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// writeOutput writes data to a file, or to stdout when path is empty or "-".
// Parent directories are created as needed.
func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// outputPath derives an output file path from the input path and format.
// An explicit output wins; otherwise the input's extension is swapped for
// the format's. Stdin input falls back to "diagram.<format>".
func outputPath(output, input, format string) string {
	if output != "" {
		return output
	}
	if input == "" || input == "-" {
		return "diagram." + format
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
}
