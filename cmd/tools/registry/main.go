// cmd/tools/registry/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"jobtrack/pkg/registry"
)

func main() {
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	listCmd := flag.NewFlagSet("list", flag.ExitOnError)
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)

	validatePath := validateCmd.String("path", "", "Path to registry file (built-in catalog when empty)")
	listPath := listCmd.String("path", "", "Path to registry file (built-in catalog when empty)")
	exportPath := exportCmd.String("out", "configs/activity-registry.json", "Where to write the built-in catalog")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "validate":
		validateCmd.Parse(os.Args[2:])
		reg, err := load(*validatePath)
		if err == nil {
			err = reg.Validate()
		}
		if err != nil {
			fmt.Printf("Error validating registry: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Registry validation passed. Found %d activities.\n", len(reg.Activities))
	case "list":
		listCmd.Parse(os.Args[2:])
		reg, err := load(*listPath)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		for _, a := range reg.Activities {
			fmt.Printf("%-28s %-12s %-6s %s\n", a.TaskType, a.Category, a.Timeout, a.ImplementationStatus)
			fmt.Printf("    %s\n", a.Description)
			if len(a.ErrorCodes) > 0 {
				fmt.Printf("    errors: %s\n", strings.Join(a.ErrorCodes, ", "))
			}
		}
	case "export":
		exportCmd.Parse(os.Args[2:])
		reg, err := registry.Default()
		if err == nil {
			err = saveRegistry(reg, *exportPath)
		}
		if err != nil {
			fmt.Printf("Error exporting registry: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Registry written to %s\n", *exportPath)
	case "help":
		help()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		help()
		os.Exit(1)
	}
}

func load(path string) (*registry.ActivityRegistry, error) {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}
	return reg, nil
}

func saveRegistry(reg *registry.ActivityRegistry, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

func help() {
	fmt.Println(`
Usage: registry <command> [flags]

Commands:
  validate Validate a registry file
  list     Print task types with their category, timeout, status and error codes
  export   Write the built-in catalog to a file for editing
  help     Show this help message

Examples:
  registry validate -path configs/activity-registry.json
  registry export -out configs/activity-registry.json`)
}
