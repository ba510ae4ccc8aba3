package conf

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/radardiario/radar-bridge/internal/biz/domain"
	"github.com/radardiario/radar-bridge/internal/biz/parser"
)

// ProjectsFile is the YAML layout of the project registry
type ProjectsFile struct {
	Projects []domain.ProjectEntry `yaml:"projects"`
}

// LoadProjects loads registry entries from YAML, falling back to the built-in catalogue
func LoadProjects(configPath string) ([]domain.ProjectEntry, error) {
	// Try multiple paths
	paths := []string{configPath}
	if configPath == "" {
		paths = []string{
			"configs/projects.yaml",
			"/etc/radar-diario/projects.yaml",
		}
		// Add path relative to executable
		if execPath, err := os.Executable(); err == nil {
			paths = append(paths, filepath.Join(filepath.Dir(execPath), "configs", "projects.yaml"))
		}
	}

	var data []byte
	var loadedPath string
	var err error

	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			loadedPath = p
			break
		}
	}

	if data == nil {
		if configPath != "" {
			return nil, fmt.Errorf("failed to read projects file: %w", err)
		}
		fmt.Println("[Config] No projects.yaml found, using built-in projects")
		return parser.DefaultProjects(), nil
	}

	fmt.Printf("[Config] Loading projects from: %s\n", loadedPath)

	var file ProjectsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse projects.yaml: %w", err)
	}
	if len(file.Projects) == 0 {
		return nil, fmt.Errorf("projects.yaml at %s lists no projects", loadedPath)
	}

	return file.Projects, nil
}

// LoadRegistry loads and validates the project registry
func LoadRegistry(configPath string) (*parser.Registry, error) {
	entries, err := LoadProjects(configPath)
	if err != nil {
		return nil, err
	}
	registry, err := parser.NewRegistry(entries)
	if err != nil {
		return nil, fmt.Errorf("invalid project registry: %w", err)
	}
	return registry, nil
}
