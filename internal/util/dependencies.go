package util

import (
	"fmt"
	"os/exec"
)

type Dependency struct {
	Name     string
	Path     string
	Required bool
	Found    bool
}

// CheckDependencies looks up each external program on PATH and prints one
// line per program. It returns false if a required one is missing.
func CheckDependencies(converterBin string) ([]Dependency, bool) {
	deps := []Dependency{
		{Name: converterBin, Required: true},
	}

	ok := true
	for i := range deps {
		path, err := exec.LookPath(deps[i].Name)
		if err != nil {
			if deps[i].Required {
				fmt.Printf("✗ %s not found (REQUIRED)\n", deps[i].Name)
				ok = false
			} else {
				fmt.Printf("- %s not found (optional)\n", deps[i].Name)
			}
			continue
		}
		deps[i].Path = path
		deps[i].Found = true
		fmt.Printf("✓ %s found: %s\n", deps[i].Name, path)
	}
	return deps, ok
}
