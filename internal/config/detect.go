package config

import (
	"os/exec"
	"sort"
)

// DetectedClient is a known client whose executable was found on PATH.
type DetectedClient struct {
	Name string
	Path string
}

// DetectClients scans PATH for the executables behind the known clients.
func DetectClients() []DetectedClient {
	return detectClients(exec.LookPath)
}

func detectClients(lookPath func(string) (string, error)) []DetectedClient {
	detected := make([]DetectedClient, 0, len(knownClients))
	for name := range knownClients {
		path, err := lookPath(name)
		if err != nil {
			continue
		}
		detected = append(detected, DetectedClient{Name: name, Path: path})
	}
	sort.Slice(detected, func(i, j int) bool {
		return detected[i].Name < detected[j].Name
	})
	return detected
}
