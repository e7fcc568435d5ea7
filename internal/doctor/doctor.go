package doctor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/axonlabs/axonctl/internal/config"
)

// RuntimeStatus represents the status of a runtime check
type RuntimeStatus struct {
	Name      string
	Installed bool
	Version   string
	Path      string
}

// FileStatus represents the presence of a required project file
type FileStatus struct {
	Label   string
	Path    string
	Present bool
}

// Diagnosis contains the full preflight check results. Missing lists the
// prerequisites the caller has to treat as fatal; Advisories are worth a
// warning but do not block startup on their own.
type Diagnosis struct {
	ProjectPath string
	Python      RuntimeStatus
	Npm         RuntimeStatus
	Files       []FileStatus
	Missing     []string
	Advisories  []string
}

// Healthy reports whether every hard prerequisite was found.
func (d Diagnosis) Healthy() bool {
	return len(d.Missing) == 0
}

// Err converts a failed diagnosis into a prerequisite error listing
// everything that was missing, or nil when the diagnosis is healthy.
func (d Diagnosis) Err() error {
	if d.Healthy() {
		return nil
	}
	return fmt.Errorf("%w: %s", config.ErrPrerequisiteMissing, strings.Join(d.Missing, "; "))
}

// Diagnose checks the runtimes and project files the requested services
// need. It never mutates anything; the caller decides fatal vs warn.
func Diagnose(cfg config.RunConfig) Diagnosis {
	d := Diagnosis{ProjectPath: cfg.WorkDir}

	d.Python = checkRuntime("python3")
	d.Npm = checkRuntime("npm")

	if !cfg.FrontendOnly {
		if !d.Python.Installed {
			d.Missing = append(d.Missing, "python3 not found on PATH (required to run the engine)")
		}
		entry := filepath.Join(cfg.EnginePath(), "main.py")
		present := fileExists(entry)
		d.Files = append(d.Files, FileStatus{Label: "backend entry point", Path: entry, Present: present})
		if present {
			reqs := filepath.Join(cfg.EnginePath(), "requirements.txt")
			if !fileExists(reqs) {
				d.Advisories = append(d.Advisories, "engine/requirements.txt not found; skipping dependency checks for the engine")
			}
		} else {
			d.Missing = append(d.Missing, fmt.Sprintf("backend entry point %s not found", entry))
		}
	}

	if !cfg.BackendOnly {
		diagnoseFrontend(cfg, &d)
	}

	return d
}

// diagnoseFrontend checks that at least one frontend entry point exists and
// that the tooling for the selected variant is available.
func diagnoseFrontend(cfg config.RunConfig, d *Diagnosis) {
	manifest := filepath.Join(cfg.DashboardPath(), "package.json")
	static := filepath.Join(cfg.DashboardPath(), "index.html")
	manifestPresent := fileExists(manifest)
	staticPresent := fileExists(static)

	d.Files = append(d.Files,
		FileStatus{Label: "dashboard package manifest", Path: manifest, Present: manifestPresent},
		FileStatus{Label: "dashboard static entry", Path: static, Present: staticPresent},
	)

	switch cfg.Variant {
	case config.VariantSvelte:
		// A forced variant is validated at launch; only report here.
		if !manifestPresent {
			d.Advisories = append(d.Advisories, fmt.Sprintf("svelte frontend forced but %s not found; launch will fail", manifest))
		}
		if !d.Npm.Installed {
			d.Missing = append(d.Missing, "npm not found on PATH (required for the svelte frontend)")
		}
	case config.VariantHTML:
		if !staticPresent {
			d.Advisories = append(d.Advisories, fmt.Sprintf("html frontend forced but %s not found; launch will fail", static))
		}
		if !d.Python.Installed {
			d.Missing = append(d.Missing, "python3 not found on PATH (required to serve the static frontend)")
		}
	default:
		if !manifestPresent && !staticPresent {
			d.Missing = append(d.Missing, fmt.Sprintf("no usable frontend: neither %s nor %s exists", manifest, static))
		}
	}

	if manifestPresent && d.Npm.Installed {
		nodeModules := filepath.Join(cfg.DashboardPath(), "node_modules")
		if !fileExists(nodeModules) {
			d.Advisories = append(d.Advisories, "dashboard/node_modules is missing; run 'axonctl start --setup' to install dependencies")
		}
	}
}

// checkRuntime looks up an executable on PATH and grabs its version string.
func checkRuntime(name string) RuntimeStatus {
	status := RuntimeStatus{Name: name}

	path, err := exec.LookPath(name)
	if err != nil {
		return status
	}
	status.Installed = true
	status.Path = path

	out, err := exec.Command(name, "--version").Output()
	if err == nil {
		status.Version = strings.TrimSpace(string(out))
	}

	return status
}

// fileExists checks if a file or directory exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
