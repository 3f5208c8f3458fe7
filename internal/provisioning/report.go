package provisioning

import (
	"fmt"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Report summarizes one setup run.
type Report struct {
	Host     string       `yaml:"host"`
	Hostname string       `yaml:"hostname"`
	Started  time.Time    `yaml:"started"`
	Finished time.Time    `yaml:"finished"`
	Success  bool         `yaml:"success"`
	Error    string       `yaml:"error,omitempty"`
	Tasks    []TaskResult `yaml:"tasks"`
}

// NewReport builds a report from the orchestrator's last run.
func (o *Orchestrator) NewReport(started, finished time.Time, runErr error) *Report {
	r := &Report{
		Host:     o.config.Host,
		Hostname: o.config.ServerHostname,
		Started:  started,
		Finished: finished,
		Success:  runErr == nil,
		Tasks:    o.Results(),
	}
	if runErr != nil {
		r.Error = runErr.Error()
	}
	return r
}

// WriteReport writes r as YAML to path.
func WriteReport(fs afero.Fs, path string, r *Report) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}
