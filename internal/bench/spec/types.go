package spec

import "time"

type BenchSpec struct {
	Configurations []Configuration `yaml:"configurations"`
	Suites         []Suite         `yaml:"suites"`
	Runs           RunsConfig      `yaml:"runs"`
	Stats          StatsConfig     `yaml:"stats"`
	Output         OutputConfig    `yaml:"output"`
	Sink           *SinkConfig     `yaml:"sink,omitempty"`

	// BaseDir is the directory relative configuration and output paths resolve against.
	BaseDir string `yaml:"-"`
}

// Configuration is one build of the target executable plus the environment it needs.
type Configuration struct {
	Name       string            `yaml:"name"`
	Dir        string            `yaml:"dir"`
	Executable string            `yaml:"executable"`
	Flags      []string          `yaml:"flags"`
	Env        map[string]string `yaml:"env,omitempty"`
}

type Suite struct {
	Name       string   `yaml:"name"`
	Benchmarks []string `yaml:"benchmarks"`
}

type RunsConfig struct {
	Iterations int           `yaml:"iterations"`
	Timeout    time.Duration `yaml:"timeout"`
}

type StatsConfig struct {
	Z                   float64 `yaml:"z"`
	LegacyWallCentering bool    `yaml:"legacy_wall_centering"`
}

type OutputConfig struct {
	Dir string `yaml:"dir"`
	// JSON additionally writes a <config>_<suite>.json document per report.
	JSON bool `yaml:"json"`
}

type SinkConfig struct {
	Type       string `yaml:"type"`
	Connection string `yaml:"connection,omitempty"`
	Index      string `yaml:"index,omitempty"`
	Username   string `yaml:"username,omitempty"`
	Password   string `yaml:"password,omitempty"`
	// MaxConns caps the PostgreSQL pool. Zero keeps the driver default.
	MaxConns int32 `yaml:"max_conns,omitempty"`
}

// Suite returns the suite with the given name.
func (s *BenchSpec) Suite(name string) (Suite, bool) {
	for _, st := range s.Suites {
		if st.Name == name {
			return st, true
		}
	}
	return Suite{}, false
}
