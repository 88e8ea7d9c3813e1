package spec

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Backend identifies one MLIP backend living in its own isolated
// environment. Exec points at the worker executable hosted inside that
// environment; it is validated at launch time, not here.
type Backend struct {
	Name  string `yaml:"name"`
	Exec  string `yaml:"exec"`
	Model string `yaml:"model,omitempty"`
}

// Plan is one benchmark run: a structure file and the ordered list of
// backends to evaluate it with. Backend order is report order.
type Plan struct {
	Structure string    `yaml:"structure"`
	Timeout   Duration  `yaml:"timeout"`
	Parallel  int       `yaml:"parallel"`
	Backends  []Backend `yaml:"backends"`
}

// Duration accepts Go duration strings ("90s", "5m") in plan files.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("timeout must be a duration string: %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }
