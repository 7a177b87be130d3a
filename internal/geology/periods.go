package geology

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/beautifulplanet/Civil-Zones-sub001/internal/model"
)

// LoadPeriods reads a climate schedule from a YAML file. Durations are
// centuries; targets are elevation units. Full validation happens when
// the schedule is handed to NewClock.
func LoadPeriods(path string) ([]model.GeologicalPeriod, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "geology: read periods %s", path)
	}

	// The YAML has a top-level "periods" key
	var wrapper struct {
		Periods []model.GeologicalPeriod `yaml:"periods"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "geology: parse periods")
	}
	if len(wrapper.Periods) == 0 {
		return nil, eris.Errorf("geology: no periods defined in %s", path)
	}

	return wrapper.Periods, nil
}
