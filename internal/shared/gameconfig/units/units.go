package units

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const unitsFile = "units.json"

// Cost is the resource price of training one unit.
type Cost struct {
	Gold float64 `json:"gold"`
	Food float64 `json:"food"`
	Iron float64 `json:"iron"`
}

// Unit is the static definition of one troop type.
type Unit struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Power     int    `json:"power"`
	Speed     int    `json:"speed"` // grid cells per hour
	Cost      Cost   `json:"cost"`
	TrainSecs int    `json:"train_secs"` // per unit
}

type unitConf struct {
	List  []Unit `json:"list"`
	units map[string]*Unit
}

var UnitConf = &unitConf{}

// Load reads the unit table shipped next to this package.
func Load() {
	UnitConf.load()
}

func (c *unitConf) load() {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		panic("load unit config failed: runtime.Caller(0) error")
	}
	path := filepath.Join(filepath.Dir(file), unitsFile)

	raw, err := os.ReadFile(path)
	if err != nil {
		panic(fmt.Errorf("load unit config failed: %w", err))
	}
	if err := json.Unmarshal(raw, c); err != nil {
		panic(fmt.Errorf("parse unit config failed: %w", err))
	}

	c.units = make(map[string]*Unit, len(c.List))
	for i := range c.List {
		u := &c.List[i]
		c.units[u.Type] = u
	}
}

// Get returns the definition for a troop type.
func (c *unitConf) Get(unitType string) (*Unit, bool) {
	u, ok := c.units[unitType]
	return u, ok
}

// Types returns every configured troop type.
func (c *unitConf) Types() []string {
	out := make([]string, 0, len(c.List))
	for i := range c.List {
		out = append(out, c.List[i].Type)
	}
	return out
}
