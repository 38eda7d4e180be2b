package structures

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
)

const structuresFile = "structures.json"

// upgradeCostGrowth scales the base cost per completed level.
const upgradeCostGrowth = 1.2

// Cost is the resource price of one build/upgrade at base level.
type Cost struct {
	Gold  float64 `json:"gold"`
	Wood  float64 `json:"wood"`
	Stone float64 `json:"stone"`
}

// Structure is the static definition of one building type.
type Structure struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	BaseCost  Cost   `json:"base_cost"`
	BuildSecs int    `json:"build_secs"` // per level
}

type structureConf struct {
	List       []Structure `json:"list"`
	structures map[string]*Structure
}

var StructureConf = &structureConf{}

func Load() {
	StructureConf.load()
}

func (c *structureConf) load() {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		panic("load structure config failed: runtime.Caller(0) error")
	}
	path := filepath.Join(filepath.Dir(file), structuresFile)

	raw, err := os.ReadFile(path)
	if err != nil {
		panic(fmt.Errorf("load structure config failed: %w", err))
	}
	if err := json.Unmarshal(raw, c); err != nil {
		panic(fmt.Errorf("parse structure config failed: %w", err))
	}

	c.structures = make(map[string]*Structure, len(c.List))
	for i := range c.List {
		s := &c.List[i]
		c.structures[s.Type] = s
	}
}

func (c *structureConf) Get(structureType string) (*Structure, bool) {
	s, ok := c.structures[structureType]
	return s, ok
}

// UpgradeCost returns the price of upgrading from currentLevel: the base
// cost grown by 1.2 per completed level.
func UpgradeCost(base Cost, currentLevel int) Cost {
	if currentLevel < 1 {
		currentLevel = 1
	}
	factor := math.Pow(upgradeCostGrowth, float64(currentLevel-1))
	return Cost{
		Gold:  math.Ceil(base.Gold * factor),
		Wood:  math.Ceil(base.Wood * factor),
		Stone: math.Ceil(base.Stone * factor),
	}
}
