package core

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is a typed settings store, generalized from the grammar/
// compiler settings the teacher's Config keyed by path string, now
// priming the interpreter's boot-time knobs: GC ballast threshold,
// torture mode, step/recursion limits (spec.md §4.2 "Ballast and
// disable").
type Config map[string]*cfgVal

// NewConfig primes every default the interpreter needs to boot.
func NewConfig() *Config {
	m := make(Config)
	m.SetBool("gc.torture", false)
	m.SetBool("gc.disabled", false)
	m.SetInt("gc.ballast_bytes", 4*1024*1024)
	m.SetInt("trampoline.step_limit", 0) // 0 = unlimited
	m.SetInt("trampoline.recursion_limit", 100000)
	m.SetString("boot.script", "")
	return &m
}

// LoadYAML overlays file's keys onto the config. Values keep the type
// they already have in the default set (bool/int/string); unknown keys
// are rejected rather than silently admitted, since a typo in a boot
// file should fail loudly rather than be ignored.
func (c *Config) LoadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	for key, v := range raw {
		existing, ok := (*c)[key]
		if !ok {
			return fmt.Errorf("unknown config key %q in %s", key, path)
		}
		switch existing.typ {
		case cfgValType_Bool:
			b, ok := v.(bool)
			if !ok {
				return fmt.Errorf("config key %q expects a bool", key)
			}
			c.SetBool(key, b)
		case cfgValType_Int:
			i, ok := v.(int)
			if !ok {
				return fmt.Errorf("config key %q expects an int", key)
			}
			c.SetInt(key, i)
		case cfgValType_String:
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("config key %q expects a string", key)
			}
			c.SetString(key, s)
		}
	}
	return nil
}

type cfgValType int

const (
	cfgValType_Undefined cfgValType = iota
	cfgValType_Bool
	cfgValType_Int
	cfgValType_String
)

func (vt cfgValType) String() string {
	return map[cfgValType]string{
		cfgValType_Undefined: "undefined",
		cfgValType_Bool:      "bool",
		cfgValType_Int:       "int",
		cfgValType_String:    "string",
	}[vt]
}

type cfgVal struct {
	typ      cfgValType
	asBool   bool
	asInt    int
	asString string
}

func (v *cfgVal) assignType(vt cfgValType) {
	if v.typ != vt && v.typ != cfgValType_Undefined {
		panic(fmt.Sprintf("Can't assign `%s` to type `%s`", vt, v.typ))
	}
	v.typ = vt
}

func (v *cfgVal) checkType(vt cfgValType) {
	if v.typ != vt {
		panic(fmt.Sprintf("Can't retrieve `%s` from `%s` variable", vt, v.typ))
	}
}

func (c *Config) SetBool(path string, v bool) {
	(*c)[path] = &cfgVal{}
	(*c)[path].assignType(cfgValType_Bool)
	(*c)[path].asBool = v
}

func (c *Config) SetInt(path string, v int) {
	(*c)[path] = &cfgVal{}
	(*c)[path].assignType(cfgValType_Int)
	(*c)[path].asInt = v
}

func (c *Config) SetString(path string, v string) {
	(*c)[path] = &cfgVal{}
	(*c)[path].assignType(cfgValType_String)
	(*c)[path].asString = v
}

func (c *Config) GetBool(path string) bool {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_Bool)
		return val.asBool
	}
	panic(fmt.Sprintf("Bool setting `%s` does not exist", path))
}

func (c *Config) GetInt(path string) int {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_Int)
		return val.asInt
	}
	panic(fmt.Sprintf("Int setting `%s` does not exist", path))
}

func (c *Config) GetString(path string) string {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_String)
		return val.asString
	}
	panic(fmt.Sprintf("String setting `%s` does not exist", path))
}
