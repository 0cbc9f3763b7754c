// Package treasure describes the result of item placement: which object
// holds which kind of treasure container.
package treasure

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind is the container a treasure is found in.
type Kind int

// Container kinds.
const (
	Chest Kind = iota
	Box
	NPC
	Battlefield
)

var kindNames = []string{"chest", "box", "npc", "battlefield"}

// String returns the lowercase kind name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("unknown(%d)", int(k))
	}
	return kindNames[k]
}

// ChestLike reports whether the treasure sits in a map object container.
func (k Kind) ChestLike() bool {
	return k == Chest || k == Box
}

// ParseKind parses a kind name, ignoring case.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if strings.EqualFold(s, name) {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown treasure kind %q", s)
}

// MarshalYAML implements yaml.Marshaler.
func (k Kind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (k *Kind) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseKind(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*k = parsed
	return nil
}

// Location is one placed treasure.
type Location struct {
	ObjectID byte `yaml:"object_id"`
	Kind     Kind `yaml:"kind"`
}

// Placement is the full item placement result.
type Placement struct {
	Locations []Location `yaml:"locations"`
}

// Parse reads a Placement from YAML.
func Parse(data []byte) (*Placement, error) {
	var p Placement
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// LoadFile reads a Placement from a YAML file.
func LoadFile(path string) (*Placement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading treasure placement: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing treasure placement %s: %w", path, err)
	}
	return p, nil
}
