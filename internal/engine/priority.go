package engine

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// PriorityRule is one entry of the administrative VIP ordering applied to
// recap listings. Rules are matched in order against the display name;
// unmatched persons share the fallback rank after every rule.
type PriorityRule struct {
	Match  string `yaml:"match"`
	Prefix bool   `yaml:"prefix,omitempty"`
}

type priorityFile struct {
	PriorityNames []PriorityRule `yaml:"priority_names"`
}

// LoadPriorityRules reads the ordered rule list from a YAML file. The list
// is deployment configuration, injected at startup rather than compiled in.
func LoadPriorityRules(path string) ([]PriorityRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read priority rules: %w", err)
	}

	var file priorityFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse priority rules: %w", err)
	}

	return file.PriorityNames, nil
}

// priorityRank returns the index of the first matching rule, or len(rules)
// as the shared fallback rank.
func priorityRank(displayName string, rules []PriorityRule) int {
	folded := strings.ToLower(strings.TrimSpace(displayName))
	for i, rule := range rules {
		match := strings.ToLower(strings.TrimSpace(rule.Match))
		if match == "" {
			continue
		}
		if rule.Prefix {
			if strings.HasPrefix(folded, match) {
				return i
			}
		} else if folded == match {
			return i
		}
	}
	return len(rules)
}
