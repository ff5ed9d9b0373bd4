package section

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/lpdp-faq/internal/core/domain"
	"github.com/custodia-labs/lpdp-faq/internal/core/ports/driven"
)

var _ driven.SectionClassifier = (*RuleTableClassifier)(nil)

// Rule maps a section label to the phrases that identify it.
type Rule struct {
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords"`
}

// RuleTable is the YAML document read by LoadRuleTable.
//
//	window: 500
//	sections:
//	  - label: Dana Hidup Bulanan
//	    keywords: ["dana hidup bulanan", "living allowance"]
type RuleTable struct {
	Window   int    `yaml:"window"`
	Sections []Rule `yaml:"sections"`
}

// RuleTableClassifier matches pages against a configurable rule table.
// Rules are tried in file order and the first rule with any keyword present
// in the page's leading window wins. A rule without keywords matches on its
// label.
type RuleTableClassifier struct {
	table RuleTable
}

// NewRuleTableClassifier validates table and builds a classifier.
func NewRuleTableClassifier(table RuleTable) (*RuleTableClassifier, error) {
	if len(table.Sections) == 0 {
		return nil, fmt.Errorf("%w: rule table has no sections", domain.ErrInvalidInput)
	}
	if table.Window <= 0 {
		table.Window = DefaultWindow
	}

	rules := make([]Rule, 0, len(table.Sections))
	for i, r := range table.Sections {
		label := strings.TrimSpace(r.Label)
		if label == "" {
			return nil, fmt.Errorf("%w: rule %d has no label", domain.ErrInvalidInput, i)
		}
		keywords := make([]string, 0, len(r.Keywords)+1)
		for _, k := range r.Keywords {
			if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
				keywords = append(keywords, k)
			}
		}
		if len(keywords) == 0 {
			keywords = append(keywords, strings.ToLower(label))
		}
		rules = append(rules, Rule{Label: label, Keywords: keywords})
	}
	table.Sections = rules

	return &RuleTableClassifier{table: table}, nil
}

// LoadRuleTable reads a YAML rule table from path.
func LoadRuleTable(path string) (*RuleTableClassifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: section rules %s", domain.ErrNotFound, path)
		}
		return nil, fmt.Errorf("read section rules: %w", err)
	}

	var table RuleTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("%w: parse section rules: %w", domain.ErrInvalidFormat, err)
	}

	return NewRuleTableClassifier(table)
}

// DefaultRuleTable returns the built-in titles as a rule table.
func DefaultRuleTable() RuleTable {
	rules := make([]Rule, len(Titles))
	for i, t := range Titles {
		rules[i] = Rule{Label: t}
	}
	return RuleTable{Window: DefaultWindow, Sections: rules}
}

// Classify returns the label of the first matching rule, or "".
func (c *RuleTableClassifier) Classify(text string) string {
	head := leading(text, c.table.Window)
	for _, r := range c.table.Sections {
		for _, k := range r.Keywords {
			if strings.Contains(head, k) {
				return r.Label
			}
		}
	}
	return ""
}
