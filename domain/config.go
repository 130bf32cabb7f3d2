package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RuleSetting is the per-rule configuration value. In JSON it is one of
// false, true, "<severity>", or {"severity"?, "max"?, "props"?}.
type RuleSetting struct {
	Disabled bool
	Severity Severity
	Max      *int
	Props    *bool
}

type ruleSettingObject struct {
	Severity Severity `json:"severity,omitempty"`
	Max      *int     `json:"max,omitempty"`
	Props    *bool    `json:"props,omitempty"`
}

// UnmarshalJSON decodes the boolean, string, and object forms
func (r *RuleSetting) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*r = RuleSetting{}

	switch {
	case bytes.Equal(data, []byte("null")), bytes.Equal(data, []byte("true")):
		return nil
	case bytes.Equal(data, []byte("false")):
		r.Disabled = true
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		sev, err := ParseSeverity(s)
		if err != nil {
			return err
		}
		r.Severity = sev
		return nil
	case len(data) > 0 && data[0] == '{':
		var obj ruleSettingObject
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		if obj.Severity != "" {
			if _, err := ParseSeverity(string(obj.Severity)); err != nil {
				return err
			}
		}
		r.Severity = obj.Severity
		r.Max = obj.Max
		r.Props = obj.Props
		return nil
	default:
		return fmt.Errorf("invalid rule setting %s", string(data))
	}
}

// MarshalJSON writes the most compact form that round-trips
func (r RuleSetting) MarshalJSON() ([]byte, error) {
	if r.Disabled {
		return []byte("false"), nil
	}
	if r.Max == nil && r.Props == nil {
		if r.Severity == "" {
			return []byte("true"), nil
		}
		return json.Marshal(string(r.Severity))
	}
	return json.Marshal(ruleSettingObject{Severity: r.Severity, Max: r.Max, Props: r.Props})
}

// Config is the contents of a .codopsyrc.json file
type Config struct {
	Plugins []string               `json:"plugins,omitempty"`
	Rules   map[string]RuleSetting `json:"rules,omitempty"`
}

// Rule returns the setting for a rule id and whether one was configured
func (c *Config) Rule(id string) (RuleSetting, bool) {
	if c == nil || c.Rules == nil {
		return RuleSetting{}, false
	}
	s, ok := c.Rules[id]
	return s, ok
}

// IsDisabled reports whether the rule is configured as false
func (c *Config) IsDisabled(id string) bool {
	s, ok := c.Rule(id)
	return ok && s.Disabled
}

// SeverityFor returns the configured severity or the fallback
func (c *Config) SeverityFor(id string, fallback Severity) Severity {
	if s, ok := c.Rule(id); ok && s.Severity != "" {
		return s.Severity
	}
	return fallback
}

// MaxFor returns the configured threshold or the fallback
func (c *Config) MaxFor(id string, fallback int) int {
	if s, ok := c.Rule(id); ok && s.Max != nil {
		return *s.Max
	}
	return fallback
}
