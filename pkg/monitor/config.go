package monitor

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/raykavin/tutor/pkg/core"
)

// FieldType is the kind of value a live config field holds
type FieldType string

const (
	FieldBoolean FieldType = "boolean"
	FieldRange   FieldType = "range"
	FieldString  FieldType = "string"
	FieldOption  FieldType = "option"
)

// backupField asks UpdateConfig to take a backup after applying the values
const backupField = "backup"

// ConfigField describes one hyperparameter the dashboard can change while training
type ConfigField struct {
	Name string    `json:"name" mapstructure:"name"`
	Type FieldType `json:"type" mapstructure:"type"`
	// Min, Max and Step bound a range field, inclusive
	Min  float64 `json:"min,omitempty" mapstructure:"min"`
	Max  float64 `json:"max,omitempty" mapstructure:"max"`
	Step float64 `json:"step,omitempty" mapstructure:"step"`
	// Options lists the choices offered for an option field, the first is the
	// default. Submitted values are stored as sent.
	Options []string `json:"options,omitempty" mapstructure:"options"`
}

func (f ConfigField) defaultValue() (any, error) {
	switch f.Type {
	case FieldBoolean:
		return false, nil
	case FieldRange:
		return f.Min, nil
	case FieldString:
		return "", nil
	case FieldOption:
		if len(f.Options) == 0 {
			return "", nil
		}
		return f.Options[0], nil
	default:
		return nil, fmt.Errorf("%w: %s has type %q", core.ErrInvalidFieldType, f.Name, f.Type)
	}
}

func (f ConfigField) parse(raw string) (any, error) {
	switch f.Type {
	case FieldBoolean:
		return strings.EqualFold(strings.TrimSpace(raw), "true"), nil
	case FieldRange:
		value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", core.ErrInvalidValue, f.Name, err)
		}
		return value, nil
	default:
		return raw, nil
	}
}

// MakeConfig sets the live config template and resets every field to its default
func (m *Monitor) MakeConfig(fields []ConfigField) error {
	config := make(map[string]any, len(fields))
	for _, field := range fields {
		value, err := field.defaultValue()
		if err != nil {
			return err
		}
		config[field.Name] = value
	}

	m.Lock()
	defer m.Unlock()

	m.template = slices.Clone(fields)
	m.config = config
	return nil
}

// UpdateConfig applies new values for every template field. Nothing is
// changed when a field is missing or does not parse. When values["backup"]
// is "true" a backup is taken once the config is applied.
func (m *Monitor) UpdateConfig(ctx context.Context, values map[string]string) error {
	m.Lock()
	config := make(map[string]any, len(m.template))
	for _, field := range m.template {
		raw, ok := values[field.Name]
		if !ok {
			m.Unlock()
			return fmt.Errorf("%w: %s", core.ErrMissingField, field.Name)
		}

		value, err := field.parse(raw)
		if err != nil {
			m.Unlock()
			return err
		}
		config[field.Name] = value
	}

	m.config = config
	m.pendingConfig = true
	m.Unlock()

	if strings.EqualFold(values[backupField], "true") {
		if _, err := m.Backup(ctx); err != nil {
			return fmt.Errorf("config applied but backup failed: %w", err)
		}
	}

	return nil
}

// CheckConfig returns the config once after each update. The training loop
// polls it and applies the values to its model.
func (m *Monitor) CheckConfig() (map[string]any, bool) {
	m.Lock()
	defer m.Unlock()

	if !m.pendingConfig {
		return nil, false
	}

	m.pendingConfig = false
	return cloneConfig(m.config), true
}

// Config returns the current config values
func (m *Monitor) Config() map[string]any {
	m.RLock()
	defer m.RUnlock()
	return cloneConfig(m.config)
}

// Template returns the config template
func (m *Monitor) Template() []ConfigField {
	m.RLock()
	defer m.RUnlock()
	return slices.Clone(m.template)
}

func cloneConfig(config map[string]any) map[string]any {
	out := make(map[string]any, len(config))
	for key, value := range config {
		out[key] = value
	}
	return out
}
