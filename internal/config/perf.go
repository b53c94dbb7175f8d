package config

import "github.com/atomicobject/diskdex/internal/perf"

// ApplyPerformanceOverrides layers the persisted manual overrides on top of
// base, leaving any unset override field at base's value (§6 "Performance
// Manager" manual-mode configuration). Only DelayMs, BatchSize and
// EnableBatching are applied; AutoMode is not read, since perf.Config has
// no mode field.
func ApplyPerformanceOverrides(base perf.Config, ov PerformanceOverrides) perf.Config {
	if ov.DelayMs != nil {
		base.DefaultDelay = *ov.DelayMs
	}
	if ov.BatchSize != nil {
		base.DefaultBatchSize = *ov.BatchSize
	}
	if ov.EnableBatching != nil {
		base.DefaultBatching = *ov.EnableBatching
	}
	return base
}
