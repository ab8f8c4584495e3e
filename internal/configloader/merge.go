package configloader

import (
	"slices"

	"github.com/yaklabco/structparse/pkg/config"
)

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Booleans are pointers: override overwrites base if non-nil, so a
//     higher layer can switch a setting off
//   - Slices: override replaces base entirely if override is non-nil
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override.Clone()
	}
	if override == nil {
		return base.Clone()
	}

	result := base.Clone()

	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.Indent != "" {
		result.Indent = override.Indent
	}

	if override.FollowSymlinks != nil {
		result.FollowSymlinks = config.Bool(*override.FollowSymlinks)
	}
	if override.Markdown.Enabled != nil {
		result.Markdown.Enabled = config.Bool(*override.Markdown.Enabled)
	}

	if override.Extensions != nil {
		result.Extensions = slices.Clone(override.Extensions)
	}
	if override.Ignore != nil {
		result.Ignore = slices.Clone(override.Ignore)
	}
	if override.Markdown.InfoStrings != nil {
		result.Markdown.InfoStrings = slices.Clone(override.Markdown.InfoStrings)
	}
	if override.Markdown.Extensions != nil {
		result.Markdown.Extensions = slices.Clone(override.Markdown.Extensions)
	}

	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
