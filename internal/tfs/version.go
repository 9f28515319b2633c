package tfs

import (
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"
)

// The banner looks like
// "Team Explorer Everywhere Command Line Client (Version 14.134.0.201905301616)".
// Only the first three components are meaningful for compatibility checks.
var toolVersionPattern = regexp.MustCompile(`(?i)version\s+(\d+)\.(\d+)(?:\.(\d+))?`)

// ParseToolVersion finds the client version in the tool's banner output.
func ParseToolVersion(lines []string) (*semver.Version, error) {
	for _, line := range lines {
		m := toolVersionPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		patch := m[3]
		if patch == "" {
			patch = "0"
		}
		v, err := semver.NewVersion(fmt.Sprintf("%s.%s.%s", m[1], m[2], patch))
		if err != nil {
			return nil, formatErrorf("tool version", "%v", err)
		}
		return v, nil
	}
	return nil, formatErrorf("tool version", "no version found in banner")
}

// CheckToolVersion verifies v against a semver constraint such as ">= 14.0".
// An empty constraint accepts any version.
func CheckToolVersion(v *semver.Version, constraint string) error {
	if constraint == "" {
		return nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("invalid tool version constraint %q: %w", constraint, err)
	}
	if !c.Check(v) {
		return fmt.Errorf("tf client version %s does not satisfy %q", v, constraint)
	}
	return nil
}
