package plugins

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// CurrentAPIVersion is the version of the plugin API implemented by this module
const CurrentAPIVersion = "1.0.0"

var semverRegex = regexp.MustCompile(`^v?(\d+)\.(\d+)\.(\d+)(-[a-zA-Z0-9.-]+)?(\+[a-zA-Z0-9.-]+)?$`)

// LoadManifest loads and parses a plugin manifest from a file
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	return &manifest, nil
}

// LoadManifestFromDir loads a plugin manifest from a directory (looks for plugin.yaml)
func LoadManifestFromDir(dir string) (*Manifest, error) {
	return LoadManifest(filepath.Join(dir, "plugin.yaml"))
}

// SaveManifest saves a plugin manifest to a file, creating its directory
func SaveManifest(manifest *Manifest, path string) error {
	data, err := MarshalManifests(manifest)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}

// MarshalManifests encodes manifests as a YAML stream, one document per manifest
func MarshalManifests(manifests ...*Manifest) ([]byte, error) {
	var out []byte
	for i, m := range manifests {
		data, err := yaml.Marshal(m)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal manifest: %w", err)
		}
		if i > 0 {
			out = append(out, "---\n"...)
		}
		out = append(out, data...)
	}
	return out, nil
}

// ValidateManifest performs basic validation on a plugin manifest
func ValidateManifest(manifest *Manifest) []ValidationError {
	var errors []ValidationError

	// Required fields
	if manifest.ID == "" {
		errors = append(errors, ValidationError{
			Field:   "id",
			Message: "Plugin ID is required",
		})
	}

	if manifest.Name == "" {
		errors = append(errors, ValidationError{
			Field:   "name",
			Message: "Plugin name is required",
		})
	}

	if manifest.Version == "" {
		errors = append(errors, ValidationError{
			Field:   "version",
			Message: "Version is required",
		})
	}

	if manifest.APIVersion == "" {
		errors = append(errors, ValidationError{
			Field:   "api_version",
			Message: "API version is required",
		})
	}

	// Validate semver format
	if manifest.Version != "" && !isValidSemver(manifest.Version) {
		errors = append(errors, ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("Invalid semver format: %s", manifest.Version),
		})
	}

	if manifest.APIVersion != "" && !isValidSemver(manifest.APIVersion) {
		errors = append(errors, ValidationError{
			Field:   "api_version",
			Message: fmt.Sprintf("Invalid semver format: %s", manifest.APIVersion),
		})
	} else if manifest.APIVersion != "" && !IsCompatibleAPIVersion(manifest.APIVersion, CurrentAPIVersion) {
		errors = append(errors, ValidationError{
			Field:   "api_version",
			Message: fmt.Sprintf("Incompatible API version: %s (current %s)", manifest.APIVersion, CurrentAPIVersion),
		})
	}

	// Validate plugin type
	switch manifest.Type {
	case PluginTypeView, PluginTypeRenderer, PluginTypeBundle:
	default:
		errors = append(errors, ValidationError{
			Field:   "type",
			Message: fmt.Sprintf("Invalid plugin type: %q", manifest.Type),
		})
	}

	if manifest.Type != PluginTypeView && manifest.Language == "" {
		errors = append(errors, ValidationError{
			Field:   "language",
			Message: "Language is required for plugins with renderers",
		})
	}

	return errors
}

// isValidSemver checks if a version string follows semantic versioning
func isValidSemver(version string) bool {
	return semverRegex.MatchString(version)
}

// IsCompatibleAPIVersion checks if a plugin's API version is compatible with the current one.
// Only the major version is compared.
func IsCompatibleAPIVersion(pluginAPIVersion, currentAPIVersion string) bool {
	return extractMajorVersion(pluginAPIVersion) == extractMajorVersion(currentAPIVersion)
}

func extractMajorVersion(version string) string {
	matches := semverRegex.FindStringSubmatch(version)
	if len(matches) > 1 {
		return matches[1]
	}
	return "0"
}
