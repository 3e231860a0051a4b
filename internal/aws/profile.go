package aws

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

// ConfigPath returns the shared AWS config file location.
func ConfigPath() string {
	if p := os.Getenv("AWS_CONFIG_FILE"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".aws", "config")
}

// ProfileRegion returns the region configured for a profile, or an empty
// string if none is set. An empty profile resolves AWS_PROFILE, then default.
func ProfileRegion(profile string) string {
	return profileRegion(ConfigPath(), profile)
}

func profileRegion(path, profile string) string {
	if profile == "" {
		profile = os.Getenv("AWS_PROFILE")
	}
	if profile == "" {
		profile = "default"
	}
	if path == "" {
		return ""
	}
	if _, err := os.Stat(path); err != nil {
		return ""
	}

	configFile, err := ini.Load(path)
	if err != nil {
		return ""
	}

	names := []string{"profile " + profile}
	if profile == "default" {
		names = []string{"default", ini.DefaultSection}
	}
	var section *ini.Section
	for _, name := range names {
		if section, err = configFile.GetSection(name); err == nil {
			break
		}
	}
	if section == nil || err != nil {
		return ""
	}
	if !section.HasKey("region") {
		return ""
	}

	return section.Key("region").String()
}

// ParseS3URI splits s3://bucket/key into its bucket and key.
func ParseS3URI(uri string) (string, string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", "", ErrInvalidURI
	}
	if u.Scheme != "s3" || u.Host == "" {
		return "", "", ErrInvalidURI
	}
	key := strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", "", ErrInvalidURI
	}

	return u.Host, key, nil
}
