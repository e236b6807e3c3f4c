package objstore

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// DefaultProfile is the credentials file section used when none is given.
const DefaultProfile = "default"

// Credentials are static object store credentials.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// LoadCredentials reads one profile of an AWS shared credentials file:
//
//	[default]
//	aws_access_key_id = ...
//	aws_secret_access_key = ...
//
// A missing file, profile, access key or secret key is an error.
func LoadCredentials(path, profile string) (Credentials, error) {
	if profile == "" {
		profile = DefaultProfile
	}
	// Keys are case-insensitive in viper.
	profile = strings.ToLower(profile)

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("ini")
	if err := v.ReadInConfig(); err != nil {
		return Credentials{}, fmt.Errorf("LoadCredentials(): unable to read %s: %w", path, err)
	}

	// The ini reader keeps keys flat as "<section>.<key>", so the profile
	// exists when any key carries its prefix.
	prefix := profile + "."
	found := false
	for _, key := range v.AllKeys() {
		if strings.HasPrefix(key, prefix) {
			found = true
			break
		}
	}
	if !found {
		return Credentials{}, fmt.Errorf("LoadCredentials(): profile %q not found in %s", profile, path)
	}

	creds := Credentials{
		AccessKeyID:     strings.TrimSpace(v.GetString(prefix + "aws_access_key_id")),
		SecretAccessKey: strings.TrimSpace(v.GetString(prefix + "aws_secret_access_key")),
		SessionToken:    strings.TrimSpace(v.GetString(prefix + "aws_session_token")),
	}
	if creds.AccessKeyID == "" {
		return Credentials{}, fmt.Errorf("LoadCredentials(): aws_access_key_id missing from profile %q in %s", profile, path)
	}
	if creds.SecretAccessKey == "" {
		return Credentials{}, fmt.Errorf("LoadCredentials(): aws_secret_access_key missing from profile %q in %s", profile, path)
	}
	return creds, nil
}
