package config

import (
	"net/url"
	"strings"
)

const APIVersion = "v15"

var Endpoints = map[string]string{
	"default":    "https://usageanalytics.coveo.com/rest/" + APIVersion,
	"production": "https://usageanalytics.coveo.com/rest/" + APIVersion,
	"dev":        "https://usageanalyticsdev.coveo.com/rest/" + APIVersion,
	"staging":    "https://usageanalyticsstaging.coveo.com/rest/" + APIVersion,
}

// ResolveEndpoint maps an empty value or an Endpoints alias to its URL and
// checks that anything else is an absolute http(s) URL. The returned URL has
// no trailing slash.
func ResolveEndpoint(endpoint string) (string, error) {
	if endpoint == "" {
		return Endpoints["default"], nil
	}
	if resolved, ok := Endpoints[strings.ToLower(endpoint)]; ok {
		return resolved, nil
	}

	parsed, err := url.Parse(endpoint)
	if err != nil {
		return "", NewConfigurationError("analytics.endpoint", err.Error())
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", NewConfigurationError("analytics.endpoint", "scheme must be http or https")
	}
	if parsed.Host == "" {
		return "", NewConfigurationError("analytics.endpoint", "host cannot be empty")
	}
	return strings.TrimRight(endpoint, "/"), nil
}
