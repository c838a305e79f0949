package model

import "time"

// LoadStatus tracks a loader through its lifecycle.
type LoadStatus int

// Load states. A loader starts Unloaded and every Load call passes through
// Loading to exactly one of Success or Failed.
const (
	LoadUnloaded LoadStatus = iota
	LoadLoading
	LoadSuccess
	LoadFailed
)

// String returns the upper-case status name.
func (s LoadStatus) String() string {
	switch s {
	case LoadUnloaded:
		return "UNLOADED"
	case LoadLoading:
		return "LOADING"
	case LoadSuccess:
		return "SUCCESS"
	case LoadFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// MarshalText lets the status render by name in JSON reports.
func (s LoadStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Source identifies where a configuration batch was read from.
type Source int

// Configuration sources.
const (
	SourceLocalFile Source = iota
	SourceRemoteConfigCenter
	SourceEnvironment
	SourceSystemProperty
)

// String returns the upper-case source name.
func (s Source) String() string {
	switch s {
	case SourceLocalFile:
		return "LOCAL_FILE"
	case SourceRemoteConfigCenter:
		return "REMOTE_CONFIG_CENTER"
	case SourceEnvironment:
		return "ENVIRONMENT"
	case SourceSystemProperty:
		return "SYSTEM_PROPERTY"
	default:
		return "UNKNOWN"
	}
}

// MarshalText lets the source render by name in JSON reports.
func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// LoadMetadata records the outcome of the most recent load of one domain.
type LoadMetadata struct {
	Kind         Kind       `json:"kind"`
	FilePath     string     `json:"file_path"`
	LoadTime     time.Time  `json:"load_time"`
	Status       LoadStatus `json:"status"`
	Source       Source     `json:"source"`
	ErrorMessage string     `json:"error_message,omitempty"`
}
