package model

// BuildStatus is the terminal result reported by Jenkins for one build.
type BuildStatus string

const (
	BuildSuccess  BuildStatus = "SUCCESS"
	BuildFailure  BuildStatus = "FAILURE"
	BuildUnstable BuildStatus = "UNSTABLE"
	BuildAborted  BuildStatus = "ABORTED"
	BuildUnknown  BuildStatus = "UNKNOWN"
)

// ParseBuildStatus maps the raw Jenkins result string onto the known
// set. Anything unrecognized collapses to BuildUnknown but the raw
// value is preserved on BuildResult.
func ParseBuildStatus(raw string) BuildStatus {
	switch raw {
	case "SUCCESS":
		return BuildSuccess
	case "FAILURE":
		return BuildFailure
	case "UNSTABLE":
		return BuildUnstable
	case "ABORTED":
		return BuildAborted
	default:
		return BuildUnknown
	}
}

// QueueHandle locates a triggered request before the queue has
// assigned it a build. It is the absolute URL of the queue item.
type QueueHandle string

// BuildHandle is the identity of an actual build execution, assigned
// by Jenkins once the queue admits the request. Number is always the
// platform-assigned value, never inferred locally.
type BuildHandle struct {
	URL    string
	Number int64
}

// BuildResult is terminal; polling stops once any status is observed.
type BuildResult struct {
	Status BuildStatus
	Raw    string
}
