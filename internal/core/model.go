package core

import (
	"net/mail"
	"time"
)

// Outcome is the result of a download as reported to the user
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeWarning
	OutcomeFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeWarning:
		return "warning"
	default:
		return "failure"
	}
}

// JobStatus holds the status variables NZBGet passes to the script
type JobStatus struct {
	Status       string // NZBPP_STATUS, e.g. "SUCCESS/ALL"
	TotalStatus  string // NZBPP_TOTALSTATUS, e.g. "SUCCESS"
	ScriptStatus string // NZBPP_SCRIPTSTATUS
}

// GroupStats is the subset of a listgroups record used for statistics
type GroupStats struct {
	NZBID            int64
	DownloadedSizeMB float64
	DownloadTimeSec  int64
	ParTimeSec       int64
	RepairTimeSec    int64
	UnpackTimeSec    int64
	PostTotalTimeSec int64
}

// LogEntry is a single line of an item's processing log
type LogEntry struct {
	ID   int64
	Kind string
	Time time.Time
	Text string
}

// Report collects everything that goes into the message body
type Report struct {
	Outcome Outcome
	Status  string
	JobName string

	Stats *GroupStats

	// ListFiles enables the file section; Files may then be empty
	ListFiles bool
	Files     []string

	// BrokenLog is nil when no _brokenlog.txt was read
	BrokenLog *string

	Log []LogEntry

	// Location renders log timestamps; nil means time.Local
	Location *time.Location
}

// Notification is a composed message ready for delivery
type Notification struct {
	From        *mail.Address
	To          []*mail.Address
	Subject     string
	Body        string
	Date        time.Time
	Application string
}
