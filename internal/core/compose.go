package core

import (
	"fmt"
	"strings"
	"time"
)

const (
	noFilesNote   = "<no files found in the destination directory (moved by a script?)>"
	logTimeLayout = "2006-01-02 15:04:05"

	// Sizes above this many MB are shown in GB
	gigabyteThresholdMB = 1024
)

// ResolveOutcome derives the outcome and the status line. NZBPP_STATUS does
// not reflect failures of scripts that ran before this one, so a successful
// download with a failed script chain is reported as a warning.
func ResolveOutcome(s JobStatus) (Outcome, string) {
	total, status := s.TotalStatus, s.Status
	if total == "SUCCESS" && s.ScriptStatus == "FAILURE" {
		total = "WARNING"
		status = "WARNING/SCRIPT"
	}

	switch total {
	case "SUCCESS":
		return OutcomeSuccess, status
	case "WARNING":
		return OutcomeWarning, status
	default:
		return OutcomeFailure, status
	}
}

// ComposeSubject returns the subject line for the report
func ComposeSubject(r *Report) string {
	if r.Outcome == OutcomeSuccess {
		return fmt.Sprintf(`Success for "%s"`, r.JobName)
	}
	return fmt.Sprintf(`Failure for "%s"`, r.JobName)
}

// ComposeBody renders the plain-text body. Sections appear in a fixed
// order: status, statistics, files, broken log, item log.
func ComposeBody(r *Report) string {
	var b strings.Builder

	if r.Outcome == OutcomeSuccess {
		fmt.Fprintf(&b, `Download of "%s" has successfully completed.`, r.JobName)
	} else {
		fmt.Fprintf(&b, `Download of "%s" has failed.`, r.JobName)
	}
	fmt.Fprintf(&b, "\nStatus: %s", r.Status)

	if r.Stats != nil {
		writeStatistics(&b, r.Stats)
	}

	if r.ListFiles {
		b.WriteString("\n\nFiles:")
		for _, f := range r.Files {
			b.WriteString("\n" + f)
		}
		if len(r.Files) == 0 {
			b.WriteString("\n" + noFilesNote)
		}
	}

	if r.BrokenLog != nil {
		b.WriteString("\n\nBrokenlog:\n" + *r.BrokenLog)
	}

	if len(r.Log) > 0 {
		loc := r.Location
		if loc == nil {
			loc = time.Local
		}
		b.WriteString("\n\nNzb-log:")
		for _, entry := range r.Log {
			fmt.Fprintf(&b, "\n%s\t%s\t%s", entry.Kind, entry.Time.In(loc).Format(logTimeLayout), entry.Text)
		}
	}

	return b.String()
}

func writeStatistics(b *strings.Builder, s *GroupStats) {
	b.WriteString("\n\nStatistics:")
	b.WriteString("\nDownloaded size: " + FormatSize(s.DownloadedSizeMB))
	if speed, ok := FormatSpeed(s.DownloadedSizeMB, s.DownloadTimeSec); ok {
		b.WriteString("\nAverage download speed: " + speed)
	}
	b.WriteString("\nTotal time: " + FormatDuration(s.DownloadTimeSec+s.PostTotalTimeSec))
	b.WriteString("\nDownload time: " + FormatDuration(s.DownloadTimeSec))
	// Can go negative when NZBGet reports more repair than par time.
	b.WriteString("\nVerification time: " + FormatDuration(s.ParTimeSec-s.RepairTimeSec))
	b.WriteString("\nRepair time: " + FormatDuration(s.RepairTimeSec))
	b.WriteString("\nUnpack time: " + FormatDuration(s.UnpackTimeSec))
}

// FormatSize renders a size given in MB, switching to GB above 1024 MB
func FormatSize(mb float64) string {
	if mb > gigabyteThresholdMB {
		return fmt.Sprintf("%.2f GB", mb/1024)
	}
	return fmt.Sprintf("%.2f MB", mb)
}

// FormatSpeed renders the average speed in MB/s, or KB/s below 1 MB/s.
// It reports false when the download time is zero.
func FormatSpeed(sizeMB float64, seconds int64) (string, bool) {
	if seconds <= 0 {
		return "", false
	}
	speed := sizeMB / float64(seconds)
	if speed < 1 {
		return fmt.Sprintf("%.2f KB/s", speed*1024), true
	}
	return fmt.Sprintf("%.2f MB/s", speed), true
}

// FormatDuration renders seconds as H:MM:SS. Negative values keep their sign.
func FormatDuration(sec int64) string {
	sign := ""
	if sec < 0 {
		sign = "-"
		sec = -sec
	}
	return fmt.Sprintf("%s%d:%02d:%02d", sign, sec/3600, sec%3600/60, sec%60)
}
