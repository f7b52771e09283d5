package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/mikey/nzbget-notify/internal/config"
	"github.com/mikey/nzbget-notify/internal/recipients"
	"github.com/mikey/nzbget-notify/internal/utils"
)

const (
	// ApplicationName is sent in the X-Application header
	ApplicationName = "NZBGet"

	brokenLogFile = "_brokenlog.txt"

	// Number of item log entries requested from loadlog
	maxLogEntries = 10000
)

// Result tells the caller whether a message went out
type Result int

const (
	ResultSent Result = iota
	ResultSkipped
)

// NotifierService turns a finished download into an e-mail
type NotifierService struct {
	settings *config.Settings
	mailer   Mailer
	control  ControlClientProvider
	fs       afero.Fs
	text     *utils.TextProcessor
	logger   *zap.Logger
	now      func() time.Time
	location *time.Location
}

// NewNotifierService creates a new notifier service
func NewNotifierService(
	settings *config.Settings,
	mailer Mailer,
	control ControlClientProvider,
	fs afero.Fs,
	text *utils.TextProcessor,
	logger *zap.Logger,
) *NotifierService {
	return &NotifierService{
		settings: settings,
		mailer:   mailer,
		control:  control,
		fs:       fs,
		text:     text,
		logger:   logger,
		now:      time.Now,
		location: time.Local,
	}
}

// WithClock overrides the send time and the zone log timestamps are shown in
func (s *NotifierService) WithClock(now func() time.Time, loc *time.Location) *NotifierService {
	s.now = now
	s.location = loc
	return s
}

// Run executes the whole hook once. Every external call is attempted a
// single time; the first failure aborts the run.
func (s *NotifierService) Run(ctx context.Context) (Result, error) {
	outcome, status := s.Outcome()

	if outcome == OutcomeSuccess && s.settings.Features.SendMail == config.SendOnFailure && !s.settings.TestMode {
		s.logger.Info("Skipping sending of message for successful download")
		return ResultSkipped, nil
	}

	report, err := s.BuildReport(ctx, outcome, status)
	if err != nil {
		return ResultSkipped, err
	}

	s.logger.Debug("Creating Email")
	msg, err := s.Compose(report)
	if err != nil {
		return ResultSkipped, err
	}

	s.logger.Debug("Sending E-Mail")
	if err := s.mailer.Send(ctx, msg); err != nil {
		return ResultSkipped, &DeliveryError{Stage: StageDeliver, Err: err}
	}

	s.logger.Debug("E-Mail sent",
		zap.String("outcome", outcome.String()),
		zap.Strings("recipients", recipients.Envelope(msg.To)))
	return ResultSent, nil
}

// Outcome returns the job outcome and the status line
func (s *NotifierService) Outcome() (Outcome, string) {
	job := s.settings.Job
	return ResolveOutcome(JobStatus{
		Status:       job.Status,
		TotalStatus:  job.TotalStatus,
		ScriptStatus: job.ScriptStatus,
	})
}

// BuildReport gathers the optional sections. In test mode nothing outside
// the configuration is read.
func (s *NotifierService) BuildReport(ctx context.Context, outcome Outcome, status string) (*Report, error) {
	report := &Report{
		Outcome:  outcome,
		Status:   status,
		JobName:  s.settings.Job.DisplayName(),
		Location: s.location,
	}
	if s.settings.TestMode {
		return report, nil
	}

	features := s.settings.Features
	wantLog := features.NzbLog == config.LogAlways ||
		(features.NzbLog == config.LogOnFailure && outcome != OutcomeSuccess)

	var client ControlClient
	var nzbID int64
	if features.Statistics || wantLog {
		var err error
		if nzbID, err = s.settings.Job.NzbID(); err != nil {
			return nil, err
		}
		if client, err = s.control(); err != nil {
			return nil, wrapControlError(err)
		}
	}

	if features.Statistics {
		stats, err := s.fetchStats(ctx, client, nzbID)
		if err != nil {
			return nil, err
		}
		report.Stats = stats
	}

	if features.FileList || features.BrokenLog {
		dir, err := s.settings.Job.Directory()
		if err != nil {
			return nil, err
		}
		if features.FileList {
			report.ListFiles = true
			report.Files = s.listFiles(dir)
		}
		if features.BrokenLog {
			brokenLog, err := s.readBrokenLog(dir)
			if err != nil {
				return nil, err
			}
			report.BrokenLog = brokenLog
		}
	}

	if wantLog {
		s.logger.Debug("Loading item log", zap.Int64("nzb_id", nzbID))
		entries, err := client.LoadLog(ctx, nzbID, 0, maxLogEntries)
		if err != nil {
			return nil, deliveryError(StageControl, "failed to load log: %w", err)
		}
		for i := range entries {
			entries[i].Text = s.text.SanitizeUTF8(entries[i].Text)
		}
		report.Log = entries
	}

	return report, nil
}

// Compose renders the report into a message addressed per configuration
func (s *NotifierService) Compose(report *Report) (*Notification, error) {
	from, err := recipients.ParseAddress(s.settings.Mail.From)
	if err != nil {
		return nil, deliveryError(StageCompose, "invalid sender: %w", err)
	}
	to, err := recipients.Parse(s.settings.Mail.To)
	if err != nil {
		return nil, deliveryError(StageCompose, "invalid recipients: %w", err)
	}

	return &Notification{
		From:        from,
		To:          to,
		Subject:     ComposeSubject(report),
		Body:        ComposeBody(report),
		Date:        s.now().UTC(),
		Application: ApplicationName,
	}, nil
}

func (s *NotifierService) fetchStats(ctx context.Context, client ControlClient, nzbID int64) (*GroupStats, error) {
	s.logger.Debug("Loading statistics", zap.Int64("nzb_id", nzbID))
	groups, err := client.ListGroups(ctx)
	if err != nil {
		return nil, deliveryError(StageControl, "failed to list groups: %w", err)
	}
	for i := range groups {
		if groups[i].NZBID == nzbID {
			return &groups[i], nil
		}
	}
	return nil, deliveryError(StageControl, "%w: NZBID %d", ErrJobNotFound, nzbID)
}

// listFiles walks dir and returns file paths relative to it. Unreadable
// entries are skipped; a missing directory yields no files.
func (s *NotifierService) listFiles(dir string) []string {
	var files []string
	_ = afero.Walk(s.fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			s.logger.Warn("Could not read destination entry", zap.String("path", path), zap.Error(err))
			return nil
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return nil
		}
		files = append(files, s.text.NormalizeName(rel))
		return nil
	})
	return files
}

func (s *NotifierService) readBrokenLog(dir string) (*string, error) {
	path := filepath.Join(dir, brokenLogFile)
	exists, err := afero.Exists(s.fs, path)
	if err != nil {
		return nil, deliveryError(StageFiles, "failed to check %s: %w", path, err)
	}
	if !exists {
		return nil, nil
	}
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, deliveryError(StageFiles, "failed to read %s: %w", path, err)
	}
	text := s.text.ProcessText(string(data))
	return &text, nil
}

// wrapControlError keeps configuration errors as they are so the
// diagnostic names the missing option
func wrapControlError(err error) error {
	var cfgErr *config.ConfigurationError
	if errors.As(err, &cfgErr) {
		return err
	}
	return &DeliveryError{Stage: StageControl, Err: err}
}
