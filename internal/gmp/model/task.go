package model

import (
	"strings"
	"time"

	"gsa/internal/gmp/parser"
)

// TaskStatus is the run state reported by gvmd.
type TaskStatus string

const (
	TaskStatusNew                     TaskStatus = "New"
	TaskStatusRequested               TaskStatus = "Requested"
	TaskStatusQueued                  TaskStatus = "Queued"
	TaskStatusRunning                 TaskStatus = "Running"
	TaskStatusStopRequested           TaskStatus = "Stop Requested"
	TaskStatusStopped                 TaskStatus = "Stopped"
	TaskStatusDone                    TaskStatus = "Done"
	TaskStatusInterrupted             TaskStatus = "Interrupted"
	TaskStatusDeleteRequested         TaskStatus = "Delete Requested"
	TaskStatusUltimateDeleteRequested TaskStatus = "Ultimate Delete Requested"
	TaskStatusProcessing              TaskStatus = "Processing"
	TaskStatusContainer               TaskStatus = "Container"
	TaskStatusUploading               TaskStatus = "Uploading"
)

// Usage types of a task.
const (
	UsageTypeScan  = "scan"
	UsageTypeAudit = "audit"
)

// HostsOrdering values accepted by create_task.
const (
	HostsOrderingSequential = "sequential"
	HostsOrderingRandom     = "random"
	HostsOrderingReverse    = "reverse"
)

// TaskReport is the short report summary embedded in a task.
type TaskReport struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	ScanStart time.Time `json:"scan_start"`
	ScanEnd   time.Time `json:"scan_end"`
	Severity  *float64  `json:"severity,omitempty"`
}

// TaskPreferences are the scanner preferences of a task.
type TaskPreferences map[string]string

// Task is a scan task.
type Task struct {
	Model
	Status          TaskStatus      `json:"status"`
	Progress        int             `json:"progress"`
	Alterable       bool            `json:"alterable"`
	UsageType       string          `json:"usage_type"`
	HostsOrdering   string          `json:"hosts_ordering,omitempty"`
	Trend           string          `json:"trend,omitempty"`
	Config          *Reference      `json:"config,omitempty"`
	Target          *Reference      `json:"target,omitempty"`
	Scanner         *Reference      `json:"scanner,omitempty"`
	ScannerType     int             `json:"scanner_type,omitempty"`
	Schedule        *Reference      `json:"schedule,omitempty"`
	SchedulePeriods int             `json:"schedule_periods,omitempty"`
	Alerts          []Reference     `json:"alerts,omitempty"`
	ReportCount     int             `json:"report_count"`
	FinishedReports int             `json:"finished_reports"`
	LastReport      *TaskReport     `json:"last_report,omitempty"`
	CurrentReport   *TaskReport     `json:"current_report,omitempty"`
	Observers       TaskObservers   `json:"observers"`
	Preferences     TaskPreferences `json:"preferences,omitempty"`
	AverageDuration time.Duration   `json:"average_duration,omitempty"`
}

// TaskObservers lists the users, groups and roles allowed to see a task.
type TaskObservers struct {
	Users  []string    `json:"users,omitempty"`
	Groups []Reference `json:"groups,omitempty"`
	Roles  []Reference `json:"roles,omitempty"`
}

// NewTaskFromElement parses a <task> element.
func NewTaskFromElement(el *parser.Element) Task {
	t := Task{
		Model:           ParseModel(el, "task"),
		Status:          TaskStatus(el.ChildText("status")),
		Progress:        parser.ParseProgress(el.ChildText("progress")),
		Alterable:       parser.ParseBoolean(el.ChildText("alterable")),
		UsageType:       el.ChildText("usage_type"),
		HostsOrdering:   el.ChildText("hosts_ordering"),
		Trend:           el.ChildText("trend"),
		Config:          ParseReference(el.Child("config")),
		Target:          ParseReference(el.Child("target")),
		Scanner:         ParseReference(el.Child("scanner")),
		Schedule:        ParseReference(el.Child("schedule")),
		SchedulePeriods: parser.IntOr(el.ChildText("schedule_periods"), 0),
		Alerts:          ParseReferences(el, "alert"),
		ReportCount:     parser.CountOf(el.Child("report_count")),
		FinishedReports: parser.IntOr(el.ChildText("report_count/finished"), 0),
		LastReport:      parseTaskReport(el.Path("last_report/report")),
		CurrentReport:   parseTaskReport(el.Path("current_report/report")),
		AverageDuration: parser.ParseDuration(el.ChildText("average_duration")),
	}
	if t.UsageType == "" {
		t.UsageType = UsageTypeScan
	}
	t.ScannerType = parser.IntOr(el.ChildText("scanner/type"), 0)

	// Tasks without a target are containers for imported reports.
	if t.Target == nil && t.Status == TaskStatusNew {
		t.Status = TaskStatusContainer
	}

	if obs := el.Child("observers"); obs != nil {
		t.Observers = TaskObservers{
			Users:  strings.Fields(obs.Value()),
			Groups: ParseReferences(obs, "group"),
			Roles:  ParseReferences(obs, "role"),
		}
	}

	if prefs := el.Child("preferences").ChildrenNamed("preference"); len(prefs) > 0 {
		t.Preferences = make(TaskPreferences, len(prefs))
		for _, p := range prefs {
			key := p.ChildText("scanner_name")
			if key == "" {
				key = p.ChildText("name")
			}
			t.Preferences[key] = p.ChildText("value")
		}
	}
	return t
}

func parseTaskReport(el *parser.Element) *TaskReport {
	if el == nil || el.Attr("id") == "" {
		return nil
	}
	return &TaskReport{
		ID:        el.Attr("id"),
		Timestamp: parser.ParseDate(el.ChildText("timestamp")),
		ScanStart: parser.ParseDate(el.ChildText("scan_start")),
		ScanEnd:   parser.ParseDate(el.ChildText("scan_end")),
		Severity:  parser.ParseSeverity(el.ChildText("severity")),
	}
}

// IsActive reports whether the task is running or about to change its state.
// It hides Model.IsActive; the enabled flag stays available as
// t.Model.IsActive() and is what the json "active" field carries.
func (t Task) IsActive() bool {
	switch t.Status {
	case TaskStatusRunning, TaskStatusRequested, TaskStatusQueued,
		TaskStatusStopRequested, TaskStatusDeleteRequested,
		TaskStatusUltimateDeleteRequested, TaskStatusProcessing:
		return true
	}
	return false
}

// IsRunning reports whether a scan is in progress.
func (t Task) IsRunning() bool { return t.Status == TaskStatusRunning }

// IsQueued reports whether the task waits for a free scanner slot.
func (t Task) IsQueued() bool { return t.Status == TaskStatusQueued }

// IsStopped reports whether the task was stopped by a user.
func (t Task) IsStopped() bool { return t.Status == TaskStatusStopped }

// IsInterrupted reports whether the last scan was aborted.
func (t Task) IsInterrupted() bool { return t.Status == TaskStatusInterrupted }

// IsNew reports whether the task never ran.
func (t Task) IsNew() bool { return t.Status == TaskStatusNew }

// IsDone reports whether the last scan finished.
func (t Task) IsDone() bool { return t.Status == TaskStatusDone }

// IsContainer reports whether the task only holds imported reports.
func (t Task) IsContainer() bool { return t.Target == nil }

// IsAlterable reports whether the task may be edited after reports exist.
func (t Task) IsAlterable() bool { return t.Alterable }

// IsAudit reports whether the task is a compliance audit.
func (t Task) IsAudit() bool { return t.UsageType == UsageTypeAudit }

// IsChangeable reports whether target, config and scanner may still be edited.
func (t Task) IsChangeable() bool {
	return t.IsNew() || t.IsContainer() || t.Alterable
}

// CanStart reports whether a start_task request is accepted in this state.
func (t Task) CanStart() bool {
	return !t.IsActive() && !t.IsContainer()
}

// CanResume reports whether a resume_task request is accepted in this state.
func (t Task) CanResume() bool {
	return t.IsStopped() || t.IsInterrupted()
}
