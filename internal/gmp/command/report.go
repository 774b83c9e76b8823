package command

import (
	"context"
	"net/http"

	"gsa/internal/gmp/filter"
	"gsa/internal/gmp/model"
	"gsa/internal/gmp/transport"
)

// ReportFormatXML is the id of the built-in XML report format.
const ReportFormatXML = "a994b278-1f62-11e1-96ac-406186ea4fc5"

// ReportCommand runs the report commands.
type ReportCommand struct {
	*EntityCommand[model.Report]
}

// NewReportCommand returns the report commands.
func NewReportCommand(s Sender) *ReportCommand {
	return &ReportCommand{NewEntityCommand(s, reportResource, model.NewReportFromElement)}
}

func detailParams(id string, f *filter.Filter) transport.Params {
	p := transport.NewParams("get_report").
		Set("report_id", id).
		SetBool("details", true).
		SetBool("ignore_pagination", true).
		SetBool("lean", true)
	if f != nil {
		p.SetFilter(f.String())
	}
	return p
}

// GetDetails fetches the report with its results, hosts and ports filtered
// by f.
func (c *ReportCommand) GetDetails(ctx context.Context, id string, f *filter.Filter) (model.Report, error) {
	return c.get(ctx, detailParams(id, f))
}

// GetDelta compares the report with deltaID.
func (c *ReportCommand) GetDelta(ctx context.Context, id, deltaID string, f *filter.Filter) (model.Report, error) {
	return c.get(ctx, detailParams(id, f).Set("delta_report_id", deltaID))
}

// Download renders the report in the report format formatID. An empty
// formatID selects XML.
func (c *ReportCommand) Download(ctx context.Context, id, formatID string, f *filter.Filter) (*transport.Download, error) {
	if formatID == "" {
		formatID = ReportFormatXML
	}
	p := detailParams(id, f).Set("report_format_id", formatID)
	return c.sender.Download(ctx, http.MethodGet, p)
}

// Import adds a report in GMP XML format to a container task and returns
// the id of the new report.
func (c *ReportCommand) Import(ctx context.Context, taskID string, xml []byte, inAssets bool) (string, error) {
	p := transport.NewParams("import_report").
		Set("task_id", taskID).
		SetBool("in_assets", inAssets).
		Set("xml_file", string(xml))
	resp, err := c.sender.Post(ctx, p)
	if err != nil {
		return "", err
	}
	return actionID(resp)
}

// ReportsCommand runs the report list commands.
type ReportsCommand struct {
	*EntitiesCommand[model.Report]
}

// NewReportsCommand returns the report list commands.
func NewReportsCommand(s Sender) *ReportsCommand {
	return &ReportsCommand{NewEntitiesCommand(s, reportResource, model.NewReportFromElement)}
}
