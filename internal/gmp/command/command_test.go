package command

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gsa/internal/gmp/command/mocks"
	"gsa/internal/gmp/filter"
	"gsa/internal/gmp/model"
	"gsa/internal/gmp/parser"
	"gsa/internal/gmp/transport"
)

func response(t *testing.T, body string) *transport.Response {
	t.Helper()
	el, err := parser.DecodeString(body)
	require.NoError(t, err)
	return transport.NewResponse(el)
}

func command(cmd string, check ...func(transport.Params) bool) any {
	return mock.MatchedBy(func(p transport.Params) bool {
		if p.Command() != cmd {
			return false
		}
		for _, c := range check {
			if !c(p) {
				return false
			}
		}
		return true
	})
}

func param(key, value string) func(transport.Params) bool {
	return func(p transport.Params) bool { return p.Get(key) == value }
}

const actionResult = `<envelope><action_result><action>Create</action><id>%s</id><message>OK</message></action_result></envelope>`

func action(t *testing.T, id string) *transport.Response {
	return response(t, strings.Replace(actionResult, "%s", id, 1))
}

const taskList = `<envelope><get_tasks><get_tasks_response status="200" status_text="OK">
	<task id="t1"><name>first</name><status>Done</status><target id="x"/></task>
	<task id="t2"><name>second</name><status>New</status><target id="y"/></task>
	<filters id=""><term>first=1 rows=10</term></filters>
	<tasks start="1" max="10"/>
	<task_count>5<filtered>2</filtered><page>2</page></task_count>
</get_tasks_response></get_tasks></envelope>`

func TestEntityCommand_Get(t *testing.T) {
	sender := new(mocks.MockSender)
	sender.On("Get", mock.Anything, command("get_task", param("task_id", "t1"))).
		Return(response(t, `<envelope><version>22.4</version><get_task><get_tasks_response status="200">
			<task id="t1"><name>Scan</name><status>Running</status><progress>42</progress><target id="x"/></task>
		</get_tasks_response></get_task></envelope>`), nil)

	task, err := NewTaskCommand(sender).Get(context.Background(), "t1")

	require.NoError(t, err)
	assert.Equal(t, "Scan", task.Name)
	assert.True(t, task.IsRunning())
	sender.AssertExpectations(t)
}

func TestEntityCommand_GetNotFound(t *testing.T) {
	sender := new(mocks.MockSender)
	sender.On("Get", mock.Anything, command("get_task")).
		Return(response(t, `<envelope><get_tasks_response status="200"/></envelope>`), nil)

	_, err := NewTaskCommand(sender).Get(context.Background(), "nope")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEntityCommand_GetError(t *testing.T) {
	sender := new(mocks.MockSender)
	rej := &transport.Rejection{Reason: transport.ReasonUnauthorized, Command: "get_task"}
	sender.On("Get", mock.Anything, command("get_task")).Return(nil, rej)

	_, err := NewTaskCommand(sender).Get(context.Background(), "t1")

	assert.True(t, transport.IsUnauthorized(err))
}

func TestEntityCommand_DeleteAndClone(t *testing.T) {
	sender := new(mocks.MockSender)
	sender.On("Post", mock.Anything, command("delete_target", param("target_id", "x"))).
		Return(response(t, `<envelope><action_result><action>Delete</action><message>OK</message></action_result></envelope>`), nil)
	sender.On("Post", mock.Anything, command("clone", param("resource_type", "target"), param("id", "x"))).
		Return(action(t, "x2"), nil)

	reg := NewRegistry(sender)
	target, err := reg.Lookup("target")
	require.NoError(t, err)

	require.NoError(t, target.Delete(context.Background(), "x"))
	id, err := target.Clone(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "x2", id)
	sender.AssertExpectations(t)
}

func TestEntitiesCommand_Get(t *testing.T) {
	sender := new(mocks.MockSender)
	sender.On("Get", mock.Anything, command("get_tasks",
		param("filter", "name~scan rows=10"),
		param("filter_id", "f1"),
	)).Return(response(t, taskList), nil)

	f := filter.Parse("name~scan rows=10")
	f.ID = "f1"
	c, err := NewTasksCommand(sender).Get(context.Background(), f)

	require.NoError(t, err)
	require.Len(t, c.Entities, 2)
	assert.Equal(t, "second", c.Entities[1].Name)
	assert.Equal(t, 2, c.Counts.Filtered)
	assert.Equal(t, 5, c.Counts.All)
	assert.Equal(t, 10, c.Counts.Rows)
}

func TestEntitiesCommand_GetWithoutFilter(t *testing.T) {
	sender := new(mocks.MockSender)
	sender.On("Get", mock.Anything, mock.MatchedBy(func(p transport.Params) bool {
		return p.Command() == "get_tasks" && !p.Has("filter") && !p.Has("filter_id")
	})).Return(response(t, taskList), nil)

	_, err := NewTasksCommand(sender).Get(context.Background(), nil)

	require.NoError(t, err)
	sender.AssertExpectations(t)
}

func TestEntitiesCommand_Count(t *testing.T) {
	sender := new(mocks.MockSender)
	sender.On("Get", mock.Anything, command("get_tasks", func(p transport.Params) bool {
		f := filter.Parse(p.Get("filter"))
		return f.First() == 1 && f.Rows() == 1 && f.Get("name") == "x"
	})).Return(response(t, taskList), nil)

	counts, err := NewTasksCommand(sender).Count(context.Background(), filter.Parse("name=x first=21 rows=20"))

	require.NoError(t, err)
	assert.Equal(t, 5, counts.All)
}

func TestEntitiesCommand_DeleteByIDs(t *testing.T) {
	sender := new(mocks.MockSender)
	tasks := NewTasksCommand(sender)

	require.NoError(t, tasks.DeleteByIDs(context.Background(), nil))
	sender.AssertNotCalled(t, "Post", mock.Anything, mock.Anything)

	sender.On("Post", mock.Anything, command("bulk_delete",
		param("resource_type", "task"),
		param("bulk_selected:t1", "1"),
		param("bulk_selected:t2", "1"),
	)).Return(response(t, `<envelope><action_result><message>OK</message></action_result></envelope>`), nil)

	require.NoError(t, tasks.DeleteByIDs(context.Background(), []string{"t1", "t2"}))
	sender.AssertExpectations(t)
}

func TestEntitiesCommand_DeleteByFilter(t *testing.T) {
	sender := new(mocks.MockSender)
	sender.On("Get", mock.Anything, command("get_tasks", func(p transport.Params) bool {
		return filter.Parse(p.Get("filter")).Rows() == filter.RowsAll
	})).Return(response(t, taskList), nil)
	sender.On("Post", mock.Anything, command("bulk_delete",
		param("bulk_selected:t1", "1"),
		param("bulk_selected:t2", "1"),
	)).Return(response(t, `<envelope><action_result><message>OK</message></action_result></envelope>`), nil)

	ids, err := NewTasksCommand(sender).DeleteByFilter(context.Background(), filter.Parse("status=Done"))

	require.NoError(t, err)
	assert.Equal(t, []string{"t1", "t2"}, ids)
	sender.AssertExpectations(t)
}

func TestEntitiesCommand_DeleteByFilterFails(t *testing.T) {
	sender := new(mocks.MockSender)
	sender.On("Get", mock.Anything, command("get_tasks")).Return(nil, errors.New("boom"))

	ids, err := NewTasksCommand(sender).DeleteByFilter(context.Background(), nil)

	assert.Error(t, err)
	assert.Nil(t, ids)
}

func TestExport(t *testing.T) {
	sender := new(mocks.MockSender)
	dl := &transport.Download{Body: io.NopCloser(strings.NewReader("<x/>")), ContentType: "application/xml"}
	sender.On("Download", mock.Anything, http.MethodPost, command("bulk_export",
		param("resource_type", "task"),
		param("bulk_select", "1"),
		param("bulk_selected:t1", "1"),
	)).Return(dl, nil).Once()
	sender.On("Download", mock.Anything, http.MethodPost, command("bulk_export",
		param("bulk_select", "0"),
		func(p transport.Params) bool { return filter.Parse(p.Get("filter")).Get("name") == "a" },
	)).Return(dl, nil).Once()

	got, err := NewTaskCommand(sender).Export(context.Background(), "t1")
	require.NoError(t, err)
	assert.Same(t, dl, got)

	_, err = NewTasksCommand(sender).ExportByFilter(context.Background(), filter.Parse("name=a"))
	require.NoError(t, err)
	sender.AssertExpectations(t)
}

func TestTaskCommand_Actions(t *testing.T) {
	sender := new(mocks.MockSender)
	sender.On("Post", mock.Anything, command("start_task", param("task_id", "t1"))).
		Return(action(t, "r1"), nil)
	sender.On("Post", mock.Anything, command("stop_task", param("task_id", "t1"))).
		Return(response(t, `<envelope><action_result><action>Stop Task</action><message>OK</message></action_result></envelope>`), nil)

	tasks := NewTaskCommand(sender)

	reportID, err := tasks.Start(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "r1", reportID)
	assert.NoError(t, tasks.Stop(context.Background(), "t1"))
}

func TestTaskCommand_Create(t *testing.T) {
	sender := new(mocks.MockSender)
	var sent transport.Params
	sender.On("Post", mock.Anything, command("create_task")).
		Run(func(args mock.Arguments) { sent = args.Get(1).(transport.Params) }).
		Return(action(t, "t9"), nil)

	id, err := NewTaskCommand(sender).Create(context.Background(), TaskParams{
		Name:      "weekly",
		TargetID:  "x",
		ConfigID:  "c",
		ScannerID: "s",
		AlertIDs:  []string{"a1", "a2"},
		MinQod:    70,
	})

	require.NoError(t, err)
	assert.Equal(t, "t9", id)
	assert.Equal(t, "scan", sent.Get("usage_type"))
	assert.Equal(t, "no", sent.Get("auto_delete"))
	assert.Equal(t, "70", sent.Get("min_qod"))
	assert.False(t, sent.Has("max_hosts"))
	assert.Equal(t, []string{"a1", "a2"}, sent.Values()["alert_ids:"])
}

func TestTaskParams_AutoDelete(t *testing.T) {
	p := TaskParams{AutoDelete: 5}.apply(transport.NewParams("save_task"))
	assert.Equal(t, "keep", p.Get("auto_delete"))
	assert.Equal(t, "5", p.Get("auto_delete_data"))
}

func TestAuthCommand_Login(t *testing.T) {
	sender := new(mocks.MockSender)
	resp := response(t, `<envelope>
		<token>tok</token><timezone>Europe/Berlin</timezone><role>Admin</role>
		<session>1700000000</session><i18n>de</i18n>
	</envelope>`)
	resp.SessionID = "sid"
	sender.On("Post", mock.Anything, command("login", param("login", "admin"), param("password", "secret"))).
		Return(resp, nil)

	s, err := NewAuthCommand(sender).Login(context.Background(), "admin", "secret")

	require.NoError(t, err)
	assert.Equal(t, transport.Credentials{Token: "tok", SessionID: "sid"}, s.Credentials())
	assert.Equal(t, "Admin", s.Role)
	assert.Equal(t, "de", s.Locale)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), s.Expires)
}

func TestAuthCommand_LoginWithoutToken(t *testing.T) {
	sender := new(mocks.MockSender)
	sender.On("Post", mock.Anything, command("login")).Return(response(t, `<envelope/>`), nil)

	_, err := NewAuthCommand(sender).Login(context.Background(), "admin", "secret")

	assert.ErrorIs(t, err, ErrNoToken)
}

func TestAuthCommand_RenewSession(t *testing.T) {
	tests := []struct {
		name string
		body string
		want time.Time
	}{
		{"meta", `<envelope><session>1700000100</session><renew_session/></envelope>`, time.Unix(1700000100, 0).UTC()},
		{"body", `<envelope><renew_session>1700000200</renew_session></envelope>`, time.Unix(1700000200, 0).UTC()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := new(mocks.MockSender)
			sender.On("Post", mock.Anything, command("renew_session")).Return(response(t, tt.body), nil)

			got, err := NewAuthCommand(sender).RenewSession(context.Background())

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTagCommand_AddResources(t *testing.T) {
	sender := new(mocks.MockSender)
	sender.On("Get", mock.Anything, command("get_tag", param("tag_id", "g1"))).
		Return(response(t, `<envelope><get_tags_response status="200">
			<tag id="g1"><name>env</name><comment>c</comment><value>prod</value><active>1</active></tag>
		</get_tags_response></envelope>`), nil)
	var sent transport.Params
	sender.On("Post", mock.Anything, command("save_tag")).
		Run(func(args mock.Arguments) { sent = args.Get(1).(transport.Params) }).
		Return(response(t, `<envelope><action_result><message>OK</message></action_result></envelope>`), nil)

	err := NewTagCommand(sender).AddResources(context.Background(), "g1", "host", []string{"h1", "h2"})

	require.NoError(t, err)
	assert.Equal(t, "add", sent.Get("resource_action"))
	assert.Equal(t, "asset", sent.Get("resource_type"))
	assert.Equal(t, "env", sent.Get("tag_name"))
	assert.Equal(t, "prod", sent.Get("tag_value"))
	assert.Equal(t, []string{"h1", "h2"}, sent.Values()["resource_ids:"])
}

func TestFilterCommand_Create(t *testing.T) {
	sender := new(mocks.MockSender)
	sender.On("Post", mock.Anything, command("create_filter",
		param("name", "high"),
		param("term", "severity>7"),
		param("resource_type", "port_list"),
	)).Return(action(t, "f1"), nil)

	id, err := NewFilterCommand(sender).Create(context.Background(), FilterParams{
		Name: "high", Term: "severity>7", ResourceType: "portlist",
	})

	require.NoError(t, err)
	assert.Equal(t, "f1", id)
}

func TestReportCommand_Download(t *testing.T) {
	sender := new(mocks.MockSender)
	dl := &transport.Download{Body: io.NopCloser(strings.NewReader("%PDF")), Filename: "report.pdf"}
	sender.On("Download", mock.Anything, http.MethodGet, command("get_report",
		param("report_id", "r1"),
		param("report_format_id", ReportFormatXML),
		param("details", "1"),
	)).Return(dl, nil)

	got, err := NewReportCommand(sender).Download(context.Background(), "r1", "", nil)

	require.NoError(t, err)
	assert.Equal(t, "report.pdf", got.Filename)
}

func TestReportCommand_GetDetails(t *testing.T) {
	sender := new(mocks.MockSender)
	sender.On("Get", mock.Anything, command("get_report",
		param("report_id", "r1"),
		param("details", "1"),
		param("filter", "severity>5"),
	)).Return(response(t, `<envelope><get_report><get_reports_response status="200">
		<report id="r1"><task id="t1"><name>scan</name></task><report id="r1">
			<scan_run_status>Done</scan_run_status>
			<results><result id="res1"><name>weak</name><severity>6.5</severity></result></results>
		</report></report>
	</get_reports_response></get_report></envelope>`), nil)

	r, err := NewReportCommand(sender).GetDetails(context.Background(), "r1", filter.Parse("severity>5"))

	require.NoError(t, err)
	assert.Equal(t, "Done", r.ScanRunStatus)
	require.Len(t, r.Results, 1)
	assert.Equal(t, "res1", r.Results[0].ID)
}

func TestUserCommand_CurrentSettings(t *testing.T) {
	sender := new(mocks.MockSender)
	sender.On("Get", mock.Anything, command("get_my_settings")).
		Return(response(t, `<envelope><get_my_settings><get_settings_response status="200">
			<setting id="5f5a8712-8017-11e1-8556-406186ea4fc5"><name>Rows Per Page</name><value>20</value></setting>
			<setting id="x"><name>Timezone</name><value>UTC</value></setting>
		</get_settings_response></get_my_settings></envelope>`), nil)

	settings, err := NewUserCommand(sender).CurrentSettings(context.Background())

	require.NoError(t, err)
	rows, ok := settings.Get("rows per page")
	require.True(t, ok)
	assert.Equal(t, SettingRowsPerPage, rows.ID)
	assert.Equal(t, "20", rows.Value)
}

func TestUserCommand_Capabilities(t *testing.T) {
	sender := new(mocks.MockSender)
	sender.On("Get", mock.Anything, command("get_capabilities")).
		Return(response(t, `<envelope><get_capabilities><help_response status="200"><schema>
			<command><name>GET_TASKS</name></command>
			<command><name>CREATE_TASK</name></command>
		</schema></help_response></get_capabilities></envelope>`), nil)

	caps, err := NewUserCommand(sender).Capabilities(context.Background())

	require.NoError(t, err)
	assert.True(t, caps.MayAccess("task"))
	assert.True(t, caps.MayCreate("task"))
	assert.False(t, caps.MayDelete("task"))
}

func TestRegistry_Lookup(t *testing.T) {
	reg := NewRegistry(new(mocks.MockSender))

	tests := []struct {
		in   string
		want string
	}{
		{"task", "task"},
		{"port_list", "portlist"},
		{"vuln", "vulnerability"},
		{"asset", "host"},
		{" Host ", "host"},
		{"nvt", "nvt"},
	}
	for _, tt := range tests {
		g, err := reg.Lookup(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, g.Resource().Type, tt.in)
	}

	_, err := reg.Lookup("bogus")
	assert.ErrorIs(t, err, ErrUnknownType)

	assert.Len(t, reg.Types(), 19)
	assert.Equal(t, "cpe", reg.Types()[0])
}

func TestRegistry_ListHosts(t *testing.T) {
	sender := new(mocks.MockSender)
	sender.On("Get", mock.Anything, command("get_assets", param("asset_type", "host"))).
		Return(response(t, `<envelope><get_assets><get_assets_response status="200">
			<asset id="h1"><name>10.0.0.1</name><type>host</type></asset>
			<assets start="1" max="10"/>
			<asset_count>1<filtered>1</filtered><page>1</page></asset_count>
		</get_assets_response></get_assets></envelope>`), nil)

	hosts, err := NewRegistry(sender).Lookup("host")
	require.NoError(t, err)
	c, err := hosts.List(context.Background(), nil)

	require.NoError(t, err)
	require.Len(t, c.Entities, 1)
	host, ok := c.Entities[0].(model.Host)
	require.True(t, ok)
	assert.Equal(t, "h1", host.ID)
	assert.Equal(t, 1, c.Counts.All)
}

func TestRegistry_ListNvts(t *testing.T) {
	sender := new(mocks.MockSender)
	sender.On("Get", mock.Anything, command("get_info", param("info_type", "nvt"))).
		Return(response(t, `<envelope><get_info><get_info_response status="200">
			<info id="1.3.6.1.4.1.25623.1.0.1"><name>Check</name><nvt oid="1.3.6.1.4.1.25623.1.0.1"><name>Check</name></nvt></info>
			<info start="1" max="10"/>
			<info_count>9<filtered>1</filtered><page>1</page></info_count>
		</get_info_response></get_info></envelope>`), nil)

	nvts, err := NewRegistry(sender).Lookup("nvt")
	require.NoError(t, err)
	c, err := nvts.List(context.Background(), filter.Parse("name~Check"))

	require.NoError(t, err)
	require.Len(t, c.Entities, 1)
	assert.Equal(t, "1.3.6.1.4.1.25623.1.0.1", c.Entities[0].(model.Nvt).OID)
	assert.Equal(t, 9, c.Counts.All)
}
