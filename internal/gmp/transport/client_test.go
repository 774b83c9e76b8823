package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gsa/internal/gmp/parser"
)

const tasksEnvelope = `<envelope>
	<version>22.4</version>
	<token>tok-2</token>
	<time>Mon Jan 1 10:00:00 2024</time>
	<timezone>UTC</timezone>
	<login>admin</login>
	<role>Admin</role>
	<session>1704106800</session>
	<backend_operation>0.5</backend_operation>
	<get_tasks_response status="200" status_text="OK">
		<task id="t1"><name>Scan</name></task>
	</get_tasks_response>
</envelope>`

func TestClient_Get(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		_, _ = io.WriteString(w, tasksEnvelope)
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/gmp", time.Second, false)
	ctx := WithCredentials(context.Background(), Credentials{Token: "tok", SessionID: "sid"})
	resp, err := c.Get(ctx, NewParams("get_tasks").SetFilter("rows=10"))
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "/gmp", got.URL.Path)
	assert.Equal(t, "get_tasks", got.URL.Query().Get("cmd"))
	assert.Equal(t, "tok", got.URL.Query().Get("token"))
	assert.Equal(t, "rows=10", got.URL.Query().Get("filter"))
	cookie, err := got.Cookie(SessionCookie)
	require.NoError(t, err)
	assert.Equal(t, "sid", cookie.Value)

	assert.Equal(t, "get_tasks_response", resp.Data.Name)
	assert.Equal(t, "t1", resp.Data.Child("task").Attr("id"))
	assert.Equal(t, "tok-2", resp.Meta.Token)
	assert.Equal(t, "admin", resp.Meta.Login)
	assert.Equal(t, time.Unix(1704106800, 0).UTC(), resp.Meta.SessionExpiry)
	assert.Equal(t, 500*time.Millisecond, resp.Meta.BackendOperation)
}

func TestClient_Post(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.Equal(t, "bulk_delete", r.PostForm.Get("cmd"))
		assert.Equal(t, "1", r.PostForm.Get("bulk_selected:a"))
		assert.Equal(t, "1", r.PostForm.Get("bulk_selected:b"))
		assert.Equal(t, "task", r.PostForm.Get("resource_type"))
		assert.Equal(t, "tok", r.PostForm.Get("token"))

		http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "new-sid"})
		_, _ = io.WriteString(w, `<envelope><action_result><action>Bulk Delete</action><id></id><message>OK</message></action_result></envelope>`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, false)
	resp, err := c.Post(WithCredentials(context.Background(), Credentials{Token: "tok"}),
		NewParams("bulk_delete").Set("resource_type", "task").SetIDs([]string{"a", "b"}))
	require.NoError(t, err)
	assert.Equal(t, "action_result", resp.Data.Name)
	assert.Equal(t, "new-sid", resp.SessionID)
}

func TestClient_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		reason     Reason
		gmpStatus  int
		message    string
		statusCode int
	}{
		{
			name:       "unauthorized",
			status:     http.StatusUnauthorized,
			body:       `<envelope><gsad_response><title>Authentication required</title><message>Session expired</message></gsad_response></envelope>`,
			reason:     ReasonUnauthorized,
			message:    "Session expired",
			statusCode: http.StatusUnauthorized,
		},
		{
			name:       "http error with action result",
			status:     http.StatusBadRequest,
			body:       `<envelope><action_result><action>Start Task</action><message>Task is already active</message></action_result></envelope>`,
			reason:     ReasonError,
			message:    "Task is already active",
			statusCode: http.StatusBadRequest,
		},
		{
			name:       "gmp status",
			status:     http.StatusOK,
			body:       `<envelope><get_tasks_response status="404" status_text="Failed to find task 'x'"/></envelope>`,
			reason:     ReasonError,
			gmpStatus:  404,
			message:    "Failed to find task 'x'",
			statusCode: http.StatusOK,
		},
		{
			name:       "plain text error",
			status:     http.StatusInternalServerError,
			body:       `internal error`,
			reason:     ReasonError,
			message:    "500 Internal Server Error",
			statusCode: http.StatusInternalServerError,
		},
		{
			name:       "invalid xml",
			status:     http.StatusOK,
			body:       `<envelope>`,
			reason:     ReasonError,
			message:    "invalid response",
			statusCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, time.Second, false).Get(context.Background(), NewParams("get_tasks"))
			require.Error(t, err)

			var rej *Rejection
			require.True(t, errors.As(err, &rej))
			assert.Equal(t, tt.reason, rej.Reason)
			assert.Equal(t, tt.gmpStatus, rej.Status)
			assert.Equal(t, tt.message, rej.Message)
			assert.Equal(t, tt.statusCode, rej.StatusCode)
			assert.Equal(t, "get_tasks", rej.Command)
		})
	}
}

func TestClient_EmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL, time.Second, false).Post(context.Background(), NewParams("logout"))
	require.NoError(t, err)
	assert.Nil(t, resp.Data)
}

func TestClient_TimeoutAndCancel(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(srv.URL, 5*time.Second, false)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.Get(ctx, NewParams("get_tasks"))
	assert.Equal(t, ReasonTimeout, ReasonOf(err))

	ctx, cancel2 := context.WithCancel(context.Background())
	cancel2()
	_, err = c.Get(ctx, NewParams("get_tasks"))
	assert.Equal(t, ReasonCancel, ReasonOf(err))
	assert.False(t, IsUnauthorized(err))
}

func TestClient_Metrics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("cmd") == "get_targets" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, tasksEnvelope)
	}))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	c := NewClient(srv.URL, time.Second, false, WithMetrics(m))
	_, err = c.Get(context.Background(), NewParams("get_tasks"))
	require.NoError(t, err)
	_, err = c.Get(context.Background(), NewParams("get_targets"))
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.commands.WithLabelValues("get_tasks", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.commands.WithLabelValues("get_targets", "unauthorized")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.duration))

	_, err = NewMetrics(reg)
	assert.Error(t, err, "registering twice fails")
}

func TestClient_Download(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "get_report", r.URL.Query().Get("cmd"))
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="report-r1.pdf"`)
		_, _ = io.WriteString(w, "%PDF-1.4")
	}))
	defer srv.Close()

	d, err := NewClient(srv.URL, time.Second, false).Download(WithCredentials(context.Background(), Credentials{Token: "tok"}), http.MethodGet,
		NewParams("get_report").Set("report_id", "r1"))
	require.NoError(t, err)
	defer d.Body.Close()

	body, err := io.ReadAll(d.Body)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(body))
	assert.Equal(t, "application/pdf", d.ContentType)
	assert.Equal(t, "report-r1.pdf", d.Filename)
}

func TestClient_DownloadError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `<envelope><gsad_response><message>Report not found</message></gsad_response></envelope>`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second, false).Download(context.Background(), http.MethodGet, NewParams("get_report"))
	var rej *Rejection
	require.True(t, errors.As(err, &rej))
	assert.Equal(t, "Report not found", rej.Message)
	assert.Equal(t, http.StatusNotFound, rej.StatusCode)
}

func TestNewResponse(t *testing.T) {
	tests := []struct {
		name string
		xml  string
		want string
	}{
		{"direct", `<envelope><token>x</token><get_tasks_response status="200"/></envelope>`, "get_tasks_response"},
		{"wrapped", `<envelope><get_task><get_tasks_response status="200"/></get_task></envelope>`, "get_tasks_response"},
		{"action result", `<envelope><action_result><id>a</id></action_result></envelope>`, "action_result"},
		{"fallback", `<envelope><token>x</token><renew_session>1</renew_session></envelope>`, "renew_session"},
		{"no envelope", `<get_tasks_response status="200"/>`, "get_tasks_response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := parser.DecodeString(tt.xml)
			require.NoError(t, err)
			assert.Equal(t, tt.want, NewResponse(root).Data.Name)
		})
	}
}

func TestParams(t *testing.T) {
	p := NewParams("modify_tag").
		Set("tag_id", "x").
		SetInt("rows", 10).
		SetBool("active", true).
		SetBool("trash", false).
		SetIf("comment", "").
		SetFilter("").
		SetList("resource_ids", []string{"a", "b"})

	v := p.Values()
	assert.Equal(t, "modify_tag", p.Command())
	assert.Equal(t, "10", v.Get("rows"))
	assert.Equal(t, "1", v.Get("active"))
	assert.Equal(t, "0", v.Get("trash"))
	assert.False(t, p.Has("comment"))
	assert.False(t, p.Has("filter"))
	assert.Equal(t, []string{"a", "b"}, v["resource_ids:"])

	v.Set("cmd", "changed")
	assert.Equal(t, "modify_tag", p.Command(), "Values returns a copy")
}

func TestCredentialsFrom(t *testing.T) {
	_, ok := CredentialsFrom(context.Background())
	assert.False(t, ok)

	creds, ok := CredentialsFrom(WithCredentials(context.Background(), Credentials{Token: "t", SessionID: "s"}))
	assert.True(t, ok)
	assert.Equal(t, Credentials{Token: "t", SessionID: "s"}, creds)
}

func TestRejection_Error(t *testing.T) {
	rej := &Rejection{Reason: ReasonTimeout, Command: "get_tasks", Err: context.DeadlineExceeded}
	assert.Equal(t, "gmp get_tasks: timeout: context deadline exceeded", rej.Error())
	assert.True(t, errors.Is(rej, context.DeadlineExceeded))
	assert.Equal(t, Reason(""), ReasonOf(errors.New("other")))
}
