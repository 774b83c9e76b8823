package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gsa/internal/gmp/parser"
	"gsa/internal/gmp/transport"
)

func response(t *testing.T, body string) *transport.Response {
	t.Helper()
	el, err := parser.DecodeString(body)
	require.NoError(t, err)
	return transport.NewResponse(el)
}

func gmpCommand(cmd string, check ...func(transport.Params) bool) any {
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

func ok(t *testing.T) *transport.Response {
	return response(t, `<envelope><action_result><message>OK</message></action_result></envelope>`)
}

func created(t *testing.T, id string) *transport.Response {
	return response(t, strings.Replace(`<envelope><action_result><action>Create</action><id>%s</id><message>OK</message></action_result></envelope>`, "%s", id, 1))
}

const taskList = `<envelope><get_tasks><get_tasks_response status="200" status_text="OK">
	<task id="t1"><name>first</name><status>Done</status><target id="x"/></task>
	<task id="t2"><name>second</name><status>New</status><target id="y"/></task>
	<filters id=""><term>first=1 rows=10</term></filters>
	<tasks start="1" max="10"/>
	<task_count>5<filtered>2</filtered><page>2</page></task_count>
</get_tasks_response></get_tasks></envelope>`

const pagedTaskList = `<envelope><get_tasks_response status="200">
	<task id="t3"><name>third</name></task>
	<task id="t4"><name>fourth</name></task>
	<filters id=""><term>first=3 rows=2 sort=name</term></filters>
	<sort><field>name<order>ascending</order></field></sort>
	<tasks start="3" max="2"/>
	<task_count>9<filtered>7</filtered><page>2</page></task_count>
</get_tasks_response></envelope>`
