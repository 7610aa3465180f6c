package todoapp

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTodoStatus(t *testing.T) {
	for _, s := range []string{"to_do", "in_progress", "done", "cancelled"} {
		status, err := ParseTodoStatus(s)
		require.NoError(t, err)
		assert.Equal(t, TodoStatus(s), status)
	}

	_, err := ParseTodoStatus("pending")
	assert.True(t, errors.Is(err, ErrUnknownStatus))

	var todo Todo
	err = json.Unmarshal([]byte(`{"id":1,"description":"x","status":"archived"}`), &todo)
	assert.True(t, errors.Is(err, ErrUnknownStatus))
}

func TestMessageShapes(t *testing.T) {
	tests := []struct {
		name     string
		msg      any
		expected string
	}{
		{
			"query",
			QueryMsg{GetTodoList: &GetTodoListQuery{Addr: "pulsar1abc", Limit: QueryLimit}},
			`{"get_todo_list":{"addr":"pulsar1abc","limit":30}}`,
		},
		{"instantiate", InstantiateMsg{Owner: "pulsar1abc"}, `{"owner":"pulsar1abc"}`},
		{"add", ExecuteMsg{AddTodo: &AddTodoMsg{Description: "buy milk"}}, `{"add_todo":{"description":"buy milk"}}`},
		{"delete", ExecuteMsg{DeleteTodo: &DeleteTodoMsg{ID: 3}}, `{"delete_todo":{"id":3}}`},
		{
			"update description only",
			ExecuteMsg{UpdateTodo: &UpdateTodoMsg{ID: 3, Description: strPtr("oat milk")}},
			`{"update_todo":{"id":3,"description":"oat milk"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := json.Marshal(tt.msg)
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(raw))
		})
	}

	assert.Equal(t, "update_todo", ExecuteMsg{UpdateTodo: &UpdateTodoMsg{}}.Kind())
	assert.Equal(t, "unknown", ExecuteMsg{}.Kind())
}

func strPtr(s string) *string {
	return &s
}

func TestPromise(t *testing.T) {
	n := NewRecordingNotifier(0, nil)
	msgs := PromiseMessages{Loading: msgLoading, Success: msgExecuted}

	v, err := Promise(n, msgs, func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	_, err = Promise(n, msgs, func() (int, error) { return 0, errors.New("insufficient fees") })
	require.Error(t, err)

	msgs.OnError = msgExecuteFailed
	_, err = Promise(n, msgs, func() (int, error) { return 0, errors.New("insufficient fees") })
	require.Error(t, err)

	assert.Equal(t, []string{msgLoading, msgLoading, msgLoading}, n.Level(LevelLoading))
	assert.Equal(t, []string{msgExecuted}, n.Level(LevelSuccess))
	assert.Equal(t, []string{"insufficient fees", msgExecuteFailed}, n.Level(LevelError))
}

func TestRecordingNotifierLimit(t *testing.T) {
	next := NewRecordingNotifier(0, nil)
	n := NewRecordingNotifier(2, next)

	n.Loading("a")
	n.Success("b")
	n.Error("c")

	entries := n.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "b", entries[0].Message)
	assert.Equal(t, LevelError, entries[1].Level)
	assert.Len(t, next.Entries(), 3)
}
