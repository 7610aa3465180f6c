package todoapp

import (
	"encoding/json"

	"github.com/pkg/errors"
)

type TodoStatus string

const (
	StatusToDo       TodoStatus = "to_do"
	StatusInProgress TodoStatus = "in_progress"
	StatusDone       TodoStatus = "done"
	StatusCancelled  TodoStatus = "cancelled"

	DefaultStatus = StatusToDo
)

var ErrUnknownStatus = errors.New("unknown todo status")

func ParseTodoStatus(s string) (TodoStatus, error) {
	switch status := TodoStatus(s); status {
	case StatusToDo, StatusInProgress, StatusDone, StatusCancelled:
		return status, nil
	default:
		return "", errors.Wrapf(ErrUnknownStatus, "%q", s)
	}
}

func (s *TodoStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "todo status must be a string")
	}

	status, err := ParseTodoStatus(raw)
	if err != nil {
		return err
	}

	*s = status
	return nil
}

// Todo is one entry of the contract's list. The contract owns it, the controller only caches.
type Todo struct {
	ID          uint64     `json:"id"`
	Description string     `json:"description"`
	Status      TodoStatus `json:"status"`
}

const (
	// contract label used on instantiation
	ContractLabel = "Todo-List"
	// page size of get_todo_list
	QueryLimit = 30
)

type InstantiateMsg struct {
	Owner string `json:"owner"`
}

type QueryMsg struct {
	GetTodoList *GetTodoListQuery `json:"get_todo_list,omitempty"`
}

type GetTodoListQuery struct {
	Addr  string `json:"addr"`
	Limit uint32 `json:"limit"`
}

type TodoListResponse struct {
	Todos []Todo `json:"todos"`
}

type ExecuteMsg struct {
	AddTodo    *AddTodoMsg    `json:"add_todo,omitempty"`
	DeleteTodo *DeleteTodoMsg `json:"delete_todo,omitempty"`
	UpdateTodo *UpdateTodoMsg `json:"update_todo,omitempty"`
}

// Kind is the name of the message variant, used for logs and metrics.
func (m ExecuteMsg) Kind() string {
	switch {
	case m.AddTodo != nil:
		return "add_todo"
	case m.DeleteTodo != nil:
		return "delete_todo"
	case m.UpdateTodo != nil:
		return "update_todo"
	default:
		return "unknown"
	}
}

type AddTodoMsg struct {
	Description string `json:"description"`
}

type DeleteTodoMsg struct {
	ID uint64 `json:"id"`
}

type UpdateTodoMsg struct {
	ID          uint64      `json:"id"`
	Description *string     `json:"description,omitempty"`
	Status      *TodoStatus `json:"status,omitempty"`
}
