package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"github.com/vectis-labs/vectis/extension-client/chains"
	"github.com/vectis-labs/vectis/extension-client/client/cwclient"
	"github.com/vectis-labs/vectis/extension-client/todoapp"
	"github.com/vectis-labs/vectis/extension-client/wallet"
)

type errorResponse struct {
	Error string `json:"error"`
}

type chainRequest struct {
	ChainID string `json:"chainId"`
}

type accountRequest struct {
	Name string `json:"name"`
}

type contractResponse struct {
	ContractAddress string `json:"contractAddress"`
}

type todosResponse struct {
	Todos []todoapp.Todo `json:"todos"`
}

type addTodoRequest struct {
	Description string `json:"description"`
}

type updateTodoRequest struct {
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write response failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	s.writeJSON(w, statusOf(err), errorResponse{Error: err.Error()})
}

// statusOf maps application errors to http status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, wallet.ErrNotInstalled):
		return http.StatusServiceUnavailable
	case errors.Is(err, wallet.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, wallet.ErrKeyNotFound):
		return http.StatusNotFound
	case errors.Is(err, errNotSupported):
		return http.StatusNotImplemented
	case errors.Is(err, todoapp.ErrNotConnected),
		errors.Is(err, todoapp.ErrNoContract):
		return http.StatusConflict
	case errors.Is(err, chains.ErrUnknownChain),
		errors.Is(err, todoapp.ErrUnknownStatus),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, cwclient.ErrBroadcastTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

var (
	errBadRequest   = errors.New("bad request")
	errNotSupported = errors.New("not supported")
)

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrapf(errBadRequest, "invalid json body: %v", err)
	}
	return nil
}

func todoID(r *http.Request) (uint64, error) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(errBadRequest, "invalid todo id %q", r.PathValue("id"))
	}
	return id, nil
}

func (s *Server) stateHandler(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.controller.Snapshot())
}

func (s *Server) connectHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.controller.ConnectWallet(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.controller.Snapshot())
}

func (s *Server) chainHandler(w http.ResponseWriter, r *http.Request) {
	var req chainRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.controller.SetChain(r.Context(), req.ChainID); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.controller.Snapshot())
}

// accountHandler switches the wallet account. The controller reconnects in the background when
// it sees the account change, so the answer is 202 with the state before the reconnect.
func (s *Server) accountHandler(w http.ResponseWriter, r *http.Request) {
	if s.accounts == nil {
		s.writeError(w, errors.Wrap(errNotSupported, "wallet has no account selection"))
		return
	}

	var req accountRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Name == "" {
		s.writeError(w, errors.Wrap(errBadRequest, "name is required"))
		return
	}

	if err := s.accounts.SelectKey(req.Name); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusAccepted, s.controller.Snapshot())
}

func (s *Server) instantiateHandler(w http.ResponseWriter, r *http.Request) {
	addr, err := s.controller.InstantiateTodoContract(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, contractResponse{ContractAddress: addr})
}

func (s *Server) listTodosHandler(w http.ResponseWriter, r *http.Request) {
	// ?cached=true answers from the local cache without querying the contract
	if r.URL.Query().Get("cached") == "true" {
		s.writeJSON(w, http.StatusOK, todosResponse{Todos: nonNil(s.controller.Todos())})
		return
	}

	todos, err := s.controller.QueryTodos(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, todosResponse{Todos: nonNil(todos)})
}

func (s *Server) addTodoHandler(w http.ResponseWriter, r *http.Request) {
	var req addTodoRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Description == "" {
		s.writeError(w, errors.Wrap(errBadRequest, "description is required"))
		return
	}

	if err := s.controller.AddTodo(r.Context(), req.Description); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, todosResponse{Todos: nonNil(s.controller.Todos())})
}

func (s *Server) updateTodoHandler(w http.ResponseWriter, r *http.Request) {
	id, err := todoID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req updateTodoRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Description == nil && req.Status == nil {
		s.writeError(w, errors.Wrap(errBadRequest, "description or status is required"))
		return
	}

	if req.Description != nil {
		if err := s.controller.UpdateTodoDescription(r.Context(), id, *req.Description); err != nil {
			s.writeError(w, err)
			return
		}
	}

	if req.Status != nil {
		status, err := todoapp.ParseTodoStatus(*req.Status)
		if err != nil {
			s.writeError(w, err)
			return
		}
		if err := s.controller.UpdateTodoStatus(r.Context(), id, status); err != nil {
			s.writeError(w, err)
			return
		}
	}

	s.writeJSON(w, http.StatusOK, todosResponse{Todos: nonNil(s.controller.Todos())})
}

func (s *Server) deleteTodoHandler(w http.ResponseWriter, r *http.Request) {
	id, err := todoID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.controller.DeleteTodo(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, todosResponse{Todos: nonNil(s.controller.Todos())})
}

func (s *Server) notificationsHandler(w http.ResponseWriter, _ *http.Request) {
	entries := s.notifications.Entries()
	if entries == nil {
		entries = []todoapp.Notification{}
	}
	s.writeJSON(w, http.StatusOK, entries)
}

func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func nonNil(todos []todoapp.Todo) []todoapp.Todo {
	if todos == nil {
		return []todoapp.Todo{}
	}
	return todos
}
