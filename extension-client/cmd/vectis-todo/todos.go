package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/vectis-labs/vectis/extension-client/todoapp"
)

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func withConnectedApp(cliCtx *cli.Context, fn func(ctx context.Context, a *app) error) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newConnectedApp(ctx, cliCtx)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}

func connect(cliCtx *cli.Context) error {
	return withConnectedApp(cliCtx, func(_ context.Context, a *app) error {
		return printJSON(a.controller.Snapshot())
	})
}

func instantiate(cliCtx *cli.Context) error {
	return withConnectedApp(cliCtx, func(ctx context.Context, a *app) error {
		addr, err := a.controller.InstantiateTodoContract(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("todo contract %s\n", addr)
		return nil
	})
}

func todosList(cliCtx *cli.Context) error {
	return withConnectedApp(cliCtx, func(ctx context.Context, a *app) error {
		if a.controller.ContractAddress() == "" {
			return errors.Wrap(todoapp.ErrNoContract, "run instantiate first")
		}

		todos, err := a.controller.QueryTodos(ctx)
		if err != nil {
			return err
		}
		return printJSON(todos)
	})
}

func todosAdd(cliCtx *cli.Context) error {
	description := cliCtx.Args().Get(0)
	if description == "" {
		return errors.New("description is required")
	}

	return withConnectedApp(cliCtx, func(ctx context.Context, a *app) error {
		if err := a.controller.AddTodo(ctx, description); err != nil {
			return err
		}
		return printJSON(a.controller.Todos())
	})
}

func parseID(cliCtx *cli.Context) (uint64, error) {
	id, err := strconv.ParseUint(cliCtx.Args().Get(0), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid todo id %q", cliCtx.Args().Get(0))
	}
	return id, nil
}

func todosDelete(cliCtx *cli.Context) error {
	id, err := parseID(cliCtx)
	if err != nil {
		return err
	}

	return withConnectedApp(cliCtx, func(ctx context.Context, a *app) error {
		if err := a.controller.DeleteTodo(ctx, id); err != nil {
			return err
		}
		return printJSON(a.controller.Todos())
	})
}

func todosUpdate(cliCtx *cli.Context) error {
	id, err := parseID(cliCtx)
	if err != nil {
		return err
	}

	description := cliCtx.String("description")
	rawStatus := cliCtx.String("status")
	if description == "" && rawStatus == "" {
		return errors.New("--description or --status is required")
	}

	var status todoapp.TodoStatus
	if rawStatus != "" {
		if status, err = todoapp.ParseTodoStatus(rawStatus); err != nil {
			return err
		}
	}

	return withConnectedApp(cliCtx, func(ctx context.Context, a *app) error {
		if description != "" {
			if err := a.controller.UpdateTodoDescription(ctx, id, description); err != nil {
				return err
			}
		}
		if status != "" {
			if err := a.controller.UpdateTodoStatus(ctx, id, status); err != nil {
				return err
			}
		}
		return printJSON(a.controller.Todos())
	})
}
