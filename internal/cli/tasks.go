package cli

import (
	"bufio"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"taskmgr/internal/api"
	"taskmgr/internal/app"
	"taskmgr/internal/exitcode"
	"taskmgr/internal/form"
	"taskmgr/internal/output"
	"taskmgr/internal/task"
)

func newListCmd(rt *runtime) *cobra.Command {
	var sortFlag string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			by, err := parseSort(sortFlag, rt.cfg.DefaultSort)
			if err != nil {
				return userErr(err)
			}
			if err := rt.do(cmd, rt.ctrl.Load()); err != nil {
				return err
			}
			output.WriteTable(cmd.OutOrStdout(), rt.ctrl.Sorted(by))
			return nil
		},
	}
	cmd.Flags().StringVar(&sortFlag, "sort", "", "sort order: none, status or dueDate (default from config)")
	return cmd
}

// parseSort rejects unknown modes; an empty flag falls back to the config.
func parseSort(flag, fallback string) (app.SortBy, error) {
	if strings.TrimSpace(flag) == "" {
		return app.ParseSortBy(fallback), nil
	}
	for _, s := range app.SortModes() {
		if strings.EqualFold(strings.TrimSpace(flag), string(s)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown sort %q (want none, status or dueDate)", flag)
}

type taskFlags struct {
	title       string
	description string
	status      string
	due         string
}

func (f *taskFlags) register(cmd *cobra.Command, defaultStatus string) {
	cmd.Flags().StringVar(&f.title, "title", "", "task title (required, max 100 characters)")
	cmd.Flags().StringVar(&f.description, "description", "", "task description (max 500 characters)")
	cmd.Flags().StringVar(&f.status, "status", defaultStatus, "TODO, IN_PROGRESS or DONE")
	cmd.Flags().StringVar(&f.due, "due", "", "due date, YYYY-MM-DD")
}

// apply copies the flags the user set onto draft.
func (f *taskFlags) apply(cmd *cobra.Command, draft *task.Task) {
	if cmd.Flags().Changed("title") {
		draft.Title = f.title
	}
	if cmd.Flags().Changed("description") {
		draft.Description = f.description
	}
	if cmd.Flags().Changed("status") {
		draft.Status = parseStatusLoose(f.status)
	}
	if cmd.Flags().Changed("due") {
		draft.DueDate = f.due
	}
}

// parseStatusLoose keeps an unknown value as-is so validation can report it.
func parseStatusLoose(v string) task.Status {
	if s, ok := task.ParseStatus(v); ok {
		return s
	}
	return task.Status(v)
}

func newAddCmd(rt *runtime) *cobra.Command {
	var flags taskFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := form.New(nil)
			f.Draft.Status = parseStatusLoose(flags.status)
			flags.apply(cmd, &f.Draft)

			draft, err := submit(cmd, f)
			if err != nil {
				return err
			}
			rt.ctrl.CancelEdit()
			return rt.save(cmd, draft, "Created")
		},
	}
	flags.register(cmd, string(task.StatusTodo))
	return cmd
}

func newEditCmd(rt *runtime) *cobra.Command {
	var flags taskFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a task's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := rt.lookup(cmd, args[0])
			if err != nil {
				return err
			}
			f := form.New(rt.ctrl.CancelEdit)
			f.Reset(&current)
			flags.apply(cmd, &f.Draft)

			draft, err := submit(cmd, f)
			if err != nil {
				return err
			}
			rt.ctrl.Edit(current)
			return rt.save(cmd, draft, "Updated")
		},
	}
	flags.register(cmd, "")
	return cmd
}

func newStatusCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <STATUS>",
		Short: "Set a task's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, ok := task.ParseStatus(args[1])
			if !ok {
				return userErr(fmt.Errorf("unknown status %q (want TODO, IN_PROGRESS or DONE)", args[1]))
			}
			current, err := rt.lookup(cmd, args[0])
			if err != nil {
				return err
			}
			r, err := rt.run(cmd, rt.ctrl.ChangeStatus(current, status))
			if err != nil {
				return err
			}
			if u, ok := r.(app.Updated); ok {
				output.WriteTask(cmd.OutOrStdout(), "Updated", u.Task)
			}
			return nil
		},
	}
}

func newRmCmd(rt *runtime) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := rt.lookup(cmd, args[0])
			if err != nil {
				return err
			}
			confirm := app.Confirmed
			if !yes {
				confirm = prompt(cmd)
			}
			req := rt.ctrl.Delete(current, confirm)
			if req == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			}
			if err := rt.do(cmd, req); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task #%d\n", current.ID)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking")
	return cmd
}

// prompt asks on the command's input; anything but y/yes declines.
func prompt(cmd *cobra.Command) app.ConfirmFunc {
	return func(t task.Task) bool {
		fmt.Fprintf(cmd.OutOrStdout(), "Delete task \"%s\"? [y/N] ", t.Title)
		line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		}
		return false
	}
}

// submit validates f, printing one line per invalid field.
func submit(cmd *cobra.Command, f *form.Form) (task.Task, error) {
	var draft task.Task
	if !f.Submit(func(t task.Task) { draft = t }) {
		output.WriteFieldErrors(cmd.ErrOrStderr(), form.Fields(), f.Errors)
		return task.Task{}, &exitError{code: exitcode.UserError, silent: true}
	}
	return draft, nil
}

func (rt *runtime) save(cmd *cobra.Command, draft task.Task, verb string) error {
	r, err := rt.run(cmd, rt.ctrl.CreateOrUpdate(draft))
	if err != nil {
		return err
	}
	switch r := r.(type) {
	case app.Created:
		output.WriteTask(cmd.OutOrStdout(), verb, r.Task)
	case app.Updated:
		output.WriteTask(cmd.OutOrStdout(), verb, r.Task)
	}
	return nil
}

// lookup fetches the task named by a positional id.
func (rt *runtime) lookup(cmd *cobra.Command, arg string) (task.Task, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id < 1 {
		return task.Task{}, userErr(fmt.Errorf("invalid task id %q", arg))
	}
	t, err := rt.client.GetTask(cmd.Context(), id)
	if err != nil {
		var rf *api.RequestFailed
		if errors.As(err, &rf) && rf.StatusCode == http.StatusNotFound {
			return task.Task{}, userErr(err)
		}
		return task.Task{}, backendErr(err)
	}
	return t, nil
}

func (rt *runtime) do(cmd *cobra.Command, req app.Request) error {
	_, err := rt.run(cmd, req)
	return err
}

// run executes req through the controller and turns a failure into a
// backend error carrying the controller's message.
func (rt *runtime) run(cmd *cobra.Command, req app.Request) (app.Result, error) {
	r := rt.ctrl.Do(cmd.Context(), req)
	if f, ok := r.(app.Failed); ok {
		return r, backendErr(&failure{msg: rt.ctrl.Err(), err: f.Err})
	}
	return r, nil
}

// failure shows the controller's message and keeps the cause for errors.Is.
type failure struct {
	msg string
	err error
}

func (f *failure) Error() string { return f.msg }
func (f *failure) Unwrap() error { return f.err }
