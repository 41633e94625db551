package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/classroll/attendance-tracker/internal/application/tracker"
	"github.com/classroll/attendance-tracker/internal/domain/attendance"
	"github.com/classroll/attendance-tracker/internal/infrastructure/export/sqlite"
	"github.com/classroll/attendance-tracker/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ROOT
// ══════════════════════════════════════════════════════════════════════════════

type rootOptions struct {
	json bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "attendance",
		Short:         "Register students and record their attendance",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&opts.json, "json", false, "print results as JSON")

	root.AddCommand(
		newRegisterCmd(opts),
		newDeleteCmd(),
		newListCmd(opts),
		newShowCmd(opts),
		newMarkCmd(opts),
		newReportCmd(opts),
		newProfileCmd(opts),
		newOrphansCmd(opts),
		newExportCmd(opts),
		newMigrateCmd(),
		newServeCmd(),
	)
	return root
}

// withApp opens the application for one command and logs the failure, if any.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := fn(ctx, a); err != nil {
		a.log.Warn("command failed", logger.Operation(cmd.Name()), logger.Err(err))
		return err
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ══════════════════════════════════════════════════════════════════════════════
// ROSTER
// ══════════════════════════════════════════════════════════════════════════════

func newRegisterCmd(opts *rootOptions) *cobra.Command {
	var date, clock string
	var now bool

	cmd := &cobra.Command{
		Use:   "register <roll> <name>",
		Short: "Register a student",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if now {
					clock = a.clock.NowTime()
				}
				s, err := a.tracker.Register(ctx, tracker.RegisterCommand{
					RollNumber: args[0],
					Name:       args[1],
					Date:       a.clock.DateOr(date),
					Time:       clock,
				})
				if err != nil {
					return err
				}
				if opts.json {
					return printJSON(cmd.OutOrStdout(), newStudentView(s.RollNumber.String(), s.Name, s.RegisteredOn.String()))
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Student registered!")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "registration date (default today)")
	cmd.Flags().StringVar(&clock, "time", "", "registration time, e.g. 09:00")
	cmd.Flags().BoolVar(&now, "now", false, "use the current time")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <roll>",
		Short: "Delete a student and all of the student's attendance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if !yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Delete student %s? [y/N] ", args[0])) {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
				if err := a.tracker.Delete(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Student deleted.")
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	line, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List students in registration order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(_ context.Context, a *app) error {
				list := a.tracker.List()
				if opts.json {
					return printJSON(cmd.OutOrStdout(), list)
				}
				for _, s := range list {
					fmt.Fprintf(cmd.OutOrStdout(), "%s - %s\n", s.RollNumber, s.Name)
				}
				return nil
			})
		},
	}
}

// studentView is a roster record with its key.
type studentView struct {
	RollNumber   string `json:"roll_number"`
	Name         string `json:"name"`
	RegisteredOn string `json:"registered_on"`
}

func newStudentView(roll, name, registeredOn string) studentView {
	return studentView{RollNumber: roll, Name: name, RegisteredOn: registeredOn}
}

func newShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <roll>",
		Short: "Show a student record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(_ context.Context, a *app) error {
				s, err := a.tracker.Get(args[0])
				if err != nil {
					return err
				}
				if opts.json {
					return printJSON(cmd.OutOrStdout(), newStudentView(s.RollNumber.String(), s.Name, s.RegisteredOn.String()))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Name: %s\nRoll No: %s\nRegistered: %s\n", s.Name, s.RollNumber, s.RegisteredOn)
				return nil
			})
		},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ATTENDANCE
// ══════════════════════════════════════════════════════════════════════════════

func newMarkCmd(opts *rootOptions) *cobra.Command {
	var date, clock string
	var now bool

	cmd := &cobra.Command{
		Use:   "mark <roll> <Present|Absent>",
		Short: "Record attendance for a student",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if now {
					clock = a.clock.NowTime()
				}
				err := a.tracker.Mark(ctx, tracker.MarkCommand{
					RollNumber: args[0],
					Date:       a.clock.DateOr(date),
					Time:       clock,
					Status:     attendance.Status(args[1]),
				})
				if err != nil {
					return err
				}
				if opts.json {
					return printJSON(cmd.OutOrStdout(), a.tracker.Aggregate(args[0]))
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Attendance marked.")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "attendance date (default today)")
	cmd.Flags().StringVar(&clock, "time", "", "attendance time, e.g. 09:05")
	cmd.Flags().BoolVar(&now, "now", false, "use the current time")
	return cmd
}

func newReportCmd(opts *rootOptions) *cobra.Command {
	var entries bool

	cmd := &cobra.Command{
		Use:   "report <roll>",
		Short: "Show present/absent counts and the attendance percentage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(_ context.Context, a *app) error {
				summary := a.tracker.Aggregate(args[0])
				if opts.json {
					if entries {
						return printJSON(cmd.OutOrStdout(), map[string]any{
							"summary": summary,
							"entries": a.tracker.Entries(args[0]),
						})
					}
					return printJSON(cmd.OutOrStdout(), summary)
				}
				if entries {
					for _, e := range a.tracker.Entries(args[0]) {
						fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", e.At, e.Status)
					}
				}
				fmt.Fprintln(cmd.OutOrStdout(), summary.String())
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&entries, "entries", false, "also list every entry")
	return cmd
}

func newProfileCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "profile <roll>",
		Short: "Show a student's name, roll number and attendance percentage",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roll := ""
			if len(args) == 1 {
				roll = args[0]
			}
			return withApp(cmd, func(_ context.Context, a *app) error {
				p, err := a.tracker.Profile(roll)
				if err != nil {
					return err
				}
				if opts.json {
					return printJSON(cmd.OutOrStdout(), p)
				}
				fmt.Fprintln(cmd.OutOrStdout(), p.String())
				return nil
			})
		},
	}
}

func newOrphansCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "orphans",
		Short: "List roll numbers that have attendance but no roster record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(_ context.Context, a *app) error {
				orphans := a.tracker.Orphans()
				if opts.json {
					return printJSON(cmd.OutOrStdout(), orphans)
				}
				for _, roll := range orphans {
					fmt.Fprintln(cmd.OutOrStdout(), roll)
				}
				return nil
			})
		},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// MAINTENANCE
// ══════════════════════════════════════════════════════════════════════════════

func newExportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.db>",
		Short: "Write the roster and the ledger to a SQLite database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				stats, err := sqlite.Export(ctx, args[0], a.tracker.Students(), a.tracker.AllEntries())
				if err != nil {
					return err
				}
				a.log.Info("snapshot exported", logger.Path(args[0]),
					logger.Count("students", stats.Students), logger.Count("entries", stats.Entries))
				if opts.json {
					return printJSON(cmd.OutOrStdout(), stats)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d students and %d entries to %s\n",
					stats.Students, stats.Entries, args[0])
				return nil
			})
		},
	}
}
