package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"abq-data-entry/internal/dataentry/domain"
	"abq-data-entry/internal/dataentry/usecases"

	"github.com/spf13/cobra"
)

func newFieldsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List the form fields and their constraints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FIELD\tTYPE\tREQUIRED\tCONSTRAINTS")
			for _, field := range a.form.Fields {
				fmt.Fprintf(w, "%s\t%s\t%t\t%s\n", field.Name, field.Type, field.IsRequired, describe(field))
			}
			return w.Flush()
		},
	}
}

func describe(field domain.FieldDefinition) string {
	switch {
	case field.Type.IsChoice():
		return strings.Join(field.Values, " | ")
	case field.Type.IsNumeric():
		increment := field.Increment
		if increment == "" {
			increment = "1"
		}
		return fmt.Sprintf("%s..%s step %s", field.Min, field.Max, increment)
	default:
		return ""
	}
}

func newSaveCmd(a *app) *cobra.Command {
	var (
		values []string
		row    int
	)

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Validate a record and save it",
		Long: `Types each --set value into its field, validates the whole form and saves
it. With --row the stored record at that position is loaded first and then
rewritten in place.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session := a.newSession()
			if row >= 0 {
				if err := session.Load(cmd.Context(), row); err != nil {
					return fail(cmd, "%w", err)
				}
			}

			for _, assignment := range values {
				name, value, ok := strings.Cut(assignment, "=")
				if !ok {
					return fail(cmd, "invalid --set %q, expected Name=Value", assignment)
				}
				if err := enter(session, name, value); err != nil {
					return fail(cmd, "%w", err)
				}
			}

			err := session.Save(cmd.Context())
			var formErrors *usecases.FormErrors
			if errors.As(err, &formErrors) {
				for _, name := range a.form.Names() {
					if msg, ok := formErrors.Fields[name]; ok {
						cmd.PrintErrf("%s: %s\n", name, msg)
					}
				}
			}
			if err != nil {
				return fail(cmd, "%w", err)
			}

			cmd.Printf("%d records saved this session\n", session.RecordsSaved())
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&values, "set", nil, `field value as "Name=Value", repeatable`)
	cmd.Flags().IntVar(&row, "row", -1, "0-based position of a stored record to edit")
	return cmd
}

// enter replaces a field's text the way a user would: clear it, type the new
// value and leave the field.
func enter(session *usecases.Session, name, value string) error {
	field, ok := session.Form().Field(name)
	if !ok {
		return fmt.Errorf("%w: %s", usecases.ErrFieldNotFound, name)
	}
	if field.Type == domain.FieldTypeBoolean {
		return session.SetFlag(name, domain.ParseFlag(value))
	}

	state, err := session.Field(name)
	if err != nil {
		return err
	}
	if state.Disabled {
		return fmt.Errorf("%w: %s", usecases.ErrFieldDisabled, name)
	}
	if _, err := session.Delete(name, 0, len([]rune(state.Value))); err != nil {
		return err
	}
	if _, err := session.Type(name, value); err != nil {
		return err
	}
	// the whole-form check in Save reports the failure
	_ = session.Leave(name)
	return nil
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, err := a.repository.FindAll(cmd.Context())
			if err != nil {
				return fail(cmd, "%w", err)
			}

			names := a.form.Names()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "ROW\t%s\n", strings.Join(names, "\t"))
			for i, record := range records {
				cells := make([]string, len(names))
				for j, name := range names {
					cells[j] = record.Text(name)
				}
				fmt.Fprintf(w, "%d\t%s\n", i, strings.Join(cells, "\t"))
			}
			return w.Flush()
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show ROW",
		Short: "Show one stored record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, err := strconv.Atoi(args[0])
			if err != nil {
				return fail(cmd, "invalid row %q", args[0])
			}
			record, err := a.repository.Get(cmd.Context(), row)
			if err != nil {
				return fail(cmd, "%w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, name := range a.form.Names() {
				fmt.Fprintf(w, "%s:\t%s\n", name, record.Text(name))
			}
			return w.Flush()
		},
	}
}

func newSettingsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "settings [KEY VALUE]",
		Short: "Show or change settings",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("expected no arguments or KEY VALUE, got %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 2 {
				value, err := strconv.ParseBool(args[1])
				if err != nil {
					return fail(cmd, "%w: %s", usecases.ErrBadSetting, args[1])
				}
				if err := a.settings.Set(args[0], value); err != nil {
					return fail(cmd, "%w", err)
				}
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, key := range a.settings.Keys() {
				setting, _ := a.settings.Get(key)
				fmt.Fprintf(w, "%s\t%s\t%v\n", key, setting.Type, setting.Value)
			}
			return w.Flush()
		},
	}
}
