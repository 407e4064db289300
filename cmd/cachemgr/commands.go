package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/topolanekmartin/apollo-cache-manager/internal/cache"
	"github.com/topolanekmartin/apollo-cache-manager/internal/introspection"
	"github.com/topolanekmartin/apollo-cache-manager/internal/schema"
	"github.com/topolanekmartin/apollo-cache-manager/internal/value"
	"github.com/topolanekmartin/apollo-cache-manager/internal/workbench"
)

func (a *app) requireSchema() (*schema.Schema, error) {
	s := a.session.Schema()
	if s == nil {
		return nil, fmt.Errorf("%w: pass --schema or set schema in the config", workbench.ErrNoSchema)
	}
	return s, nil
}

func (a *app) printValue(v any) error {
	b, err := value.MarshalIndent(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.stdout, string(b))
	return err
}

func (a *app) printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.stdout, string(b))
	return err
}

func newTypesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "types [query]",
		Short: "List schema types grouped by kind",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.requireSchema()
			if err != nil {
				return err
			}
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			for _, group := range schema.GroupByKind(s, query) {
				fmt.Fprintf(a.stdout, "%s:\n", group.Label)
				for _, t := range group.Types {
					fmt.Fprintf(a.stdout, "  %s\n", t.Name)
				}
			}
			return nil
		},
	}
}

func newSDLCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sdl",
		Short: "Print the loaded schema as SDL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.requireSchema()
			if err != nil {
				return err
			}
			_, err = io.WriteString(a.stdout, schema.Render(s))
			return err
		},
	}
}

func newMockCmd(a *app) *cobra.Command {
	var form bool
	cmd := &cobra.Command{
		Use:   "mock <type>",
		Short: "Print the default value synthesized for a type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.requireSchema(); err != nil {
				return err
			}
			if form {
				data, err := a.session.NewForm(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return a.printValue(data)
			}
			data, err := a.session.Mock(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printValue(data)
		},
	}
	cmd.Flags().BoolVar(&form, "form", false, "print the editor form record instead (no __typename)")
	return cmd
}

func newFragmentCmd(a *app) *cobra.Command {
	var (
		dataPath string
		id       string
	)
	cmd := &cobra.Command{
		Use:   "fragment <type>",
		Short: "Build the fragment selecting the fields of a record",
		Long: `Build the fragment selecting the fields of a record of <type>. The record
is read from --data, or synthesized as a new form when --data is not given.
With --id the full cache write (id, fragment and data) is printed as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.requireSchema(); err != nil {
				return err
			}
			ctx := cmd.Context()
			typeName := args[0]

			var tree *value.Object
			if dataPath != "" {
				raw, err := os.ReadFile(dataPath)
				if err != nil {
					return err
				}
				if tree, err = value.DecodeObject(raw); err != nil {
					return fmt.Errorf("%s: %w", dataPath, err)
				}
			} else {
				var err error
				if tree, err = a.session.NewForm(ctx, typeName); err != nil {
					return err
				}
			}

			if cmd.Flags().Changed("id") {
				payload, err := a.session.Compose(ctx, typeName, id, tree)
				if err != nil {
					return err
				}
				return a.printJSON(payload)
			}
			doc, err := a.session.Document(ctx, typeName, tree)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.stdout, doc.Text)
			return err
		},
	}
	cmd.Flags().StringVar(&dataPath, "data", "", "JSON file with the record to select")
	cmd.Flags().StringVar(&id, "id", "", "cache id to write; prints the write payload")
	return cmd
}

func (a *app) printEntities(entities []cache.Entity) error {
	w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	for _, e := range entities {
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.ID, e.Typename, e.Label)
	}
	return w.Flush()
}

func newEntitiesCmd(a *app) *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "entities <type>",
		Short: "List cached entities that can be linked from a field of <type>",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.requireSchema(); err != nil {
				return err
			}
			entities, err := a.session.Entities(cmd.Context(), args[0], query)
			if err != nil {
				return err
			}
			return a.printEntities(entities)
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "keep entities whose id, typename or content matches")
	return cmd
}

func newBrowseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse [query]",
		Short: "List the cache snapshot grouped by typename",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			b, err := a.session.Browse(cmd.Context(), query)
			if err != nil {
				return err
			}
			if len(b.Roots) > 0 {
				fmt.Fprintln(a.stdout, "Roots:")
				if err := a.printEntities(b.Roots); err != nil {
					return err
				}
			}
			for _, g := range b.Groups {
				fmt.Fprintf(a.stdout, "%s (%d):\n", g.Typename, len(g.Entities))
				if err := a.printEntities(g.Entities); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newResolveCmd(a *app) *cobra.Command {
	var follow bool
	cmd := &cobra.Command{
		Use:   "resolve <id>",
		Short: "Print the cache record stored under an id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := a.session.Resolve(cmd.Context(), args[0], follow)
			if err != nil {
				return err
			}
			return a.printValue(record)
		},
	}
	cmd.Flags().BoolVar(&follow, "follow", false, "follow records that are themselves references")
	return cmd
}

func newIntrospectionQueryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "introspection-query",
		Short: "Print the introspection query whose result --schema accepts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(a.stdout, introspection.Query)
			return err
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print the loaded schema as an introspection result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.requireSchema()
			if err != nil {
				return err
			}
			return a.printJSON(introspection.FromSchema(s))
		},
	}
}
