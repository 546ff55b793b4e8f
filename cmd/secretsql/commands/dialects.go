package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/systmms/secretsql/pkg/secretdriver/dialect"
)

// NewDialectsCommand lists the supported backend dialects.
func NewDialectsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List supported backend dialects",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := dialect.DefaultRegistry()
			for _, name := range registry.Subprefixes() {
				d, _ := registry.Lookup(name)
				sample := d.BuildURL("db.example.com", "5432", "mydb")
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s driver=%-10s %s\n", name, d.DefaultDriverName(), sample)
			}
			return nil
		},
	}
}
