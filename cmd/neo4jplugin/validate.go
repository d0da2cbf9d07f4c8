package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vanshika/neo4j-plugin/internal/plugin"
	"github.com/vanshika/neo4j-plugin/internal/sink"
	"github.com/vanshika/neo4j-plugin/internal/source"
)

var validateProperties string

var validateCmd = &cobra.Command{
	Use:       "validate {source|sink}",
	Short:     "Check plugin properties without connecting to the database",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"source", "sink"},
	RunE: func(cmd *cobra.Command, args []string) error {
		props, err := plugin.LoadProperties(validateProperties)
		if err != nil {
			return err
		}

		collector := plugin.NewFailureCollector()
		switch args[0] {
		case "source":
			source.FromProperties(props, collector).Collect(collector)
		case "sink":
			sink.FromProperties(props, collector).Collect(collector)
		}

		if err := reportFailures(cmd.OutOrStdout(), collector); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s properties are valid\n", args[0])
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateProperties, "properties", "p", "", "YAML file of plugin properties")
	_ = validateCmd.MarkFlagRequired("properties")
}

// reportFailures prints each collected failure and returns a summary error
// when there are any.
func reportFailures(w io.Writer, collector *plugin.FailureCollector) error {
	failures := collector.Failures()
	if len(failures) == 0 {
		return nil
	}
	for _, f := range failures {
		fmt.Fprintf(w, "  - %s\n", f.Error())
	}
	return fmt.Errorf("%d configuration failure(s)", len(failures))
}
