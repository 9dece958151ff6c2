// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/ddx2x/crossgate/condition"
)

// NewQueryCmd creates the one-shot "query" subcommand: list documents
// matching a filter expression and print them as JSON lines.
func NewQueryCmd() *cobra.Command {
	var (
		table  string
		where  string
		fields []string
		page   int
		size   int
	)

	cmd := &cobra.Command{
		Use:   "query <table>",
		Short: "List documents in a table matching a filter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table = args[0]

			cond := condition.New().WithTable(table)
			if len(fields) > 0 {
				cond = cond.WithFields(fields...)
			}
			if page > 0 || size > 0 {
				cond = cond.WithPage(page, size)
			}
			if where != "" {
				var err error
				cond, err = cond.Wheres(where)
				if err != nil {
					return err
				}
			}

			records, err := deps.Driver.List(cmd.Context(), cond)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, rec := range records {
				if err := enc.Encode(rec); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&where, "where", "", "filter expression, e.g. age > 18 && status = \"active\"")
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "field projection, supports glob patterns (e.g. meta.*)")
	cmd.Flags().IntVar(&page, "page", 0, "page index (0-based; paging applies when --page or --size is non-zero)")
	cmd.Flags().IntVar(&size, "size", 0, "page size")

	return cmd
}
