// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/ddx2x/crossgate/condition"
	"github.com/ddx2x/crossgate/store"
)

// watchEvent is the JSON shape printed for each store.Event, since
// store.Event's discriminant (store.EventType) is an int that needs
// rendering as its string form for CLI consumers.
type watchEvent struct {
	Type   string         `json:"type"`
	Object map[string]any `json:"object,omitempty"`
	Key    map[string]any `json:"key,omitempty"`
	Msg    string         `json:"msg,omitempty"`
}

// NewWatchCmd creates the "watch" subcommand: stream change events for
// a table matching a filter until interrupted.
func NewWatchCmd() *cobra.Command {
	var where string

	cmd := &cobra.Command{
		Use:   "watch <table>",
		Short: "Stream ADDED/MODIFIED/DELETED events for a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table := args[0]

			cond := condition.New().WithTable(table)
			if where != "" {
				var err error
				cond, err = cond.Wheres(where)
				if err != nil {
					return err
				}
			}

			listener := store.NewPGListener(deps.Config.DatabaseURL, table)
			events, err := deps.Driver.Watch(cmd.Context(), cond, listener)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			for ev := range events {
				out := watchEvent{Type: ev.Type.String(), Key: ev.Key, Msg: ev.Msg}
				if ev.Object != nil {
					out.Object = ev.Object
				}
				if err := enc.Encode(out); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&where, "where", "", "filter expression applied to INSERT/UPDATE events")

	return cmd
}
